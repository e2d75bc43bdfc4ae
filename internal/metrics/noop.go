package metrics

type NoopCollector struct{}

func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

func (nc *NoopCollector) MessageSent(command string)     {}
func (nc *NoopCollector) SendFailed()                    {}
func (nc *NoopCollector) RadioRestarted()                {}
func (nc *NoopCollector) MessageReceived(command string) {}
func (nc *NoopCollector) MessageDropped(reason string)   {}
func (nc *NoopCollector) IDCollision()                   {}
func (nc *NoopCollector) MasterChanged(master uint8)     {}
func (nc *NoopCollector) MessageRelayed()                {}
func (nc *NoopCollector) ParticleEvicted()               {}
func (nc *NoopCollector) FrameRendered()                 {}
func (nc *NoopCollector) SinkFPS(fps float64)            {}
