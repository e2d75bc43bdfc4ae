package metrics

// Collector receives counters from the protocol, render and sink layers.
type Collector interface {
	MessageSent(command string)
	SendFailed()
	RadioRestarted()
	MessageReceived(command string)
	MessageDropped(reason string)
	IDCollision()
	MasterChanged(master uint8)
	MessageRelayed()
	ParticleEvicted()
	FrameRendered()
	SinkFPS(fps float64)
}
