package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TubeCollector exports tube counters to prometheus.
type TubeCollector struct {
	sent      *prometheus.CounterVec
	received  *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	failures  prometheus.Counter
	restarts  prometheus.Counter
	collision prometheus.Counter
	relayed   prometheus.Counter
	master    prometheus.Gauge
	evicted   prometheus.Counter
	frames    prometheus.Counter
	fps       prometheus.Gauge
}

// NewTubeCollector registers the tube metrics with reg.
func NewTubeCollector(reg prometheus.Registerer) *TubeCollector {
	f := promauto.With(reg)
	return &TubeCollector{
		sent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceTubes,
			Subsystem: subsystemRadio,
			Name:      "messages_sent_total",
			Help:      "number of messages sent, by command",
		}, []string{LabelCommand}),
		received: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceTubes,
			Subsystem: subsystemRadio,
			Name:      "messages_received_total",
			Help:      "number of messages dispatched, by command",
		}, []string{LabelCommand}),
		dropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceTubes,
			Subsystem: subsystemRadio,
			Name:      "messages_dropped_total",
			Help:      "number of inbound messages dropped, by reason",
		}, []string{LabelReason}),
		failures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceTubes,
			Subsystem: subsystemRadio,
			Name:      "send_failures_total",
			Help:      "number of failed sends",
		}),
		restarts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceTubes,
			Subsystem: subsystemRadio,
			Name:      "restarts_total",
			Help:      "number of radio reinitialisations",
		}),
		collision: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceTubes,
			Subsystem: subsystemRadio,
			Name:      "id_collisions_total",
			Help:      "number of id collisions healed by rerolling",
		}),
		relayed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceTubes,
			Subsystem: subsystemRadio,
			Name:      "messages_relayed_total",
			Help:      "number of messages relayed",
		}),
		master: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceTubes,
			Subsystem: subsystemRadio,
			Name:      "master_id",
			Help:      "currently observed master id, 0 for none",
		}),
		evicted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceTubes,
			Subsystem: subsystemRender,
			Name:      "particles_evicted_total",
			Help:      "number of particles evicted from a full store",
		}),
		frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceTubes,
			Subsystem: subsystemRender,
			Name:      "frames_total",
			Help:      "number of frames rendered",
		}),
		fps: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceTubes,
			Subsystem: subsystemRender,
			Name:      "sink_fps",
			Help:      "frames per second achieved by the strip sink",
		}),
	}
}

func (tc *TubeCollector) MessageSent(command string) {
	tc.sent.With(prometheus.Labels{LabelCommand: command}).Inc()
}

func (tc *TubeCollector) MessageReceived(command string) {
	tc.received.With(prometheus.Labels{LabelCommand: command}).Inc()
}

func (tc *TubeCollector) MessageDropped(reason string) {
	tc.dropped.With(prometheus.Labels{LabelReason: reason}).Inc()
}

func (tc *TubeCollector) SendFailed()                { tc.failures.Inc() }
func (tc *TubeCollector) RadioRestarted()            { tc.restarts.Inc() }
func (tc *TubeCollector) IDCollision()               { tc.collision.Inc() }
func (tc *TubeCollector) MessageRelayed()            { tc.relayed.Inc() }
func (tc *TubeCollector) MasterChanged(master uint8) { tc.master.Set(float64(master)) }
func (tc *TubeCollector) ParticleEvicted()           { tc.evicted.Inc() }
func (tc *TubeCollector) FrameRendered()             { tc.frames.Inc() }
func (tc *TubeCollector) SinkFPS(fps float64)        { tc.fps.Set(fps) }
