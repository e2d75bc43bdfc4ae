package protocol

// Transport is a lossy broadcast link. Send may fail transiently; Poll
// never blocks and reports false when nothing is waiting.
type Transport interface {
	Send(frame []byte) error
	Poll() ([]byte, bool)
	Close() error
}

// Opener creates a fresh Transport. It is called at startup and again on
// every radio restart.
type Opener func() (Transport, error)

// Receiver handles dispatched commands. It reports whether the command was
// accepted, which makes the message eligible for relaying.
type Receiver interface {
	OnCommand(from uint8, cmd Command, payload []byte) bool
}
