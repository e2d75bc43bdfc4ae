package metrics

const (
	namespaceTubes  = "tubes"
	subsystemRadio  = "radio"
	subsystemRender = "render"
)

const (
	LabelCommand = "command"
	LabelReason  = "reason"
)

// Drop reasons reported through MessageDropped.
const (
	DropVersion   = "version"
	DropCRC       = "crc"
	DropRelay     = "relay"
	DropLowerID   = "lower_id"
	DropMalformed = "malformed"
	DropEcho      = "echo"
)
