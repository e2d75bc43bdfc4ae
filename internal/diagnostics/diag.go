package diagnostics

import (
	"github.com/rs/zerolog"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// Known diagnostic codes.
const (
	CodeLog          = "LOG"
	CodeRadioDown    = "RADIO.DOWN"
	CodeRadioRestart = "RADIO.RESTART"
	CodeSinkSlow     = "SINK.SLOW"
)

// Publisher receives diagnostics, typically websocket clients.
type Publisher interface {
	Publish(d Diagnostic)
}

// Hook forwards log events at or above Min to a Publisher.
type Hook struct {
	Min zerolog.Level
	Pub Publisher
}

func (h Hook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level < h.Min || level == zerolog.NoLevel || h.Pub == nil {
		return
	}
	h.Pub.Publish(Diagnostic{
		Severity: SeverityOf(level),
		Code:     codeFor(msg),
		Summary:  msg,
		Evidence: map[string]any{"level": level.String()},
	})
}

func SeverityOf(l zerolog.Level) Severity {
	switch {
	case l >= zerolog.ErrorLevel:
		return Err
	case l == zerolog.WarnLevel:
		return Warn
	default:
		return Info
	}
}

func codeFor(msg string) string {
	switch msg {
	case "radio down":
		return CodeRadioDown
	case "restarting radio":
		return CodeRadioRestart
	case "sink refresh behind":
		return CodeSinkSlow
	}
	return CodeLog
}
