package node

import (
	"context"
	"time"
)

// DefaultTickInterval paces Run. The controller renders on its own frame
// timer, so ticks only need to be finer than a frame.
const DefaultTickInterval = time.Millisecond

// Run ticks the node until ctx is done. Lines from keys are run as keyboard
// commands between ticks; a nil channel disables the keyboard.
func (n *Node) Run(ctx context.Context, interval time.Duration, keys <-chan string) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := n.Tick(); err != nil {
				n.log.Warn().Err(err).Msg("tick")
			}

		case line, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			out, err := n.Command(line)
			if err != nil {
				n.log.Warn().Err(err).Str("line", line).Msg("command")
			}
			if out != "" {
				n.log.Info().Str("line", line).Msg(out)
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
