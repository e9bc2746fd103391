package spectate

import (
	"context"
	"log"
	"time"

	"github.com/Garsondee/Field-Command/internal/game"
)

// Step applies every queued client command, advances m by one frame and
// flushes the frame to the clients. It must run on the goroutine that owns m.
func (h *Hub) Step(m *game.Manager, dt float64) error {
	for {
		select {
		case cmd := <-h.commands:
			if err := cmd.Apply(m); err != nil {
				log.Printf("[SPECTATE] %s: %v", cmd.Client, err)
			}
			continue
		default:
		}
		break
	}
	m.Frame(game.FrameInput{}, dt)
	return h.Flush(m.CurrentTick())
}

// Drive calls Step every period until ctx is done. It returns ctx's error, or
// the first Flush error.
func (h *Hub) Drive(ctx context.Context, m *game.Manager, period time.Duration) error {
	dt := m.Config().TickDT()
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := h.Step(m, dt); err != nil {
				return err
			}
		}
	}
}
