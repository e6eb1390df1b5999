package macro

import (
	"context"
	"fmt"

	"github.com/dshills/keymode/internal/input"
	"github.com/dshills/keymode/internal/input/key"
)

// Play feeds the keys in register to h count times and returns the
// outcome of every key. It stops early when ctx ends or h is closed.
//
// Play must not be called from a hook of h.
func (r *Recorder) Play(ctx context.Context, h *input.Handler, register rune, count int) ([]input.Outcome, error) {
	events := r.Get(register)
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: %c", ErrEmptyRegister, register)
	}

	r.mu.Lock()
	r.lastPlayed = register
	r.mu.Unlock()

	out := make([]input.Outcome, 0, len(events)*max(count, 1))
	for range max(count, 1) {
		for _, ev := range events {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			o := h.HandleKey(ctx, ev)
			if o.Status == input.StatusClosed {
				return out, input.ErrClosed
			}
			out = append(out, o)
		}
	}
	return out, nil
}

// RecordHook records every key its handler processes while the recorder
// is active. Keys consumed by earlier hooks are not recorded.
type RecordHook struct {
	input.BaseHook
	Recorder *Recorder
}

// PostKeyEvent implements input.Hook.
func (h RecordHook) PostKeyEvent(ev key.Event, out input.Outcome) {
	if out.Status == input.StatusConsumed || out.Status == input.StatusClosed {
		return
	}
	h.Recorder.Record(ev)
}

var _ input.Hook = RecordHook{}
