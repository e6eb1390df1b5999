package input

import (
	"context"
	"errors"
	"io"

	"github.com/dshills/keymode/internal/input/source"
)

// Run feeds every event from src to the handler until src is exhausted,
// ctx ends or the handler is closed. onKey, if set, sees each outcome.
// Exhaustion is not an error.
func (h *Handler) Run(ctx context.Context, src source.Source, onKey func(Outcome)) error {
	for {
		ev, err := src.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		out := h.HandleKey(ctx, ev)
		if out.Status == StatusClosed {
			return ErrClosed
		}
		if onKey != nil {
			onKey(out)
		}
	}
}
