// Package source provides the key-event sources that feed an input
// handler: a replayed key string, a channel fed by another goroutine, and
// a terminal screen.
//
// Every source delivers events in arrival order and signals exhaustion
// with io.EOF:
//
//	src, _ := source.Parse("ggdw")
//	for {
//	    ev, err := src.Next(ctx)
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    h.HandleKey(ctx, ev)
//	}
package source
