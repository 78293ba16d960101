// internal/browser/cdp/context_utils.go
package cdp

import (
	"context"
	"time"
)

// CombineContext returns a context derived from session that is also canceled when
// op is canceled. Values, including the chromedp target, come from session only.
func CombineContext(session, op context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(session)
	go func() {
		select {
		case <-op.Done():
			cancel()
		case <-combined.Done():
		}
	}()
	return combined, cancel
}

// valueOnlyContext keeps the parent's values but drops its deadline and cancellation.
type valueOnlyContext struct {
	context.Context
}

func (valueOnlyContext) Deadline() (deadline time.Time, ok bool) { return }
func (valueOnlyContext) Done() <-chan struct{}                   { return nil }
func (valueOnlyContext) Err() error                              { return nil }

// Detach returns a context carrying ctx's values that is never canceled. Quit uses it
// so teardown still reaches the browser after the caller's context has expired.
func Detach(ctx context.Context) context.Context {
	return valueOnlyContext{ctx}
}
