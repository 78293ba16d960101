// Package cdp drives Chrome over the DevTools protocol with chromedp.
package cdp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	cdplog "github.com/chromedp/cdproto/log"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagewrap/api/schemas"
	"github.com/xkilldash9x/pagewrap/internal/config"
)

// Driver owns one Chrome process and a single tab in it.
type Driver struct {
	ctx         context.Context // tab context, carries the chromedp target
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	console     *consoleCollector
	logger      *zap.Logger

	mu     sync.Mutex
	closed bool
}

var _ schemas.RemoteDriver = (*Driver)(nil)

// objectGroup holds every handle this driver hands out, so a navigation can free
// them in one call.
const objectGroup = "pagewrap"

// New launches Chrome and opens a tab. The caller's ctx bounds startup only; the
// browser lives until Quit.
func New(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Driver, error) {
	logger = logger.Named("cdp")
	sugar := logger.Sugar()

	allocCtx, allocCancel := chromedp.NewExecAllocator(Detach(ctx), ExecAllocatorOptions(cfg)...)
	tabCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Debugf),
	)

	d := &Driver{
		ctx:         tabCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		console:     newConsoleCollector(),
		logger:      logger,
	}
	d.console.listen(tabCtx)

	// The first Run allocates the browser, so it must use the tab context itself:
	// a derived context would tear the browser down when it is canceled.
	started := make(chan error, 1)
	go func() {
		started <- chromedp.Run(tabCtx, runtime.Enable(), cdplog.Enable())
	}()

	select {
	case err := <-started:
		if err != nil {
			d.teardown()
			return nil, fmt.Errorf("failed to start chrome: %w", err)
		}
	case <-ctx.Done():
		d.teardown()
		<-started
		return nil, fmt.Errorf("chrome startup aborted: %w", ctx.Err())
	}

	logger.Debug("Chrome session started.", zap.Bool("headless", cfg.Headless))
	return d, nil
}

// run executes actions in the tab, canceled early if ctx is.
func (d *Driver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := CombineContext(d.ctx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// Navigate loads url. Handles obtained on the previous page are released first and
// report ErrStale afterwards.
func (d *Driver) Navigate(ctx context.Context, url string) error {
	release := chromedp.ActionFunc(func(ctx context.Context) error {
		if err := runtime.ReleaseObjectGroup(objectGroup).Do(ctx); err != nil {
			d.logger.Debug("Failed to release page handles.", zap.Error(err))
		}
		return nil
	})
	if err := d.run(ctx, release, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// document returns a handle to the current document. The caller releases it.
func (d *Driver) document(ctx context.Context) (*Element, error) {
	var doc *Element
	err := d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		res, exc, err := runtime.Evaluate("document").WithObjectGroup(objectGroup).Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return exceptionError(exc)
		}
		doc = &Element{d: d, id: res.ObjectID}
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve document: %w", err)
	}
	return doc, nil
}

// release drops a single remote object. Failures only leave the object to be freed
// with its group.
func (d *Driver) release(ctx context.Context, id runtime.RemoteObjectID) {
	err := d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return runtime.ReleaseObject(id).Do(ctx)
	}))
	if err != nil {
		d.logger.Debug("Failed to release remote object.", zap.String("object_id", string(id)), zap.Error(err))
	}
}

func (d *Driver) FindElement(ctx context.Context, selector string) (schemas.RemoteElement, error) {
	doc, err := d.document(ctx)
	if err != nil {
		return nil, err
	}
	defer d.release(ctx, doc.id)
	return doc.FindElement(ctx, selector)
}

func (d *Driver) FindElements(ctx context.Context, selector string) ([]schemas.RemoteElement, error) {
	doc, err := d.document(ctx)
	if err != nil {
		return nil, err
	}
	defer d.release(ctx, doc.id)
	return doc.FindElements(ctx, selector)
}

// ExecuteScript runs a script body as the body of a function. Arguments are
// available through `arguments`; elements from this driver are passed by reference.
// A returned node comes back as an *Element.
func (d *Driver) ExecuteScript(ctx context.Context, script string, args []interface{}) (interface{}, error) {
	callArgs, err := d.callArguments(args)
	if err != nil {
		return nil, err
	}

	var out interface{}
	err = d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		global, exc, err := runtime.Evaluate("globalThis").Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return exceptionError(exc)
		}
		defer func() { _ = runtime.ReleaseObject(global.ObjectID).Do(ctx) }()

		res, exc, err := runtime.CallFunctionOn(scriptFunc(script)).
			WithObjectID(global.ObjectID).
			WithObjectGroup(objectGroup).
			WithArguments(callArgs).
			WithAwaitPromise(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return exceptionError(exc)
		}
		out, err = d.resultValue(ctx, res)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to execute script: %w", err)
	}
	return out, nil
}

func (d *Driver) callArguments(args []interface{}) ([]*runtime.CallArgument, error) {
	out := make([]*runtime.CallArgument, 0, len(args))
	for i, a := range args {
		if el, ok := a.(*Element); ok {
			if el.d != d {
				return nil, schemas.NewInvalidArgumentError("script argument %d belongs to another session", i)
			}
			out = append(out, &runtime.CallArgument{ObjectID: el.id})
			continue
		}
		raw, err := jsonEncode(a)
		if err != nil {
			return nil, fmt.Errorf("script argument %d: %w", i, err)
		}
		out = append(out, &runtime.CallArgument{Value: []byte(raw)})
	}
	return out, nil
}

// resultValue decodes a script result. It runs inside an action, so ctx already
// carries the target.
func (d *Driver) resultValue(ctx context.Context, res *runtime.RemoteObject) (interface{}, error) {
	if res == nil || res.ObjectID == "" {
		return decodeValue(res)
	}
	if res.Subtype == runtime.SubtypeNode {
		return &Element{d: d, id: res.ObjectID}, nil
	}
	defer func() { _ = runtime.ReleaseObject(res.ObjectID).Do(ctx) }()
	byValue, exc, err := runtime.CallFunctionOn("function() { return this; }").
		WithObjectID(res.ObjectID).
		WithReturnByValue(true).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if exc != nil {
		return nil, exceptionError(exc)
	}
	return decodeValue(byValue)
}

// Logs drains the buffered browser log. Only the "browser" type is collected.
func (d *Driver) Logs(ctx context.Context, logType string) ([]schemas.LogRecord, error) {
	if logType != schemas.LogTypeBrowser {
		return nil, schemas.NewInvalidArgumentError("unsupported log type %q", logType)
	}
	return d.console.drain(), nil
}

// Quit closes the browser and releases the allocator. Later calls do nothing.
func (d *Driver) Quit(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	err := chromedp.Cancel(d.ctx)
	d.teardown()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close chrome: %w", err)
	}
	d.logger.Debug("Chrome session closed.")
	return nil
}

func (d *Driver) teardown() {
	d.cancel()
	d.allocCancel()
}
