package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	cdplog "github.com/chromedp/cdproto/log"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// consoleCollector buffers browser log output as raw log records until they are
// drained by Logs.
type consoleCollector struct {
	mu      sync.Mutex
	records []schemas.LogRecord
	now     func() time.Time
}

func newConsoleCollector() *consoleCollector {
	return &consoleCollector{now: time.Now}
}

// listen attaches the collector to the tab's event stream. The listener lives as
// long as ctx.
func (c *consoleCollector) listen(ctx context.Context) {
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		switch e := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			c.handleConsoleAPICalled(e)
		case *cdplog.EventEntryAdded:
			c.handleLogEntryAdded(e)
		case *runtime.EventExceptionThrown:
			c.handleExceptionThrown(e)
		}
	})
}

// drain returns everything buffered so far and empties the buffer.
func (c *consoleCollector) drain() []schemas.LogRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.records
	c.records = nil
	if out == nil {
		out = []schemas.LogRecord{}
	}
	return out
}

func (c *consoleCollector) add(message, level string, ts *runtime.Timestamp) {
	at := c.now()
	if ts != nil {
		at = ts.Time()
	}
	rec := schemas.LogRecord{
		schemas.LogMessage:   message,
		schemas.LogLevel:     level,
		schemas.LogType:      schemas.LogTypeBrowser,
		schemas.LogTimestamp: at.UnixMilli(),
	}
	c.mu.Lock()
	c.records = append(c.records, rec)
	c.mu.Unlock()
}

func (c *consoleCollector) handleConsoleAPICalled(e *runtime.EventConsoleAPICalled) {
	var b strings.Builder
	for i, arg := range e.Args {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(describeArg(arg))
	}
	text := b.String()

	// Prefix with the call site the way chromedriver does: url line:column "text".
	if e.StackTrace != nil && len(e.StackTrace.CallFrames) > 0 {
		f := e.StackTrace.CallFrames[0]
		text = fmt.Sprintf("%s %d:%d %q", f.URL, f.LineNumber+1, f.ColumnNumber+1, text)
	}
	c.add(text, consoleLevel(e.Type), e.Timestamp)
}

func (c *consoleCollector) handleLogEntryAdded(e *cdplog.EventEntryAdded) {
	if e.Entry == nil {
		return
	}
	text := e.Entry.Text
	if e.Entry.URL != "" {
		text = e.Entry.URL + " - " + text
	}
	c.add(text, entryLevel(e.Entry.Level), e.Entry.Timestamp)
}

func (c *consoleCollector) handleExceptionThrown(e *runtime.EventExceptionThrown) {
	if e.ExceptionDetails == nil {
		return
	}
	text := e.ExceptionDetails.Text
	if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
		text = e.ExceptionDetails.Exception.Description
	}
	if e.ExceptionDetails.URL != "" {
		text = fmt.Sprintf("%s %d:%d %s", e.ExceptionDetails.URL, e.ExceptionDetails.LineNumber+1, e.ExceptionDetails.ColumnNumber+1, text)
	}
	c.add(text, schemas.LevelSevere, e.Timestamp)
}

// describeArg renders one console argument as text.
func describeArg(arg *runtime.RemoteObject) string {
	if arg == nil {
		return ""
	}
	if len(arg.Value) > 0 {
		var v interface{}
		if json.Unmarshal(arg.Value, &v) == nil {
			if s, ok := v.(string); ok {
				return s
			}
			return string(arg.Value)
		}
	}
	if arg.UnserializableValue != "" {
		return string(arg.UnserializableValue)
	}
	if arg.Description != "" {
		return arg.Description
	}
	return string(arg.Type)
}

// consoleLevel maps a console API call onto a WebDriver severity.
func consoleLevel(t runtime.APIType) string {
	switch t {
	case runtime.APITypeError, runtime.APITypeAssert:
		return schemas.LevelSevere
	case runtime.APITypeWarning:
		return schemas.LevelWarning
	case runtime.APITypeDebug:
		return schemas.LevelDebug
	default:
		return schemas.LevelInfo
	}
}

// entryLevel maps a Log domain entry level onto a WebDriver severity.
func entryLevel(l cdplog.Level) string {
	switch l {
	case cdplog.LevelError:
		return schemas.LevelSevere
	case cdplog.LevelWarning:
		return schemas.LevelWarning
	case cdplog.LevelVerbose:
		return schemas.LevelDebug
	default:
		return schemas.LevelInfo
	}
}
