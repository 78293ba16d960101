package cdp

import (
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/runtime"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// staleMarker is thrown by the page-side helpers when `this` is detached.
const staleMarker = "pagewrap: stale element reference"

// Messages CDP returns once a remote object's node or execution context is gone.
var staleMessages = []string{
	staleMarker,
	"Could not find object with given id",
	"Could not find node with given id",
	"Cannot find context with specified id",
	"Execution context was destroyed",
	"Inspected target navigated or closed",
}

// ScriptError is a JavaScript exception raised in the page.
type ScriptError struct {
	Text string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("javascript error: %s", e.Text)
}

// exceptionError converts exception details into a ScriptError, nil when there is none.
func exceptionError(details *runtime.ExceptionDetails) error {
	if details == nil {
		return nil
	}
	text := details.Text
	if details.Exception != nil && details.Exception.Description != "" {
		text = details.Exception.Description
	}
	return &ScriptError{Text: text}
}

// classify maps a failed element or driver operation onto the error kinds callers
// test for. Unrecognized failures are wrapped with the operation name.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, m := range staleMessages {
		if strings.Contains(msg, m) {
			return schemas.NewStaleElementError(op, err)
		}
	}
	if strings.Contains(msg, "is not a valid selector") {
		return &schemas.InvalidArgumentError{Reason: op + ": invalid selector", Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
