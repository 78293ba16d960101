package gecko

import (
	"errors"
	"fmt"

	"github.com/tebeka/selenium"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// WebDriver error codes this package gives meaning to.
const (
	codeNoSuchElement   = "no such element"
	codeStaleElement    = "stale element reference"
	codeNoSuchCookie    = "no such cookie"
	codeInvalidArgument = "invalid argument"
	codeInvalidSelector = "invalid selector"
)

// nilReturnValue is what the client reports when the remote end answered null,
// which GetAttribute does for an absent attribute.
const nilReturnValue = "nil return value"

func errorCode(err error) string {
	var se *selenium.Error
	if errors.As(err, &se) {
		return se.Err
	}
	return ""
}

// classify maps a WebDriver failure onto the error kinds callers test for.
// selector is only used for lookups.
func classify(op, selector string, err error) error {
	if err == nil {
		return nil
	}
	switch errorCode(err) {
	case codeNoSuchElement:
		return schemas.NewElementNotFoundError(selector, err)
	case codeStaleElement:
		return schemas.NewStaleElementError(op, err)
	case codeInvalidArgument, codeInvalidSelector:
		return &schemas.InvalidArgumentError{Reason: op + ": " + err.Error(), Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isNoSuchCookie(err error) bool {
	return errorCode(err) == codeNoSuchCookie
}

func isNilReturn(err error) bool {
	return err != nil && err.Error() == nilReturnValue
}
