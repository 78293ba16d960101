package schemas

import (
	"strings"
)

// -- Backend Selection --

// Backend selects which remote browser client a driver starts.
type Backend int

// The integer values are stable; configuration may refer to them numerically.
const (
	Firefox Backend = iota
	Chrome
)

// String returns the lower-case backend name.
func (b Backend) String() string {
	switch b {
	case Firefox:
		return "firefox"
	case Chrome:
		return "chrome"
	default:
		return "unknown"
	}
}

// ParseBackend maps a configuration string onto a Backend.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "firefox", "gecko":
		return Firefox, nil
	case "chrome", "chromium":
		return Chrome, nil
	default:
		return 0, NewInvalidArgumentError("unknown browser backend %q (want firefox or chrome)", s)
	}
}

// -- Raw Records --

// CookieRecord is the mapping exchanged with the remote session when setting or
// reading cookies: name and value always, path/domain/secure/expiry when known.
type CookieRecord = map[string]interface{}

// LogRecord is a single raw browser log record: message, level, type, and a
// millisecond epoch timestamp.
type LogRecord = map[string]interface{}

// Cookie record keys.
const (
	CookieName   = "name"
	CookieValue  = "value"
	CookiePath   = "path"
	CookieDomain = "domain"
	CookieSecure = "secure"
	CookieExpiry = "expiry"
)

// Log record keys.
const (
	LogMessage   = "message"
	LogLevel     = "level"
	LogType      = "type"
	LogTimestamp = "timestamp"
)

// LogTypeBrowser is the log type carrying page console output.
const LogTypeBrowser = "browser"

// Wire strings for log severities.
const (
	LevelSevere  = "SEVERE"
	LevelWarning = "WARNING"
	LevelInfo    = "INFO"
	LevelDebug   = "DEBUG"
)
