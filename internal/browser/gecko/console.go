package gecko

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tebeka/selenium/log"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// geckodriver has no log endpoint, so console output is captured in the page.
// The hook is idempotent and survives until the next document replaces window.
const consoleHook = `(function () {
  if (window.__pagewrapConsole) { return; }
  var buf = window.__pagewrapConsole = [];
  var text = function (a) {
    if (typeof a === "string") { return a; }
    try {
      var s = JSON.stringify(a);
      return s === undefined ? String(a) : s;
    } catch (e) {
      return String(a);
    }
  };
  var push = function (method, args) {
    var parts = [];
    for (var i = 0; i < args.length; i++) { parts.push(text(args[i])); }
    buf.push({method: method, message: parts.join(" "), timestamp: Date.now()});
  };
  ["log", "info", "warn", "error", "debug"].forEach(function (m) {
    var orig = console[m];
    console[m] = function () {
      push(m, arguments);
      return orig.apply(console, arguments);
    };
  });
  window.addEventListener("error", function (e) {
    var where = e.filename ? e.filename + " " + e.lineno + ":" + e.colno + " " : "";
    push("error", [where + e.message]);
  });
})();`

// consoleDrain installs the hook if a reload dropped it, then empties the buffer.
const consoleDrain = consoleHook + `
return JSON.stringify(window.__pagewrapConsole.splice(0));`

type consoleEntry struct {
	Method    string `json:"method"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// consoleLevel maps a console method onto a WebDriver severity.
func consoleLevel(method string) log.Level {
	switch method {
	case "error":
		return log.Severe
	case "warn":
		return log.Warning
	case "debug":
		return log.Debug
	default:
		return log.Info
	}
}

func logRecord(m log.Message, logType string) schemas.LogRecord {
	return schemas.LogRecord{
		schemas.LogMessage:   m.Message,
		schemas.LogLevel:     string(m.Level),
		schemas.LogType:      logType,
		schemas.LogTimestamp: m.Timestamp.UnixMilli(),
	}
}

// decodeConsole turns the drained buffer into browser log records.
func decodeConsole(res interface{}) ([]schemas.LogRecord, error) {
	raw, ok := res.(string)
	if !ok {
		return nil, fmt.Errorf("logs: unexpected console buffer of type %T", res)
	}
	var entries []consoleEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("logs: failed to decode console buffer: %w", err)
	}
	out := make([]schemas.LogRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, logRecord(log.Message{
			Timestamp: time.UnixMilli(e.Timestamp),
			Level:     consoleLevel(e.Method),
			Message:   e.Message,
		}, schemas.LogTypeBrowser))
	}
	return out, nil
}
