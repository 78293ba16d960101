package weblog

import (
	"fmt"
	"time"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

const recordKind = "log"

// Entry is an immutable browser log entry.
type Entry struct {
	message   string
	level     Level
	logType   string
	timestamp int64 // epoch milliseconds
}

func (e Entry) Message() string { return e.message }
func (e Entry) Level() Level     { return e.level }

// Type is the raw log type string, passed through unvalidated.
func (e Entry) Type() string { return e.logType }

// TimestampMillis is the raw epoch-millisecond timestamp.
func (e Entry) TimestampMillis() int64 { return e.timestamp }

// Timestamp converts the raw value to a local time, truncated to whole seconds.
func (e Entry) Timestamp() time.Time {
	return time.Unix(e.timestamp/1000, 0)
}

// Date is the local calendar date of Timestamp.
func (e Entry) Date() (year int, month time.Month, day int) {
	return e.Timestamp().Date()
}

// FromRecord builds an Entry from a raw record. All four keys must be present;
// an unrecognized level is kept as LevelUnset rather than rejected.
func FromRecord(rec schemas.LogRecord) (Entry, error) {
	if err := schemas.Require(recordKind, rec,
		schemas.LogMessage, schemas.LogLevel, schemas.LogType, schemas.LogTimestamp); err != nil {
		return Entry{}, err
	}

	msg, _, err := schemas.AsString(rec[schemas.LogMessage])
	if err != nil {
		return Entry{}, fmt.Errorf("log message: %w", err)
	}
	level, _, err := schemas.AsString(rec[schemas.LogLevel])
	if err != nil {
		return Entry{}, fmt.Errorf("log level: %w", err)
	}
	typ, _, err := schemas.AsString(rec[schemas.LogType])
	if err != nil {
		return Entry{}, fmt.Errorf("log type: %w", err)
	}
	ts, _, err := schemas.AsInt64(rec[schemas.LogTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("log timestamp: %w", err)
	}

	return Entry{
		message:   msg,
		level:     ParseLevel(level),
		logType:   typ,
		timestamp: ts,
	}, nil
}

// FromRecords converts a list of records, failing on the first invalid one.
func FromRecords(recs []schemas.LogRecord) ([]Entry, error) {
	entries := make([]Entry, 0, len(recs))
	for i, rec := range recs {
		e, err := FromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("log record %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
