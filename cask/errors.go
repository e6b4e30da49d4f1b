package cask

import "fmt"

// InvalidKeyError is returned when a key fails validation before any
// bytes are appended. Currently only the empty key is rejected.
type InvalidKeyError string

func (msg InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key: %s", string(msg))
}

// KeyNotFoundError is returned by Remove for a key absent from the
// index. Nothing is appended to the log in that case.
type KeyNotFoundError string

func (msg KeyNotFoundError) Error() string {
	return fmt.Sprintf("%s: key not found", string(msg))
}

// NotOpenError is returned when an operation is attempted on a closed
// store.
type NotOpenError string

func (msg NotOpenError) Error() string {
	return fmt.Sprintf("%s: store is not open", string(msg))
}

// LogCorruptionError reports a record that the index insists should
// exist but could not be decoded, or a non-trailing record that failed
// to decode during replay. It carries the offending byte offset.
type LogCorruptionError struct {
	Offset int64
}

func (e *LogCorruptionError) Error() string {
	return fmt.Sprintf("log corruption at offset %d", e.Offset)
}

// CompactionError reports an aborted compaction. The pre-compaction
// log and index remain usable and compaction may be retried.
type CompactionError struct {
	Reason string
	Err    error
}

func (e *CompactionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compaction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("compaction failed: %s", e.Reason)
}

func (e *CompactionError) Unwrap() error {
	return e.Err
}
