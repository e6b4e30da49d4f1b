package cask

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/logcask/logcask/metrics"
	"github.com/logcask/logcask/utils/log"
)

const (
	logFileName     = "store.log"
	compactFileName = "store.log.compact"

	// DefaultCompactionThreshold is the stale-byte count at which a
	// write triggers compaction, unless overridden.
	DefaultCompactionThreshold = 1 << 20
)

// Store is a Bitcask-style log-structured key-value store: a single
// append-only log of newline-terminated JSON records plus an in-memory
// key directory mapping each key to its latest record.
//
// A Store is owned by a single process. Concurrent Store instances on
// the same directory are undefined behavior. Within a process, all
// methods are safe for concurrent use; the key directory is only
// published after the corresponding record has been flushed to the OS,
// so a reader never observes an entry whose bytes a fresh handle could
// not see.
type Store struct {
	mu        sync.RWMutex
	dirPath   string
	logPath   string
	writer    *logWriter
	idx       *keydir
	threshold int64

	compactions int64
}

// Stats is a point-in-time snapshot of store state.
type Stats struct {
	Keys             int
	LogBytes         int64
	LiveBytes        int64
	UncompactedBytes int64
	Compactions      int64
}

// Open opens or creates a store in dir. The directory is created if
// missing. The log is replayed to rebuild the key directory; a torn
// trailing line is truncated away and replay continues.
func Open(dir string) (*Store, error) {
	start := time.Now()

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return nil, errors.Wrapf(err, "create data directory %s", dir)
	}
	logPath := filepath.Join(dir, logFileName)

	// Touch the log so replay always has a file to scan.
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "create log file %s", logPath)
	}
	if err := file.Close(); err != nil {
		return nil, errors.Wrapf(err, "close log file %s", logPath)
	}

	idx, sum, err := replayLog(logPath)
	if err != nil {
		return nil, err
	}
	if sum.truncated {
		log.Warn("discarding torn trailing line in %s, truncating to %d bytes", logPath, sum.goodEnd)
		if err := os.Truncate(logPath, sum.goodEnd); err != nil {
			return nil, errors.Wrapf(err, "truncate log file %s to last record boundary", logPath)
		}
	}

	writer, err := openLogWriter(logPath)
	if err != nil {
		return nil, err
	}

	s := &Store{
		dirPath:   dir,
		logPath:   logPath,
		writer:    writer,
		idx:       idx,
		threshold: DefaultCompactionThreshold,
	}
	s.publishGauges()
	metrics.ReplaySeconds.Set(time.Since(start).Seconds())
	log.Info("opened store at %s: %d keys from %d records (%d blank lines), %d stale bytes",
		dir, idx.len(), sum.records, sum.blanks, idx.uncompacted())
	return s, nil
}

// Set durably records key=value. The record is flushed before the key
// directory reflects it. Crossing the compaction threshold triggers an
// inline compaction before Set returns.
func (s *Store) Set(key, value string) error {
	if key == "" {
		return InvalidKeyError("key must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer == nil {
		return NotOpenError(s.dirPath)
	}

	rec, err := NewSet(key, value).Encode()
	if err != nil {
		return err
	}
	offset, length, err := s.writer.append(rec)
	if err != nil {
		return err
	}
	s.idx.applySet(key, Location{Offset: offset, Length: length})
	metrics.WritesTotal.Inc()
	s.publishGauges()

	return s.maybeCompact()
}

// Get returns the value stored for key, or ok=false for a miss. It
// opens a short-lived read-only handle per call, so the read path
// needs no coordination with the buffered writer.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.writer == nil {
		return "", false, NotOpenError(s.dirPath)
	}

	loc, found := s.idx.get(key)
	if !found {
		metrics.ReadMissesTotal.Inc()
		return "", false, nil
	}

	file, err := os.Open(s.logPath)
	if err != nil {
		return "", false, errors.Wrapf(err, "open log file %s for read", s.logPath)
	}
	defer file.Close()

	buf := make([]byte, loc.Length)
	if _, err := file.ReadAt(buf, loc.Offset); err != nil {
		return "", false, &LogCorruptionError{Offset: loc.Offset}
	}
	cmd, err := DecodeCommand(buf)
	if err != nil || cmd.Set == nil || cmd.Set.Key != key {
		return "", false, &LogCorruptionError{Offset: loc.Offset}
	}
	metrics.ReadsTotal.Inc()
	return cmd.Set.Value, true, nil
}

// Remove appends a tombstone for key. A key absent from the directory
// fails with KeyNotFoundError before any bytes are appended.
func (s *Store) Remove(key string) error {
	if key == "" {
		return InvalidKeyError("key must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer == nil {
		return NotOpenError(s.dirPath)
	}

	if _, found := s.idx.get(key); !found {
		return KeyNotFoundError(key)
	}

	rec, err := NewRemove(key).Encode()
	if err != nil {
		return err
	}
	_, length, err := s.writer.append(rec)
	if err != nil {
		return err
	}
	s.idx.applyRemove(key, length)
	metrics.RemovesTotal.Inc()
	s.publishGauges()

	return s.maybeCompact()
}

// SetCompactionThreshold changes the stale-byte count at which the
// next write triggers compaction. It is advisory: changing it does not
// itself start a compaction.
func (s *Store) SetCompactionThreshold(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = n
}

// Compact rewrites the log to contain only live records, regardless of
// the threshold.
func (s *Store) Compact() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer == nil {
		return NotOpenError(s.dirPath)
	}
	return s.compactLocked()
}

// Stats reports a snapshot of the store's key count and byte
// accounting.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var logBytes int64
	if fi, err := os.Stat(s.logPath); err == nil {
		logBytes = fi.Size()
	}
	return Stats{
		Keys:             s.idx.len(),
		LogBytes:         logBytes,
		LiveBytes:        s.idx.liveBytes,
		UncompactedBytes: s.idx.uncompacted(),
		Compactions:      s.compactions,
	}
}

// Close flushes and releases the append handle. The store cannot be
// used afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer == nil {
		return NotOpenError(s.dirPath)
	}
	err := s.writer.close()
	s.writer = nil
	return err
}

func (s *Store) maybeCompact() error {
	if s.idx.uncompacted() >= s.threshold {
		return s.compactLocked()
	}
	return nil
}

func (s *Store) publishGauges() {
	metrics.LiveBytes.Set(float64(s.idx.liveBytes))
	metrics.UncompactedBytes.Set(float64(s.idx.uncompacted()))
}
