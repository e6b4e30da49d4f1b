package cask

import (
	"bufio"
	"os"
	"path/filepath"
	"time"

	"github.com/logcask/logcask/metrics"
	"github.com/logcask/logcask/utils/log"
)

// compactLocked rewrites the live records into a sibling file and
// atomically renames it over the log. The rename is the only commit
// point: any failure before it leaves the original log and key
// directory untouched, and a crash before it leaves stale garbage that
// the truncate-create below overwrites on the next attempt.
//
// The caller must hold the write lock.
func (s *Store) compactLocked() error {
	start := time.Now()
	staleBefore := s.idx.uncompacted()
	compactPath := filepath.Join(s.dirPath, compactFileName)

	out, err := os.OpenFile(compactPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return &CompactionError{Reason: "create compaction file", Err: err}
	}
	src, err := os.Open(s.logPath)
	if err != nil {
		out.Close()
		return &CompactionError{Reason: "open log for compaction", Err: err}
	}

	// Copy each live record verbatim and build the replacement
	// directory against the new offsets.
	newIdx := newKeydir()
	buf := bufio.NewWriter(out)
	var pos int64
	for key, loc := range s.idx.entries {
		rec := make([]byte, loc.Length)
		if _, err := src.ReadAt(rec, loc.Offset); err != nil {
			src.Close()
			out.Close()
			return &CompactionError{Reason: "read live record", Err: err}
		}
		if _, err := buf.Write(rec); err != nil {
			src.Close()
			out.Close()
			return &CompactionError{Reason: "write live record", Err: err}
		}
		newIdx.applySet(key, Location{Offset: pos, Length: loc.Length})
		pos += loc.Length
	}
	src.Close()

	if err := buf.Flush(); err != nil {
		out.Close()
		return &CompactionError{Reason: "flush compaction file", Err: err}
	}
	// Sync so the rename commits a fully durable file.
	if err := out.Sync(); err != nil {
		out.Close()
		return &CompactionError{Reason: "sync compaction file", Err: err}
	}
	if err := out.Close(); err != nil {
		return &CompactionError{Reason: "close compaction file", Err: err}
	}

	// Release the append handle before the swap.
	if err := s.writer.close(); err != nil {
		// The original log is untouched; take the append handle back
		// so the store stays operable.
		writer, reopenErr := openLogWriter(s.logPath)
		if reopenErr != nil {
			s.writer = nil
			return &CompactionError{Reason: "reopen log writer after failed close", Err: reopenErr}
		}
		s.writer = writer
		return &CompactionError{Reason: "close log writer", Err: err}
	}
	if err := os.Rename(compactPath, s.logPath); err != nil {
		// The original log is untouched; take the append handle back
		// so the store stays operable.
		writer, reopenErr := openLogWriter(s.logPath)
		if reopenErr != nil {
			s.writer = nil
			return &CompactionError{Reason: "reopen log writer after failed rename", Err: reopenErr}
		}
		s.writer = writer
		return &CompactionError{Reason: "rename compaction file", Err: err}
	}

	writer, err := openLogWriter(s.logPath)
	if err != nil {
		s.writer = nil
		return &CompactionError{Reason: "reopen log writer", Err: err}
	}
	s.writer = writer
	s.idx = newIdx
	s.compactions++

	s.publishGauges()
	metrics.CompactionsTotal.Inc()
	metrics.CompactionDuration.Observe(time.Since(start).Seconds())
	log.Info("compacted store at %s: %d keys, %d live bytes, reclaimed %d stale bytes in %s",
		s.dirPath, newIdx.len(), newIdx.liveBytes, staleBefore, time.Since(start))
	return nil
}
