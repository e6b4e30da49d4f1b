package cask

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
)

// logWriter owns the single append-mode handle on the log file. The
// offset of the next record is tracked as a running size, initialized
// from Stat at open so a takeover of an existing log starts at its
// tail.
type logWriter struct {
	file *os.File
	buf  *bufio.Writer
	pos  int64
}

func openLogWriter(path string) (*logWriter, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "open log file %s for append", path)
	}
	fi, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "stat log file %s", path)
	}
	return &logWriter{
		file: file,
		buf:  bufio.NewWriter(file),
		pos:  fi.Size(),
	}, nil
}

// append writes one encoded record and drains the buffer to the OS
// before returning, so a reader opening a fresh handle afterwards sees
// the bytes. No fsync is issued on this path. A short write leaves a
// truncated tail for the next open to discard.
func (w *logWriter) append(rec []byte) (offset, length int64, err error) {
	offset = w.pos
	if _, err = w.buf.Write(rec); err != nil {
		return 0, 0, errors.Wrap(err, "append log record")
	}
	if err = w.buf.Flush(); err != nil {
		return 0, 0, errors.Wrap(err, "flush log record")
	}
	length = int64(len(rec))
	w.pos += length
	return offset, length, nil
}

func (w *logWriter) size() int64 {
	return w.pos
}

func (w *logWriter) close() error {
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return errors.Wrap(err, "flush log writer")
	}
	return errors.Wrap(w.file.Close(), "close log writer")
}
