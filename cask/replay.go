package cask

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/logcask/logcask/utils/log"
)

type replaySummary struct {
	records int
	blanks  int
	// goodEnd is the byte offset just past the last intact line.
	goodEnd int64
	// truncated reports a partial trailing line that must be cut off
	// before the append writer takes over.
	truncated bool
}

// replayLog scans the log sequentially from offset 0 and rebuilds the
// key directory and its accounting. Blank lines are tolerated and do
// not affect accounting. A trailing line that is incomplete (no
// newline before EOF) or undecodable is reported as truncation for the
// caller to cut off; an undecodable record anywhere else fails the
// replay with LogCorruptionError.
func replayLog(path string) (*keydir, replaySummary, error) {
	var sum replaySummary

	file, err := os.Open(path)
	if err != nil {
		return nil, sum, errors.Wrapf(err, "open log file %s for replay", path)
	}
	defer file.Close()

	dir := newKeydir()
	reader := bufio.NewReader(file)
	var pos int64
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 && line[len(line)-1] != '\n' {
			sum.truncated = true
			break
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, sum, errors.Wrap(err, "read log during replay")
		}

		length := int64(len(line))
		if len(bytes.TrimSpace(line)) == 0 {
			sum.blanks++
			pos += length
			sum.goodEnd = pos
			continue
		}

		cmd, err := DecodeCommand(line)
		if err != nil {
			if _, peekErr := reader.Peek(1); peekErr == io.EOF {
				// Undecodable final line: treat as a torn write.
				sum.truncated = true
				break
			}
			return nil, sum, &LogCorruptionError{Offset: pos}
		}

		switch {
		case cmd.Set != nil:
			dir.applySet(cmd.Set.Key, Location{Offset: pos, Length: length})
		case cmd.Remove != nil:
			if found := dir.applyRemove(cmd.Remove.Key, length); !found {
				log.Warn("replay: tombstone at offset %d for absent key %q", pos, cmd.Remove.Key)
			}
		}
		sum.records++
		pos += length
		sum.goodEnd = pos
	}

	return dir, sum, nil
}
