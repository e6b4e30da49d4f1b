package cask

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Command is the unit persisted to the log. Only mutating operations
// (Set/Remove) are logged; Get is never persisted. The externally
// tagged shape is fixed for forward readability:
//
//	{"Set":{"key":"k","value":"v"}}
//	{"Remove":{"key":"k"}}
type Command struct {
	Set    *SetPayload    `json:"Set,omitempty"`
	Remove *RemovePayload `json:"Remove,omitempty"`
}

type SetPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type RemovePayload struct {
	Key string `json:"key"`
}

func NewSet(key, value string) Command {
	return Command{Set: &SetPayload{Key: key, Value: value}}
}

func NewRemove(key string) Command {
	return Command{Remove: &RemovePayload{Key: key}}
}

func (c Command) Key() string {
	switch {
	case c.Set != nil:
		return c.Set.Key
	case c.Remove != nil:
		return c.Remove.Key
	}
	return ""
}

// Encode serializes the command as a single newline-terminated record.
// JSON string escaping guarantees no embedded newline inside the object.
func (c Command) Encode() ([]byte, error) {
	rec, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "marshal log record")
	}
	return append(rec, '\n'), nil
}

// DecodeCommand parses one record line. The trailing newline is
// optional. A record must carry exactly one variant tag.
func DecodeCommand(line []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(bytes.TrimSuffix(line, []byte{'\n'}), &c); err != nil {
		return Command{}, errors.Wrap(err, "unmarshal log record")
	}
	if c.Set != nil && c.Remove != nil {
		return Command{}, errors.New("log record carries more than one command tag")
	}
	if c.Set == nil && c.Remove == nil {
		return Command{}, errors.New("log record carries no command tag")
	}
	return c, nil
}
