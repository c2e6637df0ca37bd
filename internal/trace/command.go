package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Command is a single directive extracted from a test source file, anchored
// to the location it was written at.
type Command struct {
	Location Location `json:"loc"`
	RawText  string   `json:"raw_text"`
}

// CommandList is an ordered group of commands sharing one command type.
// Insertion order is preserved.
type CommandList []Command

// CommandMap maps a command-type name (e.g. "DexExpectWatchValue") to its
// command list. Keys keep first-insertion order, including across a JSON
// round-trip, so the two processes exchanging a trace agree on command
// ordering.
type CommandMap struct {
	keys   []string
	groups map[string]CommandList
}

// NewCommandMap returns an empty ordered command map.
func NewCommandMap() *CommandMap {
	return &CommandMap{groups: make(map[string]CommandList)}
}

// Append adds a command under the given type, creating the group on first
// use.
func (m *CommandMap) Append(commandType string, c Command) {
	if m.groups == nil {
		m.groups = make(map[string]CommandList)
	}
	if _, ok := m.groups[commandType]; !ok {
		m.keys = append(m.keys, commandType)
	}
	m.groups[commandType] = append(m.groups[commandType], c)
}

// Get returns the command list for a type, or nil when absent.
func (m *CommandMap) Get(commandType string) CommandList {
	if m == nil || m.groups == nil {
		return nil
	}
	return m.groups[commandType]
}

// Keys returns the command-type names in first-insertion order.
func (m *CommandMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the total number of commands across all groups.
func (m *CommandMap) Len() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, g := range m.groups {
		n += len(g)
	}
	return n
}

// MarshalJSON writes the map as a JSON object whose members appear in key
// insertion order.
func (m *CommandMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		group, err := json.Marshal(m.groups[key])
		if err != nil {
			return nil, err
		}
		buf.Write(group)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object member by member so that key order is
// recovered, which encoding/json's map type would discard.
func (m *CommandMap) UnmarshalJSON(data []byte) error {
	m.keys = nil
	m.groups = make(map[string]CommandList)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("commands: expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("commands: expected object key, got %v", tok)
		}
		var group CommandList
		if err := dec.Decode(&group); err != nil {
			return fmt.Errorf("commands: group %q: %w", key, err)
		}
		m.keys = append(m.keys, key)
		m.groups[key] = group
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
