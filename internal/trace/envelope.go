package trace

import (
	"encoding/json"
	"fmt"
	"os"
)

// EncodeJSON serializes the trace as the envelope document exchanged
// between parent and child process. The output round-trips losslessly
// through DecodeJSON, including command-group key order.
func (t *Trace) EncodeJSON() ([]byte, error) {
	if t.Commands == nil {
		t.Commands = NewCommandMap()
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode trace: %w", err)
	}
	return data, nil
}

// DecodeJSON reconstructs a trace from an envelope document.
func DecodeJSON(data []byte) (*Trace, error) {
	t := &Trace{Commands: NewCommandMap()}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	if t.Commands == nil {
		t.Commands = NewCommandMap()
	}
	return t, nil
}

// WriteFile serializes the trace to path, replacing any existing content.
func (t *Trace) WriteFile(path string) error {
	data, err := t.EncodeJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write trace %s: %w", path, err)
	}
	return nil
}

// ReadFile deserializes a trace from path.
func ReadFile(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace %s: %w", path, err)
	}
	return DecodeJSON(data)
}
