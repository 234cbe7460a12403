package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalJSON encodes v as compact JSON TEXT with HTML escaping disabled, so
// paths containing '<' or '&' are stored verbatim.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// marshalArgs converts cargo arguments to JSON TEXT. nil is stored as [].
func marshalArgs(args []string) (string, error) {
	if args == nil {
		args = []string{}
	}
	data, err := marshalJSON(args)
	if err != nil {
		return "", fmt.Errorf("marshal cargo args: %w", err)
	}
	return data, nil
}

// marshalTools converts resolved tools to JSON TEXT. Go's encoder sorts map
// keys, so equal maps always produce equal text.
func marshalTools(tools map[string]string) (string, error) {
	if tools == nil {
		tools = map[string]string{}
	}
	data, err := marshalJSON(tools)
	if err != nil {
		return "", fmt.Errorf("marshal tools: %w", err)
	}
	return data, nil
}

func unmarshalArgs(data string) ([]string, error) {
	args := []string{}
	if data == "" || data == "[]" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(data), &args); err != nil {
		return nil, fmt.Errorf("unmarshal cargo args: %w", err)
	}
	return args, nil
}

func unmarshalTools(data string) (map[string]string, error) {
	tools := map[string]string{}
	if data == "" || data == "{}" {
		return tools, nil
	}
	if err := json.Unmarshal([]byte(data), &tools); err != nil {
		return nil, fmt.Errorf("unmarshal tools: %w", err)
	}
	return tools, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
