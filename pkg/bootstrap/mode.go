package bootstrap

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// JQueryMode selects which jQuery build, if any, is included.
type JQueryMode int

const (
	JQueryNone JQueryMode = iota
	JQueryFull
	JQuerySlim
)

// ParseJQueryMode interprets a template or configuration value the way the
// template tags do: "slim" selects the slim build, any other truthy value
// selects the full build and falsy values select nothing.
func ParseJQueryMode(v any) JQueryMode {
	switch val := v.(type) {
	case nil:
		return JQueryNone
	case JQueryMode:
		return val
	case bool:
		if val {
			return JQueryFull
		}
		return JQueryNone
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "", "false", "0", "no", "none":
			return JQueryNone
		case "slim":
			return JQuerySlim
		}
		return JQueryFull
	case int:
		if val != 0 {
			return JQueryFull
		}
		return JQueryNone
	case int64:
		if val != 0 {
			return JQueryFull
		}
		return JQueryNone
	case float64:
		if val != 0 {
			return JQueryFull
		}
		return JQueryNone
	}
	return JQueryFull
}

// Enabled reports whether any jQuery build is selected.
func (m JQueryMode) Enabled() bool {
	return m != JQueryNone
}

func (m JQueryMode) String() string {
	switch m {
	case JQueryFull:
		return "full"
	case JQuerySlim:
		return "slim"
	}
	return "false"
}

// MarshalJSON encodes the mode as false, true or "slim".
func (m JQueryMode) MarshalJSON() ([]byte, error) {
	switch m {
	case JQueryFull:
		return []byte("true"), nil
	case JQuerySlim:
		return []byte(`"slim"`), nil
	}
	return []byte("false"), nil
}

// UnmarshalJSON accepts a boolean or a string.
func (m *JQueryMode) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return m.fromAny(raw)
}

// UnmarshalYAML accepts a boolean or a string.
func (m *JQueryMode) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return m.fromAny(raw)
}

// UnmarshalTOML accepts a boolean or a string.
func (m *JQueryMode) UnmarshalTOML(data any) error {
	return m.fromAny(data)
}

func (m *JQueryMode) fromAny(raw any) error {
	switch raw.(type) {
	case nil, bool, string, float64, int, int64:
		*m = ParseJQueryMode(raw)
		return nil
	}
	return fmt.Errorf("include_jquery must be a boolean or a string, got %T", raw)
}
