package bootstrap

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CrossOriginAnonymous is the cross-origin policy used by every built-in URL.
const CrossOriginAnonymous = "anonymous"

// URLRecord describes one includable asset: its location, its subresource
// integrity hash and its cross-origin policy. Empty fields are omitted when
// the record is rendered.
type URLRecord struct {
	URL         string `json:"url" yaml:"url" toml:"url"`
	Integrity   string `json:"integrity,omitempty" yaml:"integrity,omitempty" toml:"integrity,omitempty"`
	CrossOrigin string `json:"crossorigin,omitempty" yaml:"crossorigin,omitempty" toml:"crossorigin,omitempty"`
}

// IsZero reports whether the record has no location.
func (r URLRecord) IsZero() bool {
	return r.URL == ""
}

// String returns the URL, so a record prints as its location in templates.
func (r URLRecord) String() string {
	return r.URL
}

// recordFromFields builds a record from a decoded map. The location may be given
// as "url", "href" or "src".
func recordFromFields(fields map[string]any) (URLRecord, error) {
	var rec URLRecord
	for key, raw := range fields {
		value, ok := raw.(string)
		if !ok && raw != nil {
			return URLRecord{}, fmt.Errorf("url record field %q must be a string, got %T", key, raw)
		}
		switch key {
		case "url", "href", "src":
			if rec.URL == "" {
				rec.URL = value
			}
		case "integrity":
			rec.Integrity = value
		case "crossorigin":
			rec.CrossOrigin = value
		default:
			return URLRecord{}, fmt.Errorf("unknown url record field %q", key)
		}
	}
	return rec, nil
}

// UnmarshalJSON accepts either a plain URL string or an object.
func (r *URLRecord) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return r.fromAny(raw)
}

// UnmarshalYAML accepts either a plain URL string or a mapping.
func (r *URLRecord) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return r.fromAny(raw)
}

// UnmarshalTOML accepts either a plain URL string or a table.
func (r *URLRecord) UnmarshalTOML(data any) error {
	return r.fromAny(data)
}

func (r *URLRecord) fromAny(raw any) error {
	switch v := raw.(type) {
	case nil:
		*r = URLRecord{}
	case string:
		*r = URLRecord{URL: v}
	case map[string]any:
		rec, err := recordFromFields(v)
		if err != nil {
			return err
		}
		*r = rec
	default:
		return fmt.Errorf("url record must be a string or an object, got %T", raw)
	}
	return nil
}
