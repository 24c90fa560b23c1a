package model

import (
	"encoding/json"
	"maps"
)

// Options is a driver-specific open record. Keys unknown to volsaga are kept
// as-is across every read and write.
type Options map[string]any

// Clone returns a deep copy of o. Nested maps and slices are copied too.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	return Options(cloneMap(o))
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Options:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}

// marshalOpen encodes known fields merged over extra keys into one flat
// JSON object. Known keys win when both define the same key.
func marshalOpen(known map[string]any, extra map[string]any) ([]byte, error) {
	merged := make(map[string]any, len(known)+len(extra))
	maps.Copy(merged, extra)
	maps.Copy(merged, known)
	return json.Marshal(merged)
}

// unmarshalOpen splits a flat JSON object into the raw values of the known
// keys and a decoded map of every other key.
func unmarshalOpen(data []byte, knownKeys ...string) (map[string]json.RawMessage, map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	known := make(map[string]json.RawMessage, len(knownKeys))
	for _, k := range knownKeys {
		if v, ok := raw[k]; ok {
			known[k] = v
			delete(raw, k)
		}
	}
	var extra map[string]any
	if len(raw) > 0 {
		extra = make(map[string]any, len(raw))
		for k, v := range raw {
			var decoded any
			if err := json.Unmarshal(v, &decoded); err != nil {
				return nil, nil, err
			}
			extra[k] = decoded
		}
	}
	return known, extra, nil
}
