package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope keys the backend has used to wrap payloads, in lookup order
var envelopeKeys = []string{"data", "items", "results"}

// decodeList accepts a bare JSON array or an object wrapping one under
// "data", "items", "results" or the resource name.
func decodeList(body []byte, resource string) ([]map[string]any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	switch body[0] {
	case '[':
		var out []map[string]any
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", resource, err)
		}
		return out, nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, fmt.Errorf("decode %s envelope: %w", resource, err)
		}
		for _, k := range append([]string{resource}, envelopeKeys...) {
			raw, ok := wrapper[k]
			if !ok {
				continue
			}
			raw = bytes.TrimSpace(raw)
			if len(raw) > 0 && raw[0] == '{' {
				// {"data": {"bookings": [...]}}
				return decodeList(raw, resource)
			}
			var out []map[string]any
			if err := json.Unmarshal(raw, &out); err != nil {
				return nil, fmt.Errorf("decode %s.%s: %w", resource, k, err)
			}
			return out, nil
		}
		return nil, fmt.Errorf("no %s list in response", resource)
	}
	return nil, fmt.Errorf("unexpected %s payload starting with %q", resource, body[0])
}

// decodeObject accepts a bare object or one wrapped under "data" or the
// resource name.
func decodeObject(body []byte, resource string) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", resource, err)
	}
	for _, k := range []string{resource, "data"} {
		if inner, ok := out[k].(map[string]any); ok {
			return inner, nil
		}
	}
	return out, nil
}

// errorMessage pulls {"message": ...} or {"error": ...} out of an error body.
func errorMessage(b []byte) string {
	var errResp struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &errResp); err != nil {
		return ""
	}
	if errResp.Message != "" {
		return errResp.Message
	}
	if s, ok := errResp.Error.(string); ok {
		return s
	}
	return ""
}
