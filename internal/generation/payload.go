package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CanonicalizePayload turns an input payload into the single text blob sent
// to the model. Strings, byte slices and fmt.Stringer values pass through
// unchanged; raw JSON is re-indented; any other value is serialized as
// two-space indented JSON, which sorts map keys and so keeps the text stable
// across calls.
func CanonicalizePayload(payload any) (string, error) {
	var text string

	switch p := payload.(type) {
	case nil:
		return "", ErrEmptyPayload
	case string:
		text = p
	case []byte:
		text = string(p)
	case json.RawMessage:
		var buf bytes.Buffer
		if err := json.Indent(&buf, p, "", "  "); err != nil {
			return "", fmt.Errorf("%w: payload is not valid JSON: %v", ErrInvalidConfig, err)
		}
		text = buf.String()
	case fmt.Stringer:
		text = p.String()
	default:
		b, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return "", fmt.Errorf("%w: payload cannot be serialized: %v", ErrInvalidConfig, err)
		}
		text = string(b)
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyPayload
	}
	return text, nil
}
