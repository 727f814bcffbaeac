package oracle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DefaultResponseKeys lists the response keys accepted from inference-family
// oracles, in lookup order. Value/advantage estimators disagree on the name.
var DefaultResponseKeys = []string{"action", "cloud", "chosen_index"}

type inferenceRequest struct {
	State []float64 `json:"state"`
}

// InferenceOracle talks to pure-inference oracles that accept only the
// current state (as a native JSON array) and reply with a JSON object
// holding the chosen index under one of several keys.
type InferenceOracle struct {
	ex   Exchanger
	keys []string
}

// NewInferenceOracle creates an InferenceOracle. An empty keys list means
// DefaultResponseKeys.
func NewInferenceOracle(ex Exchanger, keys []string) *InferenceOracle {
	if len(keys) == 0 {
		keys = DefaultResponseKeys
	}
	return &InferenceOracle{ex: ex, keys: append([]string(nil), keys...)}
}

// Decide sends the state and returns the provider index chosen by the oracle.
// The index is not range checked.
func (o *InferenceOracle) Decide(state []float64) (int, error) {
	payload, err := json.Marshal(inferenceRequest{State: state})
	if err != nil {
		return 0, fmt.Errorf("%w: encoding inference request: %w", ErrProtocol, err)
	}
	line, err := o.ex.Exchange(payload)
	if err != nil {
		return 0, err
	}
	return ParseKeyedIndex(line, o.keys)
}

// ParseKeyedIndex extracts an integer index from a JSON object response.
// The first key from keys present in the object wins. A non-null "error"
// field, trailing data after the object, a missing key, or a non-integer
// value is a protocol error.
func ParseKeyedIndex(line string, keys []string) (int, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(line)))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return 0, fmt.Errorf("%w: malformed response %q: %w", ErrProtocol, line, err)
	}
	var extra json.RawMessage
	if dec.More() || dec.Decode(&extra) != io.EOF {
		return 0, fmt.Errorf("%w: trailing data after response object: %q", ErrProtocol, line)
	}
	if obj == nil {
		return 0, fmt.Errorf("%w: response is not an object: %q", ErrProtocol, line)
	}
	if msg, ok := obj["error"]; ok && msg != nil {
		return 0, fmt.Errorf("%w: oracle reported error: %v", ErrProtocol, msg)
	}
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		num, ok := raw.(json.Number)
		if !ok {
			return 0, fmt.Errorf("%w: field %q is not a number: %v", ErrProtocol, key, raw)
		}
		v, err := num.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: field %q is not an integer: %s", ErrProtocol, key, num)
		}
		return int(v), nil
	}
	return 0, fmt.Errorf("%w: none of [%s] in response %q", ErrProtocol, strings.Join(keys, ", "), line)
}
