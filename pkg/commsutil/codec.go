package commsutil

import (
	"encoding/json"
	"errors"
	"fmt"
)

const codecLogPrefix = "commsutil:codec"

// ErrEmptyPayload is returned when a message carries no body.
var ErrEmptyPayload = errors.New("empty payload")

// EncodePayload serializes v as a JSON message body.
func EncodePayload(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to encode %T: %w", codecLogPrefix, v, err)
	}
	return data, nil
}

// DecodePayload parses a JSON message body into a new T.
func DecodePayload[T any](data []byte) (*T, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s - %w", codecLogPrefix, ErrEmptyPayload)
	}
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("%s - failed to decode %T: %w", codecLogPrefix, out, err)
	}
	return out, nil
}
