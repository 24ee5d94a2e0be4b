package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The backend is not consistent about response envelopes: the same resource
// may arrive as {"orders":[...]}, {"data":{"orders":[...]}}, a doubly nested
// {"data":{"data":{...}}} or a bare array. Everything is normalized here,
// immediately after the fetch, so nothing past this file has to probe shapes.

const maxEnvelopeDepth = 3

// unwrapData descends through nested {"data": ...} envelopes.
func unwrapData(raw json.RawMessage) json.RawMessage {
	for range maxEnvelopeDepth {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return trimmed
		}
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil || len(bytes.TrimSpace(env.Data)) == 0 {
			return trimmed
		}
		raw = env.Data
	}
	return bytes.TrimSpace(raw)
}

// decodeList decodes a list that is either a bare array or stored under one
// of the given keys inside the (unwrapped) envelope.
func decodeList[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	body := unwrapData(raw)
	if len(body) == 0 || string(body) == "null" {
		return nil, nil
	}

	if body[0] == '[' {
		var out []T
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return out, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	for _, key := range keys {
		inner, ok := fields[key]
		if !ok {
			continue
		}
		var out []T
		if err := json.Unmarshal(inner, &out); err != nil {
			return nil, fmt.Errorf("decode %q list: %w", key, err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("response has no list under %v", keys)
}

// decodeObject decodes an object that is either bare or stored under one of
// the given keys inside the (unwrapped) envelope.
func decodeObject[T any](raw json.RawMessage, keys ...string) (T, error) {
	var zero T

	body := unwrapData(raw)
	if len(body) == 0 || string(body) == "null" {
		return zero, fmt.Errorf("empty response body")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return zero, fmt.Errorf("decode envelope: %w", err)
	}
	for _, key := range keys {
		inner, ok := fields[key]
		if !ok || string(bytes.TrimSpace(inner)) == "null" {
			continue
		}
		var out T
		if err := json.Unmarshal(inner, &out); err != nil {
			return zero, fmt.Errorf("decode %q object: %w", key, err)
		}
		return out, nil
	}

	// no envelope key matched, treat the body as the object itself
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, fmt.Errorf("decode object: %w", err)
	}
	return out, nil
}
