// Package kv defines the key-value persistence capability every engine
// component stores its records through. Each logical record is one key
// holding a full JSON blob; mutations are read-modify-write.
package kv

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	MultiRemove(keys ...string) error
}

// GetJSON decodes the value at key into v. It reports false when the key is absent.
func GetJSON(s KV, key string, v any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil {
		return false, fmt.Errorf("get %q: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

func SetJSON(s KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := s.Set(key, string(data)); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Memory is a map-backed KV for tests and ephemeral runs.
type Memory struct {
	data map[string]string

	// FailWith, when set, is returned from every operation.
	FailWith error
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	if m.FailWith != nil {
		return "", false, m.FailWith
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.data[key] = value
	return nil
}

func (m *Memory) MultiRemove(keys ...string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Keys lists stored keys with the given prefix in sorted order.
func (m *Memory) Keys(prefix string) []string {
	var out []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
