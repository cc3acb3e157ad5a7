package kv

import (
	"encoding/json"
	"fmt"
)

func encodeList(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func decodeList(key string, data []byte) ([]string, error) {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return values, nil
}

func cloneList(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
