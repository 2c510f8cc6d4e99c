package script

import (
	"encoding/json"
	"regexp"
	"sync"
)

var markerPattern = regexp.MustCompile(`^JR_RESULT:(.+)$`)

// resultMarker accumulates the last valid JR_RESULT: marker seen on
// stdout; last occurrence wins (invariant P9).
type resultMarker struct {
	mu     sync.Mutex
	tokens *int64
	meta   *string
}

type markerPayload struct {
	Tokens *int64  `json:"tokens"`
	Meta   *string `json:"meta"`
}

func (m *resultMarker) scan(line string) {
	match := markerPattern.FindStringSubmatch(line)
	if match == nil {
		return
	}

	var payload markerPayload
	if err := json.Unmarshal([]byte(match[1]), &payload); err != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens = payload.Tokens
	m.meta = payload.Meta
}

func (m *resultMarker) result() (*int64, *string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.tokens, m.meta
}
