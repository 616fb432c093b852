package sim

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
)

// GetSnapshot serializes the full state as JSON. It is meant for debugging,
// tests and replay checks, not as a save format.
func GetSnapshot(s *GameState) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("sim: snapshot: %w", err)
	}
	return string(b), nil
}

// ParseSnapshot reads a snapshot back into a state.
func ParseSnapshot(data string) (*GameState, error) {
	var s GameState
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("sim: parse snapshot: %w", err)
	}
	return &s, nil
}

// Hash returns an FNV-64a digest of the snapshot for determinism checks.
// A state that cannot be serialized hashes to 0.
func Hash(s *GameState) uint64 {
	b, err := json.Marshal(s)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}

// Restore wraps a parsed state into a runnable game.
func Restore(s *GameState) *Game {
	return &Game{State: s}
}
