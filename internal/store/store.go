// Package store persists editor state under a string key. The payload is
// the JSON object {pixels, size, backgroundColor, customColors}.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/numbit/internal/grid"
)

var (
	// ErrNotFound is returned when no state is saved under a key.
	ErrNotFound = errors.New("state not found")
	// ErrMalformed is returned when saved state cannot be decoded or is
	// inconsistent. Callers should fall back to defaults.
	ErrMalformed = errors.New("malformed state")
)

// State is the persisted form of an editing session.
type State struct {
	Pixels          []grid.Color `json:"pixels"`
	Size            int          `json:"size"`
	BackgroundColor grid.Color   `json:"backgroundColor"`
	CustomColors    []grid.Color `json:"customColors"`
}

// Store reads and writes raw payloads.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
}

// Grid rebuilds the square grid described by s.
func (s State) Grid() (grid.Grid, error) {
	return grid.FromCells(s.Size, s.Size, s.Pixels)
}

// Validate checks the size and cell count.
func (s State) Validate() error {
	if !grid.ValidSize(s.Size) {
		return fmt.Errorf("%w: size %d", ErrMalformed, s.Size)
	}
	if len(s.Pixels) != s.Size*s.Size {
		return fmt.Errorf("%w: %d pixels for size %d", ErrMalformed, len(s.Pixels), s.Size)
	}
	return nil
}

// Decode parses and validates a payload.
func Decode(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// Load reads and decodes the state saved under key.
func Load(ctx context.Context, st Store, key string) (State, error) {
	data, err := st.Get(ctx, key)
	if err != nil {
		return State{}, err
	}
	return Decode(data)
}

// Save encodes s and writes it under key.
func Save(ctx context.Context, st Store, key string, s State) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return st.Set(ctx, key, data)
}
