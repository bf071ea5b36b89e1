// Package weights persists opaque trained-model state, keyed by
// (company name, algorithm). One blob per pair, overwritten on retrain.
package weights

import (
	"fmt"
	"os"
	"path/filepath"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
)

// Extension is the weight-file suffix. The content is an opaque serialized
// blob, not a plain-text format.
const Extension = ".ts"

// Store keeps one weight file per (company, algorithm) pair under
// <dir>/<company>/<algorithm>.ts.
type Store struct {
	dir string
}

// NewStore creates a weight store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(company, algorithm string) string {
	return filepath.Join(s.dir, company, algorithm+Extension)
}

// Exists reports whether a weight record is present for the pair without
// materializing its state. This drives the load-or-train decision.
func (s *Store) Exists(company, algorithm string) bool {
	_, err := os.Stat(s.path(company, algorithm))
	return err == nil
}

// Save writes the serialized model state, creating the company directory as
// needed. The write is atomic so a crash never leaves a partial record.
func (s *Store) Save(state []byte, company, algorithm string) error {
	dir := filepath.Join(s.dir, company)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create weights dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, algorithm+Extension+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp weights file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(state); err != nil {
		tmp.Close()
		return fmt.Errorf("write weights: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close weights file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(company, algorithm)); err != nil {
		return fmt.Errorf("commit weights file: %w", err)
	}
	return nil
}

// Load reads the serialized state for the pair.
func (s *Store) Load(company, algorithm string) ([]byte, error) {
	state, err := os.ReadFile(s.path(company, algorithm))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.NewWeightsNotFoundError(company, algorithm)
		}
		return nil, fmt.Errorf("read weights: %w", err)
	}
	return state, nil
}

// Remove deletes the weight record for the pair, if present. Removing a
// record is the only way to force a retrain.
func (s *Store) Remove(company, algorithm string) error {
	err := os.Remove(s.path(company, algorithm))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove weights: %w", err)
	}
	return nil
}
