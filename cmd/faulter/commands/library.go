package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/faulter/faulter/pkg/signature"
)

// libraryFile is the on-disk form of a signature library.
type libraryFile struct {
	Signatures map[string][]float64      `json:"signatures"`
	Metadata   map[string]map[string]any `json:"metadata,omitempty"`
}

// loadLibrary reads a signature library file into a store. A missing
// file yields an empty store.
func loadLibrary(path string) (*signature.Store, error) {
	store := signature.NewStore()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read signature library: %w", err)
	}

	var file libraryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse signature library: %w", err)
	}
	for name, vec := range file.Signatures {
		store.Add(name, vec, file.Metadata[name])
	}
	return store, nil
}

// saveLibrary writes the store back to the library file.
func saveLibrary(path string, store *signature.Store) error {
	file := libraryFile{
		Signatures: store.Library(),
		Metadata:   make(map[string]map[string]any),
	}
	for _, summary := range store.List() {
		if summary.Metadata != nil {
			file.Metadata[summary.Name] = summary.Metadata
		}
	}
	if len(file.Metadata) == 0 {
		file.Metadata = nil
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode signature library: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write signature library: %w", err)
	}
	return nil
}
