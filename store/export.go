package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ExportVersion is the current export file format version.
const ExportVersion = "1.0"

// ExportFormat represents the JSON structure for store export/import.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry represents a single stored entry.
type ExportEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Listable is a store whose keys can be enumerated.
type Listable interface {
	Store
	Lister
}

// Exporter provides store export functionality.
type Exporter struct {
	store Listable
	now   func() time.Time
}

// NewExporter creates a new store exporter.
func NewExporter(store Listable) *Exporter {
	return &Exporter{store: store, now: time.Now}
}

// Export writes every entry under prefix to w as indented JSON.
func (e *Exporter) Export(w io.Writer, prefix string, metadata map[string]string) (int, error) {
	keys, err := e.store.Keys(prefix)
	if err != nil {
		return 0, fmt.Errorf("listing keys: %w", err)
	}

	entries := make([]ExportEntry, 0, len(keys))
	for _, key := range keys {
		value, ok := e.store.Get(key)
		if !ok {
			continue
		}
		entries = append(entries, ExportEntry{Key: key, Value: value})
	}

	export := ExportFormat{
		Version:    ExportVersion,
		ExportedAt: e.now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return 0, fmt.Errorf("encoding JSON: %w", err)
	}
	return len(entries), nil
}

// ExportToFile exports the store to a file.
func (e *Exporter) ExportToFile(path, prefix string, metadata map[string]string) (int, error) {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return e.Export(f, prefix, metadata)
}

// Importer provides store import functionality.
type Importer struct {
	store Store
}

// NewImporter creates a new store importer.
func NewImporter(store Store) *Importer {
	return &Importer{store: store}
}

// Import reads entries from r and writes them to the store.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	if export.Version != ExportVersion {
		return nil, fmt.Errorf("unsupported export version %q", export.Version)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}

	for _, entry := range export.Entries {
		if err := i.store.Set(entry.Key, entry.Value); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ImportFromFile imports entries from a file.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}

// ImportResult contains statistics about the import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}
