// Package archive persists completed backtest runs as JSON documents in
// cold storage, behind a backend-neutral Storage interface.
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quantlab/rotor/internal/rotation"
)

// Storage is a cold-storage backend for run documents.
type Storage interface {
	// Write stores data at the given path
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths matching the prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data at the given path
	Delete(ctx context.Context, path string) error

	// Exists checks if data exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}

// Archiver writes backtest results into a Storage backend.
type Archiver struct {
	storage Storage
}

// NewArchiver creates an Archiver over the given backend.
func NewArchiver(storage Storage) *Archiver {
	return &Archiver{storage: storage}
}

// runPath keys a run document by end date and run ID, so archives list
// chronologically.
func runPath(result *rotation.Result) string {
	return fmt.Sprintf("runs/%s/%s.json", result.EndDate.Format("2006-01-02"), result.RunID)
}

// SaveRun archives a completed result and returns the storage path.
func (a *Archiver) SaveRun(ctx context.Context, result *rotation.Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling run %s: %w", result.RunID, err)
	}
	path := runPath(result)
	if err := a.storage.Write(ctx, path, data); err != nil {
		return "", fmt.Errorf("archiving run %s: %w", result.RunID, err)
	}
	return path, nil
}

// LoadRun reads an archived result back from storage.
func (a *Archiver) LoadRun(ctx context.Context, path string) (*rotation.Result, error) {
	data, err := a.storage.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	var result rotation.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshaling %s: %w", path, err)
	}
	return &result, nil
}

// ListRuns returns the archived run paths.
func (a *Archiver) ListRuns(ctx context.Context) ([]string, error) {
	return a.storage.List(ctx, "runs")
}
