// Package report exports executed test cases as a self-contained HTML
// report, and saves/loads session snapshots as JSON so a run can be
// exported later.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/devicelab-dev/casesheet/pkg/mapping"
	"github.com/devicelab-dev/casesheet/pkg/testcase"
)

// Report defaults
const (
	DefaultFileName = "TestExecutionReport.html"
	DefaultTitle    = "Test Execution Report"
)

// snapshotVersion is written into every snapshot file.
const snapshotVersion = "1"

// Data is the exported state: the mapping the cases were built with and
// the cases themselves.
type Data struct {
	Version   string              `json:"version"`
	Source    string              `json:"source,omitempty"`
	Sheet     string              `json:"sheet,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	Mapping   mapping.Mapping     `json:"mapping"`
	Cases     []testcase.TestCase `json:"cases"`
}

// Fields returns the case columns, in the same order as the live table.
func (d *Data) Fields() []string {
	return d.Mapping.CaseFields()
}

// WriteJSON saves a snapshot of d to path.
func WriteJSON(path string, d Data) error {
	if d.Version == "" {
		d.Version = snapshotVersion
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	if d.Mapping == nil {
		d.Mapping = mapping.Mapping{}
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return atomicWrite(path, data)
}

// ReadJSON loads a snapshot written by WriteJSON.
func ReadJSON(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return &d, nil
}

// atomicWrite writes to a temp file in the target directory and renames it
// over path, so readers never see a partial report.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
