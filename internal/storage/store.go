// Package storage persists simulation runs as a metadata JSON file plus a
// CSV trace per run, under a base directory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/jointsim/internal/metrics"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Joint     string             `json:"joint"`
	ForceMode bool               `json:"force_mode"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(model, joint string, forceMode bool, dt, duration float64, vals map[string]float64, trace []metrics.Sample) (string, error) {
	// Nanosecond timestamps keep IDs distinct for runs started back to back.
	runID := fmt.Sprintf("%s_%d", model, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Model:     model,
		Joint:     joint,
		ForceMode: forceMode,
		Timestamp: time.Now(),
		Dt:        dt,
		Duration:  duration,
		Metrics:   vals,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "measured", "target", "cmd"}); err != nil {
		return "", err
	}
	for _, sm := range trace {
		row := []string{
			strconv.FormatFloat(sm.T, 'f', 6, 64),
			strconv.FormatFloat(sm.Measured, 'f', 6, 64),
			strconv.FormatFloat(sm.Target, 'f', 6, 64),
			strconv.FormatFloat(sm.Cmd, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]metrics.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("empty trace for run %s", runID)
	}

	trace := make([]metrics.Sample, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != 4 {
			return nil, fmt.Errorf("malformed trace row in run %s", runID)
		}
		var sm metrics.Sample
		if sm.T, err = strconv.ParseFloat(row[0], 64); err != nil {
			return nil, err
		}
		if sm.Measured, err = strconv.ParseFloat(row[1], 64); err != nil {
			return nil, err
		}
		if sm.Target, err = strconv.ParseFloat(row[2], 64); err != nil {
			return nil, err
		}
		if sm.Cmd, err = strconv.ParseFloat(row[3], 64); err != nil {
			return nil, err
		}
		trace = append(trace, sm)
	}
	return trace, nil
}

func (s *Store) List() ([]*RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []*RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}
