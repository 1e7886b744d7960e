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

	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	aliveFile     = "alive.csv"
	initialFile   = "initial.txt"
	finalFile     = "final.txt"
	snapshotDir   = "snapshots"
	snapshotNameF = "gen_%06d.txt"
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

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Variant     string             `json:"variant"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Rows        int                `json:"rows"`
	Cols        int                `json:"cols"`
	Boundary    string             `json:"boundary"`
	Generations int                `json:"generations"`
	Rules       config.RuleParams  `json:"rules"`
	FinalAlive  int                `json:"final_alive"`
	PeakAlive   int                `json:"peak_alive"`
	Extinct     bool               `json:"extinct"`
	ExtinctAt   int                `json:"extinct_at,omitempty"`
	Stable      bool               `json:"stable"`
	Snapshots   []int              `json:"snapshots,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding metadata.json, the alive-count series
// as alive.csv, the seed and final grids as plain snapshots, and any
// intermediate snapshots the run kept.
func (s *Store) Save(cfg *config.Config, initial *grid.Grid, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Variant, now.UnixNano())
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run dir: %w", err)
	}

	meta := RunMetadata{
		ID:          runID,
		Variant:     cfg.Variant,
		Timestamp:   now,
		Seed:        result.Seed,
		Rows:        cfg.Rows,
		Cols:        cfg.Cols,
		Boundary:    cfg.Boundary,
		Generations: result.Generations,
		Rules:       cfg.Rules,
		PeakAlive:   result.PeakAlive(),
		Extinct:     result.Extinct,
		ExtinctAt:   result.ExtinctAt,
		Stable:      result.Stable,
		Metrics:     result.Metrics,
	}
	if n := len(result.Alive); n > 0 {
		meta.FinalAlive = result.Alive[n-1]
	}
	for _, snap := range result.Snapshots {
		meta.Snapshots = append(meta.Snapshots, snap.Generation)
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := WriteAliveCSV(filepath.Join(runDir, aliveFile), result.Alive); err != nil {
		return "", err
	}
	if initial != nil {
		if err := WriteGrid(filepath.Join(runDir, initialFile), initial); err != nil {
			return "", err
		}
	}
	if result.Final != nil {
		if err := WriteGrid(filepath.Join(runDir, finalFile), result.Final); err != nil {
			return "", err
		}
	}
	if len(result.Snapshots) > 0 {
		dir := filepath.Join(runDir, snapshotDir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create snapshot dir: %w", err)
		}
		for _, snap := range result.Snapshots {
			path := filepath.Join(dir, fmt.Sprintf(snapshotNameF, snap.Generation))
			if err := WriteGrid(path, snap.Grid); err != nil {
				return "", err
			}
		}
	}

	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata for %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadAlive reads the alive-count series of a run.
func (s *Store) LoadAlive(runID string) ([]int, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), aliveFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []int{}, nil
	}

	alive := make([]int, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		n, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}
		alive = append(alive, n)
	}
	return alive, nil
}

// LoadFinal reads the last generation of a run.
func (s *Store) LoadFinal(runID string) (*grid.Grid, error) {
	return ReadGrid(filepath.Join(s.Dir(runID), finalFile))
}

func (s *Store) LoadInitial(runID string) (*grid.Grid, error) {
	return ReadGrid(filepath.Join(s.Dir(runID), initialFile))
}

// LoadSnapshot reads the grid kept for one generation.
func (s *Store) LoadSnapshot(runID string, generation int) (*grid.Grid, error) {
	return ReadGrid(filepath.Join(s.Dir(runID), snapshotDir, fmt.Sprintf(snapshotNameF, generation)))
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(f, path, &err)

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return nil
}
