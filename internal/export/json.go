package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/sim"
)

type RunData struct {
	Variant     string             `json:"variant"`
	Rows        int                `json:"rows"`
	Cols        int                `json:"cols"`
	Boundary    string             `json:"boundary"`
	Seed        int64              `json:"seed"`
	Rules       config.RuleParams  `json:"rules"`
	Generations int                `json:"generations"`
	Alive       []int              `json:"alive"`
	Extinct     bool               `json:"extinct"`
	ExtinctAt   int                `json:"extinct_at,omitempty"`
	Stable      bool               `json:"stable"`
	Final       []string           `json:"final,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// NewRunData flattens a run for export. The final grid is kept as its
// snapshot rows.
func NewRunData(cfg *config.Config, result *sim.Result) RunData {
	data := RunData{
		Variant:     cfg.Variant,
		Rows:        cfg.Rows,
		Cols:        cfg.Cols,
		Boundary:    cfg.Boundary,
		Seed:        result.Seed,
		Rules:       cfg.Rules,
		Generations: result.Generations,
		Alive:       result.Alive,
		Extinct:     result.Extinct,
		ExtinctAt:   result.ExtinctAt,
		Stable:      result.Stable,
		Metrics:     result.Metrics,
	}
	if result.Final != nil {
		data.Final = strings.Split(strings.TrimSuffix(result.Final.String(), "\n"), "\n")
	}
	return data
}

func ExportJSON(path string, cfg *config.Config, result *sim.Result) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return WriteJSON(file, cfg, result)
}

func WriteJSON(w io.Writer, cfg *config.Config, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewRunData(cfg, result))
}
