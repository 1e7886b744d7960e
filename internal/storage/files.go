package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/cellsim/internal/grid"
)

// WriteAliveCSV writes a "generation,alive" table.
func WriteAliveCSV(path string, alive []int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(f, path, &err)

	if err := EncodeAliveCSV(f, alive); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func EncodeAliveCSV(w io.Writer, alive []int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"generation", "alive"}); err != nil {
		return err
	}
	for gen, n := range alive {
		if err := cw.Write([]string{strconv.Itoa(gen), strconv.Itoa(n)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// closeFile reports a failed close through err unless an earlier error is
// already set.
func closeFile(f *os.File, path string, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("failed to close %s: %w", path, cerr)
	}
}

// WriteGrid stores g in the plain snapshot format.
func WriteGrid(path string, g *grid.Grid) error {
	if err := os.WriteFile(path, []byte(g.String()), 0644); err != nil {
		return fmt.Errorf("failed to write grid %s: %w", path, err)
	}
	return nil
}

func ReadGrid(path string) (*grid.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := grid.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse grid %s: %w", path, err)
	}
	return g, nil
}
