package neighbor

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Mask weights the eight neighbors of a cell. Mask[dr+1][dc+1] is the weight
// of the neighbor at offset (dr, dc). The center entry must be zero.
type Mask [3][3]float64

var (
	ErrUnknownMask = errors.New("neighbor: unknown mask")
	ErrInvalidMask = errors.New("neighbor: invalid mask")
)

var (
	Standard      = Mask{{1, 1, 1}, {1, 0, 1}, {1, 1, 1}}
	Isotropic     = Mask{{0.7, 1, 0.7}, {1, 0, 1}, {0.7, 1, 0.7}}
	IsotropicDiag = Mask{{1, 0.7, 1}, {0.7, 0, 0.7}, {1, 0.7, 1}}
	Cross         = Mask{{0.3, 1, 0.3}, {1, 0, 1}, {0.3, 1, 0.3}}
	Cross4        = Mask{{0, 1, 0}, {1, 0, 1}, {0, 1, 0}}
	Cross4Diag    = Mask{{1, 0, 1}, {0, 0, 0}, {1, 0, 1}}
	Hex0          = Mask{{1, 0, 1}, {1, 0, 1}, {1, 0, 1}}
	Hex1          = Mask{{0.75, 0.5, 0.75}, {1, 0, 1}, {0.75, 0.5, 0.75}}
	Hex2          = Mask{{1, 0.75, 0.5}, {0.75, 0, 0.75}, {0.5, 0.75, 1}}
)

var catalogue = map[string]Mask{
	"standard":       Standard,
	"isotropic":      Isotropic,
	"isotropic_diag": IsotropicDiag,
	"cross":          Cross,
	"cross4":         Cross4,
	"cross4_diag":    Cross4Diag,
	"hex0":           Hex0,
	"hex1":           Hex1,
	"hex2":           Hex2,
}

// MaskByName looks up a catalogue mask. Names are case-insensitive and
// "-" is accepted in place of "_".
func MaskByName(name string) (Mask, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if key == "" {
		return Standard, nil
	}
	m, ok := catalogue[key]
	if !ok {
		return Mask{}, fmt.Errorf("%w: %q", ErrUnknownMask, name)
	}
	return m, nil
}

// MaskNames returns the catalogue names in sorted order.
func MaskNames() []string {
	names := make([]string, 0, len(catalogue))
	for name := range catalogue {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m Mask) Validate() error {
	if m[1][1] != 0 {
		return fmt.Errorf("%w: center weight %g", ErrInvalidMask, m[1][1])
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			w := m[i][j]
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("%w: non-finite weight %g at (%d,%d)", ErrInvalidMask, w, i-1, j-1)
			}
			if w < 0 {
				return fmt.Errorf("%w: negative weight %g at (%d,%d)", ErrInvalidMask, w, i-1, j-1)
			}
		}
	}
	return nil
}

// Weight returns the weight for offset (dr, dc), each in {-1, 0, 1}.
func (m Mask) Weight(dr, dc int) float64 {
	return m[dr+1][dc+1]
}

// Total is the largest sum the mask can produce.
func (m Mask) Total() float64 {
	var t float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t += m[i][j]
		}
	}
	return t
}

func (m Mask) String() string {
	var b strings.Builder
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, "%4.2f %4.2f %4.2f\n", m[i][0], m[i][1], m[i][2])
	}
	return b.String()
}
