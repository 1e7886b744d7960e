package neighbor

import (
	"errors"
	"fmt"
	"strings"
)

// Boundary decides how coordinates past the grid edge are treated.
type Boundary int

const (
	// Toroidal wraps both axes.
	Toroidal Boundary = iota
	// Clamped treats everything outside the grid as absent.
	Clamped
)

var ErrUnknownBoundary = errors.New("neighbor: unknown boundary")

func (b Boundary) String() string {
	switch b {
	case Toroidal:
		return "toroidal"
	case Clamped:
		return "clamped"
	default:
		return fmt.Sprintf("boundary(%d)", int(b))
	}
}

func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toroidal", "torus", "wrap":
		return Toroidal, nil
	case "clamped", "clamp", "bounded":
		return Clamped, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBoundary, s)
}
