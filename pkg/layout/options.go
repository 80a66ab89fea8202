package layout

import (
	"strings"

	"github.com/matzehuels/mindgraft/pkg/errors"
)

// Direction is the axis along which ranks advance.
type Direction string

const (
	// TopToBottom stacks ranks downward; children sit below parents.
	TopToBottom Direction = "TB"
	// LeftToRight stacks ranks rightward; children sit right of parents.
	LeftToRight Direction = "LR"
)

// Default spacing in logical units.
const (
	DefaultNodeSeparation = 100.0
	DefaultRankSeparation = 120.0
	DefaultSweeps         = 4
)

// ParseDirection accepts "TB" or "LR" in any case. The empty string means
// [TopToBottom].
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "TB":
		return TopToBottom, nil
	case "LR":
		return LeftToRight, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown layout direction %q (want TB or LR)", s)
}

// Horizontal reports whether ranks advance along the x axis.
func (d Direction) Horizontal() bool { return d == LeftToRight }

// Options configures a layout run. Zero values fall back to the defaults.
type Options struct {
	Direction Direction
	// NodeSeparation is the gap between neighbouring cards in one rank.
	NodeSeparation float64
	// RankSeparation is the gap between consecutive ranks.
	RankSeparation float64
	// Sweeps bounds the number of barycentric ordering passes.
	Sweeps int
}

// DefaultOptions returns top-to-bottom layout with the default spacing.
func DefaultOptions() Options {
	return Options{
		Direction:      TopToBottom,
		NodeSeparation: DefaultNodeSeparation,
		RankSeparation: DefaultRankSeparation,
		Sweeps:         DefaultSweeps,
	}
}

// WithDefaults returns o with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Direction == "" {
		o.Direction = TopToBottom
	}
	if o.NodeSeparation == 0 {
		o.NodeSeparation = DefaultNodeSeparation
	}
	if o.RankSeparation == 0 {
		o.RankSeparation = DefaultRankSeparation
	}
	if o.Sweeps == 0 {
		o.Sweeps = DefaultSweeps
	}
	return o
}

// Validate rejects unknown directions and negative spacing.
func (o Options) Validate() error {
	if o.Direction != TopToBottom && o.Direction != LeftToRight {
		return errors.New(errors.ErrCodeInvalidInput, "unknown layout direction %q", o.Direction)
	}
	if o.NodeSeparation < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "node separation must be non-negative, got %v", o.NodeSeparation)
	}
	if o.RankSeparation < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "rank separation must be non-negative, got %v", o.RankSeparation)
	}
	if o.Sweeps < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "sweeps must be non-negative, got %d", o.Sweeps)
	}
	return nil
}
