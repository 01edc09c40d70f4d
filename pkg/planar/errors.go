package planar

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrSweepInconsistent is matched by every *SweepError.
var ErrSweepInconsistent = errors.New("planar: sweep status is inconsistent")

// Operations reported by SweepError.
const (
	OpInsert   = "insert"
	OpRetrieve = "retrieve"
	OpCheck    = "check"
	OpEvents   = "events"
)

// SweepError reports that the sweep status no longer agrees with the
// polygon being swept: an edge that should have been present was missing,
// an edge collided with one already stored, or the tree failed its
// invariant check.
type SweepError struct {
	Op   string
	Edge string
	Err  error
}

func (e *SweepError) Error() string {
	msg := fmt.Sprintf("planar: sweep %s failed", e.Op)
	if e.Edge != "" {
		msg += " for edge " + e.Edge
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SweepError) Unwrap() error {
	return ErrSweepInconsistent
}
