package assembly

import (
	"errors"
	"fmt"
)

var ErrFaceNodeMismatch = errors.New("face node mismatch")

// FaceMismatchError reports a face whose node set disagrees with the
// reference element or with its neighbor's face.
type FaceMismatchError struct {
	Element, Face, Neighbor int
	Want, Have              int
}

func (e *FaceMismatchError) Error() string {
	if e.Neighbor < 0 {
		return fmt.Sprintf("%s: face %d of element %d holds %d nodes, want %d",
			ErrFaceNodeMismatch, e.Face, e.Element, e.Have, e.Want)
	}
	return fmt.Sprintf("%s: face %d of element %d matches %d of %d nodes on neighbor %d",
		ErrFaceNodeMismatch, e.Face, e.Element, e.Have, e.Want, e.Neighbor)
}

func (e *FaceMismatchError) Unwrap() error { return ErrFaceNodeMismatch }
