package utils

const (
	// NODETOL is the coordinate tolerance used to locate nodes on faces and
	// to pair coincident face nodes between elements.
	NODETOL = 1.e-7
)
