package assembly

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/simplexdg/utils"
)

// Form selects the weak or strong statement of the semi-discrete equations.
type Form uint8

const (
	Weak Form = iota
	Strong
)

func (f Form) String() string {
	switch f {
	case Weak:
		return "weak"
	case Strong:
		return "strong"
	}
	return fmt.Sprintf("Form(%d)", uint8(f))
}

func ParseForm(name string) (Form, error) {
	switch strings.ToLower(name) {
	case "", "weak":
		return Weak, nil
	case "strong":
		return Strong, nil
	}
	return 0, fmt.Errorf("unknown form %q", name)
}

// State holds one Np x K nodal matrix per field, column k is element k.
type State []utils.Matrix

func NewState(nFields, Np, K int) (s State) {
	s = make(State, nFields)
	for i := range s {
		s[i] = utils.NewMatrix(Np, K)
	}
	return
}

func (s State) Copy() (c State) {
	c = make(State, len(s))
	for i := range s {
		c[i] = s[i].Copy()
	}
	return
}

// Scale multiplies every field by a in place.
func (s State) Scale(a float64) State {
	for i := range s {
		s[i].Scale(a)
	}
	return s
}

// AddScaled adds a*o to s in place.
func (s State) AddScaled(a float64, o State) State {
	for i := range s {
		floats.AddScaled(s[i].DataP(), a, o[i].DataP())
	}
	return s
}

// MaxAbs is the largest nodal magnitude over all fields.
func (s State) MaxAbs() (m float64) {
	for i := range s {
		if v := s[i].MaxAbs(); v > m {
			m = v
		}
	}
	return
}
