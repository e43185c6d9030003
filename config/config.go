package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/simplexdg/assembly"
	"github.com/notargets/simplexdg/element"
	"github.com/notargets/simplexdg/flux"
	"github.com/notargets/simplexdg/mesh"
)

// Parameters obtained from the YAML input file
type Parameters struct {
	Title                string              `json:"Title"`
	Dimension            int                 `json:"Dimension"`
	PolynomialDegree     int                 `json:"PolynomialDegree"`
	PDEFamily            string              `json:"PDEFamily"`
	AdvectionCoefficient []float64           `json:"AdvectionCoefficient,omitempty"`
	WaveSpeed            float64             `json:"WaveSpeed,omitempty"`
	Diffusivity          float64             `json:"Diffusivity,omitempty"`
	Form                 string              `json:"Form,omitempty"`
	CFL                  float64             `json:"CFL"`
	FinalTime            float64             `json:"FinalTime"`
	InitType             string              `json:"InitType,omitempty"`
	Mesh                 MeshParameters      `json:"Mesh"`
	BCs                  map[string]BCParams `json:"BCs,omitempty"` // Keyed by boundary tag
	VandermondeTolerance float64             `json:"VandermondeTolerance,omitempty"`
	Parallel             int                 `json:"Parallel,omitempty"`
}

// MeshParameters selects a mesh file, or a structured mesh with Elements
// divisions per direction on Bounds (min, max pairs).
type MeshParameters struct {
	File     string    `json:"File,omitempty"`
	Elements []int     `json:"Elements,omitempty"`
	Bounds   []float64 `json:"Bounds,omitempty"`
	Periodic bool      `json:"Periodic,omitempty"`
}

type BCParams struct {
	Kind  string  `json:"Kind"`
	Value float64 `json:"Value"`
}

func Default() *Parameters {
	return &Parameters{
		Dimension:        1,
		PolynomialDegree: 1,
		PDEFamily:        "advection",
		CFL:              0.5,
		FinalTime:        1,
		InitType:         "sine",
		Form:             "weak",
	}
}

func (ip *Parameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// ReadFile parses and validates an input file over the defaults.
func ReadFile(path string) (ip *Parameters, err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	ip = Default()
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err = ip.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return
}

func (ip *Parameters) Validate() error {
	if ip.Dimension < 1 || ip.Dimension > 3 {
		return fmt.Errorf("Dimension must be 1, 2 or 3, have %d", ip.Dimension)
	}
	if ip.PolynomialDegree < 0 {
		return fmt.Errorf("PolynomialDegree must be non negative, have %d", ip.PolynomialDegree)
	}
	if _, err := ip.Scheme(); err != nil {
		return err
	}
	if _, err := assembly.ParseForm(ip.Form); err != nil {
		return err
	}
	if _, err := ip.Boundaries(); err != nil {
		return err
	}
	if !(ip.CFL > 0) || math.IsInf(ip.CFL, 0) {
		return fmt.Errorf("CFL must be positive and finite, have %g", ip.CFL)
	}
	if ip.FinalTime < 0 {
		return fmt.Errorf("FinalTime must be non negative, have %g", ip.FinalTime)
	}
	if ip.VandermondeTolerance < 0 {
		return fmt.Errorf("VandermondeTolerance must be non negative, have %g", ip.VandermondeTolerance)
	}
	if ip.Mesh.File == "" {
		if len(ip.Mesh.Elements) != ip.Dimension {
			return fmt.Errorf("Mesh.Elements needs %d divisions, have %v", ip.Dimension, ip.Mesh.Elements)
		}
		if len(ip.Mesh.Bounds) != 0 && len(ip.Mesh.Bounds) != 2*ip.Dimension {
			return fmt.Errorf("Mesh.Bounds needs %d values, have %v", 2*ip.Dimension, ip.Mesh.Bounds)
		}
		if ip.Mesh.Periodic && ip.Dimension == 3 {
			return fmt.Errorf("periodic structured meshes are available in 1D and 2D")
		}
	}
	return nil
}

// Scheme builds the flux scheme named by PDEFamily.
func (ip *Parameters) Scheme() (s flux.Scheme, err error) {
	var family flux.Family
	if family, err = flux.ParseFamily(ip.PDEFamily); err != nil {
		return
	}
	switch family {
	case flux.Advection:
		if len(ip.AdvectionCoefficient) != ip.Dimension {
			err = fmt.Errorf("AdvectionCoefficient needs %d components for the advection family, have %v",
				ip.Dimension, ip.AdvectionCoefficient)
			return
		}
		s = flux.NewAdvection(ip.AdvectionCoefficient)
	case flux.Wave:
		speed := ip.WaveSpeed
		if speed == 0 {
			speed = 1
		}
		s = flux.NewWave(ip.Dimension, speed)
	case flux.Heat:
		s = flux.NewHeat(ip.Dimension, ip.Diffusivity)
	}
	err = s.Validate()
	return
}

func (ip *Parameters) Boundaries() (bcs map[string]flux.BoundaryCondition, err error) {
	bcs = make(map[string]flux.BoundaryCondition, len(ip.BCs))
	for tag, p := range ip.BCs {
		var kind flux.BCKind
		if kind, err = flux.ParseBCKind(p.Kind); err != nil {
			return nil, fmt.Errorf("BCs[%s]: %w", tag, err)
		}
		bcs[tag] = flux.BoundaryCondition{Kind: kind, Value: p.Value}
	}
	return
}

// Options collects the assembly options the parameters imply.
func (ip *Parameters) Options() (opts []assembly.Option, err error) {
	var (
		form assembly.Form
		bcs  map[string]flux.BoundaryCondition
	)
	if form, err = assembly.ParseForm(ip.Form); err != nil {
		return
	}
	if bcs, err = ip.Boundaries(); err != nil {
		return
	}
	opts = append(opts, assembly.WithForm(form), assembly.WithParallel(ip.Parallel))
	for tag, bc := range bcs {
		opts = append(opts, assembly.WithBoundary(tag, bc))
	}
	return
}

// ElementOptions carries the Vandermonde tolerance when one is set.
func (ip *Parameters) ElementOptions() (opts []element.Option) {
	if ip.VandermondeTolerance > 0 {
		opts = append(opts, element.WithTolerance(ip.VandermondeTolerance))
	}
	return
}

// BuildMesh reads Mesh.File (YAML, or SU2 by extension) or generates the structured mesh, on the unit
// interval, square or cube when Bounds is empty.
func (ip *Parameters) BuildMesh() (m *mesh.Mesh, err error) {
	if ip.Mesh.File != "" {
		if strings.EqualFold(filepath.Ext(ip.Mesh.File), ".su2") {
			m, err = mesh.ReadSU2(ip.Mesh.File)
		} else {
			m, err = mesh.ReadFile(ip.Mesh.File)
		}
		if err != nil {
			return
		}
		if m.Dim != ip.Dimension {
			return nil, fmt.Errorf("mesh file %s is %dD, Dimension is %d", ip.Mesh.File, m.Dim, ip.Dimension)
		}
		return
	}
	b := ip.Mesh.Bounds
	if len(b) == 0 {
		for d := 0; d < ip.Dimension; d++ {
			b = append(b, 0, 1)
		}
	}
	ne := ip.Mesh.Elements
	switch ip.Dimension {
	case 1:
		return mesh.Line(b[0], b[1], ne[0], ip.Mesh.Periodic)
	case 2:
		return mesh.Rectangle(ne[0], ne[1], [4]float64{b[0], b[1], b[2], b[3]}, ip.Mesh.Periodic)
	case 3:
		return mesh.Box(ne[0], ne[1], ne[2], [6]float64{b[0], b[1], b[2], b[3], b[4], b[5]})
	}
	return nil, fmt.Errorf("Dimension must be 1, 2 or 3, have %d", ip.Dimension)
}

func (ip *Parameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Dimension\n", ip.Dimension)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Degree\n", ip.PolynomialDegree)
	fmt.Printf("[%s]\t\t\t= PDE Family\n", ip.PDEFamily)
	switch ip.PDEFamily {
	case "advection":
		fmt.Printf("%v\t\t= Advection Coefficient\n", ip.AdvectionCoefficient)
	case "wave":
		fmt.Printf("%8.5f\t\t= Wave Speed\n", ip.WaveSpeed)
	default:
		fmt.Printf("%8.5f\t\t= Diffusivity\n", ip.Diffusivity)
	}
	fmt.Printf("[%s]\t\t\t= Form\n", ip.Form)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%s]\t\t\t= InitType\n", ip.InitType)
	if ip.Mesh.File != "" {
		fmt.Printf("[%s]\t= Mesh File\n", ip.Mesh.File)
	} else {
		fmt.Printf("%v %v periodic=%v\t= Mesh\n", ip.Mesh.Elements, ip.Mesh.Bounds, ip.Mesh.Periodic)
	}
	keys := make([]string, 0, len(ip.BCs))
	for k := range ip.BCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
