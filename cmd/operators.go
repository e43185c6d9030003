/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/simplexdg/element"
	"github.com/notargets/simplexdg/geometry"
	"github.com/notargets/simplexdg/operators"
	"github.com/notargets/simplexdg/quadrature"
)

// OperatorsCmd represents the operators command
var OperatorsCmd = &cobra.Command{
	Use:   "operators",
	Short: "Build a reference element and one physical element and report its operators",
	Long: `
Builds the degree N reference element on the equilateral simplex, assembles its
mass, stiffness and face operators and reports conditioning, symmetry and the
difference from a cubature assembly.

simplexdg operators -d 3 -n 5`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dim, _ := cmd.Flags().GetInt("dimension")
		N, _ := cmd.Flags().GetInt("n")
		tol, _ := cmd.Flags().GetFloat64("tolerance")
		return ReportOperators(dim, N, tol)
	},
}

func init() {
	rootCmd.AddCommand(OperatorsCmd)
	OperatorsCmd.Flags().IntP("dimension", "d", 2, "element dimension, 1, 2 or 3")
	OperatorsCmd.Flags().IntP("n", "n", 3, "polynomial degree")
	OperatorsCmd.Flags().Float64P("tolerance", "t", element.DefaultVandermondeTolerance,
		"smallest accepted reciprocal condition number of V")
}

// OperatorReport summarizes the operators of the equilateral element.
type OperatorReport struct {
	Ref            *element.ReferenceElement
	Ops            *operators.ElementOperators
	Coefficients   []float64
	MassSymmetry   float64
	MassCond       float64
	CubatureMaxErr float64
}

func BuildOperatorReport(dim, N int, tol float64) (rep OperatorReport, err error) {
	var (
		mapper *geometry.Mapper
		ac     element.AffineCoefficients
		cb     operators.Cubature
	)
	if rep.Ref, err = element.NewCache(element.WithTolerance(tol)).Get(dim, N); err != nil {
		return
	}
	if ac, err = element.EquilateralMap(dim); err != nil {
		return
	}
	rep.Coefficients = ac.Coefficients()
	if mapper, err = geometry.NewMapper(0, element.EquilateralVertices(dim)); err != nil {
		return
	}
	if rep.Ops, err = operators.Assemble(rep.Ref, mapper); err != nil {
		return
	}
	rep.MassSymmetry = rep.Ref.M.SymmetryError()
	rep.MassCond = rep.Ops.M.ConditionNumber()
	if cb, err = operators.AssembleByCubature(rep.Ref, mapper, quadrature.NewEngine()); err != nil {
		return
	}
	rep.CubatureMaxErr = maxAbsDiff(cb.M.DataP(), rep.Ops.M.DataP())
	for mu := range cb.S {
		rep.CubatureMaxErr = max(rep.CubatureMaxErr, maxAbsDiff(cb.S[mu].DataP(), rep.Ops.S[mu].DataP()))
	}
	return
}

func ReportOperators(dim, N int, tol float64) (err error) {
	var rep OperatorReport
	if rep, err = BuildOperatorReport(dim, N, tol); err != nil {
		return
	}
	fmt.Printf("%s\n", rep.Ref)
	fmt.Printf("Equilateral to reference coefficients = %8.5f\n", rep.Coefficients)
	fmt.Printf("Mass matrix: cond = %8.3g, relative asymmetry = %8.3g, positive definite = %v\n",
		rep.MassCond, rep.MassSymmetry, rep.Ops.M.IsPositiveDefinite())
	for f, face := range rep.Ops.Faces {
		fmt.Printf("Face %d: nodes %v, normal %8.5f, sJ = %8.5f\n", f, face.Fmask, face.Normal, face.SJ)
	}
	fmt.Printf("Max difference from cubature assembly = %8.3g\n", rep.CubatureMaxErr)
	return
}

func maxAbsDiff(a, b []float64) float64 {
	return floats.Distance(a, b, math.Inf(1))
}
