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

	"github.com/spf13/cobra"

	"github.com/notargets/simplexdg/quadrature"
)

// QuadratureCmd represents the quadrature command
var QuadratureCmd = &cobra.Command{
	Use:   "quadrature",
	Short: "Print a Gauss rule computed by the Golub-Welsch algorithm",
	Long: `
Prints the nodes and weights of the n point Gauss rule of a weight family,
one of legendre, jacobi, chebyshev, laguerre or hermite.

simplexdg quadrature -f laguerre -a 0.5 -n 8`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("family")
		n, _ := cmd.Flags().GetInt("n")
		alpha, _ := cmd.Flags().GetFloat64("alpha")
		beta, _ := cmd.Flags().GetFloat64("beta")
		rule, err := GaussRule(name, n, alpha, beta)
		if err != nil {
			return err
		}
		fmt.Printf("%d point %s rule\n", n, name)
		for i := range rule.Nodes {
			fmt.Printf("%3d %24.16e %24.16e\n", i, rule.Nodes[i], rule.Weights[i])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(QuadratureCmd)
	QuadratureCmd.Flags().StringP("family", "f", "legendre", "weight family")
	QuadratureCmd.Flags().IntP("n", "n", 5, "number of nodes")
	QuadratureCmd.Flags().Float64P("alpha", "a", 0, "Jacobi alpha or Laguerre alpha")
	QuadratureCmd.Flags().Float64P("beta", "b", 0, "Jacobi beta")
}

func GaussRule(name string, n int, alpha, beta float64) (rule quadrature.Rule, err error) {
	var family quadrature.WeightFamily
	if family, err = quadrature.FamilyByName(name, alpha, beta); err != nil {
		return
	}
	return quadrature.NewEngine().Rule(family, n)
}
