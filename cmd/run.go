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
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/simplexdg/assembly"
	"github.com/notargets/simplexdg/config"
	"github.com/notargets/simplexdg/element"
	"github.com/notargets/simplexdg/operators"
	"github.com/notargets/simplexdg/quadrature"
	"github.com/notargets/simplexdg/utils"
)

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Integrate a model problem in time from a YAML input file",
	Long: `
Reads the input parameters, builds the mesh and the discretization, then steps
U_t = RHS(U) to FinalTime with low storage RK4, logging the solution norms.

simplexdg run -I input.yaml --profile cpu`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			ip  *config.Parameters
		)
		icFile, _ := cmd.Flags().GetString("inputConditionsFile")
		if len(icFile) == 0 {
			fmt.Printf("error: must supply an input parameters file (-I, --inputConditionsFile)\n")
			fmt.Printf("Example File:%s\n", exampleInput)
			os.Exit(1)
		}
		if ip, err = config.ReadFile(icFile); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if p := viper.GetInt("parallel"); p > 0 {
			ip.Parallel = p
		}
		ip.Print()
		logEvery, _ := cmd.Flags().GetInt("logSteps")
		switch prof, _ := cmd.Flags().GetString("profile"); prof {
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
		case "":
		default:
			fmt.Printf("error: unknown profile %q, use cpu or mem\n", prof)
			os.Exit(1)
		}
		if _, err = Run(context.Background(), ip, newLogger(), logEvery); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

const exampleInput = `
########################################
Title: "Test Case"
Dimension: 2
PolynomialDegree: 3
PDEFamily: advection # or wave, heat
AdvectionCoefficient: [1, 0.5]
Form: weak # or strong
CFL: 0.5
FinalTime: 1
InitType: sine # or gaussian, constant
Mesh:
  Elements: [8, 8]
  Bounds: [0, 1, 0, 1]
  Periodic: true
########################################
`

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters")
	RunCmd.Flags().String("profile", "", "write a cpu or mem profile to the working directory")
	RunCmd.Flags().IntP("logSteps", "s", 100, "number of steps between diagnostics records")
}

// RunResult holds the norms of the first evolved field at the start and end
// of a run.
type RunResult struct {
	Steps         int
	Time, Dt      float64
	Initial, Last Diagnostics
	U             assembly.State
	D             *assembly.Discretization
}

type Diagnostics struct {
	Integral, L1, L2, LInf float64
}

func diagnose(d *assembly.Discretization, u utils.Matrix) Diagnostics {
	return Diagnostics{
		Integral: d.Integral(u),
		L1:       d.L1Norm(u),
		L2:       d.L2Norm(u),
		LInf:     d.LInfNorm(u),
	}
}

func (dg Diagnostics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("integral", dg.Integral),
		slog.Float64("l1", dg.L1),
		slog.Float64("l2", dg.L2),
		slog.Float64("linf", dg.LInf),
	)
}

// Setup builds the discretization described by the parameters.
func Setup(ctx context.Context, ip *config.Parameters, logger *slog.Logger) (d *assembly.Discretization, err error) {
	var (
		ref  *element.ReferenceElement
		opts []assembly.Option
		cb   operators.Cubature
	)
	m, err := ip.BuildMesh()
	if err != nil {
		return
	}
	if ref, err = element.NewCache(ip.ElementOptions()...).Get(ip.Dimension, ip.PolynomialDegree); err != nil {
		return
	}
	scheme, err := ip.Scheme()
	if err != nil {
		return
	}
	if opts, err = ip.Options(); err != nil {
		return
	}
	start := time.Now()
	if d, err = assembly.New(ctx, m, ref, scheme, opts...); err != nil {
		return
	}
	logger.Info("discretization ready",
		slog.String("element", ref.String()),
		slog.Int("elements", d.K),
		slog.Any("boundaries", m.BoundaryTags()),
		slog.Duration("setup", time.Since(start)))
	engine := quadrature.NewEngine()
	if cb, err = operators.AssembleByCubature(ref, d.Mappers[0], engine); err != nil {
		return nil, err
	}
	diff := cb.M.Copy().Subtract(d.Ops[0].M).MaxAbs()
	logger.Debug("mass matrix cubature cross check", slog.Float64("max_diff", diff))
	return
}

// Initialize samples InitType into the first field; the remaining fields
// start at rest.
func Initialize(d *assembly.Discretization, initType string) (U assembly.State, err error) {
	var f func(x []float64) float64
	switch initType {
	case "", "sine":
		f = func(x []float64) float64 {
			v := 1.
			for _, xm := range x {
				v *= math.Sin(2 * math.Pi * xm)
			}
			return v
		}
	case "gaussian":
		f = func(x []float64) float64 {
			var r2 float64
			for _, xm := range x {
				r2 += (xm - 0.5) * (xm - 0.5)
			}
			return math.Exp(-r2 / 0.02)
		}
	case "constant":
		f = func([]float64) float64 { return 1 }
	default:
		return nil, fmt.Errorf("unknown InitType %q, use sine, gaussian or constant", initType)
	}
	U = d.NewState()
	U[0] = d.Interpolate(f)
	return
}

// Run steps the input problem to FinalTime with the five stage low storage
// RK4 scheme and logs diagnostics every logEvery steps.
func Run(ctx context.Context, ip *config.Parameters, logger *slog.Logger, logEvery int) (res RunResult, err error) {
	if res.D, err = Setup(ctx, ip, logger); err != nil {
		return
	}
	d := res.D
	if res.U, err = Initialize(d, ip.InitType); err != nil {
		return
	}
	res.Initial = diagnose(d, res.U[0])
	logger.Info("initial state", slog.Any("diagnostics", res.Initial))

	res.Dt = d.StableTimeStep(ip.CFL)
	if !(res.Dt > 0) {
		err = fmt.Errorf("time step %g from CFL %g is not positive", res.Dt, ip.CFL)
		return
	}
	if ip.FinalTime == 0 {
		res.Last = res.Initial
		return
	}
	Nsteps := 1
	if !math.IsInf(res.Dt, 1) {
		Nsteps = int(math.Ceil(ip.FinalTime / res.Dt))
	}
	res.Dt = ip.FinalTime / float64(Nsteps)
	var (
		U     = res.U
		resid = d.NewState()
		start = time.Now()
	)
	for tstep := 0; tstep < Nsteps; tstep++ {
		if err = ctx.Err(); err != nil {
			return
		}
		t0 := float64(res.Steps) * res.Dt
		for s := 0; s < 5; s++ {
			rhs := d.ComputeRHSAt(t0+utils.RK4c[s]*res.Dt, U)
			resid.Scale(utils.RK4a[s]).AddScaled(res.Dt, rhs)
			U.AddScaled(utils.RK4b[s], resid)
		}
		res.Steps++
		res.Time = float64(res.Steps) * res.Dt
		if !utils.IsFinite(U...) {
			err = fmt.Errorf("solution diverged at step %d, time %g, reduce the CFL number", res.Steps, res.Time)
			return
		}
		if logEvery > 0 && res.Steps%logEvery == 0 {
			logger.Info("step",
				slog.Int("step", res.Steps),
				slog.Float64("time", res.Time),
				slog.Any("diagnostics", diagnose(d, U[0])))
		}
	}
	res.Last = diagnose(d, U[0])
	logger.Info("finished",
		slog.Int("steps", res.Steps),
		slog.Float64("time", res.Time),
		slog.Float64("dt", res.Dt),
		slog.Duration("elapsed", time.Since(start)),
		slog.String("memory", utils.GetMemUsage()),
		slog.Any("diagnostics", res.Last))
	return
}
