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
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/golsm/gateway"
	"github.com/notargets/golsm/model_problems"
	"github.com/notargets/golsm/types"
	"github.com/notargets/golsm/utils"
)

// UpwindCmd represents the upwind command
var UpwindCmd = &cobra.Command{
	Use:   "upwind",
	Short: "Upwind Hamilton-Jacobi ENO derivatives of a 3D level set",
	Long: `
Computes grad(phi) with first or second order upwind ENO differences, the
upwind side chosen by the sign of each velocity component. The derivatives are
compared with the analytic gradient of the level set function.

golsm upwind -I sine.hcl --workers 4`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var c *Case
		if c, err = readCase(cmd, "upwind"); err != nil {
			return
		}
		var res *gateway.UpwindResult
		if res, err = c.Upwind(viper.GetInt("workers")); err != nil {
			return
		}
		c.ReportUpwind(res)
		return
	},
}

func init() {
	rootCmd.AddCommand(UpwindCmd)
	addCaseFlags(UpwindCmd)
}

// Upwind runs the case through the upwind gateway; order 1 selects ENO1.
func (c *Case) Upwind(workers int) (res *gateway.UpwindResult, err error) {
	cp := c.Params
	args := gateway.UpwindArgs{
		GhostWidth: cp.GhostWidth,
		DX:         c.Domain.Spacing,
		Workers:    workers,
		Logger:     newLogger(),
	}
	if args.Phi, err = c.Sample(cp.LevelSet); err != nil {
		return
	}
	for _, spec := range cp.Velocity {
		var v types.Array
		if v, err = c.Sample(spec); err != nil {
			return
		}
		args.Velocity = append(args.Velocity, v)
	}
	solve := gateway.UpwindHJENO2
	if cp.Order == 1 {
		solve = gateway.UpwindHJENO1
	}
	err = timed("upwind derivatives", func() (err error) {
		res, err = solve(args)
		return
	})
	return
}

// UpwindErrors returns, per natural axis, the largest deviation from the
// analytic derivative over the fill box.
func (c *Case) UpwindErrors(res *gateway.UpwindResult) (maxErr []float64, err error) {
	var (
		box = c.Domain.Grid.Box
		fld *utils.Field[float64]
	)
	maxErr = make([]float64, len(res.Derivatives))
	for nat, g := range res.Derivatives {
		var exact []float64
		if exact, err = model_problems.Sample[float64](c.Domain, c.Params.LevelSet.Derivative(nat)); err != nil {
			return
		}
		if fld, err = utils.WrapField(box, exact); err != nil {
			return
		}
		var got, want []float64
		data := asFloat64(g)
		res.FillBox.ForEach(func(idx utils.Index) {
			o := fld.Offset(idx)
			got, want = append(got, data[o]), append(want, exact[o])
		})
		if len(got) > 0 {
			maxErr[nat], _ = utils.ErrorNorms(got, want)
		}
	}
	return
}

func (c *Case) ReportUpwind(res *gateway.UpwindResult) {
	fmt.Printf("fill box %s of ghost box %s\n", res.FillBox, res.GhostBox)
	maxErr, err := c.UpwindErrors(res)
	if err != nil {
		fmt.Printf("unable to compare with the analytic gradient: %v\n", err)
	}
	for nat, g := range res.Derivatives {
		data := asFloat64(g)
		fmt.Printf("d/d%c in [%g, %g]", 'x'+rune(nat), floats.Min(data), floats.Max(data))
		if err == nil {
			fmt.Printf(", max error %g", maxErr[nat])
		}
		fmt.Println()
	}
}
