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
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/golsm/InputParameters"
	"github.com/notargets/golsm/gateway"
	"github.com/notargets/golsm/model_problems"
	"github.com/notargets/golsm/utils"
)

// ConvergeCmd represents the converge command
var ConvergeCmd = &cobra.Command{
	Use:   "converge",
	Short: "Grid convergence study of the distance function or the upwind derivatives",
	Long: `
Runs a model problem on a sequence of grids and reports the observed order of
accuracy from a least squares fit of log(error) against log(h).

	upwind:   d/dx sin(x) on [0, 2pi] with unit velocity
	distance: distance to a circle of radius 0.5 on [-1, 1]^2

golsm converge --problem upwind --order 2 --sizes 17,33,65,129 --csvFile study.csv`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var rows []StudyRow
		problem, _ := cmd.Flags().GetString("problem")
		order, _ := cmd.Flags().GetInt("order")
		sizes, _ := cmd.Flags().GetIntSlice("sizes")
		csvFile, _ := cmd.Flags().GetString("csvFile")
		if rows, err = RunStudy(problem, order, sizes, viper.GetInt("workers")); err != nil {
			return
		}
		h, maxErr := make([]float64, len(rows)), make([]float64, len(rows))
		fmt.Printf("%6s %12s %12s %12s\n", "N", "h", "rms", "max")
		for i, r := range rows {
			fmt.Printf("%6d %12.5e %12.5e %12.5e\n", r.N, r.H, r.RMS, r.Max)
			h[i], maxErr[i] = r.H, r.Max
		}
		var (
			observed float64
			pairwise []float64
		)
		if observed, pairwise, err = utils.ConvergenceOrder(h, maxErr); err != nil {
			return
		}
		fmt.Printf("pairwise orders %5.2f, observed order %5.2f\n", pairwise, observed)
		if len(csvFile) != 0 {
			return WriteStudyFile(csvFile, rows)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(ConvergeCmd)
	ConvergeCmd.Flags().StringP("problem", "p", "upwind", "model problem: upwind or distance")
	ConvergeCmd.Flags().IntP("order", "o", 2, "order of accuracy, 1 or 2")
	ConvergeCmd.Flags().IntSlice("sizes", []int{17, 33, 65, 129}, "points along x for each grid")
	ConvergeCmd.Flags().StringP("csvFile", "c", "", "write the study to this CSV file")
}

// StudyRow is one grid of a convergence study.
type StudyRow struct {
	Title    string
	Order    int
	N        int
	H        float64
	RMS, Max float64
}

func studyCase(problem string, order, n int) (cp *InputParameters.CaseParameters, err error) {
	switch problem {
	case "upwind":
		constant := model_problems.FunctionSpec{Type: "constant", Value: 1}
		cp = &InputParameters.CaseParameters{
			Operation:  "upwind",
			Size:       []int{n, 5, 5},
			Lower:      []float64{0, 0, 0},
			Upper:      []float64{2 * math.Pi, 1, 1},
			Order:      order,
			GhostWidth: 2,
			LevelSet:   model_problems.FunctionSpec{Type: "sine", Axis: 0},
			Velocity:   []model_problems.FunctionSpec{constant, constant, constant},
		}
	case "distance":
		cp = &InputParameters.CaseParameters{
			Operation: "distance",
			Size:      []int{n, n},
			Lower:     []float64{-1, -1},
			Upper:     []float64{1, 1},
			Order:     order,
			LevelSet:  model_problems.FunctionSpec{Type: "circle", Center: []float64{0, 0}, Radius: 0.5},
		}
	default:
		return nil, fmt.Errorf("unknown model problem %q", problem)
	}
	cp.Title = fmt.Sprintf("%s N=%d", problem, n)
	return cp, cp.Validate()
}

// RunStudy solves problem once per grid size.
func RunStudy(problem string, order int, sizes []int, workers int) (rows []StudyRow, err error) {
	for _, n := range sizes {
		var (
			cp        *InputParameters.CaseParameters
			c         *Case
			got, want []float64
		)
		row := StudyRow{Title: problem, Order: order, N: n}
		if cp, err = studyCase(problem, order, n); err != nil {
			return
		}
		if c, err = NewCase(cp); err != nil {
			return
		}
		if got, want, err = c.studyErrors(workers); err != nil {
			return
		}
		row.H = c.Domain.Spacing[0]
		row.Max, row.RMS = utils.ErrorNorms(got, want)
		rows = append(rows, row)
	}
	return
}

// studyErrors pairs computed and exact values over the points the solver
// owns.
func (c *Case) studyErrors(workers int) (got, want []float64, err error) {
	var exact []float64
	if c.Params.Operation == "upwind" {
		var res *gateway.UpwindResult
		if res, err = c.Upwind(workers); err != nil {
			return
		}
		if exact, err = model_problems.Sample[float64](c.Domain, c.Params.LevelSet.Derivative(0)); err != nil {
			return
		}
		fld, _ := utils.WrapField(c.Domain.Grid.Box, exact)
		data := asFloat64(res.Derivatives[0])
		res.FillBox.ForEach(func(idx utils.Index) {
			o := fld.Offset(idx)
			got, want = append(got, data[o]), append(want, exact[o])
		})
		return
	}
	var res *gateway.ExtensionFieldsResult
	if res, err = c.Extend(1); err != nil {
		return
	}
	f, _ := c.Params.LevelSet.Build(c.Domain.Grid.NDim())
	if exact, err = model_problems.Sample[float64](c.Domain, f); err != nil {
		return
	}
	for i, d := range asFloat64(res.Distance) {
		if !math.IsInf(d, 0) {
			got, want = append(got, d), append(want, math.Abs(exact[i]))
		}
	}
	return
}

// WriteStudyFile writes rows as CSV to path, reporting close errors too.
func WriteStudyFile(path string, rows []StudyRow) (err error) {
	var f *os.File
	if f, err = os.Create(path); err != nil {
		return
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteStudy(f, rows)
}

// WriteStudy writes rows as CSV with a header line.
func WriteStudy(w io.Writer, rows []StudyRow) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"title", "order", "n", "h", "rms", "max"})
	for _, r := range rows {
		_ = cw.Write([]string{
			r.Title,
			strconv.Itoa(r.Order),
			strconv.Itoa(r.N),
			strconv.FormatFloat(r.H, 'e', -1, 64),
			strconv.FormatFloat(r.RMS, 'e', -1, 64),
			strconv.FormatFloat(r.Max, 'e', -1, 64),
		})
	}
	cw.Flush()
	return cw.Error()
}
