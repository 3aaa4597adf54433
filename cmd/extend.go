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
	"strings"

	"github.com/spf13/cobra"

	"github.com/notargets/golsm/InputParameters"
	"github.com/notargets/golsm/gateway"
	"github.com/notargets/golsm/types"
)

const exampleCaseFile = `
########################################
Title: "Circle"
Operation: extend # or distance, upwind
Size: [21, 21]
Lower: [-1, -1]
Upper: [1, 1]
Order: 2
Mask: ["18:, :"] # x range, y range
LevelSet:
  Type: circle
  Center: [0, 0]
  Radius: 0.5
Sources:
  - Type: "y"
########################################
`

// ExtendCmd represents the extend command
var ExtendCmd = &cobra.Command{
	Use:   "extend",
	Short: "Distance function and extension fields by fast marching",
	Long: `
Computes the unsigned distance to the zero level set of the case's level set
function and extends every source field off the interface.

golsm extend -I circle.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtensionCase(cmd, "extend", 2)
	},
}

// DistanceCmd represents the distance command
var DistanceCmd = &cobra.Command{
	Use:   "distance",
	Short: "Distance function by fast marching",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtensionCase(cmd, "distance", 1)
	},
}

func init() {
	for _, c := range []*cobra.Command{ExtendCmd, DistanceCmd} {
		rootCmd.AddCommand(c)
		addCaseFlags(c)
	}
}

func addCaseFlags(c *cobra.Command) {
	c.Flags().StringP("inputConditionsFile", "I", "", "YAML or HCL case file")
	c.Flags().BoolP("show", "s", false, "print 2D result fields")
}

func readCase(cmd *cobra.Command, operation string) (c *Case, err error) {
	var (
		file string
		cp   *InputParameters.CaseParameters
	)
	if file, _ = cmd.Flags().GetString("inputConditionsFile"); len(file) == 0 {
		fmt.Printf("Example File:%s\n", exampleCaseFile)
		return nil, fmt.Errorf("must supply a case file (-I, --inputConditionsFile)")
	}
	if cp, err = InputParameters.ReadCaseFile(file); err != nil {
		return
	}
	if !strings.EqualFold(cp.Operation, operation) &&
		!(operation == "distance" && strings.EqualFold(cp.Operation, "extend")) {
		return nil, fmt.Errorf("case file %s describes operation %q, not %q", file, cp.Operation, operation)
	}
	cp.Print()
	return NewCase(cp)
}

func runExtensionCase(cmd *cobra.Command, operation string, numOutputs int) (err error) {
	var c *Case
	if c, err = readCase(cmd, operation); err != nil {
		return
	}
	var res *gateway.ExtensionFieldsResult
	if res, err = c.Extend(numOutputs); err != nil {
		return
	}
	show, _ := cmd.Flags().GetBool("show")
	c.ReportExtension(res, show)
	return
}

// Extend runs the case through the fast marching gateway.
func (c *Case) Extend(numOutputs int) (res *gateway.ExtensionFieldsResult, err error) {
	cp := c.Params
	args := gateway.ExtensionFieldsArgs{
		DX:         c.Domain.Spacing,
		Order:      cp.Order,
		NumOutputs: numOutputs,
		GhostWidth: cp.GhostWidth,
		Logger:     newLogger(),
	}
	if args.Phi, err = c.Sample(cp.LevelSet); err != nil {
		return
	}
	if args.Mask, err = c.Mask(); err != nil {
		return
	}
	for _, spec := range cp.Sources {
		var src types.Array
		if src, err = c.Sample(spec); err != nil {
			return
		}
		args.SourceFields = append(args.SourceFields, src)
	}
	err = timed("fast marching", func() (err error) {
		res, err = gateway.ComputeExtensionFields(args)
		return
	})
	return
}

func (c *Case) ReportExtension(res *gateway.ExtensionFieldsResult, show bool) {
	dist := asFloat64(res.Distance)
	lo, hi, n := finiteRange(dist)
	fmt.Printf("fill box %s of ghost box %s, %d bytes per field\n", res.FillBox, res.GhostBox, c.FieldBytes())
	fmt.Printf("%d front points, %d known points, %d finite distances in [%g, %g]\n",
		res.NumFront, res.NumKnown, n, lo, hi)
	printable := show && res.Distance.NDim() == 2
	if printable {
		printField("distance", res.Distance.Dims, dist)
	}
	for i, ext := range res.ExtensionFields {
		data := asFloat64(ext)
		lo, hi, _ = finiteRange(data)
		fmt.Printf("extension[%d] (%s) in [%g, %g]\n", i, c.Params.Sources[i].Type, lo, hi)
		if printable {
			printField(fmt.Sprintf("extension[%d]", i), ext.Dims, data)
		}
	}
}
