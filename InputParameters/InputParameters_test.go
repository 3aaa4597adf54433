package InputParameters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/golsm/types"
	"github.com/notargets/golsm/utils"
)

var yamlCase = `
Title: "Circle with a wall"
Operation: extend
Size: [21, 11]
Lower: [-1, -0.5]
Upper: [1, 0.5]
Order: 2
Mask: ["15, :"]
LevelSet:
  Type: circle
  Center: [0, 0]
  Radius: 0.3
Sources:
  - Type: "y"
  - Type: constant
    Value: 2.5
`

var hclCase = `
title     = "Sine derivative"
operation = "upwind"
n         = [17, 5, 5]
lower     = [0, 0, 0]
upper     = [6.2831853, 1, 1]
ghost_width = 2
precision = "single"

level_set {
  type = "sine"
  axis = 0
}

velocity {
  type  = "constant"
  value = 1
}
velocity {
  type = "constant"
}
velocity {
  type  = "constant"
  value = -1
}
`

func writeCase(t *testing.T, name, body string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadCaseFile(t *testing.T) {
	{ // YAML
		cp, err := ReadCaseFile(writeCase(t, "circle.yaml", yamlCase))
		require.NoError(t, err)
		cp.Print()
		assert.Equal(t, "extend", cp.Operation)
		assert.Equal(t, []int{21, 11}, cp.Size)
		assert.Equal(t, 0.3, cp.LevelSet.Radius)
		require.Len(t, cp.Sources, 2)
		// y and N are YAML 1.1 booleans unless quoted
		assert.Equal(t, "y", cp.Sources[0].Type)
		assert.Equal(t, 2.5, cp.Sources[1].Value)
		p, err := cp.GetPrecision()
		require.NoError(t, err)
		assert.Equal(t, types.Float64, p)

		d, err := cp.Domain()
		require.NoError(t, err)
		regions, err := cp.MaskRegions(d)
		require.NoError(t, err)
		require.Len(t, regions, 1)
		// x index 15 is storage axis 1
		want, _ := utils.NewBoxFromBounds(utils.Index{0, 15}, utils.Index{10, 15})
		assert.True(t, regions[0].Equal(want), regions[0].String())
	}
	{ // HCL
		cp, err := ReadCaseFile(writeCase(t, "sine.hcl", hclCase))
		require.NoError(t, err)
		assert.Equal(t, "upwind", cp.Operation)
		assert.Equal(t, 2, cp.GhostWidth)
		assert.Equal(t, "sine", cp.LevelSet.Type)
		require.Len(t, cp.Velocity, 3)
		assert.Equal(t, -1., cp.Velocity[2].Value)
		p, err := cp.GetPrecision()
		require.NoError(t, err)
		assert.Equal(t, types.Float32, p)
	}
}

func TestCaseValidation(t *testing.T) {
	for name, cp := range map[string]CaseParameters{
		"bounds":    {Operation: "extend", Size: []int{5, 5}, Lower: []float64{0}, Upper: []float64{1, 1}},
		"operation": {Operation: "evolve", Size: []int{5, 5}, Lower: []float64{0, 0}, Upper: []float64{1, 1}},
		"1D extend": {Operation: "extend", Size: []int{5}, Lower: []float64{0}, Upper: []float64{1}},
		"2D upwind": {Operation: "upwind", Size: []int{5, 5}, Lower: []float64{0, 0}, Upper: []float64{1, 1}},
		"precision": {Operation: "distance", Size: []int{5, 5}, Lower: []float64{0, 0}, Upper: []float64{1, 1},
			Precision: "half"},
	} {
		assert.Error(t, cp.Validate(), name)
	}
	_, err := ReadCaseFile(writeCase(t, "broken.hcl", "operation = "))
	assert.Error(t, err)
	_, err = ReadCaseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
