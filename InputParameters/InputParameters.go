package InputParameters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/notargets/golsm/model_problems"
	"github.com/notargets/golsm/types"
	"github.com/notargets/golsm/utils"
)

// Parameters obtained from a YAML or HCL case file. Sizes, bounds and mask
// ranges are in natural (x, y, z) order.
type CaseParameters struct {
	Title      string                        `json:"Title" hcl:"title,optional"`
	Operation  string                        `json:"Operation" hcl:"operation"` // extend, distance or upwind
	Size       []int                         `json:"Size" hcl:"n"`
	Lower      []float64                     `json:"Lower" hcl:"lower"`
	Upper      []float64                     `json:"Upper" hcl:"upper"`
	Order      int                           `json:"Order,omitempty" hcl:"order,optional"`
	GhostWidth int                           `json:"GhostWidth,omitempty" hcl:"ghost_width,optional"`
	Precision  string                        `json:"Precision,omitempty" hcl:"precision,optional"`
	Mask       []string                      `json:"Mask,omitempty" hcl:"mask,optional"` // excluded regions, e.g. "6, :"
	LevelSet   model_problems.FunctionSpec   `json:"LevelSet" hcl:"level_set,block"`
	Sources    []model_problems.FunctionSpec `json:"Sources,omitempty" hcl:"source,block"`
	Velocity   []model_problems.FunctionSpec `json:"Velocity,omitempty" hcl:"velocity,block"`
}

// ReadCaseFile decodes HCL for a .hcl extension and YAML otherwise.
func ReadCaseFile(path string) (cp *CaseParameters, err error) {
	cp = &CaseParameters{}
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		if err = cp.ParseHCLFile(path); err != nil {
			return nil, err
		}
	} else {
		var data []byte
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("unable to read case file %s: %w", path, err)
		}
		if err = cp.Parse(data); err != nil {
			return nil, fmt.Errorf("unable to parse case file %s: %w", path, err)
		}
	}
	if err = cp.Validate(); err != nil {
		return nil, fmt.Errorf("case file %s: %w", path, err)
	}
	return
}

func (cp *CaseParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, cp)
}

func (cp *CaseParameters) ParseHCLFile(path string) error {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	if diags = gohcl.DecodeBody(hclFile.Body, nil, cp); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	return nil
}

func (cp *CaseParameters) Validate() error {
	nd := len(cp.Size)
	if len(cp.Lower) != nd || len(cp.Upper) != nd {
		return fmt.Errorf("have %d sizes, %d lower and %d upper bounds", nd, len(cp.Lower), len(cp.Upper))
	}
	switch strings.ToLower(cp.Operation) {
	case "extend", "distance":
		if nd != 2 && nd != 3 {
			return fmt.Errorf("%s needs a 2 or 3 dimensional domain, have %d", cp.Operation, nd)
		}
	case "upwind":
		if nd != 3 {
			return fmt.Errorf("upwind needs a 3 dimensional domain, have %d", nd)
		}
		if len(cp.Velocity) != nd {
			return fmt.Errorf("upwind needs %d velocity components, have %d", nd, len(cp.Velocity))
		}
	default:
		return fmt.Errorf("unknown operation %q", cp.Operation)
	}
	if _, err := cp.GetPrecision(); err != nil {
		return err
	}
	return nil
}

// GetPrecision defaults to float64.
func (cp *CaseParameters) GetPrecision() (p types.Precision, err error) {
	if cp.Precision == "" {
		return types.Float64, nil
	}
	var ok bool
	if p, ok = types.PrecisionNameMap[strings.ToLower(cp.Precision)]; !ok {
		err = fmt.Errorf("unknown precision %q", cp.Precision)
	}
	return
}

func (cp *CaseParameters) Domain() (*model_problems.Domain, error) {
	return model_problems.NewDomain(cp.Size, cp.Lower, cp.Upper)
}

// MaskRegions converts the mask phrases into storage-order boxes of d.
func (cp *CaseParameters) MaskRegions(d *model_problems.Domain) (regions []utils.Box, err error) {
	for _, m := range cp.Mask {
		phrases := strings.Split(m, ",")
		if len(phrases) >= 2 {
			phrases[0], phrases[1] = phrases[1], phrases[0]
		}
		var region utils.Box
		if region, err = utils.ParseRegion(phrases, d.Grid.Box); err != nil {
			return nil, fmt.Errorf("mask %q: %w", m, err)
		}
		regions = append(regions, region)
	}
	return
}

func (cp *CaseParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", cp.Title)
	fmt.Printf("[%s]\t\t= Operation\n", cp.Operation)
	fmt.Printf("%v\t\t= Size\n", cp.Size)
	fmt.Printf("%v -> %v\t= Bounds\n", cp.Lower, cp.Upper)
	fmt.Printf("[%d]\t\t\t= Order\n", cp.Order)
	fmt.Printf("[%d]\t\t\t= Ghost Width\n", cp.GhostWidth)
	fmt.Printf("[%s]\t\t= Level Set\n", cp.LevelSet.Type)
	for i, s := range cp.Sources {
		fmt.Printf("Sources[%d] = %s\n", i, s.Type)
	}
	for i, v := range cp.Velocity {
		fmt.Printf("Velocity[%d] = %s\n", i, v.Type)
	}
	for i, m := range cp.Mask {
		fmt.Printf("Mask[%d] = %q\n", i, m)
	}
}
