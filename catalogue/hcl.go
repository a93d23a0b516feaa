package catalogue

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/meikuraledutech/studyplan"
)

type hclCatalogue struct {
	Modules []*hclModule `hcl:"module,block"`
}

type hclModule struct {
	Name     string   `hcl:"name,label"`
	Requires []string `hcl:"requires,optional"`
}

// DecodeHCL decodes an HCL catalogue. Records carry the line of their
// module block.
func DecodeHCL(src []byte, filename string) ([]studyplan.Record, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var doc hclCatalogue
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, diags
	}

	records := make([]studyplan.Record, 0, len(doc.Modules))
	for _, m := range doc.Modules {
		records = append(records, studyplan.Record{Name: m.Name, Prerequisites: m.Requires})
	}

	if body, ok := file.Body.(*hclsyntax.Body); ok {
		i := 0
		for _, block := range body.Blocks {
			if block.Type != "module" || i >= len(records) {
				continue
			}
			records[i].Line = block.TypeRange.Start.Line
			i++
		}
	}
	return records, nil
}
