package catalogue

import (
	"encoding/json"
	"fmt"

	"github.com/meikuraledutech/studyplan"
	"github.com/mitchellh/mapstructure"
	"github.com/tailscale/hujson"
)

type jsonCatalogue struct {
	Modules []jsonModule `mapstructure:"modules"`
}

type jsonModule struct {
	Name     string   `mapstructure:"name"`
	Requires []string `mapstructure:"requires"`
}

// DecodeJSON decodes a JSON catalogue. Comments and trailing commas are
// accepted.
func DecodeJSON(src []byte) ([]studyplan.Record, error) {
	standardized, err := hujson.Standardize(src)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(standardized, &raw); err != nil {
		return nil, err
	}

	var doc jsonCatalogue
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	records := make([]studyplan.Record, 0, len(doc.Modules))
	for _, m := range doc.Modules {
		records = append(records, studyplan.Record{Name: m.Name, Prerequisites: m.Requires})
	}
	return records, nil
}
