package catalogue

import (
	"errors"
	"io"

	"github.com/meikuraledutech/studyplan"
	"gopkg.in/yaml.v3"
)

type yamlCatalogue struct {
	Modules []yamlModule `yaml:"modules"`
}

type yamlModule struct {
	Name     string   `yaml:"name"`
	Requires []string `yaml:"requires"`
}

// DecodeYAML decodes a YAML catalogue. An empty document yields no records.
func DecodeYAML(r io.Reader) ([]studyplan.Record, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc yamlCatalogue
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	records := make([]studyplan.Record, 0, len(doc.Modules))
	for _, m := range doc.Modules {
		records = append(records, studyplan.Record{Name: m.Name, Prerequisites: m.Requires})
	}
	return records, nil
}
