// Package studyplan partitions a catalogue of modules into semesters so that
// every module's prerequisites are taken in a strictly earlier semester.
package studyplan

import (
	"errors"
	"time"
)

// Record is one catalogue entry: a module name followed by the names of the
// modules it requires.
// Line is the 1-based source line when the record came from a file, 0 otherwise.
type Record struct {
	Name          string   `json:"name"`
	Prerequisites []string `json:"prerequisites,omitempty"`
	Line          int      `json:"-"`
}

// Catalogue is the persisted unit: an ordered list of records under an ID.
type Catalogue struct {
	ID      string   `json:"id,omitempty"`
	Records []Record `json:"records"`
}

// Level is one semester of a schedule. Index starts at 1.
// Modules are sorted by name; the order carries no meaning.
type Level struct {
	Index   int      `json:"index"`
	Modules []string `json:"modules"`
}

// Schedule is the result of a successful calculation.
type Schedule struct {
	Levels    []Level   `json:"levels"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Graph builds the dependency graph of the catalogue's records.
func (c *Catalogue) Graph() (*Graph, error) {
	return BuildRecords(c.Records)
}

// Schedule builds the catalogue's graph and calculates its semesters.
func (c *Catalogue) Schedule() (*Schedule, error) {
	g, err := c.Graph()
	if err != nil {
		return nil, err
	}
	return Calculate(g)
}

// WithPrerequisite returns a copy of c with a record stating that module
// requires prerequisite. The edit fails with a *CycleDetectedError when it
// leaves more modules unscheduled than c already does, so a catalogue that is
// cyclic can still be edited away from its cycle.
func (c *Catalogue) WithPrerequisite(module, prerequisite string) (*Catalogue, error) {
	next := c.Clone()
	next.Records = append(next.Records, Record{Name: module, Prerequisites: []string{prerequisite}})

	_, err := next.Schedule()
	var after *CycleDetectedError
	if !errors.As(err, &after) {
		if err != nil {
			return nil, err
		}
		return next, nil
	}

	// Adding an edge never schedules a module that was blocked before, so the
	// remainder can only grow.
	_, err = c.Schedule()
	var before *CycleDetectedError
	if errors.As(err, &before) && len(before.Remaining) == len(after.Remaining) {
		return next, nil
	}
	return nil, after
}

// Clone returns a deep copy of the catalogue.
func (c *Catalogue) Clone() *Catalogue {
	out := &Catalogue{ID: c.ID, Records: make([]Record, len(c.Records))}
	for i, rec := range c.Records {
		out.Records[i] = rec.Clone()
	}
	return out
}

// Clone returns a copy of the record that shares no memory with r.
func (r Record) Clone() Record {
	if r.Prerequisites != nil {
		r.Prerequisites = append([]string(nil), r.Prerequisites...)
	}
	return r
}

// Clone returns a deep copy of the schedule.
func (s *Schedule) Clone() *Schedule {
	out := &Schedule{Levels: make([]Level, len(s.Levels)), CreatedAt: s.CreatedAt}
	for i, l := range s.Levels {
		out.Levels[i] = Level{Index: l.Index, Modules: append([]string(nil), l.Modules...)}
	}
	return out
}
