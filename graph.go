package studyplan

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// RecordSource yields catalogue records one at a time. Next returns io.EOF
// once the input is exhausted.
type RecordSource interface {
	Next() (Record, error)
}

type sliceSource struct {
	records []Record
	pos     int
}

// Records returns a RecordSource over an in-memory slice.
func Records(records []Record) RecordSource {
	return &sliceSource{records: records}
}

func (s *sliceSource) Next() (Record, error) {
	if s.pos >= len(s.records) {
		return Record{}, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

// module is a graph node. Edges are indices into Graph.modules.
type module struct {
	name          string
	prerequisites []int
	dependents    []int
}

// Graph maps module names to nodes stored in an arena. It is immutable once
// Build returns.
type Graph struct {
	modules []module
	index   map[string]int
	edges   map[[2]int]struct{}
}

func newGraph() *Graph {
	return &Graph{
		index: make(map[string]int),
		edges: make(map[[2]int]struct{}),
	}
}

// Build consumes src to completion and returns the dependency graph.
// A record without a module name fails the whole build with a
// *MalformedRecordError.
func Build(src RecordSource) (*Graph, error) {
	g := newGraph()
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("studyplan: read record: %w", err)
		}
		if err := g.add(rec); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// BuildRecords is Build over a slice of records.
func BuildRecords(records []Record) (*Graph, error) {
	return Build(Records(records))
}

func (g *Graph) add(rec Record) error {
	if strings.TrimSpace(rec.Name) == "" {
		return &MalformedRecordError{Record: rec}
	}
	if lo.Contains(rec.Prerequisites, "") {
		return &MalformedRecordError{Record: rec}
	}

	to := g.ensure(rec.Name)
	for _, name := range lo.Uniq(rec.Prerequisites) {
		from := g.ensure(name)
		edge := [2]int{from, to}
		if _, ok := g.edges[edge]; ok {
			continue
		}
		g.edges[edge] = struct{}{}
		g.modules[from].dependents = append(g.modules[from].dependents, to)
		g.modules[to].prerequisites = append(g.modules[to].prerequisites, from)
	}
	return nil
}

func (g *Graph) ensure(name string) int {
	if i, ok := g.index[name]; ok {
		return i
	}
	g.modules = append(g.modules, module{name: name})
	g.index[name] = len(g.modules) - 1
	return len(g.modules) - 1
}

// Len returns the number of distinct modules.
func (g *Graph) Len() int {
	return len(g.modules)
}

// Has reports whether name is a module of the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Modules returns all module names, sorted.
func (g *Graph) Modules() []string {
	names := lo.Map(g.modules, func(m module, _ int) string { return m.name })
	slices.Sort(names)
	return names
}

// Prerequisites returns the distinct prerequisites of name, sorted.
func (g *Graph) Prerequisites(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	return g.names(g.modules[i].prerequisites)
}

// Dependents returns the modules that require name, sorted.
func (g *Graph) Dependents(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	return g.names(g.modules[i].dependents)
}

// Pending returns the number of distinct prerequisites of name, which is the
// counter the scheduler starts from.
func (g *Graph) Pending(name string) int {
	i, ok := g.index[name]
	if !ok {
		return 0
	}
	return len(g.modules[i].prerequisites)
}

func (g *Graph) names(indices []int) []string {
	names := lo.Map(indices, func(i int, _ int) string { return g.modules[i].name })
	slices.Sort(names)
	return names
}
