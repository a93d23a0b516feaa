package studyplan

import (
	"fmt"
	"slices"
	"strings"
)

// Calculate partitions the modules of g into semesters.
//
// Each round takes the modules whose prerequisites were all scheduled in
// earlier rounds. A module whose last prerequisites finish in round k is
// placed in round k+1, never in round k. When a round finds no such module
// while some remain, Calculate fails with a *CycleDetectedError and returns
// no schedule.
//
// The counters live in a private slice, so g is left untouched.
func Calculate(g *Graph) (*Schedule, error) {
	pending := make([]int, len(g.modules))
	var ready []int
	for i, m := range g.modules {
		pending[i] = len(m.prerequisites)
		if pending[i] == 0 {
			ready = append(ready, i)
		}
	}

	levels := []Level{}
	scheduled := 0
	for scheduled < len(g.modules) {
		if len(ready) == 0 {
			return nil, &CycleDetectedError{Remaining: g.unscheduled(pending)}
		}

		level := Level{Index: len(levels) + 1, Modules: make([]string, 0, len(ready))}
		var next []int
		for _, i := range ready {
			level.Modules = append(level.Modules, g.modules[i].name)
			for _, d := range g.modules[i].dependents {
				pending[d]--
				if pending[d] == 0 {
					next = append(next, d)
				}
			}
		}
		slices.Sort(level.Modules)

		levels = append(levels, level)
		scheduled += len(ready)
		ready = next
	}

	return &Schedule{Levels: levels}, nil
}

// Schedule is Calculate(g).
func (g *Graph) Schedule() (*Schedule, error) {
	return Calculate(g)
}

// unscheduled returns the names of modules still waiting on a prerequisite.
func (g *Graph) unscheduled(pending []int) []string {
	var remaining []int
	for i, n := range pending {
		if n > 0 {
			remaining = append(remaining, i)
		}
	}
	return g.names(remaining)
}

// Len returns the number of semesters.
func (s *Schedule) Len() int {
	return len(s.Levels)
}

// Level returns the semester with the given 1-based index.
func (s *Schedule) Level(index int) (Level, bool) {
	if index < 1 || index > len(s.Levels) {
		return Level{}, false
	}
	return s.Levels[index-1], true
}

// LevelOf returns the semester index a module was assigned to.
func (s *Schedule) LevelOf(name string) (int, bool) {
	for _, l := range s.Levels {
		if slices.Contains(l.Modules, name) {
			return l.Index, true
		}
	}
	return 0, false
}

// Modules returns the number of scheduled modules.
func (s *Schedule) Modules() int {
	n := 0
	for _, l := range s.Levels {
		n += len(l.Modules)
	}
	return n
}

// String renders one "Semester N: A B C" line per level.
func (s *Schedule) String() string {
	var b strings.Builder
	for _, l := range s.Levels {
		fmt.Fprintf(&b, "Semester %d: %s\n", l.Index, strings.Join(l.Modules, " "))
	}
	return b.String()
}
