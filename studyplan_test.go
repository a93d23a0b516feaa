package studyplan

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestWithPrerequisiteAppendsRecord(t *testing.T) {
	g := NewWithT(t)

	c := &Catalogue{ID: "cs", Records: []Record{{Name: "A"}}}
	next, err := c.WithPrerequisite("B", "A")

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(next.Records).To(Equal([]Record{{Name: "A"}, {Name: "B", Prerequisites: []string{"A"}}}))
	g.Expect(c.Records).To(HaveLen(1))
}

func TestWithPrerequisiteRejectsNewCycle(t *testing.T) {
	g := NewWithT(t)

	c := &Catalogue{Records: []Record{{Name: "A", Prerequisites: []string{"B"}}, {Name: "B"}}}
	_, err := c.WithPrerequisite("B", "A")

	var cycle *CycleDetectedError
	g.Expect(err).To(BeAssignableToTypeOf(cycle))
	g.Expect(err.(*CycleDetectedError).Remaining).To(Equal([]string{"A", "B"}))
}

func TestWithPrerequisiteOnCyclicCatalogue(t *testing.T) {
	g := NewWithT(t)

	c := &Catalogue{Records: []Record{
		{Name: "A", Prerequisites: []string{"B"}},
		{Name: "B", Prerequisites: []string{"A"}},
		{Name: "C"},
	}}

	// Edits outside the cycle, or into it from already blocked modules, are fine.
	_, err := c.WithPrerequisite("D", "C")
	g.Expect(err).NotTo(HaveOccurred())
	_, err = c.WithPrerequisite("A", "C")
	g.Expect(err).NotTo(HaveOccurred())

	// Blocking a schedulable module grows the remainder.
	_, err = c.WithPrerequisite("C", "A")
	g.Expect(err).To(MatchError(ErrCycleDetected))
	g.Expect(err.(*CycleDetectedError).Remaining).To(ConsistOf("A", "B", "C"))
}

func TestWithPrerequisiteMalformed(t *testing.T) {
	g := NewWithT(t)

	c := &Catalogue{Records: []Record{{Name: "A"}}}
	_, err := c.WithPrerequisite("", "A")

	g.Expect(err).To(MatchError(ErrMalformedRecord))
}
