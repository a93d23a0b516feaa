package studyplan

import (
	"fmt"
	"strings"
)

// MalformedRecordError reports a record without a module name.
type MalformedRecordError struct {
	Record Record
}

func (e *MalformedRecordError) Error() string {
	if e.Record.Line > 0 {
		return fmt.Sprintf("studyplan: malformed record on line %d: missing module name", e.Record.Line)
	}
	return fmt.Sprintf("studyplan: malformed record %q: missing module name", strings.Join(e.Record.Prerequisites, " "))
}

// Is reports whether target is ErrMalformedRecord.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// CycleDetectedError reports the modules left unscheduled when no further
// semester could be formed. Remaining is sorted by name.
type CycleDetectedError struct {
	Remaining []string
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("studyplan: cycle detected among %d modules: %s", len(e.Remaining), strings.Join(e.Remaining, " "))
}

// Is reports whether target is ErrCycleDetected.
func (e *CycleDetectedError) Is(target error) bool {
	return target == ErrCycleDetected
}
