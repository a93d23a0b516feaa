package catalogue

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/meikuraledutech/studyplan"
)

const maxLineSize = 1 << 20

// Reader streams records from a plain text catalogue.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{scanner: scanner}
}

// Next returns the next record, or io.EOF once the input is exhausted.
// Blank lines and lines whose first token starts with '#' are skipped.
func (r *Reader) Next() (studyplan.Record, error) {
	for r.scanner.Scan() {
		r.line++
		fields := strings.Fields(r.scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		rec := studyplan.Record{Name: fields[0], Line: r.line}
		if len(fields) > 1 {
			rec.Prerequisites = fields[1:]
		}
		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return studyplan.Record{}, fmt.Errorf("catalogue: line %d: %w", r.line+1, err)
	}
	return studyplan.Record{}, io.EOF
}
