package pipeline

import (
	"errors"
	"fmt"
	"maps"

	"github.com/iamhimansu/csvstream/pkg/csvstream/dialect"
	"github.com/iamhimansu/csvstream/pkg/csvstream/types"
)

// ErrIncompleteRow is reported when the token stream ends part way through a row.
var ErrIncompleteRow = errors.New("csvstream: incomplete final row")

// AssemblyStage regroups the flat token stream into rows keyed by header.
//
// Token i belongs to headers[i % len(headers)]. Tokens of ignored columns are
// dropped but still advance i, so a row with a missing or extra field shifts
// every following row; this is tolerated, not detected.
type AssemblyStage struct {
	headers  []string
	dialect  *dialect.Dialect
	template types.Row
	tokens   *Queue[string]
	rows     *Queue[types.Row]
	progress *Progress
}

func newRowTemplate(headers []string, d *dialect.Dialect) types.Row {
	template := make(types.Row, len(headers))
	for _, h := range headers {
		if !d.Ignored(h) {
			template[h] = ""
		}
	}
	return template
}

// Run stops once the expected number of rows is assembled or the token
// queue is closed and drained. Any error is recorded before the stage
// reports itself finished.
func (s *AssemblyStage) Run() (err error) {
	defer func() {
		s.progress.Fail(err)
		s.rows.Close()
		s.progress.Finish()
	}()

	columns := len(s.headers)
	if columns == 0 {
		return nil
	}
	expected := s.progress.Expected()

	index := 0
	row := maps.Clone(s.template)
	for s.progress.Assembled() < expected {
		token, ok := s.tokens.Pop()
		if !ok {
			if rest := index % columns; rest != 0 {
				return fmt.Errorf("%w: %d of %d fields after row %d", ErrIncompleteRow, rest, columns, s.progress.Assembled())
			}
			return nil
		}

		column := s.headers[index%columns]
		if !s.dialect.Ignored(column) {
			row[column] = token
		}
		index++

		if index%columns == 0 {
			s.rows.Push(row)
			s.progress.RowAssembled()
			row = maps.Clone(s.template)
		}
	}
	return nil
}
