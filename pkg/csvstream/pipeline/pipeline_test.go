package pipeline

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamhimansu/csvstream/pkg/csvstream/dialect"
	"github.com/iamhimansu/csvstream/pkg/csvstream/types"
)

// lineSource serves lines from memory.
type lineSource struct {
	lines []string
	pos   int
	err   error
}

func (s *lineSource) ReadLine() (string, error) {
	if s.pos == len(s.lines) {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}

func (s *lineSource) CountLines() (int64, error) { return int64(len(s.lines)), nil }
func (s *lineSource) Rewind() error              { s.pos = 0; return nil }
func (s *lineSource) Close() error               { return nil }

func drain(q *Queue[types.Row]) []types.Row {
	var rows []types.Row
	for {
		row, ok := q.Pop()
		if !ok {
			return rows
		}
		rows = append(rows, row)
	}
}

func TestPipeline_AssemblesRowsInOrder(t *testing.T) {
	p := New(Config{
		Source:   &lineSource{lines: []string{"1,2", "", "3,4"}},
		Dialect:  dialect.New(),
		Headers:  []string{"a", "b"},
		Expected: 2,
	})
	p.Start()

	rows := drain(p.Rows())
	require.NoError(t, p.Wait())
	assert.Equal(t, []types.Row{{"a": "1", "b": "2"}, {"a": "3", "b": "4"}}, rows)
	assert.True(t, p.Progress().Finished())
	assert.Equal(t, int64(4), p.Progress().Tokens())
}

func TestPipeline_PendingTokensComeFirst(t *testing.T) {
	p := New(Config{
		Source:   &lineSource{lines: []string{"c,d"}},
		Dialect:  dialect.New().SetHeader(false),
		Headers:  []string{"0", "1"},
		Pending:  []string{"a", "b"},
		Expected: 2,
	})
	p.Start()

	rows := drain(p.Rows())
	require.NoError(t, p.Wait())
	assert.Equal(t, []types.Row{{"0": "a", "1": "b"}, {"0": "c", "1": "d"}}, rows)
}

func TestPipeline_IgnoredColumnsStillAdvance(t *testing.T) {
	d := dialect.New().SetIgnoreColumns("b")
	p := New(Config{
		Source:   &lineSource{lines: []string{"1,2,3", "4,5,6"}},
		Dialect:  d,
		Headers:  []string{"a", "b", "c"},
		Expected: 2,
	})
	p.Start()

	rows := drain(p.Rows())
	require.NoError(t, p.Wait())
	assert.Equal(t, []types.Row{{"a": "1", "c": "3"}, {"a": "4", "c": "6"}}, rows)
}

func TestPipeline_RowsAreIndependent(t *testing.T) {
	p := New(Config{
		Source:   &lineSource{lines: []string{"1", "2"}},
		Dialect:  dialect.New(),
		Headers:  []string{"a"},
		Expected: 2,
	})
	p.Start()

	rows := drain(p.Rows())
	require.NoError(t, p.Wait())
	require.Len(t, rows, 2)
	rows[0]["a"] = "changed"
	assert.Equal(t, "2", rows[1]["a"])
}

func TestPipeline_IncompleteFinalRow(t *testing.T) {
	p := New(Config{
		Source:   &lineSource{lines: []string{"1,2", "3"}},
		Dialect:  dialect.New(),
		Headers:  []string{"a", "b"},
		Expected: 2,
	})
	p.Start()

	rows := drain(p.Rows())
	err := p.Wait()
	assert.ErrorIs(t, err, ErrIncompleteRow)
	assert.ErrorIs(t, p.Err(), ErrIncompleteRow)
	assert.Len(t, rows, 1)
}

func TestPipeline_StopsAtExpected(t *testing.T) {
	// a shifted row produces more tokens than expected rows need
	p := New(Config{
		Source:   &lineSource{lines: []string{"1,2,3", "4,5"}},
		Dialect:  dialect.New(),
		Headers:  []string{"a", "b"},
		Expected: 2,
	})
	p.Start()

	rows := drain(p.Rows())
	require.NoError(t, p.Wait())
	assert.Equal(t, []types.Row{{"a": "1", "b": "2"}, {"a": "3", "b": "4"}}, rows)
}

func TestPipeline_SourceError(t *testing.T) {
	boom := errors.New("disk gone")
	p := New(Config{
		Source:   &lineSource{lines: []string{"1,2"}, err: boom},
		Dialect:  dialect.New(),
		Headers:  []string{"a", "b"},
		Expected: 3,
	})
	p.Start()

	rows := drain(p.Rows())
	assert.ErrorIs(t, p.Wait(), boom)
	assert.ErrorIs(t, p.Err(), boom)
	assert.Len(t, rows, 1)
	assert.True(t, p.Progress().Finished())
}

func TestPipeline_NoHeaders(t *testing.T) {
	p := New(Config{
		Source:   &lineSource{lines: []string{"1,2"}},
		Dialect:  dialect.New(),
		Expected: 0,
	})
	p.Start()

	assert.Empty(t, drain(p.Rows()))
	require.NoError(t, p.Wait())
}

func TestPipeline_LargeInputKeepsOrder(t *testing.T) {
	const n = 20000
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("%d,row%d", i, i)
	}
	p := New(Config{
		Source:   &lineSource{lines: lines},
		Dialect:  dialect.New(),
		Headers:  []string{"id", "name"},
		Expected: n,
	})
	p.Start()

	rows := drain(p.Rows())
	require.NoError(t, p.Wait())
	require.Len(t, rows, n)
	for i, row := range rows {
		require.Equal(t, fmt.Sprint(i), row["id"])
		require.Equal(t, fmt.Sprintf("row%d", i), row["name"])
	}
}
