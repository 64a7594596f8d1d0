package pipeline

import (
	"errors"
	"io"

	"github.com/iamhimansu/csvstream/pkg/csvstream/parser"
	"github.com/iamhimansu/csvstream/pkg/csvstream/storage"
)

// ReadingStage streams lines from the source, splits them and feeds every
// field, in order, into the token queue.
type ReadingStage struct {
	source   storage.LineReader
	splitter parser.Tokenizer
	tokens   *Queue[string]
	progress *Progress
	pending  []string
}

// Run reads until the source is exhausted. The token queue is closed on
// return, also on error, so the assembly stage never waits forever. An error
// is recorded before the queue closes.
func (s *ReadingStage) Run() (err error) {
	defer func() {
		s.progress.Fail(err)
		s.tokens.Close()
	}()

	s.push(s.pending)
	s.pending = nil

	for {
		line, err := s.source.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		s.push(s.splitter.Split(line))
	}
}

func (s *ReadingStage) push(fields []string) {
	for _, field := range fields {
		s.tokens.Push(field)
	}
	s.progress.AddTokens(int64(len(fields)))
}
