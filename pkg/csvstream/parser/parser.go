package parser

import (
	"github.com/iamhimansu/csvstream/pkg/csvstream/dialect"
)

// Tokenizer turns one line of text into an ordered list of field values.
type Tokenizer interface {
	Split(line string) []string
}

// Splitter is a Tokenizer bound to one dialect.
type Splitter struct {
	dialect *dialect.Dialect
}

func NewSplitter(d *dialect.Dialect) *Splitter {
	return &Splitter{dialect: d}
}

func (s *Splitter) Split(line string) []string {
	return Split(line, s.dialect)
}

func (s *Splitter) Dialect() *dialect.Dialect {
	return s.dialect
}
