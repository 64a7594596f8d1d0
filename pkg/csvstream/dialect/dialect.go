package dialect

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrInvalidDialect is returned by Validate for a dialect that cannot drive a parse.
var ErrInvalidDialect = errors.New("csvstream: invalid dialect")

// Dialect describes how one CSV variant is split into fields and rows.
// Setters return the receiver so calls can be chained:
//
//	d := dialect.New().SetDelimiter("|").SetHeader(false).SetColumnNames("id", "name")
//
// A dialect must not be mutated while a parse configured by it is starting;
// the Reader works on a snapshot taken by Read.
type Dialect struct {
	Delimiter        string
	Quote            byte
	DoubleQuote      bool
	HasHeader        bool
	SkipInitialSpace bool
	Trim             []byte
	Columns          []string
	Ignore           map[string]struct{}
}

// New returns a dialect with the excel defaults.
func New() *Dialect {
	return &Dialect{
		Delimiter:   ",",
		Quote:       '"',
		DoubleQuote: true,
		HasHeader:   true,
		Ignore:      make(map[string]struct{}),
	}
}

func (d *Dialect) SetDelimiter(delimiter string) *Dialect {
	d.Delimiter = delimiter
	return d
}

func (d *Dialect) SetQuoteCharacter(quote byte) *Dialect {
	d.Quote = quote
	return d
}

func (d *Dialect) SetDoubleQuote(enabled bool) *Dialect {
	d.DoubleQuote = enabled
	return d
}

func (d *Dialect) SetHeader(present bool) *Dialect {
	d.HasHeader = present
	return d
}

func (d *Dialect) SetSkipInitialSpace(enabled bool) *Dialect {
	d.SkipInitialSpace = enabled
	return d
}

// SetTrimCharacters replaces the set of characters stripped from both ends of every field.
func (d *Dialect) SetTrimCharacters(chars ...byte) *Dialect {
	d.Trim = slices.Clone(chars)
	return d
}

// SetColumnNames supplies the header for files without a header line.
func (d *Dialect) SetColumnNames(names ...string) *Dialect {
	d.Columns = slices.Clone(names)
	return d
}

// SetIgnoreColumns adds names to the set of columns left out of every row.
func (d *Dialect) SetIgnoreColumns(names ...string) *Dialect {
	if d.Ignore == nil {
		d.Ignore = make(map[string]struct{}, len(names))
	}
	for _, name := range names {
		d.Ignore[name] = struct{}{}
	}
	return d
}

// Ignored reports whether column is in the ignore set.
func (d *Dialect) Ignored(column string) bool {
	_, ok := d.Ignore[column]
	return ok
}

// Trims reports whether c is one of the trim characters. The set is compared
// byte by byte; multi-byte UTF-8 sequences are not decoded.
func (d *Dialect) Trims(c byte) bool {
	return bytes.IndexByte(d.Trim, c) >= 0
}

func (d *Dialect) Validate() error {
	if d.Delimiter == "" {
		return fmt.Errorf("%w: delimiter must not be empty", ErrInvalidDialect)
	}
	return nil
}

// Clone returns a deep copy that shares no state with d.
func (d *Dialect) Clone() *Dialect {
	c := *d
	c.Trim = slices.Clone(d.Trim)
	c.Columns = slices.Clone(d.Columns)
	c.Ignore = maps.Clone(d.Ignore)
	if c.Ignore == nil {
		c.Ignore = make(map[string]struct{})
	}
	return &c
}
