package parser

import (
	"testing"

	"github.com/iamhimansu/csvstream/pkg/csvstream/dialect"
	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		dialect *dialect.Dialect
		want    []string
	}{
		{
			name: "basicFields",
			line: "a,b,c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "emptyLine",
			line: "",
			want: nil,
		},
		{
			name: "quotedDelimiterKeepsQuotes",
			line: `"Doe, John",30`,
			want: []string{`"Doe, John"`, "30"},
		},
		{
			name: "trailingDelimiterDropsEmptyField",
			line: "a,b,",
			want: []string{"a", "b"},
		},
		{
			name: "leadingEmptyField",
			line: ",a",
			want: []string{"", "a"},
		},
		{
			name: "middleEmptyField",
			line: "a,,b",
			want: []string{"a", "", "b"},
		},
		{
			name: "onlyDelimiter",
			line: ",",
			want: []string{""},
		},
		{
			name:    "tabDelimiter",
			line:    "1\t2",
			dialect: dialect.New().SetDelimiter("\t"),
			want:    []string{"1", "2"},
		},
		{
			name:    "multiCharDelimiter",
			line:    "a::b::c",
			dialect: dialect.New().SetDelimiter("::"),
			want:    []string{"a", "b", "c"},
		},
		{
			name:    "partialMultiCharDelimiterIsData",
			line:    "a:b::c",
			dialect: dialect.New().SetDelimiter("::"),
			want:    []string{"a:b", "c"},
		},
		{
			name:    "quotedMultiCharDelimiter",
			line:    `"x::y"::z`,
			dialect: dialect.New().SetDelimiter("::"),
			want:    []string{`"x::y"`, "z"},
		},
		{
			name:    "skipInitialSpaceSkipsOne",
			line:    "a, b,  c",
			dialect: dialect.New().SetSkipInitialSpace(true),
			want:    []string{"a", "b", " c"},
		},
		{
			name: "spacesKeptByDefault",
			line: "a, b",
			want: []string{"a", " b"},
		},
		{
			name:    "trimCharacters",
			line:    " a , b ",
			dialect: dialect.New().SetTrimCharacters(' '),
			want:    []string{"a", "b"},
		},
		{
			name:    "trimSeveralCharacters",
			line:    "*-a-*,--b",
			dialect: dialect.New().SetTrimCharacters('*', '-'),
			want:    []string{"a", "b"},
		},
		{
			name:    "customQuote",
			line:    "'a,b',c",
			dialect: dialect.New().SetQuoteCharacter('\''),
			want:    []string{"'a,b'", "c"},
		},
		{
			name:    "doubleQuoteDisabledCountsEveryQuote",
			line:    `"a""b",c`,
			dialect: dialect.New().SetDoubleQuote(false),
			want:    []string{`"a""b"`, "c"},
		},
		{
			name: "doubledQuoteCountsOnce",
			line: `"a""b",c`,
			want: []string{`"a""b",c`},
		},
		{
			name:    "nonASCIITrimByte",
			line:    "\xA0a\xA0,\xFFb",
			dialect: dialect.New().SetTrimCharacters(0xA0),
			want:    []string{"a", "\xFFb"},
		},
		{
			name: "emptyQuotedFieldKeepsQuoteOpen",
			line: `"",x`,
			want: []string{`"",x`},
		},
		{
			name: "unterminatedQuoteSwallowsRest",
			line: `a,"b,c`,
			want: []string{"a", `"b,c`},
		},
		{
			name: "quoteParityResetsPerField",
			line: `"a",b,"c"`,
			want: []string{`"a"`, "b", `"c"`},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := tc.dialect
			if d == nil {
				d = dialect.New()
			}
			assert.Equal(t, tc.want, Split(tc.line, d))
		})
	}
}

func TestTrim(t *testing.T) {
	d := dialect.New()
	assert.Equal(t, "  x  ", Trim("  x  ", d))

	d.SetTrimCharacters(' ')
	assert.Equal(t, "x", Trim("  x  ", d))
	assert.Equal(t, "", Trim("   ", d))
}

func TestTrim_NonASCIIByte(t *testing.T) {
	d := dialect.New().SetTrimCharacters(0xA0)

	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"byteNotInSetKept", "x\xFF", "x\xFF"},
		{"replacementCharKept", "x\uFFFD", "x\uFFFD"},
		{"tailOfMultiByteCharRemoved", "à", "\xC3"},
		{"bothEnds", "\xA0\xA0x\xA0", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Trim(tt.field, d))
		})
	}
}

func TestSplitter(t *testing.T) {
	d := dialect.New().SetDelimiter("|")
	var tok Tokenizer = NewSplitter(d)

	assert.Equal(t, []string{"1", "2"}, tok.Split("1|2"))
	assert.Same(t, d, NewSplitter(d).Dialect())
}
