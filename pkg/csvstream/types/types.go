package types

// Row maps a header name to the field value assembled for it.
// Ignored columns never appear as keys.
type Row map[string]string

// Stats holds the progress counters of a parse
type Stats struct {
	ExpectedRows   int64 `json:"expectedRows"`
	TokensProduced int64 `json:"tokensProduced"`
	RowsAssembled  int64 `json:"rowsAssembled"`
	RowsConsumed   int64 `json:"rowsConsumed"`
}

// Pending reports how many assembled rows have not been consumed yet.
func (s Stats) Pending() int64 {
	return s.RowsAssembled - s.RowsConsumed
}

// ReadConfig is the configuration for a single parse driven from the CLI.
type ReadConfig struct {
	CsvPath      string `mapstructure:"csv"`
	Dialect      string `mapstructure:"dialect"`
	DialectsFile string `mapstructure:"dialects_file"`
	LogFile      string `mapstructure:"log_file"`
	Verbose      bool   `mapstructure:"verbose"`
}

// ReadResult is the JSON envelope the CLI writes for non-streaming answers.
type ReadResult struct {
	Status   string   `json:"status"`
	Columns  []string `json:"columns,omitempty"`
	Dialects []string `json:"dialects,omitempty"`
	Stats    *Stats   `json:"stats,omitempty"`
	Error    string   `json:"error,omitempty"`
}
