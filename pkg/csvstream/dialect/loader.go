package dialect

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// Config is the file representation of one dialect. Unset booleans keep the
// defaults of New.
//
//	dialects:
//	  - name: pipes
//	    delimiter: "|"
//	    header: false
//	    column_names: [id, name]
type Config struct {
	Name             string   `mapstructure:"name" validate:"required"`
	Delimiter        string   `mapstructure:"delimiter" validate:"required"`
	Quote            string   `mapstructure:"quote" validate:"omitempty,len=1,ascii"`
	DoubleQuote      *bool    `mapstructure:"double_quote"`
	Header           *bool    `mapstructure:"header"`
	SkipInitialSpace bool     `mapstructure:"skip_initial_space"`
	Trim             string   `mapstructure:"trim" validate:"omitempty,ascii"`
	ColumnNames      []string `mapstructure:"column_names" validate:"dive,required"`
	IgnoreColumns    []string `mapstructure:"ignore_columns" validate:"dive,required"`
}

type fileConfig struct {
	Dialects []Config `mapstructure:"dialects"`
}

var validate = validator.New()

// Dialect builds the dialect described by c.
func (c Config) Dialect() *Dialect {
	d := New().
		SetDelimiter(c.Delimiter).
		SetSkipInitialSpace(c.SkipInitialSpace).
		SetTrimCharacters([]byte(c.Trim)...).
		SetColumnNames(c.ColumnNames...).
		SetIgnoreColumns(c.IgnoreColumns...)
	if c.Quote != "" {
		d.SetQuoteCharacter(c.Quote[0])
	}
	if c.DoubleQuote != nil {
		d.SetDoubleQuote(*c.DoubleQuote)
	}
	if c.Header != nil {
		d.SetHeader(*c.Header)
	}
	return d
}

// LoadFile reads dialect definitions from a YAML, JSON or TOML file. Every
// invalid entry is reported, not just the first one.
func LoadFile(path string) ([]Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read dialects file %s: %w", path, err)
	}

	var file fileConfig
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to decode dialects file %s: %w", path, err)
	}
	if len(file.Dialects) == 0 {
		return nil, fmt.Errorf("dialects file %s defines no dialects", path)
	}

	var result *multierror.Error
	seen := make(map[string]int, len(file.Dialects))
	for i, cfg := range file.Dialects {
		if err := validate.Struct(cfg); err != nil {
			result = multierror.Append(result, fmt.Errorf("dialect[%d] %q: %w", i, cfg.Name, err))
			continue
		}
		if prev, ok := seen[cfg.Name]; ok {
			result = multierror.Append(result, fmt.Errorf("dialect[%d] %q: already defined at dialect[%d]", i, cfg.Name, prev))
			continue
		}
		seen[cfg.Name] = i
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return file.Dialects, nil
}

// Load registers every dialect defined in the file at path. Nothing is
// registered when any entry is invalid.
func (r *Registry) Load(path string) ([]string, error) {
	configs, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(configs))
	for _, cfg := range configs {
		r.Register(cfg.Name, cfg.Dialect())
		names = append(names, cfg.Name)
	}
	return names, nil
}
