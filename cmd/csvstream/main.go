package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iamhimansu/csvstream/pkg/csvstream"
	"github.com/iamhimansu/csvstream/pkg/csvstream/types"
	"github.com/iamhimansu/csvstream/pkg/csvstream/utils"
)

var (
	cfg    types.ReadConfig
	logger utils.Logger = utils.NewNopLogger()
)

var rootCmd = &cobra.Command{
	Use:           "csvstream",
	Short:         "Stream rows out of CSV files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if cfg.LogFile != "" {
			logger = utils.NewFileLogger(cfg.LogFile, cfg.Verbose)
		} else {
			logger = utils.NewStandardLogger(cfg.Verbose)
		}
		return nil
	},
}

var rowsCmd = &cobra.Command{
	Use:   "rows [csv]",
	Short: "Write every row as one JSON object per line",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		r, err := startRead(args)
		if err != nil {
			return err
		}

		out := bufio.NewWriter(os.Stdout)
		enc := json.NewEncoder(out)
		for {
			row, err := r.NextRow()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				r.Close()
				return err
			}
			if err := enc.Encode(row); err != nil {
				r.Close()
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
		if err := out.Flush(); err != nil {
			r.Close()
			return err
		}

		if err := r.Close(); err != nil {
			return err
		}
		stats := r.Stats()
		logger.Info("Wrote %d rows (%d tokens)", stats.RowsConsumed, stats.TokensProduced)
		return nil
	},
}

var colsCmd = &cobra.Command{
	Use:   "cols [csv]",
	Short: "Print the column names of a CSV file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		r, err := startRead(args)
		if err != nil {
			return err
		}
		cols := r.Cols()
		if err := r.Close(); err != nil {
			return err
		}
		stats := r.Stats()
		return writeResult(types.ReadResult{Status: "ok", Columns: cols, Stats: &stats})
	},
}

var dialectsCmd = &cobra.Command{
	Use:   "dialects",
	Short: "List the available dialects",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		r, err := newReader()
		if err != nil {
			return err
		}
		return writeResult(types.ReadResult{Status: "ok", Dialects: r.ListDialects()})
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("csv", "", "Path to the CSV file (plain or lz4)")
	flags.String("dialect", types.DefaultDialect, "Dialect to parse with")
	flags.String("dialects-file", "", "YAML, JSON or TOML file with extra dialects")
	flags.String("log-file", "", "Write logs to this file instead of stderr")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	for key, flag := range map[string]string{
		"csv":           "csv",
		"dialect":       "dialect",
		"dialects_file": "dialects-file",
		"log_file":      "log-file",
		"verbose":       "verbose",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("CSVSTREAM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(rowsCmd, colsCmd, dialectsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fatalError(err.Error())
	}
}

func newReader() (*csvstream.Reader, error) {
	r := csvstream.NewReader(
		csvstream.WithLogger(logger),
		csvstream.WithDialect(cfg.Dialect),
	)
	if cfg.DialectsFile != "" {
		if err := r.LoadDialects(cfg.DialectsFile); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func startRead(args []string) (*csvstream.Reader, error) {
	path := cfg.CsvPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, errors.New("csv path required")
	}

	r, err := newReader()
	if err != nil {
		return nil, err
	}
	if err := r.Read(path); err != nil {
		return nil, err
	}
	return r, nil
}

func writeResult(result types.ReadResult) error {
	return json.NewEncoder(os.Stdout).Encode(result)
}

func fatalError(msg string) {
	resp := map[string]string{"status": "error", "error": msg}
	json.NewEncoder(os.Stdout).Encode(resp)
	os.Exit(1)
}
