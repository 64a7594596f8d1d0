// Package csvstream parses CSV files in the background and hands rows to a
// single consumer on demand.
//
// A read runs two goroutines: one splits lines into field tokens, the other
// groups tokens into rows. The caller polls Ready and Done, or simply ranges
// over NextRow until io.EOF:
//
//	r := csvstream.NewReader()
//	if err := r.Read("data.csv"); err != nil {
//		return err
//	}
//	defer r.Close()
//	for {
//		row, err := r.NextRow()
//		if err == io.EOF {
//			break
//		}
//		...
//	}
package csvstream

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/iamhimansu/csvstream/pkg/csvstream/dialect"
	"github.com/iamhimansu/csvstream/pkg/csvstream/parser"
	"github.com/iamhimansu/csvstream/pkg/csvstream/pipeline"
	"github.com/iamhimansu/csvstream/pkg/csvstream/storage"
	"github.com/iamhimansu/csvstream/pkg/csvstream/types"
	"github.com/iamhimansu/csvstream/pkg/csvstream/utils"
)

// Reader owns a dialect registry and at most one running parse.
//
// Dialect methods and Read may be called from any goroutine. Row accessors
// (Ready, Done, NextRow, Rows) are meant for a single consumer.
type Reader struct {
	mu       sync.Mutex
	registry *dialect.Registry
	current  string
	logger   utils.Logger

	active atomic.Pointer[readRun]
}

// readRun is the state of one Read call.
type readRun struct {
	id       string
	path     string
	headers  []string
	source   storage.LineReader
	pipeline *pipeline.Pipeline

	closeOnce sync.Once
	closeErr  error
	// closed is guarded by Reader.mu
	closed bool
}

func (run *readRun) close() error {
	run.closeOnce.Do(func() {
		var result *multierror.Error
		if err := run.pipeline.Wait(); err != nil {
			result = multierror.Append(result, err)
		}
		if err := run.source.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		run.closeErr = result.ErrorOrNil()
		run.closed = true
	})
	return run.closeErr
}

// NewReader returns a Reader with the unix, excel and excel_tab presets
// registered and excel selected.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		registry: dialect.NewRegistry(),
		current:  types.DefaultDialect,
		logger:   utils.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ConfigureDialect returns the dialect registered under name, creating a
// default one if needed. A newly created dialect becomes the current one.
// Calling it twice with the same name returns the same handle.
func (r *Reader) ConfigureDialect(name string) *dialect.Dialect {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, created := r.registry.Configure(name)
	if created {
		r.current = name
		r.logger.Debug("Created dialect %q", name)
	}
	return d
}

// UseDialect selects the dialect for the next Read.
func (r *Reader) UseDialect(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.registry.Has(name) {
		return fmt.Errorf("%w: %s", ErrUnknownDialect, name)
	}
	r.current = name
	return nil
}

// CurrentDialect returns the name of the dialect the next Read will use.
func (r *Reader) CurrentDialect() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// ListDialects returns the registered dialect names, sorted.
func (r *Reader) ListDialects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.Names()
}

func (r *Reader) GetDialect(name string) (*dialect.Dialect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, err := r.registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDialect, name)
	}
	return d, nil
}

// LoadDialects registers every dialect defined in a YAML, JSON or TOML file.
func (r *Reader) LoadDialects(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.registry.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load dialects from %s: %w", path, err)
	}
	r.logger.Info("Loaded %d dialects from %s: %s", len(names), path, strings.Join(names, ", "))
	return nil
}

// Read opens path, counts its rows, discovers the header and starts the
// background stages. It returns as soon as they are running.
//
// The current dialect is copied, so changing it afterwards only affects the
// next Read. While the previous read still has rows to consume, Read returns
// ErrReadInProgress; call Close first to abandon them.
func (r *Reader) Read(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev := r.active.Load(); prev != nil {
		if !prev.closed && !prev.pipeline.Progress().Done() {
			return ErrReadInProgress
		}
		if err := prev.close(); err != nil {
			r.logger.Warn("Read[%s]: previous parse ended with error: %v", prev.id, err)
		}
	}

	registered, err := r.registry.Get(r.current)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownDialect, r.current)
	}
	d := registered.Clone()
	if err := d.Validate(); err != nil {
		return fmt.Errorf("dialect %q: %w", r.current, err)
	}

	source, err := storage.Open(path)
	if err != nil {
		return &FileOpenError{Path: path, Err: err}
	}

	run, err := r.prepare(path, source, d)
	if err != nil {
		source.Close()
		return err
	}

	r.active.Store(run)
	run.pipeline.Start()
	return nil
}

func (r *Reader) prepare(path string, source *storage.FileSource, d *dialect.Dialect) (*readRun, error) {
	id := uuid.NewString()

	lines, err := source.CountLines()
	if err != nil {
		return nil, err
	}
	if err := source.Rewind(); err != nil {
		return nil, err
	}

	headers, pending, err := discoverHeaders(source, d)
	if err != nil {
		return nil, err
	}

	expected := lines
	if d.HasHeader && expected > 0 {
		expected--
	}
	if len(headers) == 0 {
		expected = 0
	}

	r.logger.Info("Read[%s]: %s with dialect %q, %d columns, %d rows expected (compressed=%t)",
		id, path, r.current, len(headers), expected, source.Compressed())

	return &readRun{
		id:      id,
		path:    path,
		headers: headers,
		source:  source,
		pipeline: pipeline.New(pipeline.Config{
			Source:   source,
			Dialect:  d,
			Headers:  headers,
			Pending:  pending,
			Expected: expected,
			Logger:   r.logger,
			Label:    "Read[" + id + "]",
		}),
	}, nil
}

// discoverHeaders reads the first non-empty line. With a header dialect its
// fields are the headers. Otherwise the headers are the dialect's column
// names or "0", "1", ... and the fields are returned as pending data.
func discoverHeaders(source storage.LineReader, d *dialect.Dialect) (headers, pending []string, err error) {
	var first string
	for {
		line, err := source.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if line != "" {
			first = strings.TrimPrefix(line, types.UTF8BOM)
			break
		}
	}

	fields := parser.Split(first, d)
	if d.HasHeader {
		return fields, nil, nil
	}
	if len(d.Columns) > 0 {
		headers = append([]string(nil), d.Columns...)
	} else {
		headers = make([]string, len(fields))
		for i := range fields {
			headers[i] = strconv.Itoa(i)
		}
	}
	return headers, fields, nil
}

// Ready reports whether NextRow can return a row without blocking.
func (r *Reader) Ready() bool {
	run := r.active.Load()
	if run == nil {
		return false
	}
	return run.pipeline.Progress().Ready()
}

// Done reports whether every row of the current read has been consumed. It
// is false before Read. A read that stopped on an error is done once the
// rows assembled before the error are consumed; check Err.
func (r *Reader) Done() bool {
	run := r.active.Load()
	if run == nil {
		return false
	}
	return run.pipeline.Progress().Done()
}

// Busy is the negation of Done.
func (r *Reader) Busy() bool {
	return !r.Done()
}

// NextRow returns the next row in file order, waiting for one if none is
// ready. It returns io.EOF once the read is exhausted, or the stage error
// that cut it short.
func (r *Reader) NextRow() (types.Row, error) {
	run := r.active.Load()
	if run == nil {
		return nil, ErrNotStarted
	}

	row, ok := run.pipeline.Rows().Pop()
	if !ok {
		if err := run.pipeline.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	run.pipeline.Progress().RowConsumed()
	return row, nil
}

// Rows drains the remaining rows. The returned slice holds every row read
// before an error, if there was one.
func (r *Reader) Rows() ([]types.Row, error) {
	run := r.active.Load()
	if run == nil {
		return nil, ErrNotStarted
	}

	progress := run.pipeline.Progress()
	var rows []types.Row
	for {
		changed := progress.Changed()
		if progress.Ready() {
			row, err := r.NextRow()
			if err != nil {
				return rows, err
			}
			rows = append(rows, row)
			continue
		}
		if progress.Done() {
			return rows, run.pipeline.Err()
		}
		<-changed
	}
}

// Cols returns the header list of the current read.
func (r *Reader) Cols() []string {
	run := r.active.Load()
	if run == nil {
		return nil
	}
	return append([]string(nil), run.headers...)
}

func (r *Reader) Stats() types.Stats {
	run := r.active.Load()
	if run == nil {
		return types.Stats{}
	}
	return run.pipeline.Progress().Stats()
}

// Err returns the first background error of the current read, if any.
func (r *Reader) Err() error {
	run := r.active.Load()
	if run == nil {
		return nil
	}
	return run.pipeline.Err()
}

// Close waits for the background stages to finish and releases the file.
// A parse cannot be cancelled: Close returns once the whole file is read.
// Rows not consumed yet stay available to NextRow.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run := r.active.Load()
	if run == nil {
		return nil
	}
	err := run.close()
	if err == nil {
		r.logger.Debug("Read[%s]: closed %s after %d of %d rows consumed",
			run.id, run.path, run.pipeline.Progress().Consumed(), run.pipeline.Progress().Expected())
	}
	return err
}
