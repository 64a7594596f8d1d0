package pipeline

import (
	"golang.org/x/sync/errgroup"

	"github.com/iamhimansu/csvstream/pkg/csvstream/dialect"
	"github.com/iamhimansu/csvstream/pkg/csvstream/parser"
	"github.com/iamhimansu/csvstream/pkg/csvstream/storage"
	"github.com/iamhimansu/csvstream/pkg/csvstream/types"
	"github.com/iamhimansu/csvstream/pkg/csvstream/utils"
)

type Config struct {
	Source  storage.LineReader
	Dialect *dialect.Dialect
	Headers []string
	// Pending holds tokens already split from the source that must be
	// emitted before anything read after them (the first line of a file
	// without a header).
	Pending  []string
	Expected int64
	Logger   utils.Logger
	// Label prefixes log lines, e.g. "Read[<id>]"
	Label string
}

// Pipeline owns the reading and assembly stages of one parse and the queues
// between them. Once started it runs to the end of the file; there is no
// cancellation.
type Pipeline struct {
	group    errgroup.Group
	progress *Progress
	tokens   *Queue[string]
	rows     *Queue[types.Row]
	reading  *ReadingStage
	assembly *AssemblyStage
	logger   utils.Logger
	label    string
}

func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	progress := NewProgress(cfg.Expected)
	tokens := NewQueue[string]()
	rows := NewQueue[types.Row]()

	return &Pipeline{
		progress: progress,
		tokens:   tokens,
		rows:     rows,
		reading: &ReadingStage{
			source:   cfg.Source,
			splitter: parser.NewSplitter(cfg.Dialect),
			tokens:   tokens,
			progress: progress,
			pending:  cfg.Pending,
		},
		assembly: &AssemblyStage{
			headers:  cfg.Headers,
			dialect:  cfg.Dialect,
			template: newRowTemplate(cfg.Headers, cfg.Dialect),
			tokens:   tokens,
			rows:     rows,
			progress: progress,
		},
		logger: logger,
		label:  cfg.Label,
	}
}

// Start launches both stages in their own goroutines.
func (p *Pipeline) Start() {
	p.group.Go(func() error {
		err := p.reading.Run()
		if err != nil {
			p.logger.Error("%s: reading stage failed: %v", p.label, err)
		} else {
			p.logger.Debug("%s: reading stage finished, %d tokens", p.label, p.progress.Tokens())
		}
		return err
	})
	p.group.Go(func() error {
		err := p.assembly.Run()
		if err != nil {
			p.logger.Warn("%s: assembly stage stopped: %v", p.label, err)
		} else {
			p.logger.Debug("%s: assembly stage finished, %d rows", p.label, p.progress.Assembled())
		}
		return err
	})
}

// Wait blocks until both stages have returned and reports the first error.
func (p *Pipeline) Wait() error {
	return p.group.Wait()
}

func (p *Pipeline) Progress() *Progress {
	return p.progress
}

// Rows is the ordered output queue.
func (p *Pipeline) Rows() *Queue[types.Row] {
	return p.rows
}

// Err returns the first stage error without waiting.
func (p *Pipeline) Err() error {
	return p.progress.Err()
}
