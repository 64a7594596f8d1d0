package dialect

import (
	"errors"
	"fmt"
	"sort"

	"github.com/iamhimansu/csvstream/pkg/csvstream/types"
)

// ErrNotFound is returned when a name is absent from the registry.
var ErrNotFound = errors.New("dialect not found")

// Registry is a named collection of dialects. It is not safe for concurrent use;
// the owning Reader serialises access.
type Registry struct {
	dialects map[string]*Dialect
}

// NewRegistry returns a registry seeded with the unix, excel and excel_tab presets.
func NewRegistry() *Registry {
	r := &Registry{dialects: make(map[string]*Dialect)}
	r.dialects[types.DialectUnix] = New()
	r.dialects[types.DialectExcel] = New()
	r.dialects[types.DialectExcelTab] = New().SetDelimiter("\t")
	return r
}

// Configure returns the dialect registered under name, registering a fresh
// default one first when needed. created reports whether that happened.
func (r *Registry) Configure(name string) (d *Dialect, created bool) {
	if d, ok := r.dialects[name]; ok {
		return d, false
	}
	d = New()
	r.dialects[name] = d
	return d, true
}

// Register stores d under name, replacing any previous entry.
func (r *Registry) Register(name string, d *Dialect) {
	r.dialects[name] = d
}

func (r *Registry) Get(name string) (*Dialect, error) {
	d, ok := r.dialects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return d, nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.dialects[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.dialects))
	for name := range r.dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
