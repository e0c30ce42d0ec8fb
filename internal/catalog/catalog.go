// Package catalog provides the read-only technique catalog.
//
// The built-in catalog is embedded as CUE and compiled on first use.
// External catalogs in the same format can be loaded with LoadFile.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/promptguide/internal/compiler"
	"github.com/roach88/promptguide/internal/ir"
)

//go:embed catalog.cue
var embeddedSource []byte

// EmbeddedName is the filename reported in positions for the built-in catalog.
const EmbeddedName = "catalog.cue"

var (
	loadOnce sync.Once
	loaded   *ir.Catalog
	loadErr  error
)

// InvalidError reports a catalog that compiled but failed validation.
type InvalidError struct {
	Source string
	Errors []compiler.ValidationError
}

func (e *InvalidError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		msgs = append(msgs, ve.Error())
	}
	return fmt.Sprintf("%s: invalid catalog: %s", e.Source, strings.Join(msgs, "; "))
}

// Load returns the embedded catalog. It is compiled once; every call
// returns the same pointer, which callers must treat as read-only.
func Load() (*ir.Catalog, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Compile(embeddedSource, EmbeddedName)
	})
	return loaded, loadErr
}

// MustLoad is Load for program startup. It panics if the embedded
// catalog is malformed.
func MustLoad() *ir.Catalog {
	cat, err := Load()
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return cat
}

// LoadFile compiles and validates a CUE catalog from disk.
func LoadFile(path string) (*ir.Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Compile(src, path)
}

// Compile compiles CUE source into a validated catalog.
// A *compiler.CompileError is returned for shape problems and an
// *InvalidError for integrity problems.
func Compile(src []byte, filename string) (*ir.Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))

	cat, err := compiler.CompileCatalog(v)
	if err != nil {
		return nil, err
	}

	if errs := compiler.Validate(cat); len(errs) > 0 {
		return nil, &InvalidError{Source: filename, Errors: errs}
	}

	return cat, nil
}

// Source returns the embedded CUE source.
func Source() []byte {
	out := make([]byte, len(embeddedSource))
	copy(out, embeddedSource)
	return out
}
