package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

// Loader turns the raw bytes of a tabular file into a Table.
type Loader interface {
	CanParse(filename string) bool
	Load(content []byte, opt Options) (*table.Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

// ErrUnsupported indicates a file format no loader accepts.
var ErrUnsupported = errors.New("unsupported file format")

// ErrLoadFailed indicates content a loader accepted by name but could not read.
var ErrLoadFailed = errors.New("load failed")

// LoadError carries the file name and the underlying read failure.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is reports ErrLoadFailed as a match so callers can test with errors.Is.
func (e *LoadError) Is(target error) bool { return target == ErrLoadFailed }

// Supports reports whether some registered loader accepts the file name.
func Supports(name string) bool {
	return lookup(name) != nil
}

// Load selects a loader by file name and reads content into a table.
func Load(name string, content []byte, opt Options) (*table.Table, error) {
	l := lookup(name)
	if l == nil {
		ext := strings.ToLower(filepath.Ext(name))
		if ext == "" {
			ext = "(no extension)"
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
	t, err := l.Load(content, opt.withDefaults())
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, err
		}
		return nil, &LoadError{Name: filepath.Base(name), Err: err}
	}
	return t, nil
}

// LoadFile reads path from disk and loads it.
func LoadFile(path string, opt Options) (*table.Table, error) {
	if !Supports(path) {
		return Load(path, nil, opt)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Load(path, data, opt)
}

func lookup(name string) Loader {
	for _, l := range registry {
		if l.CanParse(name) {
			return l
		}
	}
	return nil
}
