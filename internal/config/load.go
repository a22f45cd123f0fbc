package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// FileSystem abstracts file access so loading can be tested against an
// in-memory tree.
type FileSystem interface {
	fs.FS

	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)

	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS is the real file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// ParseError reports a malformed configuration file. Line and Column
// are zero when the position is unknown.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error returns the error message.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads and validates the config at path. A missing file is not
// an error: the defaults are returned and the boolean reports that no
// file was read.
func Load(path string) (*Config, bool, error) {
	return LoadFS(DefaultFS(), path)
}

// LoadFS is Load against an explicit file system.
func LoadFS(fsys FileSystem, path string) (*Config, bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), false, nil
		}
		return nil, false, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := Parse(path, data)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Parse decodes TOML over the defaults, so keys absent from the
// document keep their default values, then validates the result.
func Parse(source string, data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, newParseError(source, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return cfg, nil
}

// newParseError wraps a decode failure, lifting the position out of
// go-toml's DecodeError when one is available.
func newParseError(path string, err error) *ParseError {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		pe.Line, pe.Column = derr.Position()
		pe.Message = derr.String()
	}
	return pe
}
