package codegen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mardigontoler/gdext/config"
	"github.com/mardigontoler/gdext/errors"
)

// Result reports what a generator run produced.
type Result struct {
	// Path is the output file. Empty when nothing was exported.
	Path    string
	Classes []string
	// Unchanged is set when the existing file already had the same content.
	Unchanged bool
}

// Generate scans dir and writes the registration code for it. When no type
// in the package carries a directive any stale output file is removed.
func Generate(dir string, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pkg, err := ParseDir(dir, cfg)
	if err != nil {
		return nil, err
	}
	out := filepath.Join(dir, cfg.Output)

	if len(pkg.Classes) == 0 {
		if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale output: %w", err)
		}
		return &Result{}, nil
	}

	if cfg.Strict {
		for _, c := range pkg.Classes {
			if len(c.Fields) > 0 && !c.HasRegisterMethods {
				return nil, &errors.DirectiveError{
					Err:    fmt.Errorf("type exports fields but has no RegisterMethods method"),
					File:   filepath.Join(dir, c.File),
					Struct: c.TypeName,
				}
			}
		}
	}

	src, err := Render(pkg, cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{Path: out}
	for _, c := range pkg.Classes {
		res.Classes = append(res.Classes, c.TypeName)
	}
	if prev, err := os.ReadFile(out); err == nil && bytes.Equal(prev, src) {
		res.Unchanged = true
		return res, nil
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", out, err)
	}
	return res, nil
}

// Render produces the generated source for pkg without touching the disk.
func Render(pkg *Package, cfg *config.Config) ([]byte, error) {
	r, err := NewRenderer(WithHeader(cfg.Header))
	if err != nil {
		return nil, err
	}
	return r.Render(pkg)
}
