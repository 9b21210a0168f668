package shader

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

var (
	// ErrSourceNotFound is returned when the top-level source file is missing.
	ErrSourceNotFound = errors.New("shader: source not found")

	// ErrIncludeNotFound is returned when an included file is missing.
	ErrIncludeNotFound = errors.New("shader: include not found")

	// ErrIncludeSyntax is returned for an include line without a file name.
	ErrIncludeSyntax = errors.New("shader: malformed include")

	// ErrIncludeCycle is returned when a file includes itself, directly or not.
	ErrIncludeCycle = errors.New("shader: include cycle")
)

// IncludeError reports an include directive that could not be expanded.
type IncludeError struct {
	File string
	Line int
	Err  error
}

func (e *IncludeError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *IncludeError) Unwrap() error { return e.Err }

const includeDirective = "#include"

// ExpandIncludes reads name from fsys and replaces every
//
//	#include <file>
//	#include "file"
//
// line with the contents of file, resolved relative to the including file.
// Expansion is recursive.
func ExpandIncludes(fsys fs.FS, name string) (string, error) {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSourceNotFound, name, err)
	}
	var sb strings.Builder
	if err := expand(fsys, name, string(src), map[string]bool{name: true}, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ExpandSource expands includes in src, which is treated as a file named
// name inside fsys. fsys may be nil when src has no includes.
func ExpandSource(fsys fs.FS, name, src string) (string, error) {
	var sb strings.Builder
	if err := expand(fsys, name, src, map[string]bool{name: true}, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func expand(fsys fs.FS, name, src string, active map[string]bool, sb *strings.Builder) error {
	sc := bufio.NewScanner(strings.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		trimmed := strings.TrimSpace(text)
		if !strings.HasPrefix(trimmed, includeDirective) {
			sb.WriteString(text)
			sb.WriteByte('\n')
			continue
		}

		target, ok := includeTarget(strings.TrimSpace(trimmed[len(includeDirective):]))
		if !ok {
			return &IncludeError{File: name, Line: line, Err: ErrIncludeSyntax}
		}
		file := path.Join(path.Dir(name), target)
		if active[file] {
			return &IncludeError{File: name, Line: line, Err: fmt.Errorf("%w: %s", ErrIncludeCycle, file)}
		}
		if fsys == nil {
			return &IncludeError{File: name, Line: line, Err: fmt.Errorf("%w: %s", ErrIncludeNotFound, file)}
		}
		body, err := fs.ReadFile(fsys, file)
		if err != nil {
			return &IncludeError{File: name, Line: line, Err: fmt.Errorf("%w: %s: %w", ErrIncludeNotFound, file, err)}
		}

		active[file] = true
		if err := expand(fsys, file, string(body), active, sb); err != nil {
			return err
		}
		delete(active, file)
	}
	return sc.Err()
}

// includeTarget extracts file from "<file>" or "\"file\"".
func includeTarget(arg string) (string, bool) {
	if len(arg) < 3 {
		return "", false
	}
	open, end := arg[0], arg[len(arg)-1]
	if !(open == '<' && end == '>') && !(open == '"' && end == '"') {
		return "", false
	}
	file := strings.TrimSpace(arg[1 : len(arg)-1])
	if file == "" {
		return "", false
	}
	return file, true
}
