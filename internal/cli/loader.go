package cli

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/seqctl/internal/script"
)

//go:embed schema.cue
var scriptSchema string

// ScriptFile is a script loaded from disk.
type ScriptFile struct {
	Source    string   `json:"source" yaml:"-"`
	Separator string   `json:"separator" yaml:"separator"`
	Lines     []string `json:"lines" yaml:"lines"`
}

// List converts the file into a script.List. A non-empty override replaces
// the file's own separator.
func (f *ScriptFile) List(override string) *script.List {
	l := script.NewList(f.Lines...)
	sep := f.Separator
	if override != "" {
		sep = override
	}
	l.SetSeparator(sep)
	return l
}

// LoadError represents an error that occurred while loading a script.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants for script loading.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeLoadFailed  = "E004" // File could not be parsed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build or schema check failed
	ErrCodeEmptyScript = "E008" // Script has no lines
)

// LoadScript reads a script file. The format is chosen by extension:
//
//	.yaml, .yml  {separator, lines} decoded strictly
//	.cue         unified with the embedded #Script schema
//	anything else  plain text, one script line per text line
func LoadScript(path string) (*ScriptFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("script not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading script: %v", err)}
	}

	var f *ScriptFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err = parseYAMLScript(data)
	case ".cue":
		f, err = parseCUEScript(path, data)
	default:
		f = parseTextScript(data)
	}
	if err != nil {
		return nil, err
	}

	if len(f.Lines) == 0 {
		return nil, &LoadError{Code: ErrCodeEmptyScript, Message: fmt.Sprintf("script has no lines: %s", path)}
	}
	f.Source = path
	return f, nil
}

// parseTextScript keeps every line, including blank ones, except the empty
// remainder after a final newline.
func parseTextScript(data []byte) *ScriptFile {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	f := &ScriptFile{Separator: script.DefaultSeparator}
	if text != "" {
		f.Lines = strings.Split(text, "\n")
	}
	return f
}

func parseYAMLScript(data []byte) (*ScriptFile, error) {
	var f ScriptFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("parsing YAML script: %v", err)}
	}
	if f.Separator == "" {
		f.Separator = script.DefaultSeparator
	}
	return &f, nil
}

func parseCUEScript(path string, data []byte) (*ScriptFile, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(scriptSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("compiling script schema: %v", err)}
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(ErrCodeLoadFailed, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Script")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, err)
	}

	var f ScriptFile
	if err := unified.Decode(&f); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, err)
	}
	return &f, nil
}

// cueLoadError keeps the position of the first CUE error.
func cueLoadError(code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: err.Error()}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		le.Message = errs[0].Error()
		le.Pos = errs[0].Position()
	}
	return le
}
