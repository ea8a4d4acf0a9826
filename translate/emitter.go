/*
emitter.go - Generated-file writer

PURPOSE:
  Strips markdown code fences the model sometimes wraps around its output,
  prepends a documentation header reproducing the original procedure's
  metadata and source, and writes the result to a deterministic path:
  <outdir>/{schema}_{name}.go. The output directory is created if absent;
  an existing file at the path is overwritten (last-write-wins).
*/
package translate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Emitter writes translated procedures to disk.
type Emitter struct {
	OutDir string
}

// Emit writes the translated text for proc and returns the file path.
// Text that is an error marker is refused; callers should have filtered it,
// this is the final guard against writing failure reports as code.
func (e *Emitter) Emit(proc Procedure, translated string) (string, error) {
	if IsErrorMarker(translated) {
		return "", fmt.Errorf("%w: refusing to emit error marker for %s", ErrTranslationFailed, proc.Qualified())
	}

	if err := os.MkdirAll(e.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir %s: %w", e.OutDir, err)
	}

	path := filepath.Join(e.OutDir, proc.Qualified()+".go")
	content := header(proc) + "\n" + StripFences(translated) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// header renders the documentation block carrying the original metadata.
func header(proc Procedure) string {
	var b strings.Builder
	b.WriteString("/*\n")
	fmt.Fprintf(&b, "PostgreSQL Stored Procedure: %s\n", proc.Name)
	fmt.Fprintf(&b, "Schema: %s\n", proc.Schema)
	fmt.Fprintf(&b, "Arguments: %s\n", proc.Arguments)
	fmt.Fprintf(&b, "Return Type: %s\n", proc.ReturnType)
	b.WriteString("\nOriginal PostgreSQL Code:\n")
	b.WriteString(proc.Source)
	if !strings.HasSuffix(proc.Source, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("*/\n")
	return b.String()
}

// StripFences removes a leading/trailing markdown code fence if present and
// is a no-op on text without one. Handles ```go, ```sql and bare ```.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// Drop the opening fence line, language tag included.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		return ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
