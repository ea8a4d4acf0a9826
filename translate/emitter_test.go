package translate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/provision-engine/translate"
)

// =============================================================================
// FENCE STRIPPING
// =============================================================================

func TestStripFences_RemovesGoFence(t *testing.T) {
	in := "```go\npackage translated\n\nfunc X() {}\n```"
	assert.Equal(t, "package translated\n\nfunc X() {}", translate.StripFences(in))
}

func TestStripFences_RemovesBareFence(t *testing.T) {
	in := "```\npackage translated\n```"
	assert.Equal(t, "package translated", translate.StripFences(in))
}

func TestStripFences_NoOpWithoutFence(t *testing.T) {
	in := "package translated\n\nfunc X() {}"
	assert.Equal(t, in, translate.StripFences(in))
}

// =============================================================================
// EMIT
// =============================================================================

func TestEmit_WritesHeaderAndBody(t *testing.T) {
	// GIVEN: A translated procedure body wrapped in a code fence
	// WHEN: Emitting
	// THEN: The file lands at <dir>/{schema}_{name}.go with the original
	//       metadata in a comment header, fences stripped

	dir := t.TempDir()
	e := &translate.Emitter{OutDir: filepath.Join(dir, "out")}

	path, err := e.Emit(sampleProc(), "```go\npackage translated\n\nfunc CalculateProvisions() {}\n```")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "public_calculate_provisions.go"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(content)
	assert.Contains(t, s, "PostgreSQL Stored Procedure: calculate_provisions")
	assert.Contains(t, s, "Schema: public")
	assert.Contains(t, s, "Return Type: void")
	assert.Contains(t, s, "Original PostgreSQL Code:")
	assert.Contains(t, s, "package translated")
	assert.NotContains(t, s, "```")
}

func TestEmit_OverwritesExistingFile(t *testing.T) {
	// Last-write-wins: a second emit for the same procedure replaces the file.
	e := &translate.Emitter{OutDir: t.TempDir()}

	_, err := e.Emit(sampleProc(), "package translated // v1")
	require.NoError(t, err)
	path, err := e.Emit(sampleProc(), "package translated // v2")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "v2")
	assert.NotContains(t, string(content), "v1")
}

func TestEmit_CreatesNestedOutputDir(t *testing.T) {
	e := &translate.Emitter{OutDir: filepath.Join(t.TempDir(), "a", "b", "c")}
	_, err := e.Emit(sampleProc(), "package translated")
	assert.NoError(t, err)
}

func TestEmit_RefusesErrorMarker(t *testing.T) {
	// GIVEN: Generated text that is an error report, not code
	// WHEN: Emitting
	// THEN: Nothing is written — marker text must never land on disk as code

	dir := t.TempDir()
	e := &translate.Emitter{OutDir: dir}

	_, err := e.Emit(sampleProc(), "// Error during translation: quota exceeded")
	assert.ErrorIs(t, err, translate.ErrTranslationFailed)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestEmit_HeaderEndsBeforeBody(t *testing.T) {
	e := &translate.Emitter{OutDir: t.TempDir()}
	path, err := e.Emit(sampleProc(), "package translated")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(content)
	assert.Less(t, strings.Index(s, "*/"), strings.Index(s, "package translated"))
}
