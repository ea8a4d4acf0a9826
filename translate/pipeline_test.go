package translate_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/provision-engine/translate"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeIntrospector struct {
	procs    []translate.Procedure
	tables   map[string]string
	listErr  error
	tableErr error
}

func (f *fakeIntrospector) ListStoredProcedures(context.Context) ([]translate.Procedure, error) {
	return f.procs, f.listErr
}

func (f *fakeIntrospector) TableDefinitions(context.Context) (map[string]string, error) {
	return f.tables, f.tableErr
}

// fakeTranslator fails for procedure names in failFor and echoes a tiny
// program for everything else.
type fakeTranslator struct {
	failFor map[string]bool
	calls   int
}

func (f *fakeTranslator) Translate(_ context.Context, _, prompt string) (string, error) {
	f.calls++
	for name := range f.failFor {
		if strings.Contains(prompt, "Procedure Name: "+name) {
			return "", fmt.Errorf("%w: simulated outage", translate.ErrTranslationFailed)
		}
	}
	return "```go\npackage translated\n```", nil
}

func proc(name string) translate.Procedure {
	return translate.Procedure{Schema: "public", Name: name, ReturnType: "void", Source: "BEGIN END;"}
}

// =============================================================================
// PIPELINE TESTS
// =============================================================================

func TestPipeline_EmitsEveryProcedure(t *testing.T) {
	dir := t.TempDir()
	tr := &fakeTranslator{}
	p := &translate.Pipeline{
		Introspector: &fakeIntrospector{
			procs:  []translate.Procedure{proc("calc_a"), proc("calc_b")},
			tables: map[string]string{"agents": "CREATE TABLE agents ();"},
		},
		Translator: tr,
		Emitter:    &translate.Emitter{OutDir: dir},
	}

	results, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, tr.calls)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.FileExists(t, r.Path)
	}
}

func TestPipeline_OneFailureDoesNotAbortBatch(t *testing.T) {
	// GIVEN: Three procedures, the middle one fails to translate
	// WHEN: Running the pipeline
	// THEN: The other two are emitted; the failed one has no file and a
	//       recorded error (best-effort batch, per-item isolation)

	dir := t.TempDir()
	p := &translate.Pipeline{
		Introspector: &fakeIntrospector{
			procs:  []translate.Procedure{proc("calc_a"), proc("calc_broken"), proc("calc_c")},
			tables: map[string]string{},
		},
		Translator: &fakeTranslator{failFor: map[string]bool{"calc_broken": true}},
		Emitter:    &translate.Emitter{OutDir: dir},
	}

	results, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, translate.ErrTranslationFailed)
	assert.Empty(t, results[1].Path)
	assert.NoError(t, results[2].Err)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Len(t, entries, 2, "failed procedure must not produce a file")
}

func TestPipeline_IntrospectionFailureAbortsRun(t *testing.T) {
	p := &translate.Pipeline{
		Introspector: &fakeIntrospector{listErr: errors.New("connection refused")},
		Translator:   &fakeTranslator{},
		Emitter:      &translate.Emitter{OutDir: t.TempDir()},
	}

	results, err := p.Run(context.Background())
	assert.Error(t, err)
	assert.Nil(t, results)
}

func TestPipeline_NoProcedures_NoWork(t *testing.T) {
	tr := &fakeTranslator{}
	p := &translate.Pipeline{
		Introspector: &fakeIntrospector{},
		Translator:   tr,
		Emitter:      &translate.Emitter{OutDir: t.TempDir()},
	}

	results, err := p.Run(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, tr.calls)
}
