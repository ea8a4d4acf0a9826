/*
Package translate implements the stored-procedure translation pipeline.

PURPOSE:
  One-shot workflow that lifts stored procedures out of the database and
  into application code: introspect the catalog, build a prompt, ask a
  generative model for a GORM rendition, write the result to a file.

COMPONENTS:
  - Introspector (interface): catalog metadata access, implemented by
    store/postgres
  - BuildPrompt: deterministic prompt assembly (prompt.go)
  - Translator / GeminiTranslator: model exchange (client.go)
  - Emitter: fence stripping + doc header + file write (emitter.go)
  - Pipeline: best-effort batch driver (pipeline.go)

FAILURE MODEL:
  Deliberately different from the calculation engine. The engine is
  all-or-nothing per agent; the pipeline is best-effort per batch — a
  procedure that fails to translate or emit is logged and skipped, and the
  run continues with the next one.
*/
package translate

import "context"

// Procedure is one stored procedure as read from the system catalog.
type Procedure struct {
	Schema     string
	Name       string
	Arguments  string
	ReturnType string
	Source     string
}

// Qualified returns the schema-qualified name used in logs and file names.
func (p Procedure) Qualified() string { return p.Schema + "_" + p.Name }

// Introspector reads procedure and table metadata from the system catalog.
type Introspector interface {
	// ListStoredProcedures returns user-defined procedures (not functions
	// or aggregates), system schemas excluded, sorted by (schema, name).
	ListStoredProcedures(ctx context.Context) ([]Procedure, error)

	// TableDefinitions returns each user table rendered as a CREATE TABLE
	// block: column name, data type, optional length, nullability.
	TableDefinitions(ctx context.Context) (map[string]string, error)
}

// Translator performs the model exchange for one procedure.
type Translator interface {
	// Translate sends the prompt and returns generated source text.
	// Network errors, quota errors, and malformed responses are returned
	// as errors, never encoded into the output text.
	Translate(ctx context.Context, systemInstruction, prompt string) (string, error)
}
