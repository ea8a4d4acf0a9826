/*
pipeline.go - Translation batch driver

PURPOSE:
  Drives introspect -> prompt -> translate -> emit across every discovered
  procedure. Table definitions are read once per run; each procedure is then
  processed independently.

PER-ITEM ISOLATION:
  A failure translating or emitting one procedure is logged and does not
  abort the rest of the batch. Only introspection failures kill the run —
  without catalog access there is nothing to iterate.
*/
package translate

import (
	"context"
	"fmt"
	"log/slog"
)

// Result records the outcome for one procedure in a run.
type Result struct {
	Procedure Procedure
	Path      string
	Err       error
}

// Pipeline wires the introspector, translator, and emitter together.
type Pipeline struct {
	Introspector Introspector
	Translator   Translator
	Emitter      *Emitter
	Logger       *slog.Logger
}

// Run processes every discovered procedure and returns one Result each.
// The returned error is non-nil only when introspection itself fails.
func (p *Pipeline) Run(ctx context.Context) ([]Result, error) {
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}

	procs, err := p.Introspector.ListStoredProcedures(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing stored procedures: %w", err)
	}
	if len(procs) == 0 {
		log.Info("no stored procedures found")
		return nil, nil
	}

	tableDefs, err := p.Introspector.TableDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading table definitions: %w", err)
	}

	results := make([]Result, 0, len(procs))
	for _, proc := range procs {
		res := Result{Procedure: proc}

		translated, err := p.Translator.Translate(ctx, SystemInstruction, BuildPrompt(proc, tableDefs))
		if err != nil {
			res.Err = err
			log.Error("translation failed, skipping",
				"procedure", proc.Qualified(), "error", err)
			results = append(results, res)
			continue
		}

		path, err := p.Emitter.Emit(proc, translated)
		if err != nil {
			res.Err = err
			log.Error("emit failed, skipping",
				"procedure", proc.Qualified(), "error", err)
			results = append(results, res)
			continue
		}

		res.Path = path
		log.Info("saved translated procedure",
			"procedure", proc.Qualified(),
			"schema", proc.Schema,
			"arguments", proc.Arguments,
			"return_type", proc.ReturnType,
			"path", path)
		results = append(results, res)
	}
	return results, nil
}
