/*
catalog.go - System catalog introspection

PURPOSE:
  Implements translate.Introspector by reading pg_proc and
  information_schema. Returns only callable procedures (prokind = 'p', not
  functions or aggregates), excludes system schemas, and sorts by
  (schema, name) so runs are deterministic.

FAILURE:
  Any metadata access error fails the whole listing. Per-procedure failures
  downstream are the pipeline's concern, not this file's.
*/
package postgres

import (
	"context"
	"fmt"

	"github.com/warp/provision-engine/translate"
)

const storedProcQuery = `
SELECT n.nspname AS schema,
       p.proname AS name,
       pg_catalog.pg_get_function_arguments(p.oid) AS arguments,
       t.typname AS return_type,
       pg_get_functiondef(p.oid) AS source
FROM pg_proc p
JOIN pg_namespace n ON p.pronamespace = n.oid
JOIN pg_type t ON p.prorettype = t.oid
WHERE p.prokind = 'p'
  AND n.nspname NOT IN ('pg_catalog', 'information_schema')
ORDER BY schema, name;
`

const tableDefinitionsQuery = `
SELECT table_name,
       string_agg(
           column_name || ' ' || data_type ||
           CASE
               WHEN character_maximum_length IS NOT NULL
               THEN '(' || character_maximum_length || ')'
               ELSE ''
           END ||
           CASE
               WHEN is_nullable = 'NO' THEN ' NOT NULL'
               ELSE ''
           END,
           E'\n    ' ORDER BY ordinal_position
       ) AS columns
FROM information_schema.columns
WHERE table_schema = 'public'
GROUP BY table_name;
`

// ListStoredProcedures reads user-defined procedures from pg_proc.
func (s *Store) ListStoredProcedures(ctx context.Context) ([]translate.Procedure, error) {
	var procs []translate.Procedure
	if err := s.db.WithContext(ctx).Raw(storedProcQuery).Scan(&procs).Error; err != nil {
		return nil, fmt.Errorf("querying pg_proc: %w", err)
	}
	return procs, nil
}

// TableDefinitions renders each public table as a CREATE TABLE block.
func (s *Store) TableDefinitions(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		TableName string
		Columns   string
	}
	if err := s.db.WithContext(ctx).Raw(tableDefinitionsQuery).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying information_schema.columns: %w", err)
	}

	defs := make(map[string]string, len(rows))
	for _, r := range rows {
		defs[r.TableName] = fmt.Sprintf("CREATE TABLE %s (\n    %s\n);", r.TableName, r.Columns)
	}
	return defs, nil
}
