/*
prompt.go - Translation prompt assembly

PURPOSE:
  Renders the instruction document sent to the model: table definitions,
  the procedure's metadata and source, and a fixed requirements checklist.
  Pure function of its inputs — identical inputs yield byte-identical
  prompts, which keeps translations reproducible at low temperature.
*/
package translate

import (
	"fmt"
	"sort"
	"strings"
)

// SystemInstruction frames the model's role for every translation request.
const SystemInstruction = "You are an expert in translating PostgreSQL stored procedures " +
	"to Go code using the GORM ORM. Use modern practices and clear documentation."

// BuildPrompt renders the translation request for one procedure.
// tableDefs is keyed by table name; tables are emitted in sorted order so
// the prompt does not depend on map iteration order.
func BuildPrompt(proc Procedure, tableDefs map[string]string) string {
	names := make([]string, 0, len(tableDefs))
	for name := range tableDefs {
		names = append(names, name)
	}
	sort.Strings(names)

	var defs strings.Builder
	for _, name := range names {
		defs.WriteString(tableDefs[name])
		defs.WriteString("\n")
	}

	return fmt.Sprintf(`Translate this PostgreSQL stored procedure into a Go function using the GORM ORM.
Output only pure Go code without any markdown formatting, section numbers, or explanatory text.

Table Definitions:
%s
Procedure Name: %s
Arguments: %s

PostgreSQL Code:
%s

Requirements for the output:
1. Start with a package clause and all necessary imports (gorm.io/gorm, time)
2. Define GORM models with proper struct tags, foreign keys, and TableName methods
3. Define the main function taking a *gorm.DB and typed arguments, returning error
4. Use shopspring/decimal for all NUMERIC columns, never float64
5. Wrap all writes in db.Transaction so any error rolls the batch back
6. Give the provisions calculation_date column a default of the current date
7. Declare the has-many / belongs-to relationships between the models
8. Add a doc comment to the main function
9. Return wrapped errors with fmt.Errorf and %%w, do not panic
10. Output only compilable Go code without any markdown fences or commentary
`, defs.String(), proc.Name, proc.Arguments, proc.Source)
}
