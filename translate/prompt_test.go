package translate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/provision-engine/translate"
)

func sampleProc() translate.Procedure {
	return translate.Procedure{
		Schema:     "public",
		Name:       "calculate_provisions",
		Arguments:  "agent_id_input integer",
		ReturnType: "void",
		Source:     "CREATE OR REPLACE PROCEDURE calculate_provisions(agent_id_input INT) ...",
	}
}

func sampleTables() map[string]string {
	return map[string]string{
		"agents":   "CREATE TABLE agents (\n    agent_id integer NOT NULL\n);",
		"policies": "CREATE TABLE policies (\n    policy_id integer NOT NULL\n);",
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	// GIVEN: Identical procedure metadata and table definitions
	// WHEN: Building the prompt twice
	// THEN: The output is byte-identical (maps must not leak iteration order)

	a := translate.BuildPrompt(sampleProc(), sampleTables())
	b := translate.BuildPrompt(sampleProc(), sampleTables())
	assert.Equal(t, a, b)
}

func TestBuildPrompt_ContainsAllSections(t *testing.T) {
	prompt := translate.BuildPrompt(sampleProc(), sampleTables())

	assert.Contains(t, prompt, "Procedure Name: calculate_provisions")
	assert.Contains(t, prompt, "Arguments: agent_id_input integer")
	assert.Contains(t, prompt, "CREATE TABLE agents")
	assert.Contains(t, prompt, "CREATE TABLE policies")
	assert.Contains(t, prompt, "CREATE OR REPLACE PROCEDURE calculate_provisions")
	assert.Contains(t, prompt, "Requirements for the output:")
	assert.Contains(t, prompt, "db.Transaction")
	assert.Contains(t, prompt, "calculation_date")
}

func TestBuildPrompt_TablesSorted(t *testing.T) {
	prompt := translate.BuildPrompt(sampleProc(), sampleTables())
	assert.Less(t,
		strings.Index(prompt, "CREATE TABLE agents"),
		strings.Index(prompt, "CREATE TABLE policies"))
}

func TestIsErrorMarker(t *testing.T) {
	assert.True(t, translate.IsErrorMarker("// Error during translation: quota exceeded"))
	assert.True(t, translate.IsErrorMarker("  # Error during translation: boom"))
	assert.True(t, translate.IsErrorMarker("ERROR: no"))
	assert.False(t, translate.IsErrorMarker("package translated\n\nfunc CalculateProvisions() {}"))
}
