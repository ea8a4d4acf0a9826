/*
main.go - Application entry point

PURPOSE:
  Wires the provision CLI: schema setup, the calculation demo, the
  stored-procedure translation pipeline, and the report API server.

COMMANDS:
  setup      Idempotent schema + stored procedure + sample data
  calculate  Run the engine for sample agents and print the report
  translate  Extract stored procedures and emit GORM translations
  serve      Start the HTTP report API

ERROR BOUNDARY:
  Commands return errors; this is the single place that decides
  presentation and process exit status. Any failure exits non-zero.
*/
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "provision",
		Short:         "Commission provisioning engine and stored-procedure translator",
		Long:          "provision calculates insurance commission provisions in application code\nand translates the legacy stored procedures that used to do it in the database.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newSetupCommand(),
		newCalculateCommand(),
		newTranslateCommand(),
		newServeCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
