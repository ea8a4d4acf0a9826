package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/provision-engine/config"
	"github.com/warp/provision-engine/logger"
	"github.com/warp/provision-engine/store/postgres"
	"github.com/warp/provision-engine/translate"
)

// newTranslateCommand runs the full extraction and translation pipeline:
// discover procedures, prompt the model, write the generated files.
func newTranslateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "translate",
		Short: "Translate stored procedures into GORM code files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.Init(cfg.Logger.Level, cfg.Logger.Format)
			ctx := cmd.Context()

			store, err := postgres.New(&cfg.Database, log)
			if err != nil {
				return err
			}
			defer store.Close()

			translator, err := translate.NewGeminiTranslator(ctx,
				cfg.Translate.APIKey,
				cfg.Translate.Model,
				time.Duration(cfg.Translate.TimeoutSeconds)*time.Second,
			)
			if err != nil {
				return err
			}

			pipeline := &translate.Pipeline{
				Introspector: store,
				Translator:   translator,
				Emitter:      &translate.Emitter{OutDir: cfg.Translate.OutputDir},
				Logger:       log,
			}

			results, err := pipeline.Run(ctx)
			if err != nil {
				return err
			}

			emitted, failed := 0, 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				} else {
					emitted++
				}
			}
			log.Info("translation run finished", "emitted", emitted, "failed", failed)
			if failed > 0 && emitted == 0 {
				return fmt.Errorf("all %d procedures failed to translate", failed)
			}
			return nil
		},
	}
}
