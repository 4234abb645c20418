package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Alp4ka/gobatcher"
	"github.com/Alp4ka/gobatcher/dbenv"
)

// Employee and Project mirror the schema used by the Postgres example.
type Employee struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:30" json:"name"`
}

type Project struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:30" json:"name"`
}

// _scanners maps a model name accepted by --model to a scan over that
// model's table.
var _scanners = map[string]func(log zerolog.Logger, db *gorm.DB, batchSize int) error{
	"users":     scanModel[User],
	"employees": scanModel[Employee],
	"projects":  scanModel[Project],
}

func newScanCmd() *cobra.Command {
	var (
		model     string
		batchSize int
		envFile   string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a registered model from Postgres in batches",
		Long: `Connects to Postgres using the POSTGRES_* environment variables, optionally
loaded from a .env file, and scans the chosen model's table in fixed-size
batches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := loggerFromFlags(cmd)

			scan, ok := _scanners[model]
			if !ok {
				return unknownModelError(model)
			}

			var err error
			if envFile != "" {
				err = dbenv.Load(envFile)
			} else {
				err = dbenv.Load()
			}
			if err != nil {
				return fmt.Errorf("loading environment: %w", err)
			}

			cfg, err := dbenv.FromEnv()
			if err != nil {
				return err
			}

			db, err := dbenv.Open(cfg, dbenv.WithLogger(log))
			if err != nil {
				return err
			}

			return scan(log, db, batchSize)
		},
	}

	cmd.Flags().StringVar(&model, "model", "users", "model to scan, one of: "+strings.Join(modelNames(), ", "))
	cmd.Flags().IntVar(&batchSize, "batch-size", gobatcher.DefaultBatchSize, "rows fetched per batch")
	cmd.Flags().StringVar(&envFile, "env-file", "", "load environment variables from this file first")

	return cmd
}

func scanModel[T any](log zerolog.Logger, db *gorm.DB, batchSize int) error {
	it, err := gobatcher.New[T](db, batchSize)
	if err != nil {
		return err
	}

	var number, total int
	for batch := range it.Batches() {
		number++
		total += len(batch)
		log.Info().
			Int("batch", number).
			Int("size", len(batch)).
			Int("offset", it.GetOffset()).
			Msg("fetched batch")
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("scanning %T batches: %w", *new(T), err)
	}

	log.Info().Int("batches", number).Int("rows", total).Msg("scan complete")

	return nil
}

func modelNames() []string {
	names := lo.Keys(_scanners)
	sort.Strings(names)

	return names
}

func unknownModelError(model string) error {
	if suggestion := closest(model, modelNames()); suggestion != "" {
		return fmt.Errorf("unknown model %q, did you mean %q?", model, suggestion)
	}

	return fmt.Errorf("unknown model %q", model)
}
