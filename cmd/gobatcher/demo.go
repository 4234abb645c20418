package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Alp4ka/gobatcher"
	"github.com/Alp4ka/gobatcher/gormlog"
)

// User is the model scanned by the demo command and registered for scan.
type User struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

func newDemoCmd() *cobra.Command {
	var (
		rows      int
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a self-contained batch scan against in-memory SQLite",
		Long: `Seeds an in-memory SQLite database with a demo user table and scans it in
fixed-size batches, logging each batch as it arrives.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(loggerFromFlags(cmd), rows, batchSize)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 22, "number of rows to seed")
	cmd.Flags().IntVar(&batchSize, "batch-size", 5, "rows fetched per batch")

	return cmd
}

func runDemo(log zerolog.Logger, rows, batchSize int) error {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlog.New(log),
	})
	if err != nil {
		return fmt.Errorf("opening sqlite: %w", err)
	}

	if err := db.AutoMigrate(&User{}); err != nil {
		return fmt.Errorf("migrating demo schema: %w", err)
	}

	if rows > 0 {
		users := make([]User, 0, rows)
		for i := 1; i <= rows; i++ {
			users = append(users, User{Name: fmt.Sprintf("User %d", i)})
		}
		if err := db.Create(&users).Error; err != nil {
			return fmt.Errorf("seeding demo rows: %w", err)
		}
	}

	it, err := gobatcher.New[User](db, batchSize)
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
			Uint("first_id", batch[0].ID).
			Uint("last_id", batch[len(batch)-1].ID).
			Msg("fetched batch")
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("scanning users: %w", err)
	}

	log.Info().Int("batches", number).Int("rows", total).Msg("scan complete")

	return nil
}
