package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"packliste/internal/config"
	"packliste/internal/db"
	applog "packliste/internal/log"
)

// openDatabase is replaced in tests with an in-memory sqlite handle.
var openDatabase = func() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := applog.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(database); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return database, nil
}

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "import_catalog",
		Short:         "Import the catering catalogue from CSV files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(
		importCommand("products", "Upsert products (name,unit,category)", importProducts),
		importCommand("recipes", "Upsert recipe lines (product,ingredient,amount,unit)", importRecipes),
		importCommand("packaging", "Upsert packaging units (product,amount_per_package,label)", importPackaging),
	)
	return root
}

type rowImporter func(ctx context.Context, tx *gorm.DB, row map[string]string) error

func importCommand(use, short string, fn rowImporter) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <file.csv>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDatabase()
			if err != nil {
				return err
			}
			n, err := importFile(cmd.Context(), database, args[0], fn)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s from %s\n", n, use, args[0])
			return nil
		},
	}
}
