package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/moodsync/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/moodsync/pkg/config"
	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
	"github.com/wadjakorntonsri/moodsync/pkg/exportfile"
	"github.com/wadjakorntonsri/moodsync/pkg/logger"
	"github.com/wadjakorntonsri/moodsync/pkg/ports"
)

var importFile string

var rootCmd = &cobra.Command{
	Use:   "moodsync-cli",
	Short: "Move MoodSync collections between databases",
	Long: `Export and import collections with their items as JSON.

DATABASE_URL selects the database, the same way the server does.`,
	SilenceUsage: true,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every collection with its items to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(func(repo ports.CollectionRepository) error {
			return doExport(cmd.Context(), repo, cmd.OutOrStdout())
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Recreate collections from an export file",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("open %s: %w", importFile, err)
		}
		defer f.Close()

		return withRepo(func(repo ports.CollectionRepository) error {
			n, err := doImport(cmd.Context(), repo, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d collections\n", n)
			return nil
		})
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "JSON file produced by export")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(exportCmd, importCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func withRepo(fn func(ports.CollectionRepository) error) error {
	cfg := config.Load()
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer repo.Close()
	return fn(repo)
}

func doExport(ctx context.Context, repo ports.CollectionRepository, w io.Writer) error {
	collections, err := repo.Dump(ctx)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(collections)
}

// doImport gives every collection and item a fresh ID but keeps owners,
// timestamps and item order.
func doImport(ctx context.Context, repo ports.CollectionRepository, r io.Reader) (int, error) {
	log := logger.FromContext(ctx)

	body, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read import: %w", err)
	}
	collections, err := exportfile.Parse(body)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, c := range collections {
		items := c.Items
		sort.SliceStable(items, func(i, j int) bool { return items[i].ItemOrder < items[j].ItemOrder })

		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now().UTC()
		}
		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = c.CreatedAt
		}
		c.ID = 0
		c.Items = nil
		c.Name = strings.TrimSpace(c.Name)
		c.Description = strings.TrimSpace(c.Description)
		if err := repo.CreateCollection(ctx, &c); err != nil {
			log.Error("Failed to import collection", "name", c.Name, "error", err)
			continue
		}

		for _, it := range items {
			item := domain.CollectionItem{
				CollectionID: c.ID,
				ContentType:  it.ContentType,
				ContentTitle: it.ContentTitle,
				AddedAt:      it.AddedAt,
			}
			if item.AddedAt.IsZero() {
				item.AddedAt = c.CreatedAt
			}
			if err := repo.AppendItem(ctx, &item); err != nil {
				return count, fmt.Errorf("import item %q of %q: %w", it.ContentTitle, c.Name, err)
			}
		}
		count++
	}
	return count, nil
}
