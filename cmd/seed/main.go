package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"booksbackend/internal/book"
	"booksbackend/internal/category"
	"booksbackend/internal/config"
	"booksbackend/internal/logging"
	"booksbackend/internal/platform/postgres"
	"booksbackend/internal/store/sqlite"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	countFlag int
	seedFlag  int64
)

var rootCmd = &cobra.Command{
	Use:          "seed",
	Short:        "Fill the configured store with sample categories and books",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().IntVar(&countFlag, "count", 1000, "number of books to generate")
	rootCmd.Flags().Int64Var(&seedFlag, "seed", 0, "random seed (default: current time)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	ctx := cmd.Context()

	var (
		categories category.Repository
		books      book.Repository
	)
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := postgres.Open(ctx, cfg.DatabaseDSN, cfg.DBTimeout)
		if err != nil {
			return fmt.Errorf("failed to connect to database (%s): %w", postgres.RedactDSN(cfg.DatabaseDSN), err)
		}
		defer pool.Close()
		categories = category.NewPostgresRepo(pool, cfg.DBTimeout)
		books = book.NewPostgresRepo(pool, cfg.DBTimeout)
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.DBTimeout)
		if err != nil {
			return err
		}
		defer db.Close()
		categories = db.CategoryRepo()
		books = db.BookRepo()
	default:
		return fmt.Errorf("store driver %q cannot be seeded", cfg.StoreDriver)
	}

	seed := seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	n, err := seedStore(ctx, categories, books, countFlag, rand.New(rand.NewSource(seed)), logger)
	if err != nil {
		return err
	}
	logger.WithField("books", n).Info("Seeding finished")
	return nil
}

var genres = []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Romance", "Mystery", "Biography", "Philosophy", "Art"}

var words = []string{
	"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
	"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
	"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
	"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
}

// seedStore creates one category per genre, then count books spread across
// them. It returns the number of books written.
func seedStore(ctx context.Context, categories category.Repository, books book.Repository, count int, rng *rand.Rand, log logrus.FieldLogger) (int, error) {
	ids := make([]int64, 0, len(genres))
	for _, genre := range genres {
		c, err := categories.Save(ctx, &category.Category{
			Name:        genre,
			Description: fmt.Sprintf("Books about %s", genre),
		})
		if err != nil {
			return 0, fmt.Errorf("seed category %q: %w", genre, err)
		}
		if c == nil {
			return 0, fmt.Errorf("seed category %q: rejected by store", genre)
		}
		ids = append(ids, c.ID)
	}
	log.WithField("categories", len(ids)).Info("Categories created")

	written := 0
	for i := 0; i < count; i++ {
		b := &book.Book{
			Name:        fmt.Sprintf("Book Title %d - %s", i+1, words[rng.Intn(len(words))]),
			Description: fmt.Sprintf("This is a book about %s.", words[rng.Intn(len(words))]),
			CategoryID:  ids[rng.Intn(len(ids))],
		}
		saved, err := books.Save(ctx, b)
		if err != nil {
			return written, fmt.Errorf("seed book %d: %w", i+1, err)
		}
		if saved == nil {
			return written, fmt.Errorf("seed book %d: rejected by store", i+1)
		}
		written++

		if written%1000 == 0 {
			log.Infof("Generated %d/%d books", written, count)
		}
	}
	return written, nil
}
