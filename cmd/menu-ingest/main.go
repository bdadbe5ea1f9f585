// Command menu-ingest merges gzipped menu exports dumped by the POS
// terminals into the central catalog. Each export is a .jsonl.gz file with
// one menu entry per line. Terminal dumps drift, so an entry is only trusted
// when at least two exports agree on its name; bloom filters keep the
// cross-file membership test in memory even for very large dumps.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"math/bits"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/comanda/internal/domain/menu"
	"github.com/xenking/comanda/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 1_000_000
	minSources    = 2
)

// menuEntry is one line of a terminal export.
type menuEntry struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// fileResult holds the confirmed entries found in one export during pass 2,
// keyed by name with a bitmask of the files that carried them.
type fileResult struct {
	entries map[string]menuEntry
	sources map[string]uint
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.jsonl.gz menu exports")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("menu ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("menu ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "list exports")
	}
	if len(files) < minSources {
		return errors.Errorf("need at least %d exports in %s, found %d", minSources, dataDir, len(files))
	}

	// Pass 1: build one bloom filter of entry names per export, concurrently.
	slog.Info("pass 1: building bloom filters", slog.Int("files", len(files)))

	filters, err := buildBloomFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	// Pass 2: keep entries whose name appears in 2+ exports.
	slog.Info("pass 2: confirming entries across exports")

	confirmed, err := confirmEntries(ctx, files, filters)
	if err != nil {
		return errors.Wrap(err, "confirm entries")
	}

	slog.Info("confirmed entries", slog.Int("count", len(confirmed)))

	if len(confirmed) == 0 {
		slog.Info("nothing to ingest")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := writeCatalog(ctx, postgres.NewMenuRepository(pool), confirmed); err != nil {
		return errors.Wrap(err, "write catalog")
	}

	return nil
}

func buildBloomFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
			var count uint64

			if err := streamExport(ctx, f, func(e menuEntry) {
				filter.AddString(e.Name)
				count++
				if count%progressEvery == 0 {
					slog.Info("pass 1 progress", slog.Int("file", i+1), slog.Uint64("entries", count))
				}
			}); err != nil {
				return errors.Wrapf(err, "build filter for %s", f)
			}

			slog.Info("pass 1 complete", slog.Int("file", i+1), slog.Uint64("entries", count))
			filters[i] = filter
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return filters, nil
}

// confirmEntries re-streams each export and tests names against the OTHER
// exports' filters. The per-file source bitmasks are merged afterwards so an
// entry confirmed by any pair of exports survives. Later files win on price,
// matching the export ordering (oldest dump first).
func confirmEntries(ctx context.Context, files []string, filters []*bloom.BloomFilter) ([]menuEntry, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			res := fileResult{
				entries: make(map[string]menuEntry),
				sources: make(map[string]uint),
			}
			fileBit := uint(1) << uint(i)
			var count uint64

			if err := streamExport(ctx, f, func(e menuEntry) {
				count++
				if count%progressEvery == 0 {
					slog.Info("pass 2 progress", slog.Int("file", i+1), slog.Uint64("entries", count))
				}

				for j, filter := range filters {
					if j == i {
						continue
					}
					if filter.TestString(e.Name) {
						res.entries[e.Name] = e
						res.sources[e.Name] |= fileBit
						break
					}
				}
			}); err != nil {
				return errors.Wrapf(err, "scan %s", f)
			}

			slog.Info("pass 2 complete",
				slog.Int("file", i+1),
				slog.Uint64("entries", count),
				slog.Int("candidates", len(res.entries)),
			)
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]menuEntry)
	sources := make(map[string]uint)
	for _, r := range results {
		for name, e := range r.entries {
			merged[name] = e
			sources[name] |= r.sources[name]
		}
	}

	var confirmed []menuEntry
	for name, mask := range sources {
		if bits.OnesCount(mask) >= minSources {
			confirmed = append(confirmed, merged[name])
		}
	}
	return confirmed, nil
}

// streamExport opens a gzipped JSONL export and calls fn for each decodable
// line. Malformed lines are skipped, not fatal: terminal dumps routinely
// carry truncated trailing records.
func streamExport(ctx context.Context, path string, fn func(menuEntry)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var e menuEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil || e.Name == "" {
			continue
		}
		fn(e)
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	return nil
}

// writeCatalog upserts the confirmed entries, creating categories on demand.
func writeCatalog(ctx context.Context, repo *postgres.MenuRepository, entries []menuEntry) error {
	slog.Info("writing catalog", slog.Int("count", len(entries)))

	categories := make(map[string]int64)
	for i, e := range entries {
		catName := e.Category
		if catName == "" {
			catName = "uncategorized"
		}

		catID, ok := categories[catName]
		if !ok {
			id, err := repo.UpsertCategory(ctx, catName)
			if err != nil {
				return errors.Wrapf(err, "upsert category %s", catName)
			}
			categories[catName] = id
			catID = id
		}

		if err := repo.UpsertFood(ctx, menu.Food{
			Name:       e.Name,
			Price:      e.Price,
			CategoryID: catID,
		}); err != nil {
			return errors.Wrapf(err, "upsert food %s", e.Name)
		}

		if (i+1)%100 == 0 || i+1 == len(entries) {
			slog.Info("write progress", slog.Int("written", i+1), slog.Int("total", len(entries)))
		}
	}
	return nil
}
