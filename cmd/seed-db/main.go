package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/comanda/internal/domain/menu"
	"github.com/xenking/comanda/internal/domain/staff"
	"github.com/xenking/comanda/internal/storage/postgres"
)

// seedFile is the JSON document consumed by the seeder: the menu grouped by
// category, the staff roster, and the accepted payment methods.
type seedFile struct {
	Categories []struct {
		Name  string `json:"name"`
		Items []struct {
			Name  string          `json:"name"`
			Price decimal.Decimal `json:"price"`
		} `json:"items"`
	} `json:"categories"`
	Staff []struct {
		FullName string `json:"fullName"`
		Role     string `json:"role"`
	} `json:"staff"`
	PaymentMethods []string `json:"paymentMethods"`
}

func main() {
	var (
		databaseURL string
		seedPath    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/seed.json", "path to seed JSON file")
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

	if err := run(ctx, databaseURL, seedPath); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedPath string) error {
	slog.Info("reading seed file", slog.String("path", seedPath))

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse seed JSON")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	menuRepo := postgres.NewMenuRepository(pool)
	staffRepo := postgres.NewStaffRepository(pool)

	if err := seedMenu(ctx, menuRepo, seed); err != nil {
		return errors.Wrap(err, "seed menu")
	}
	if err := seedStaff(ctx, staffRepo, seed); err != nil {
		return errors.Wrap(err, "seed staff")
	}
	if err := seedPaymentMethods(ctx, staffRepo, seed); err != nil {
		return errors.Wrap(err, "seed payment methods")
	}

	return nil
}

func seedMenu(ctx context.Context, repo *postgres.MenuRepository, seed seedFile) error {
	for _, cat := range seed.Categories {
		catID, err := repo.UpsertCategory(ctx, cat.Name)
		if err != nil {
			return errors.Wrapf(err, "upsert category %s", cat.Name)
		}

		for _, it := range cat.Items {
			if err := repo.UpsertFood(ctx, menu.Food{
				Name:       it.Name,
				Price:      it.Price,
				CategoryID: catID,
			}); err != nil {
				return errors.Wrapf(err, "upsert food %s", it.Name)
			}
		}

		slog.Info("upserted category",
			slog.String("name", cat.Name),
			slog.Int("items", len(cat.Items)),
		)
	}
	return nil
}

// seedStaff inserts roster entries not already present under their role. The
// users table has no natural key, so re-runs dedupe by full name.
func seedStaff(ctx context.Context, repo *postgres.StaffRepository, seed seedFile) error {
	existing := make(map[staff.Role]map[string]bool)

	for _, s := range seed.Staff {
		role := staff.Role(s.Role)
		if !role.Valid() {
			return errors.Errorf("unknown role %q for %s", s.Role, s.FullName)
		}

		if existing[role] == nil {
			users, err := repo.ListByRole(ctx, role)
			if err != nil {
				return errors.Wrapf(err, "list %s users", role)
			}
			existing[role] = make(map[string]bool, len(users))
			for _, u := range users {
				existing[role][u.FullName] = true
			}
		}
		if existing[role][s.FullName] {
			continue
		}

		id, err := repo.CreateUser(ctx, staff.User{FullName: s.FullName, Role: role})
		if err != nil {
			return errors.Wrapf(err, "create user %s", s.FullName)
		}
		slog.Info("created user",
			slog.Int64("id", id),
			slog.String("name", s.FullName),
			slog.String("role", s.Role),
		)
	}
	return nil
}

func seedPaymentMethods(ctx context.Context, repo *postgres.StaffRepository, seed seedFile) error {
	for _, name := range seed.PaymentMethods {
		if err := repo.UpsertPaymentMethod(ctx, name); err != nil {
			return errors.Wrapf(err, "upsert payment method %s", name)
		}
		slog.Info("upserted payment method", slog.String("name", name))
	}
	return nil
}
