// Package main seeds a storefront database with demo categories, products
// and a store owner account.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/auth"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository/postgres"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/migrations"
	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

type seedConfig struct {
	OwnerEmail    string `env:"SEED_OWNER_EMAIL" envDefault:"owner@storefront.local"`
	OwnerUsername string `env:"SEED_OWNER_USERNAME" envDefault:"owner"`
	OwnerPassword string `env:"SEED_OWNER_PASSWORD" envDefault:"storefront123"`
}

type categoryDef struct {
	name         string
	friendlyName string
}

type productDef struct {
	category    string
	sku         string
	name        string
	description string
	price       string
}

var categories = []categoryDef{
	{"kitchen_dining", "Kitchen & Dining"},
	{"home_decor", "Home Decor"},
	{"garden", "Garden"},
	{"bath", "Bath"},
}

var products = []productDef{
	{"kitchen_dining", "KD-0001", "Enamel Coffee Pot", "A classic two litre enamel pot for the stove top.", "24.99"},
	{"kitchen_dining", "KD-0002", "Oak Chopping Board", "Solid oak board with a juice groove.", "32.50"},
	{"kitchen_dining", "KD-0003", "Stoneware Mug Set", "Four hand glazed stoneware mugs.", "19.00"},
	{"home_decor", "HD-0001", "Linen Cushion Cover", "Washed linen cover, 45 by 45 cm.", "14.95"},
	{"home_decor", "HD-0002", "Brass Candle Holder", "Weighted brass holder for dinner candles.", "11.20"},
	{"home_decor", "HD-0003", "Woven Storage Basket", "Seagrass basket with handles.", "27.00"},
	{"garden", "GA-0001", "Galvanised Watering Can", "Five litre can with a brass rose.", "29.99"},
	{"garden", "GA-0002", "Herb Planter", "Terracotta trough for kitchen herbs.", "17.45"},
	{"bath", "BA-0001", "Waffle Bath Towel", "Lightweight cotton waffle towel.", "22.00"},
	{"bath", "BA-0002", "Olive Oil Soap", "Cold pressed soap bar, unscented.", "4.50"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	var seedCfg seedConfig
	if err := pkgconfig.Load(&seedCfg); err != nil {
		slog.Error("failed to load seed config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("storefront-seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, seedCfg, log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("seed completed")
}

func run(ctx context.Context, cfg *config.Config, seedCfg seedConfig, log *slog.Logger) error {
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return err
	}

	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)

	categoryIDs, err := seedCategories(ctx, categoryRepo, log)
	if err != nil {
		return err
	}

	products := service.NewProductService(
		productRepo,
		categoryRepo,
		postgres.NewReviewRepository(pool),
		profileRepo,
		postgres.NewWishlistRepository(pool),
		event.NewProducer(nil, log),
		log,
	)
	if err := seedProducts(ctx, products, categoryIDs, log); err != nil {
		return err
	}

	accounts := service.NewAccountService(userRepo, profileRepo, auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessExpiry), log)
	return seedOwner(ctx, accounts, userRepo, seedCfg, log)
}

func seedCategories(ctx context.Context, repo *postgres.CategoryRepository, log *slog.Logger) (map[string]string, error) {
	existing, err := repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(categories))
	for _, c := range existing {
		ids[c.Name] = c.ID
	}

	for _, def := range categories {
		if _, ok := ids[def.name]; ok {
			continue
		}
		friendly := def.friendlyName
		c := &domain.Category{
			ID:           uuid.New().String(),
			Name:         def.name,
			FriendlyName: &friendly,
			CreatedAt:    time.Now().UTC(),
		}
		if err := repo.Create(ctx, c); err != nil {
			return nil, err
		}
		ids[c.Name] = c.ID
		log.Info("category created", slog.String("name", c.Name))
	}
	return ids, nil
}

func seedProducts(ctx context.Context, svc *service.ProductService, categoryIDs map[string]string, log *slog.Logger) error {
	listing, err := svc.ListProducts(ctx, service.ListProductsInput{Page: 1, PerPage: 1})
	if err != nil {
		return err
	}
	if listing.TotalCount > 0 {
		log.Info("catalog already populated, skipping products", slog.Int("count", listing.TotalCount))
		return nil
	}

	for _, def := range products {
		categoryID := categoryIDs[def.category]
		sku := def.sku
		p, err := svc.CreateProduct(ctx, &service.ProductInput{
			Name:        def.name,
			Description: def.description,
			Price:       decimal.RequireFromString(def.price),
			SKU:         &sku,
			CategoryID:  &categoryID,
		})
		if err != nil {
			return err
		}
		log.Info("product created", slog.String("id", p.ID), slog.String("name", p.Name))
	}
	return nil
}

func seedOwner(ctx context.Context, accounts *service.AccountService, users *postgres.UserRepository, seedCfg seedConfig, log *slog.Logger) error {
	user, _, err := accounts.Register(ctx, service.RegisterInput{
		Email:    seedCfg.OwnerEmail,
		Username: seedCfg.OwnerUsername,
		Password: seedCfg.OwnerPassword,
	})
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrAlreadyExists):
		user, err = users.GetByEmail(ctx, strings.ToLower(seedCfg.OwnerEmail))
		if err != nil {
			return err
		}
	default:
		return err
	}

	if err := users.SetSuperuser(ctx, user.ID, true); err != nil {
		return err
	}
	log.Info("store owner ready", slog.String("email", user.Email))
	return nil
}
