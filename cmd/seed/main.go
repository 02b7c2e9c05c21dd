package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/db"
	"mothernatural-backend/pkg/logger"
	"mothernatural-backend/services/catalog"
	"mothernatural-backend/services/contract"
	"mothernatural-backend/services/settings"
	"mothernatural-backend/services/user"

	"github.com/google/uuid"
)

// Seeds a fresh database with the rows the storefront needs on day one:
// an admin account, default settings, the contract templates, and a
// starter catalog. Safe to re-run; existing rows are left alone.
func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		fx.Invoke(seed),
		fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
			return fxevent.NopLogger
		}),
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	fx.New(opts...).Run()
}

func seed(lc fx.Lifecycle, shutdowner fx.Shutdowner, conn *gorm.DB) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			defer shutdowner.Shutdown()

			if err := migrate(conn); err != nil {
				return err
			}
			if err := seedAdmin(conn); err != nil {
				return err
			}
			if err := seedSettings(conn); err != nil {
				return err
			}
			if err := seedTemplates(conn); err != nil {
				return err
			}
			if err := seedCatalog(conn); err != nil {
				return err
			}

			zap.L().Info("seed complete")
			return nil
		},
	})
}

func migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&user.User{},
		&catalog.Product{},
		&catalog.ServiceOffering{},
		&catalog.Class{},
		&catalog.Retreat{},
		&settings.LowStockSettings{},
		&settings.LoyaltySettings{},
		&settings.GameSettings{},
		&contract.Template{},
	)
}

func seedAdmin(conn *gorm.DB) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		zap.L().Info("SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := conn.Model(&user.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return conn.Create(&user.User{
		ID:           uuid.NewString(),
		Name:         "Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
		Provider:     "local",
	}).Error
}

func seedSettings(conn *gorm.DB) error {
	rows := []any{
		&settings.LowStockSettings{ID: "default", Enabled: true, DefaultThreshold: 5},
		&settings.LoyaltySettings{ID: "default", PointsPerDollar: 1, ReferralPoints: 100, SignInPoints: 5},
		&settings.GameSettings{
			ID:                     "default",
			WaterGrowth:            1.0,
			WaterCooldownHours:     4,
			FeedGrowthPerUnit:      2.0,
			ReferralGrowth:         5.0,
			SmallPurchaseGrowth:    5.0,
			LargePurchaseGrowth:    10.0,
			LargePurchaseThreshold: 5000,
		},
	}
	for _, row := range rows {
		if err := conn.FirstOrCreate(row).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedTemplates(conn *gorm.DB) error {
	rows := []contract.Template{
		{Type: "appointment"},
		{Type: "retreat"},
	}
	for i := range rows {
		if err := conn.FirstOrCreate(&rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedCatalog(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&catalog.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []catalog.Product{
		{ID: uuid.NewString(), Name: "Sea Moss Gel", Slug: "sea-moss-gel", Category: "wellness", Price: 25, Stock: 20, InStock: true},
		{ID: uuid.NewString(), Name: "Elderberry Syrup", Slug: "elderberry-syrup", Category: "wellness", Price: 18, Stock: 30, InStock: true},
		{ID: uuid.NewString(), Name: "Herbal Detox Tea", Slug: "herbal-detox-tea", Category: "tea", Price: 12, Stock: 40, InStock: true},
	}
	for i := range products {
		if err := conn.Create(&products[i]).Error; err != nil {
			return err
		}
	}

	services := []catalog.ServiceOffering{
		{ID: uuid.NewString(), Name: "Wellness Consultation", Price: 60, Duration: "60 min"},
		{ID: uuid.NewString(), Name: "Herbal Steam Session", Price: 45, Duration: "45 min"},
	}
	for i := range services {
		if err := conn.Create(&services[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
