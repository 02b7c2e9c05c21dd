package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mothernatural-backend/internal/mailer"
	"mothernatural-backend/internal/payment"
	pkgasynq "mothernatural-backend/pkg/asynq"
	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/db"
	"mothernatural-backend/pkg/gen"
	"mothernatural-backend/pkg/health"
	"mothernatural-backend/pkg/logger"
	"mothernatural-backend/pkg/minio"
	"mothernatural-backend/pkg/redis"
	"mothernatural-backend/pkg/sequence"
	"mothernatural-backend/pkg/server"
	"mothernatural-backend/services/analytics"
	"mothernatural-backend/services/appointment"
	"mothernatural-backend/services/catalog"
	"mothernatural-backend/services/community"
	"mothernatural-backend/services/contract"
	"mothernatural-backend/services/fulfillment"
	"mothernatural-backend/services/game"
	"mothernatural-backend/services/loyalty"
	"mothernatural-backend/services/mail"
	"mothernatural-backend/services/order"
	"mothernatural-backend/services/settings"
	"mothernatural-backend/services/status"
	"mothernatural-backend/services/upload"
	"mothernatural-backend/services/user"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		sequence.Module,
		gen.Module,
		minio.Module,
		pkgasynq.Client,
		pkgasynq.Server,
		health.Module,
		server.Module,

		payment.Module,
		mailer.Module,

		settings.ServerModule,
		user.ServerModule,
		catalog.ServerModule,
		game.ServerModule,
		loyalty.ServerModule,
		mail.ServerModule,
		fulfillment.Module,
		order.ServerModule,
		appointment.ServerModule,
		community.ServerModule,
		contract.ServerModule,
		upload.ServerModule,
		status.ServerModule,
		analytics.ServerModule,

		fx.Invoke(
			migrate,
			registerOps,
		),
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	fx.New(opts...).Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&catalog.Product{},
		&catalog.ServiceOffering{},
		&catalog.Class{},
		&catalog.Retreat{},
		&catalog.Fundraiser{},
		&order.Order{},
		&appointment.Appointment{},
		&appointment.EmergencyRequest{},
		&community.Post{},
		&contract.Template{},
		&contract.SignedContract{},
		&game.PlantGame{},
		&game.GameReward{},
		&mail.EmailLog{},
		&settings.LowStockSettings{},
		&settings.LoyaltySettings{},
		&settings.GameSettings{},
		&status.Check{},
	)
}

func registerOps(engine *gin.Engine, h health.HealthService) {
	engine.GET("/healthz", h.Liveness)
	engine.GET("/readyz", h.Readiness)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
