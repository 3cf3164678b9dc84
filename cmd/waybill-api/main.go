// README: Entry point; loads config, wires services, and serves the wizard API until SIGTERM.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"waybill/internal/config"
	httptransport "waybill/internal/http"
	"waybill/internal/infra"
	"waybill/internal/maps"
	"waybill/internal/modules/orderflow"
	"waybill/internal/modules/pricing"
	"waybill/internal/modules/session"
	"waybill/internal/modules/upload"
	"waybill/internal/modules/verification"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := infra.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := newVerifier(ctx, cfg.Firebase)
	if err != nil {
		logger.Fatal("auth init", zap.Error(err))
	}

	if err := infra.RunMigrations(cfg.DB.DSN, cfg.DB.MigrationsPath); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}
	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("postgres", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	snapshots := session.NewManager(session.NewStore(redisClient, cfg.Session.TTL))

	var routes pricing.RouteProvider
	if cfg.Maps.APIKey != "" {
		rs, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			logger.Fatal("maps", zap.Error(err))
		}
		routes = rs
	} else {
		logger.Warn("maps api key not set; using straight-line distance")
	}
	pricingSvc := pricing.NewService(pricing.NewStore(dbPool), routes, logger.Named("pricing"))

	orderSvc := orderflow.NewService(orderflow.NewStore(dbPool), pricingSvc, snapshots, orderflow.SessionConfig{
		EstimateDebounce: cfg.Wizard.EstimateDebounce,
		EstimateTimeout:  cfg.Wizard.EstimateTimeout,
	}, logger.Named("orderflow"))
	defer orderSvc.Shutdown()

	verificationLogger := logger.Named("verification")
	verificationSvc := verification.NewService(verification.NewStore(dbPool), snapshots, verification.Config{
		FetchRetries:  cfg.Wizard.FetchRetries,
		RetryInterval: cfg.Wizard.RetryInterval,
		OnUpdateSuccess: func(_ context.Context, rec verification.Record) {
			verificationLogger.Info("verification updated",
				zap.String("driver_id", string(rec.DriverID)),
				zap.String("status", string(rec.OverallStatus)))
		},
	}, verificationLogger)
	defer verificationSvc.Shutdown()

	presigner, err := infra.NewS3Presigner(ctx, cfg.S3.Bucket, cfg.S3.Region)
	if err != nil {
		logger.Fatal("s3", zap.Error(err))
	}
	publicBase := cfg.S3.PublicBaseURL
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3.Bucket, cfg.S3.Region)
	}
	uploadSvc := upload.NewService(presigner, publicBase, cfg.S3.PresignTTL)

	server := httptransport.NewServer(httptransport.ServerDeps{
		Orders:       orderSvc,
		Verification: verificationSvc,
		Pricing:      pricingSvc,
		Uploads:      uploadSvc,
		Verifier:     verifier,
		Logger:       logger.Named("http"),
	})
	if err := server.ListenAndServe(ctx, cfg.HTTP.Addr, cfg.HTTP.ShutdownTimeout); err != nil {
		logger.Error("http server", zap.Error(err))
	}
}

// newVerifier prefers the static dev token table when configured.
func newVerifier(ctx context.Context, fc config.FirebaseConfig) (infra.TokenVerifier, error) {
	if fc.DevTokens != "" {
		devs, err := fc.ParseDevTokens()
		if err != nil {
			return nil, err
		}
		static := infra.StaticVerifier{}
		for tok, id := range devs {
			static[tok] = infra.Identity{UID: id.UID, Role: id.Role}
		}
		return static, nil
	}
	return infra.NewFirebaseVerifier(ctx, fc.ProjectID, fc.CredentialsFile)
}
