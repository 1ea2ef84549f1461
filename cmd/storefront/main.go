package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/auroramart/storefront/internal/config"
	"github.com/auroramart/storefront/internal/middleware"
	"github.com/auroramart/storefront/internal/models"
	"github.com/auroramart/storefront/internal/notify"
	"github.com/auroramart/storefront/internal/recommend"
	"github.com/auroramart/storefront/internal/repository"
	"github.com/auroramart/storefront/internal/seed"
	"github.com/auroramart/storefront/internal/server"
)

func main() {
	rootCmd := &cobra.Command{Use: "storefront", Short: "AuroraMart storefront API"}
	rootCmd.AddCommand(serveCommand(), migrateCommand(), seedCommand())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, *gorm.DB) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	return cfg, logger, db
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the storefront API server",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, logger, db := setup()
			defer logger.Sync()

			if err := db.AutoMigrate(models.All()...); err != nil {
				logger.Fatal("Failed to migrate database", zap.Error(err))
			}

			verifier, err := middleware.NewOIDCVerifier(context.Background(), cfg.OIDCIssuer, cfg.OIDCClientID)
			if err != nil {
				logger.Fatal("Failed to initialize OIDC verifier", zap.Error(err))
			}

			artifacts := recommend.LoadArtifacts(cfg.ModelDir, logger)
			recommender := recommend.NewEngine(artifacts, repository.NewProductRepository(db), logger)

			notifier := notify.NewOrderNotifier(notify.Config{
				SMSAPIKey:    cfg.SMSAPIKey,
				SMSUsername:  cfg.SMSUsername,
				SMSEndpoint:  cfg.SMSEndpoint,
				SMSTo:        cfg.SMSTo,
				SMTPHost:     cfg.SMTPHost,
				SMTPPort:     cfg.SMTPPort,
				SMTPFrom:     cfg.SMTPFrom,
				SMTPPassword: cfg.SMTPPassword,
				OrdersEmail:  cfg.OrdersEmail,
			}, logger)

			router := server.SetupRouter(server.Deps{
				DB:                    db,
				Verifier:              verifier,
				Recommender:           recommender,
				Notifier:              notifier,
				DeliveryFee:           cfg.DeliveryFee,
				FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
				Logger:                logger,
			})

			srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
			go func() {
				logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("HTTP server failed", zap.Error(err))
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logger.Info("Shutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Server shutdown failed", zap.Error(err))
			}
		},
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "migrate the database schema all the way up",
		Run: func(cmd *cobra.Command, args []string) {
			_, logger, db := setup()
			defer logger.Sync()
			if err := db.AutoMigrate(models.All()...); err != nil {
				logger.Fatal("Failed to migrate database", zap.Error(err))
			}
			logger.Info("Migrated up")
		},
	}
}

func seedCommand() *cobra.Command {
	var productsCSV, customersCSV string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "load initial products and customers from CSV",
		Run: func(cmd *cobra.Command, args []string) {
			_, logger, db := setup()
			defer logger.Sync()
			if err := db.AutoMigrate(models.All()...); err != nil {
				logger.Fatal("Failed to migrate database", zap.Error(err))
			}

			loader := seed.NewLoader(db, logger)
			ctx := context.Background()
			if productsCSV != "" {
				n, err := loader.Products(ctx, productsCSV)
				if err != nil {
					logger.Fatal("Failed to load products", zap.Error(err))
				}
				logger.Info("products loaded", zap.Int("created", n))
			}
			if customersCSV != "" {
				n, err := loader.Customers(ctx, customersCSV)
				if err != nil {
					logger.Fatal("Failed to load customers", zap.Error(err))
				}
				logger.Info("customers loaded", zap.Int("created", n))
			}
		},
	}
	cmd.Flags().StringVar(&productsCSV, "products", "b2c_products_500.csv", "products CSV path")
	cmd.Flags().StringVar(&customersCSV, "customers", "b2c_customers_100.csv", "customers CSV path")
	return cmd
}
