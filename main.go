package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-api/config"
	"storefront-api/controllers"
	"storefront-api/database"
	"storefront-api/logger"
	"storefront-api/routes"
	"storefront-api/services"

	repo "storefront-api/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const checkoutSessionTTL = 30 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	// --- Stores ---
	if err := database.Connect(cfg.MongoURL, cfg.MongoDB); err != nil {
		logger.Log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer database.Close()

	if err := database.EnsureIndexes(context.Background()); err != nil {
		logger.Log.Warn("Failed to ensure indexes", zap.Error(err))
	}

	redisClient := database.NewRedisClient(cfg.RedisURL)

	// --- External collaborators ---
	verifier, err := services.NewFirebaseVerifier(context.Background(), cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	if err != nil {
		logger.Log.Fatal("Failed to initialize Firebase", zap.Error(err))
	}

	gateway := services.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	uploader, err := services.NewCloudinaryUploader(cfg.CloudinaryURL)
	if err != nil {
		logger.Log.Fatal("Failed to initialize Cloudinary", zap.Error(err))
	}

	// --- Repositories ---
	leadRepo := repo.NewMongoLeadRepo(database.DB)
	userRepo := repo.NewMongoUserRepo(database.DB)
	productRepo := repo.NewMongoProductRepo(database.DB)
	categoryRepo := repo.NewMongoCategoryRepo(database.DB)
	cartRepo := repo.NewMongoCartRepo(database.DB)
	orderRepo := repo.NewMongoOrderRepo(database.DB)
	settingsRepo := repo.NewMongoSettingsRepo(database.DB)
	sessionRepo := repo.NewRedisSessionRepo(redisClient, checkoutSessionTTL)

	// --- Services ---
	authService := services.NewAuthService(verifier, userRepo, cfg.JWTSecret, cfg.AdminIdentities, logger.Log)
	leadService := services.NewLeadService(leadRepo, logger.Log)
	catalogService := services.NewCatalogService(productRepo, categoryRepo, settingsRepo, uploader, logger.Log)
	cartService := services.NewCartService(cartRepo, productRepo, logger.Log)
	checkoutService := services.NewCheckoutService(cartRepo, orderRepo, userRepo, productRepo, sessionRepo, gateway, logger.Log)
	orderService := services.NewOrderService(orderRepo, logger.Log)
	profileService := services.NewProfileService(userRepo, logger.Log)

	// --- HTTP ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	routes.Register(router, &routes.Controllers{
		Auth:     controllers.NewAuthController(authService),
		Lead:     controllers.NewLeadController(leadService),
		Catalog:  controllers.NewCatalogController(catalogService),
		Cart:     controllers.NewCartController(cartService),
		Checkout: controllers.NewCheckoutController(checkoutService),
		Profile:  controllers.NewProfileController(profileService, orderService),
		Admin:    controllers.NewAdminController(catalogService, orderService, profileService),
	}, cfg.JWTSecret)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,

		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Log.Info("Storefront API is running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Shutdown error", zap.Error(err))
	}
	logger.Log.Info("Server shutdown complete")
}
