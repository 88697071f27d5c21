package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/suseche/inventory-api/internal/config"
	"github.com/suseche/inventory-api/internal/database"
	"github.com/suseche/inventory-api/internal/handler"
	"github.com/suseche/inventory-api/internal/middleware"
	"github.com/suseche/inventory-api/internal/queue"
	"github.com/suseche/inventory-api/internal/repository"
	"github.com/suseche/inventory-api/internal/router"
	"github.com/suseche/inventory-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(database.MigrateURL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	tokens := repository.NewTokenRepo(db)
	categories := repository.NewCategoryRepo(db)
	products := repository.NewProductRepo(db)
	variants := repository.NewVariantRepo(db)
	inventory := repository.NewInventoryRepo(db)

	auth := service.NewAuthService(cfg, users, roles, tokens)
	reports := service.NewReportService(products)

	go func() {
		if err := queue.StartMovementConsumer(); err != nil {
			log.Printf("movement consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = router.ErrorHandler(cfg.Env == "dev")

	limit := middleware.NewRateLimit(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(auth), cfg.JWTSecret, limit)
	router.RegisterUsers(e, handler.NewUserHandler(cfg, users, roles), cfg.JWTSecret)
	router.RegisterCatalog(e,
		handler.NewCategoryHandler(categories),
		handler.NewProductHandler(products, categories),
		handler.NewVariantHandler(variants, products),
		handler.NewInventoryHandler(inventory, variants),
		handler.NewReportHandler(reports),
		cfg.JWTSecret, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
