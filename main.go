package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"orderof86-server/controllers"
	"orderof86-server/middlewares"
	"orderof86-server/routes"
	"orderof86-server/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// envStr reads a string env var with a default fallback.
func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	// ---- Environment (.env is optional; real env vars win either way)
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// ---- Wizard data (load failure is tolerated; routes answer 404)
	st := store.Load(envStr("WIZARD_DATA", "data/wizards.json"), logger)

	// ---- Fiber app with global error handler
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler(logger),
	})

	// ---- Hardening + observability
	app.Use(recover.New())
	app.Use(helmet.New(helmet.Config{
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))
	app.Use(requestid.New())
	app.Use(middlewares.RequestLogger(logger))

	// ---- CORS
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// ---- Global rate limiter (applies to all routes; tune via env)
	rlMax := envInt("RATE_LIMIT_MAX", 60)                                            // default 60 reqs
	rlWindow := time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second // default 60s window
	rl := middlewares.NewRateLimiter(rlMax, rlWindow)
	go rl.StartSweeper(context.Background(), 5*time.Minute)
	app.Use(middlewares.RateLimit(rl))

	// ---- Controllers + routes
	port := envStr("PORT", "3000")
	baseURL := envStr("BASE_URL", "http://localhost:"+port)
	docRoot := envStr("DOC_ROOT", "public")

	static, err := controllers.NewStaticController(docRoot, logger)
	if err != nil {
		logger.Fatal("document root unusable", zap.String("root", docRoot), zap.Error(err))
	}
	wizards := controllers.NewWizardController(st, baseURL, docRoot, logger)
	routes.Register(app, routes.Deps{Wizards: wizards, Static: static})

	// ---- Start
	logger.Info("serving", zap.String("port", port), zap.String("base_url", baseURL))
	if err := app.Listen(":" + port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
