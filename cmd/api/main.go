package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	config "github.com/anjiri1684/tuition_admin/configs"
	"github.com/anjiri1684/tuition_admin/database"
	"github.com/anjiri1684/tuition_admin/handlers"
	"github.com/anjiri1684/tuition_admin/middleware"
	"github.com/anjiri1684/tuition_admin/notifications"
	"github.com/anjiri1684/tuition_admin/routes"
	"github.com/anjiri1684/tuition_admin/services"
	"github.com/anjiri1684/tuition_admin/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger := zerolog.New(os.Stderr)
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger := zerolog.New(os.Stderr)
		logger.Fatal().Err(err).Msg("invalid config")
	}
	log := utils.NewLogger(cfg.Env, cfg.LogLevel)

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	if err := database.SeedAdmin(context.Background(), db, cfg.Admin, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin user")
	}

	notifier := notifications.New(cfg, log)

	var uploader services.FileUploader
	if cfg.Cloudinary.URL != "" {
		cld, err := services.NewCloudinaryUploader(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure cloudinary")
		}
		uploader = cld
	} else {
		log.Warn().Msg("CLOUDINARY_URL not set, receipt publishing disabled")
	}

	tokens := services.NewTokenService(db, cfg.JWT.Secret, cfg.JWT.TTL)
	payments := services.NewPaymentService(db, log)
	h := handlers.New(
		services.NewAccountService(db, tokens, notifier, log),
		services.NewStudentService(db),
		services.NewFeeService(db),
		payments,
		services.NewReceiptService(db, payments, services.ChromeRenderer{}, uploader, cfg.Receipt.RenderTimeout, log),
		log,
	)

	app := fiber.New(fiber.Config{
		Prefork:       false,
		AppName:       "Tuition Admin",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		IdleTimeout:   cfg.Server.IdleTimeout,
		ErrorHandler:  handlers.ErrorHandler(log),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.Setup(app, h, middleware.NewAuth(tokens))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
