package main

import (
	"log"

	"github.com/clubhub-app/clubhub/config"
	_ "github.com/clubhub-app/clubhub/docs"
	"github.com/clubhub-app/clubhub/internal/application"
	"github.com/clubhub-app/clubhub/internal/audit"
	"github.com/clubhub-app/clubhub/internal/auth"
	"github.com/clubhub-app/clubhub/internal/club"
	"github.com/clubhub-app/clubhub/internal/event"
	"github.com/clubhub-app/clubhub/internal/invite"
	"github.com/clubhub-app/clubhub/internal/membership"
	"github.com/clubhub-app/clubhub/internal/notification"
	"github.com/clubhub-app/clubhub/internal/user"
	"github.com/clubhub-app/clubhub/pkg/logger"
	"github.com/clubhub-app/clubhub/routes"
)

// @title ClubHub REST API
// @version 1.0
// @description Club membership backend: phone/OTP auth, clubs, invites, applications, events.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()
	logger.Init(cfg.App.Env)

	err := config.DB.AutoMigrate(
		&user.User{}, &user.Token{}, &auth.OTP{},
		&club.Club{}, &membership.Membership{},
		&invite.Invite{}, &application.Application{},
		&event.Event{}, &event.Registration{},
		&audit.AuditLog{}, &notification.Notification{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	r := routes.SetupRoutes(config.DB, cfg)

	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
