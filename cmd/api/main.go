package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bookhive/internal/config"
	"bookhive/internal/database"
	"bookhive/internal/domain"
	"bookhive/internal/mailer"
	"bookhive/internal/middleware"
	"bookhive/internal/modules/auth"
	"bookhive/internal/modules/book"
	"bookhive/internal/modules/bookrequest"
	"bookhive/internal/modules/borrow"
	"bookhive/internal/modules/notification"
	jwtsvc "bookhive/internal/pkg/jwt"
	"bookhive/internal/pkg/response"
	"bookhive/internal/repository"
	"bookhive/internal/scheduler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	response.SetProductionMode(cfg.IsProduction())

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	borrowRepo := repository.NewBorrowRepository(db)
	requestRepo := repository.NewBookRequestRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	jwtService := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	var mail mailer.Mailer
	if cfg.SMTPConfigured() {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	} else {
		log.Println("SMTP not configured, using console mailer")
		mail = mailer.NewDevConsoleMailer(!cfg.IsProduction())
	}

	hub := notification.NewHub()
	notifService := notification.NewService(notifRepo, userRepo, hub, mail)

	authService := auth.NewService(userRepo, jwtService, mail, cfg.ClientURL)
	bookService := book.NewService(bookRepo)
	borrowService := borrow.NewService(borrowRepo, bookRepo, userRepo, notifService)
	requestService := bookrequest.NewService(requestRepo, userRepo, notifService)

	sched := scheduler.New(borrowRepo, notifService)
	if err := sched.Start(); err != nil {
		log.Fatal(err)
	}
	defer sched.Stop()

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	notification.NewWSHandler(hub, jwtService).RegisterRoutes(&r.RouterGroup)

	api := r.Group("/api")
	authed := api.Group("")
	authed.Use(middleware.JWTAuth(jwtService))
	staff := authed.Group("")
	staff.Use(middleware.RequireAnyRole(string(domain.RoleAdmin), string(domain.RoleLibrarian)))
	admins := authed.Group("")
	admins.Use(middleware.AdminOnly())
	members := authed.Group("")
	members.Use(middleware.RequireRole(string(domain.RoleMember)))

	auth.NewHandler(authService).RegisterRoutes(api, authed)
	book.NewHandler(bookService).RegisterRoutes(api, staff, admins)
	borrow.NewHandler(borrowService).RegisterRoutes(authed)
	bookrequest.NewHandler(requestService).RegisterRoutes(members, admins)
	notification.NewHandler(notifService).RegisterRoutes(authed)

	log.Printf("BookHive API listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
