package main

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kiitlabs/blakmarket/internal/alerts"
	"github.com/kiitlabs/blakmarket/internal/auth"
	"github.com/kiitlabs/blakmarket/internal/catalog"
	"github.com/kiitlabs/blakmarket/internal/chat"
	"github.com/kiitlabs/blakmarket/internal/config"
	"github.com/kiitlabs/blakmarket/internal/db"
	mware "github.com/kiitlabs/blakmarket/internal/middleware"
	"github.com/kiitlabs/blakmarket/internal/orders"
	"github.com/kiitlabs/blakmarket/internal/user"
	"github.com/kiitlabs/blakmarket/internal/wallet"
)

func main() {
	cfg := config.Load()

	// Stores and services
	users := user.NewStore()
	listings := catalog.NewStore()
	chats := chat.NewStore()

	var directory wallet.Directory
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pool.Close()
		pg, err := wallet.NewPostgres(context.Background(), pool)
		if err != nil {
			log.Fatalf("wallet schema: %v", err)
		}
		directory = pg
		log.Println("Points ledger: Postgres")
	} else {
		directory = wallet.NewMemory()
		log.Println("Points ledger: in-memory")
	}

	orderSvc := orders.NewService(listings, directory, cfg.SaleRewardPoints)

	// Background email tasks
	alerts.EmailLookup = func(id string) (string, bool) {
		u, err := users.GetByID(id)
		if err != nil {
			return "", false
		}
		return u.Email, true
	}
	alerts.Init(cfg.RedisAddr)
	defer alerts.Close()

	// Handlers
	authHandler := &auth.Handler{
		Users:         users,
		Directory:     directory,
		Secret:        cfg.JWTSecret,
		EmailDomain:   cfg.CampusEmailDomain,
		WelcomePoints: cfg.WelcomePoints,
	}
	userHandler := &user.Handler{Store: users, Catalog: listings}
	catalogHandler := &catalog.Handler{Store: listings}
	chatHandler := &chat.Handler{Store: chats, Users: users}
	orderHandler := &orders.Handler{Service: orderSvc}
	walletHandler := &wallet.Handler{Directory: directory}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Health
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "blakmarket"})
	})

	// Public routes, with per-IP rate limiting on auth
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)

	e.GET("/user/:id/profile", userHandler.GetPublicProfile)
	e.GET("/marketplace/listings", catalogHandler.BrowseListings)
	e.GET("/marketplace/listings/:id", catalogHandler.GetListing)

	// Protected routes
	api := e.Group("")
	api.Use(mware.JWT(cfg.JWTSecret))

	api.GET("/me", authHandler.Me)

	api.POST("/marketplace/listings", catalogHandler.CreateListing)
	api.GET("/marketplace/listings/me", catalogHandler.GetMyListings)
	api.GET("/marketplace/listings/:id/quote", orderHandler.GetQuote)
	api.POST("/marketplace/orders", orderHandler.CreateOrder)
	api.GET("/marketplace/orders/me", orderHandler.GetMyOrders)

	api.POST("/chats", chatHandler.OpenChat)
	api.GET("/chats", chatHandler.ListChats)
	api.POST("/chats/:id/messages", chatHandler.SendMessage)
	api.GET("/chats/:id/messages", chatHandler.ListChatMessages)
	api.POST("/chats/:id/read", chatHandler.MarkChatRead)

	api.GET("/wallet/balance", walletHandler.Balance)
	api.GET("/wallet/transactions", walletHandler.GetUserTransactions)

	api.GET("/notifications", alerts.ListNotifications)
	api.POST("/notifications/:id/read", alerts.MarkNotificationRead)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
