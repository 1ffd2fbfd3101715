package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/famnest/backend/internal/router"
	"github.com/famnest/backend/pkg/config"
	"github.com/famnest/backend/pkg/firebase"
	"github.com/famnest/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := config.OpenDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to databases: %v", err)
	}
	defer db.Close()

	// Firebase is optional; without credentials only local JWT auth works
	ctx := context.Background()
	firebaseApp, err := firebase.Init(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	var authClient *auth.Client
	if firebaseApp != nil {
		authClient = firebaseApp.AuthClient
	} else {
		log.Println("Firebase credentials not configured, running with local JWT auth only.")
	}

	e := echo.New()
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	router.SetupRoutes(e, db.Postgres, db.MongoDatabase(), authClient)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
