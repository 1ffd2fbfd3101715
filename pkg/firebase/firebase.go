// Package firebase wraps Firebase Admin SDK initialization. Firebase is
// optional: when no credentials are configured, the server falls back to
// local JWT authentication only.
package firebase

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and auth client
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// Init initializes the Firebase application and auth client from a service
// account credentials file. An empty path returns (nil, nil) so callers can
// run without Firebase.
func Init(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		return nil, nil
	}
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	return &App{FirebaseApp: app, AuthClient: authClient}, nil
}
