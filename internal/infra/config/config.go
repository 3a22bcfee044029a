// internal/infra/config/config.go
package config

import "os"

// Config holds the process-wide environment settings.
type Config struct {
	Port string

	GCPCreds                 string
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string

	// FirebaseWebAPIKey authorizes the Identity Toolkit sign-in endpoint.
	// Resolved from Secret Manager when the env var is empty.
	FirebaseWebAPIKey string

	// Order confirmation mail.
	SendGridAPIKey string
	OrderMailFrom  string

	AvatarIconBucket string

	// LocalStateDir is where guest-cart and session blobs live.
	// Empty means ~/.techshop.
	LocalStateDir string
}

// Load reads the environment into a Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		FirebaseWebAPIKey: os.Getenv("FIREBASE_WEB_API_KEY"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		OrderMailFrom:  getenvDefault("ORDER_MAIL_FROM", "orders@techshop.example"),

		AvatarIconBucket: getenvDefault("AVATAR_ICON_BUCKET", "techshop-avatars"),

		LocalStateDir: os.Getenv("LOCAL_STATE_DIR"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
