package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Dataset sources.
const (
	SourceCSV       = "csv"
	SourceFirestore = "firestore"
	SourcePostgres  = "postgres"
	SourceSQLite    = "sqlite"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port                string
	GinMode             string
	DatasetSource       string
	DatasetPath         string
	DatabaseURL         string
	ListingsTable       string
	FirebaseProjectID   string
	FirebaseCredsBase64 string
	FirebaseCredsFile   string
	FirestoreCollection string
	AllowedOrigins      string
	CatalogPath         string
}

// Load reads environment variables into a Config with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "release"),
		DatasetSource:       strings.ToLower(getEnv("DATASET_SOURCE", SourceCSV)),
		DatasetPath:         getEnv("DATASET_PATH", "Airbnb_data.csv"),
		DatabaseURL:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ListingsTable:       getEnv("LISTINGS_TABLE", "listings"),
		FirebaseProjectID:   strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID")),
		FirebaseCredsBase64: strings.TrimSpace(os.Getenv("FIREBASE_CREDS_BASE64")),
		FirebaseCredsFile:   strings.TrimSpace(os.Getenv("FIREBASE_CREDS_FILE")),
		FirestoreCollection: getEnv("FIRESTORE_COLLECTION", "listings"),
		AllowedOrigins:      strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")),
		CatalogPath:         strings.TrimSpace(os.Getenv("DASHBOARD_CATALOG")),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures the fields required by the selected dataset source are present.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	switch c.DatasetSource {
	case SourceCSV:
		if c.DatasetPath == "" {
			return errors.New("DATASET_PATH is required for the csv source")
		}
	case SourcePostgres, SourceSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s source", c.DatasetSource)
		}
		if !identPattern.MatchString(c.ListingsTable) {
			return fmt.Errorf("LISTINGS_TABLE %q is not a plain table name", c.ListingsTable)
		}
	case SourceFirestore:
		return c.ValidateFirestore()
	default:
		return fmt.Errorf("DATASET_SOURCE %q is not one of csv, firestore, postgres, sqlite", c.DatasetSource)
	}
	return nil
}

// ValidateFirestore ensures the Firestore project and credentials are set.
func (c Config) ValidateFirestore() error {
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.FirebaseCredsBase64 == "" && c.FirebaseCredsFile == "" {
		return errors.New("provide FIREBASE_CREDS_BASE64 or FIREBASE_CREDS_FILE for Firestore auth")
	}
	if c.FirestoreCollection == "" {
		return errors.New("FIRESTORE_COLLECTION is required")
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS into its entries.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// FirebaseCredentialsJSON returns the service account JSON bytes and the source used.
func (c Config) FirebaseCredentialsJSON() ([]byte, string, error) {
	if c.FirebaseCredsBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(c.FirebaseCredsBase64)
		if err != nil {
			return nil, "base64", fmt.Errorf("decode FIREBASE_CREDS_BASE64: %w", err)
		}
		return decoded, "base64", nil
	}
	if c.FirebaseCredsFile != "" {
		data, err := os.ReadFile(c.FirebaseCredsFile)
		if err != nil {
			return nil, "file", fmt.Errorf("read FIREBASE_CREDS_FILE: %w", err)
		}
		return data, "file", nil
	}
	return nil, "", errors.New("no firebase credentials found")
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}
