package gcp

import (
	"os"
	"strings"

	"google.golang.org/api/option"
)

// ClientOptionsFromEnv accepts GOOGLE_APPLICATION_CREDENTIALS_JSON (inline)
// or GOOGLE_APPLICATION_CREDENTIALS (path). Nil means application default.
func ClientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}
