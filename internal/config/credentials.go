package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Credentials holds the Google OAuth client registration read from
// the TOML credentials file.
type Credentials struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// LoadCredentials reads the OAuth client registration from path.
// Environment variables SHDOCS_CLIENT_ID and SHDOCS_CLIENT_SECRET
// override the file so deployments can skip it entirely.
func LoadCredentials(path string) (Credentials, error) {
	var creds Credentials
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &creds); err != nil {
			return Credentials{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	if id := strings.TrimSpace(os.Getenv("SHDOCS_CLIENT_ID")); id != "" {
		creds.ClientID = id
	}
	if secret := strings.TrimSpace(os.Getenv("SHDOCS_CLIENT_SECRET")); secret != "" {
		creds.ClientSecret = secret
	}

	if creds.ClientID == "" || creds.ClientSecret == "" {
		return Credentials{}, fmt.Errorf("config: Google OAuth 클라이언트 정보가 없습니다 (%s)", path)
	}
	return creds, nil
}

// OAuthConfig builds the oauth2 configuration for the Google consent flow.
func (c Credentials) OAuthConfig(baseURL string, scopes ...string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  baseURL + "/auth/callback",
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}
}
