// Package credentials loads the service-account identity shared by the cloud
// speech clients.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const (
	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
	serviceAccountType = "service_account"
)

// Credentials is a read-only handle built once at startup. The zero value and
// a nil pointer both mean "use Application Default Credentials".
type Credentials struct {
	path  string
	creds *google.Credentials
}

// Load reads a service-account key from path. A missing or unparsable file,
// or a key of any other credential type, is logged and yields an unset
// handle; Load never fails.
func Load(ctx context.Context, path string, logger *slog.Logger) *Credentials {
	c := &Credentials{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			wd, _ := os.Getwd()
			logger.Warn("credentials file not found, using application default credentials",
				"path", path, "cwd", wd)
			return c
		}
		logger.Error("failed to read credentials file", "path", path, "error", err)
		return c
	}

	var key struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &key); err != nil {
		logger.Error("failed to parse credentials file", "path", path, "error", err)
		return c
	}
	if key.Type != serviceAccountType {
		logger.Error("credentials file is not a service account key", "path", path, "type", key.Type)
		return c
	}

	creds, err := google.CredentialsFromJSON(ctx, data, cloudPlatformScope)
	if err != nil {
		logger.Error("failed to parse credentials file", "path", path, "error", err)
		return c
	}

	c.creds = creds
	logger.Info("loaded credentials", "path", path, "project_id", c.ProjectID())
	return c
}

func (c *Credentials) IsSet() bool {
	return c != nil && c.creds != nil
}

// Source describes where client identity comes from, for logs and readiness.
func (c *Credentials) Source() string {
	if !c.IsSet() {
		return "application_default"
	}
	return "service_account:" + c.path
}

func (c *Credentials) ProjectID() string {
	if !c.IsSet() {
		return ""
	}
	return c.creds.ProjectID
}

// ClientOptions returns the options to pass to a Google API client
// constructor. It is empty when the handle is unset.
func (c *Credentials) ClientOptions() []option.ClientOption {
	if !c.IsSet() {
		return nil
	}
	return []option.ClientOption{option.WithCredentials(c.creds)}
}
