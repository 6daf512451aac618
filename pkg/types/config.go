package types

import (
	"fmt"
	"net/url"
	"strings"
)

type BlobBackend string

const (
	BlobBackendLocal BlobBackend = "local"
	BlobBackendS3    BlobBackend = "s3"
)

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	ServerPort      uint   `envconfig:"PORT" default:"5000"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Either DATABASE_URL or the individual DB_* parts
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"DB_HOST"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBName      string `envconfig:"DB_NAME"`
	DBUser      string `envconfig:"DB_USER"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBSchema    string `envconfig:"DB_SCHEMA" default:"public"`

	// Uploads
	UploadDir         string      `envconfig:"UPLOAD_DIR" default:"uploads"`
	UploadRoute       string      `envconfig:"UPLOAD_ROUTE" default:"/uploads"`
	MaxContentLength  int64       `envconfig:"MAX_CONTENT_LENGTH" default:"16777216"` // 16 MiB
	AllowedExtensions []string    `envconfig:"ALLOWED_EXTENSIONS" default:"png,jpg,jpeg,gif"`
	BlobBackend       BlobBackend `envconfig:"BLOB_BACKEND" default:"local"`

	// S3 blob backend
	S3Bucket   string `envconfig:"S3_BUCKET"`
	S3Prefix   string `envconfig:"S3_PREFIX"`
	S3Endpoint string `envconfig:"S3_ENDPOINT"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// DSN returns DATABASE_URL when set, otherwise a postgres URL assembled from
// the DB_* parts.
func (c *Config) DSN() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}

	if c.DBHost == "" || c.DBName == "" {
		return "", fmt.Errorf("set DATABASE_URL or DB_HOST and DB_NAME")
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   c.DBHost,
		Path:   "/" + c.DBName,
	}
	if c.DBPort != "" {
		u.Host = fmt.Sprintf("%s:%s", c.DBHost, c.DBPort)
	}
	if c.DBUser != "" {
		if c.DBPassword != "" {
			u.User = url.UserPassword(c.DBUser, c.DBPassword)
		} else {
			u.User = url.User(c.DBUser)
		}
	}

	return u.String(), nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// ImagePath is the public path an uploaded file is served from.
func (c *Config) ImagePath(filename string) string {
	return strings.TrimSuffix(c.UploadRoute, "/") + "/" + filename
}
