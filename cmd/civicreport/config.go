package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"civicreport/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// loadConfig reads envFile (when it exists) into the environment and then
// processes it with prefix. Variables already set win over the file.
func loadConfig(prefix, envFile string) (*types.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	c := new(types.Config)
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if _, err := c.DSN(); err != nil {
		return nil, err
	}

	switch c.BlobBackend {
	case types.BlobBackendLocal:
	case types.BlobBackendS3:
		if c.S3Bucket == "" {
			return nil, fmt.Errorf("set S3_BUCKET when BLOB_BACKEND is s3")
		}
	default:
		return nil, fmt.Errorf("unknown BLOB_BACKEND %q", c.BlobBackend)
	}

	if c.MaxContentLength <= 0 {
		return nil, fmt.Errorf("MAX_CONTENT_LENGTH must be positive")
	}

	return c, nil
}

func configFromCLI(cCtx *cli.Context) (*types.Config, error) {
	return loadConfig(cCtx.String("env-prefix"), cCtx.String("env-file"))
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

func newLogger(c *types.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if c.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	logger.SetLevel(level)

	return logger, nil
}
