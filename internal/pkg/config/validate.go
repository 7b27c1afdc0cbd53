package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("upload.max_file_size must be positive, got %d", c.Upload.MaxFileSize)
	}
	if c.Upload.MaxFiles < 2 {
		return fmt.Errorf("upload.max_files must allow at least 2 files, got %d", c.Upload.MaxFiles)
	}
	if c.Upload.AssetTTL <= 0 {
		return errors.New("upload.asset_ttl must be positive")
	}
	if c.Engine.MaxConcurrent < 0 {
		return errors.New("engine.max_concurrent must not be negative")
	}
	if c.Retention.OutputTTL <= 0 || c.Retention.DownloadGrace <= 0 {
		return errors.New("retention ttl and grace must be positive")
	}
	if c.Retention.SweepSpec == "" {
		return errors.New("retention.sweep_spec is required")
	}
	if c.Broadcast.SubscriberBuffer <= 0 {
		return errors.New("broadcast.subscriber_buffer must be positive")
	}
	switch c.Database.Driver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}
