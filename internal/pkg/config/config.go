package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upload    UploadConfig    `yaml:"upload"`
	Engine    EngineConfig    `yaml:"engine"`
	Retention RetentionConfig `yaml:"retention"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port   string `yaml:"port"`
	Host   string `yaml:"host"`
	Locale string `yaml:"locale"`
}

type UploadConfig struct {
	RootDir     string        `yaml:"root_dir"` // uploads, manifests and outputs live below it
	UploadsDir  string        `yaml:"uploads_dir"`
	ManifestDir string        `yaml:"manifest_dir"`
	OutputDir   string        `yaml:"output_dir"`
	MaxFileSize int64         `yaml:"max_file_size"` // bytes
	MaxFiles    int           `yaml:"max_files"`
	AssetTTL    time.Duration `yaml:"asset_ttl"`
}

type EngineConfig struct {
	FFmpegPath    string `yaml:"ffmpeg_path"`
	FFprobePath   string `yaml:"ffprobe_path"`
	MaxConcurrent int64  `yaml:"max_concurrent"` // 0 = unlimited
}

type RetentionConfig struct {
	OutputTTL     time.Duration `yaml:"output_ttl"`
	DownloadGrace time.Duration `yaml:"download_grace"`
	SweepSpec     string        `yaml:"sweep_spec"`
	SweepMaxAge   time.Duration `yaml:"sweep_max_age"`
}

type BroadcastConfig struct {
	SubscriberBuffer int           `yaml:"subscriber_buffer"`
	Heartbeat        time.Duration `yaml:"heartbeat"`
}

// DatabaseConfig enables job history when Driver is set (postgres or sqlite).
type DatabaseConfig struct {
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	DBName      string `yaml:"db_name"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type RedisConfig struct {
	Addr    string `yaml:"addr"`
	Channel string `yaml:"channel"`
}

type ArchiveConfig struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
	Prefix string `yaml:"prefix"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// LoadConfig reads the environment, overlays CONFIG_FILE when set and
// resolves the working directories.
func LoadConfig() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:   getEnv("SERVER_PORT", "3000"),
			Host:   getEnv("SERVER_HOST", "localhost"),
			Locale: getEnv("APP_LOCALE", "en"),
		},
		Upload: UploadConfig{
			RootDir:     getEnv("UPLOAD_ROOT_DIR", "data"),
			UploadsDir:  getEnv("UPLOAD_DIR", "uploads"),
			ManifestDir: getEnv("UPLOAD_MANIFEST_DIR", "manifests"),
			OutputDir:   getEnv("UPLOAD_OUTPUT_DIR", "outputs"),
			MaxFileSize: getEnvAsInt64("UPLOAD_MAX_FILE_SIZE", 2*1024*1024*1024), // 2GB
			MaxFiles:    int(getEnvAsInt64("UPLOAD_MAX_FILES", 50)),
			AssetTTL:    getEnvAsDuration("UPLOAD_ASSET_TTL", time.Hour),
		},
		Engine: EngineConfig{
			FFmpegPath:    getEnv("ENGINE_FFMPEG_PATH", "ffmpeg"),
			FFprobePath:   getEnv("ENGINE_FFPROBE_PATH", "ffprobe"),
			MaxConcurrent: getEnvAsInt64("ENGINE_MAX_CONCURRENT", 2),
		},
		Retention: RetentionConfig{
			OutputTTL:     getEnvAsDuration("RETENTION_OUTPUT_TTL", time.Hour),
			DownloadGrace: getEnvAsDuration("RETENTION_DOWNLOAD_GRACE", 30*time.Second),
			SweepSpec:     getEnv("RETENTION_SWEEP_SPEC", "0 */5 * * * *"),
			SweepMaxAge:   getEnvAsDuration("RETENTION_SWEEP_MAX_AGE", 24*time.Hour),
		},
		Broadcast: BroadcastConfig{
			SubscriberBuffer: int(getEnvAsInt64("BROADCAST_BUFFER", 64)),
			Heartbeat:        getEnvAsDuration("BROADCAST_HEARTBEAT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", ""),
			DSN:         getEnv("DB_DSN", ""),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			DBName:      getEnv("DB_NAME", "media_orchestrator"),
			AutoMigrate: getEnv("RUN_AUTO_MIGRATION", "true") == "true",
		},
		Redis: RedisConfig{
			Addr:    getEnv("REDIS_ADDR", ""),
			Channel: getEnv("REDIS_CHANNEL", "media:jobs"),
		},
		Archive: ArchiveConfig{
			Bucket: getEnv("S3_BUCKET", ""),
			Region: getEnv("S3_REGION", "eu-central-1"),
			Prefix: getEnv("S3_PREFIX", "outputs"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.overlay(path); err != nil {
			return nil, err
		}
	}

	if err := config.resolveDirs(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// overlay decodes a YAML file on top of the env values; unknown keys are rejected.
func (c *Config) overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func (c *Config) resolveDirs() error {
	root := c.Upload.RootDir
	if !filepath.IsAbs(root) {
		projectRoot, err := findProjectRoot()
		if err != nil {
			return err
		}
		root = filepath.Join(projectRoot, root)
	}
	c.Upload.RootDir = root

	for _, dir := range []*string{&c.Upload.UploadsDir, &c.Upload.ManifestDir, &c.Upload.OutputDir} {
		if !filepath.IsAbs(*dir) {
			*dir = filepath.Join(root, *dir)
		}
	}
	return nil
}

// EnsureDirs creates the working directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Upload.UploadsDir, c.Upload.ManifestDir, c.Upload.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// PostgresDSN builds a DSN from the discrete fields unless DSN is set.
func (c DatabaseConfig) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.DBName)
}

func findProjectRoot() (string, error) {
	current, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(current, "go.mod")); err == nil {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return os.Getwd()
		}
		current = parent
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
