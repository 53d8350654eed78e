package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"

	apperrors "github.com/semmidev/rowvault/internal/errors"
)

const (
	EngineSQLite  = "sqlite"
	EngineMySQL   = "mysql"
	EngineMariaDB = "mariadb"
)

type Config struct {
	App       AppConfig        `mapstructure:"app"`
	Databases []DatabaseConfig `mapstructure:"databases"`
	Backup    BackupConfig     `mapstructure:"backup"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

// DatabaseConfig is one fully resolved database entry. Immutable once
// resolved: the backup pipeline only reads it.
type DatabaseConfig struct {
	Name      string `mapstructure:"name"`
	Type      string `mapstructure:"type"`
	BatchSize int    `mapstructure:"batch_size"`
	Schedule  string `mapstructure:"schedule"`

	// SQLite specific
	Path string `mapstructure:"path"`

	// MySQL / MariaDB specific
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type BackupConfig struct {
	OutputDir       string         `mapstructure:"output_dir"`
	Compress        bool           `mapstructure:"compress"`
	BatchSize       int            `mapstructure:"batch_size"`
	TimestampFormat string         `mapstructure:"timestamp_format"`
	RetentionDays   int            `mapstructure:"retention_days"`
	UploadTargets   []UploadTarget `mapstructure:"upload_targets"`
}

type UploadTarget struct {
	Type    string `mapstructure:"type"`
	Enabled bool   `mapstructure:"enabled"`

	// AWS S3
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// Overrides carries flag-level settings that win over every other layer.
type Overrides struct {
	OutputDir  string
	BatchSize  int
	NoCompress bool
}

// Load resolves the final configuration: built-in defaults, then the YAML
// file (with ${VAR} interpolation), then environment fallback entries when
// the file defines no databases. A missing file is not an error; the
// environment alone can describe a database.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("app.name", "rowvault")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("backup.output_dir", "./backups")
	v.SetDefault("backup.compress", true)
	v.SetDefault("backup.batch_size", 1000)
	v.SetDefault("backup.timestamp_format", "02-01-2006")
	v.SetDefault("backup.retention_days", 0)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	interpolateEnv(&cfg)

	if len(cfg.Databases) == 0 {
		cfg.Databases = databasesFromEnv()
	}

	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// interpolateEnv expands ${VAR} references in every string field that may
// carry secrets or host-specific values.
func interpolateEnv(cfg *Config) {
	cfg.App.LogFile = os.ExpandEnv(cfg.App.LogFile)

	for i := range cfg.Databases {
		db := &cfg.Databases[i]
		db.Name = os.ExpandEnv(db.Name)
		db.Path = os.ExpandEnv(db.Path)
		db.Host = os.ExpandEnv(db.Host)
		db.Username = os.ExpandEnv(db.Username)
		db.Password = os.ExpandEnv(db.Password)
		db.Database = os.ExpandEnv(db.Database)
	}

	cfg.Backup.OutputDir = os.ExpandEnv(cfg.Backup.OutputDir)
	for i := range cfg.Backup.UploadTargets {
		t := &cfg.Backup.UploadTargets[i]
		t.Region = os.ExpandEnv(t.Region)
		t.Bucket = os.ExpandEnv(t.Bucket)
		t.AccessKey = os.ExpandEnv(t.AccessKey)
		t.SecretKey = os.ExpandEnv(t.SecretKey)
		t.Prefix = os.ExpandEnv(t.Prefix)
	}
}

// databasesFromEnv builds database entries from SQLITE_PATH / MYSQL_HOST
// environment variables so the tool works without a config file at all.
func databasesFromEnv() []DatabaseConfig {
	var databases []DatabaseConfig

	if path := os.Getenv("SQLITE_PATH"); path != "" {
		name := os.Getenv("SQLITE_NAME")
		if name == "" {
			name = "sqlite-default"
		}
		databases = append(databases, DatabaseConfig{
			Name: name,
			Type: EngineSQLite,
			Path: path,
		})
	}

	if host := os.Getenv("MYSQL_HOST"); host != "" {
		name := os.Getenv("MYSQL_NAME")
		if name == "" {
			name = "mysql-default"
		}
		port := 3306
		if p, err := strconv.Atoi(os.Getenv("MYSQL_PORT")); err == nil && p > 0 {
			port = p
		}
		databases = append(databases, DatabaseConfig{
			Name:     name,
			Type:     EngineMySQL,
			Host:     host,
			Port:     port,
			Username: os.Getenv("MYSQL_USER"),
			Password: os.Getenv("MYSQL_PASSWORD"),
			Database: os.Getenv("MYSQL_DATABASE"),
		})
	}

	return databases
}

func normalize(cfg *Config) {
	for i := range cfg.Databases {
		db := &cfg.Databases[i]
		if db.Type == "" {
			db.Type = EngineMySQL
		}
		if db.Name == "" {
			if db.Database != "" {
				db.Name = db.Database
			} else if db.Path != "" {
				db.Name = db.Path
			} else {
				db.Name = "unnamed"
			}
		}
		if db.Port == 0 && (db.Type == EngineMySQL || db.Type == EngineMariaDB) {
			db.Port = 3306
		}
		if db.BatchSize == 0 {
			db.BatchSize = cfg.Backup.BatchSize
		}
	}
}

func (c *Config) Validate() error {
	if len(c.Databases) == 0 {
		return apperrors.NewConfigError("databases", "at least one database configuration is required")
	}

	seen := make(map[string]struct{}, len(c.Databases))
	for i, db := range c.Databases {
		field := fmt.Sprintf("databases[%d]", i)

		if db.Name == "" {
			return apperrors.NewConfigError(field+".name", "name is required")
		}
		if _, ok := seen[db.Name]; ok {
			return apperrors.NewConfigError(field+".name", fmt.Sprintf("duplicate database label %q", db.Name))
		}
		seen[db.Name] = struct{}{}

		switch db.Type {
		case EngineSQLite:
			if db.Path == "" {
				return apperrors.NewConfigError(field+".path", "sqlite requires a path to the .db file")
			}
		case EngineMySQL, EngineMariaDB:
			if db.Host == "" || db.Username == "" || db.Database == "" {
				return apperrors.NewConfigError(field, "mysql requires host, username and database")
			}
		default:
			return apperrors.NewConfigError(field+".type", fmt.Sprintf("unknown database type %q, use 'sqlite' or 'mysql'", db.Type))
		}

		if db.BatchSize <= 0 {
			return apperrors.NewConfigError(field+".batch_size", "batch size must be a positive integer")
		}
	}

	if c.Backup.OutputDir == "" {
		return apperrors.NewConfigError("backup.output_dir", "output directory is required")
	}
	if c.Backup.TimestampFormat == "" {
		return apperrors.NewConfigError("backup.timestamp_format", "timestamp format is required")
	}

	for i, t := range c.Backup.UploadTargets {
		if !t.Enabled {
			continue
		}
		if t.Type != "s3" {
			return apperrors.NewConfigError(fmt.Sprintf("backup.upload_targets[%d].type", i), fmt.Sprintf("unknown upload target type %q", t.Type))
		}
		if t.Bucket == "" || t.Region == "" {
			return apperrors.NewConfigError(fmt.Sprintf("backup.upload_targets[%d]", i), "s3 target requires bucket and region")
		}
	}

	return nil
}

// Apply layers flag-level overrides onto the resolved configuration.
func (c *Config) Apply(o Overrides) {
	if o.OutputDir != "" {
		c.Backup.OutputDir = o.OutputDir
	}
	if o.BatchSize > 0 {
		c.Backup.BatchSize = o.BatchSize
		for i := range c.Databases {
			c.Databases[i].BatchSize = o.BatchSize
		}
	}
	if o.NoCompress {
		c.Backup.Compress = false
	}
}

// SelectDatabases restricts the run to the given labels. An empty filter
// selects everything; an unmatched label aborts before any backup starts.
func (c *Config) SelectDatabases(labels []string) ([]DatabaseConfig, error) {
	if len(labels) == 0 {
		return c.Databases, nil
	}

	byName := make(map[string]DatabaseConfig, len(c.Databases))
	for _, db := range c.Databases {
		byName[db.Name] = db
	}

	selected := make([]DatabaseConfig, 0, len(labels))
	for _, label := range labels {
		db, ok := byName[label]
		if !ok {
			available := make([]string, 0, len(c.Databases))
			for _, d := range c.Databases {
				available = append(available, d.Name)
			}
			return nil, apperrors.NewConfigError("db", fmt.Sprintf("no database matching label %q, available: %v", label, available))
		}
		selected = append(selected, db)
	}

	return selected, nil
}

func (c *Config) GetEnabledUploadTargets() []UploadTarget {
	var enabled []UploadTarget
	for _, target := range c.Backup.UploadTargets {
		if target.Enabled {
			enabled = append(enabled, target)
		}
	}
	return enabled
}

// ConnectionString identifies the database for logs and the manifest.
// It never includes credentials.
func (d DatabaseConfig) ConnectionString() string {
	if d.Type == EngineSQLite {
		return d.Path
	}
	return fmt.Sprintf("%s@%s:%d", d.Database, d.Host, d.Port)
}
