package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the import run needs. Values come from three
// layers, later ones winning: built-in defaults, an optional YAML file,
// environment variables (the same names the legacy shell setup used).
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Source   SourceConfig   `yaml:"source"`
	Uploads  UploadsConfig  `yaml:"uploads"`
	Admin    AdminConfig    `yaml:"admin"`
	Import   ImportConfig   `yaml:"import"`
}

// DatabaseConfig describes the legacy Joomla/Kunena MySQL database.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// GetDSN returns the MySQL DSN for GORM
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// SourceConfig describes the legacy forum installation being read.
type SourceConfig struct {
	// Prefix is the Joomla table-name prefix ("jos_", sometimes "iff_").
	Prefix string `yaml:"prefix"`
	// Domain is the base site URL of the old forum.
	Domain string `yaml:"domain"`
	// ForumDomain is the bare domain marker used to recognize links that
	// point back into the old forum.
	ForumDomain string `yaml:"forum_domain"`
	// FBFilesPrefix is the public URL prefix of legacy attachment files.
	FBFilesPrefix string `yaml:"fbfiles_prefix"`
	// ParentField is the parent-post column name; "parent" in most schema
	// versions, "parent_id" in some.
	ParentField string `yaml:"parent_field"`
	// LinkLabel is the generic label used for rewritten links.
	LinkLabel string `yaml:"link_label"`
	// ValidateLinks enables a HEAD probe on external links. Off by default:
	// it blocks on a full HTTP round trip per link.
	ValidateLinks bool `yaml:"validate_links"`
}

// UploadsConfig describes where attachment and avatar files live locally.
type UploadsConfig struct {
	// Path is the local root the cleaned attachment paths are joined onto.
	Path string `yaml:"path"`
	// AvatarPrefix is the local directory holding legacy avatar files.
	AvatarPrefix string `yaml:"avatar_prefix"`
	// CleanPaths are historical absolute filesystem prefixes found in
	// fb_attachments.filelocation; each is stripped before joining onto Path.
	CleanPaths []string `yaml:"clean_paths"`
	// SinkDir is where the file sink writes its JSONL output and uploads.
	SinkDir string `yaml:"sink_dir"`
}

// AdminConfig describes the admin account created after the import.
type AdminConfig struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

// ImportConfig holds batch tuning.
type ImportConfig struct {
	BatchSize int `yaml:"batch_size"`
}

// Default returns the built-in configuration, matching the legacy setup.
func Default() *Config {
	uploads := "tmp/uploads"
	return &Config{
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     "3306",
			Name:     "board",
			User:     "root",
			Password: "board",
		},
		Source: SourceConfig{
			Prefix:      "jos_",
			Domain:      "http://p98513ev.beget.tech",
			ForumDomain: "zlatoverstmcc.ru",
			ParentField: "parent",
			LinkLabel:   "Ссылка",
		},
		Uploads: UploadsConfig{
			Path:         uploads,
			AvatarPrefix: filepath.Join(uploads, "components/com_fireboard/avatars"),
			CleanPaths: []string{
				"/storage/home/srv1435/183528.hoster-test.ru/html//",
				"/home/zlatover/public_html/",
				"/pub/home/zlatoverst/htdocs/",
				"/home/elftlru/public_html/zlatoverst/",
			},
			SinkDir: "tmp/import",
		},
		Admin: AdminConfig{
			Email: "api@mrcr.ru",
			Name:  "Alex Merkulov",
		},
		Import: ImportConfig{
			BatchSize: 1000,
		},
	}
}

// LoadDotEnv overlays .env files onto the process environment before
// Load reads it, so a checked-out run can keep its DB credentials and
// path overrides out of the shell. godotenv never overwrites variables
// already set, which gives the precedence OS env > .env.local > .env.
// Returns the files that were found.
func LoadDotEnv() []string {
	var loaded []string
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err == nil {
			loaded = append(loaded, name)
		}
	}
	return loaded
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.Source.FBFilesPrefix == "" {
		cfg.Source.FBFilesPrefix = cfg.Source.Domain + "/images/fbfiles"
	}
	if cfg.Uploads.AvatarPrefix == "" {
		cfg.Uploads.AvatarPrefix = filepath.Join(cfg.Uploads.Path, "components/com_fireboard/avatars")
	}
	if cfg.Import.BatchSize <= 0 {
		cfg.Import.BatchSize = 1000
	}
	return cfg, nil
}

// applyEnv overlays the environment variable names the original shell
// setup documented.
func (c *Config) applyEnv() {
	setEnv(&c.Database.Host, "DB_HOST")
	setEnv(&c.Database.Port, "DB_PORT")
	setEnv(&c.Database.Name, "DB_NAME")
	setEnv(&c.Database.User, "DB_USER")
	setEnv(&c.Database.Password, "DB_PW")
	setEnv(&c.Source.Prefix, "KUNENA_PREFIX")
	setEnv(&c.Source.Domain, "DOMAIN_PREFIX")
	setEnv(&c.Source.ForumDomain, "FORUM_DOMAIN")
	setEnv(&c.Source.FBFilesPrefix, "FBFILES_PREFIX")
	setEnv(&c.Source.ParentField, "PARENT_FIELD")
	setEnv(&c.Uploads.Path, "UPLOADS_PATH")
	setEnv(&c.Uploads.AvatarPrefix, "AVATAR_PREFIX")
	setEnv(&c.Uploads.SinkDir, "SINK_DIR")

	cleanVars := []string{
		"REPLACE_ATTACHMENT_PATH",
		"REPLACE_ATTACHMENT_PATH2",
		"REPLACE_ATTACHMENT_PATH3",
		"REPLACE_ATTACHMENT_PATH4",
	}
	for i, name := range cleanVars {
		if v := os.Getenv(name); v != "" && i < len(c.Uploads.CleanPaths) {
			c.Uploads.CleanPaths[i] = v
		}
	}
}

func setEnv(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
