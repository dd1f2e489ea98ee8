package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/quick-rate/models"
)

// PageDescription controls the optional description block rendered above the
// annotation form. The value comes from the first non-empty cell of Column in
// the presented group and replaces {{value}} in TemplateHTML.
type PageDescription struct {
	Enabled      *bool  `yaml:"enabled"`
	Column       string `yaml:"column"`
	TemplateHTML string `yaml:"template_html"`
}

type Config struct {
	// Runtime settings (flags / env)
	Port          int
	ConfigFile    string
	SessionSecret string

	// Project settings (config.yaml)
	ProjectName     string           `yaml:"project_name"`
	MediaType       string           `yaml:"media_type"`
	ItemsFile       string           `yaml:"items_file"`
	QuestionsFile   string           `yaml:"questions_file"`
	BatchSize       int              `yaml:"batch_size"`
	ShuffleItems    *bool            `yaml:"shuffle_items"`
	AllowRepeat     bool             `yaml:"allow_repeat"`
	AllowSkip       bool             `yaml:"allow_skip"`
	OutputCSV       string           `yaml:"output_csv"`
	OutputSQLite    string           `yaml:"output_sqlite"`
	MediaDir        string           `yaml:"media_dir"`
	PageHeaderHTML  string           `yaml:"page_header_html"`
	PageDescription *PageDescription `yaml:"page_description"`
	CoderMode       string           `yaml:"coder_mode"`
	CodersFile      string           `yaml:"coders_file"`
	AssignmentsFile string           `yaml:"assignments_file"`
	Watch           bool             `yaml:"watch"`
}

// Shuffle reports whether item groups are presented in random order.
// Defaults to true when config.yaml does not set shuffle_items.
func (c Config) Shuffle() bool {
	return c.ShuffleItems == nil || *c.ShuffleItems
}

// DescriptionEnabled reports whether the page description block is rendered.
func (c Config) DescriptionEnabled() bool {
	return c.PageDescription == nil ||
		c.PageDescription.Enabled == nil || *c.PageDescription.Enabled
}

// DescriptionColumn returns the items.csv column feeding the page
// description block.
func (c Config) DescriptionColumn() string {
	if c.PageDescription == nil || c.PageDescription.Column == "" {
		return "description"
	}
	return c.PageDescription.Column
}

// DescriptionTemplate returns the HTML template for the page description
// block; {{value}} is replaced with the column value.
func (c Config) DescriptionTemplate() string {
	if c.PageDescription == nil || c.PageDescription.TemplateHTML == "" {
		return "<h3>{{value}}</h3>"
	}
	return c.PageDescription.TemplateHTML
}

// ParseFlags validates flags, loads an optional .env, and reads the project
// config file.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// .env is optional; real env vars win over it
	_ = godotenv.Load()

	fs := flag.NewFlagSet("quick-rate", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.ConfigFile, "c", "", "Project config file (config.yaml)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 5000 // default
		}
	}
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv("CONFIG_FILE")
	}
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = "config.yaml"
	}

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	if err := cfg.loadFile(cfg.ConfigFile); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.applyDefaults()
	return c.validate()
}

func (c *Config) applyDefaults() {
	if c.ProjectName == "" {
		c.ProjectName = "Annotation"
	}
	if c.MediaType == "" {
		c.MediaType = models.MediaImage
	}
	if c.ItemsFile == "" {
		c.ItemsFile = "items.csv"
	}
	if c.QuestionsFile == "" {
		c.QuestionsFile = "questions.json"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 5
	}
	if c.OutputCSV == "" {
		c.OutputCSV = "ratings.csv"
	}
	if c.CoderMode == "" {
		c.CoderMode = models.ModeFreeEntry
	}
	if c.CodersFile == "" {
		c.CodersFile = "coders.csv"
	}
}

func (c *Config) validate() error {
	switch c.MediaType {
	case models.MediaImage, models.MediaText, models.MediaAudio, models.MediaVideo:
	default:
		return fmt.Errorf("invalid media_type %q (want image, text, audio, or video)", c.MediaType)
	}
	switch c.CoderMode {
	case models.ModeFreeEntry, models.ModePseudonym:
	default:
		return fmt.Errorf("invalid coder_mode %q (want free_entry or pseudonym)", c.CoderMode)
	}
	return nil
}

// EnsureOutputDir creates the parent directory of the output CSV so the
// first append cannot fail on a missing path.
func (c Config) EnsureOutputDir() error {
	parent := filepath.Dir(c.OutputCSV)
	if parent == "" || parent == "." {
		return nil
	}
	return os.MkdirAll(parent, 0o755)
}
