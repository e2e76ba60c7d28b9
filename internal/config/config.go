package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Version       string   `json:"version" mapstructure:"version"`
	SchemaPath    string   `json:"schema_path" mapstructure:"schema_path"`
	OutputDir     string   `json:"output_dir" mapstructure:"output_dir"` // empty: next to the input file
	MappingFormat string   `json:"mapping_format" mapstructure:"mapping_format"`
	LogMode       string   `json:"log_mode" mapstructure:"log_mode"`
	Database      Database `json:"database" mapstructure:"database"`
	Output        Output   `json:"output" mapstructure:"output"`
	Tables        Tables   `json:"tables" mapstructure:"tables"`
	Fields        Fields   `json:"fields" mapstructure:"fields"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
	Driver   string `json:"driver,omitempty" mapstructure:"driver"` // postgres only: "pgx" (default) or "pq"
}

type Output struct {
	SeedFile    string `json:"seed_file" mapstructure:"seed_file"`
	MappingFile string `json:"mapping_file" mapstructure:"mapping_file"`
	UsageFile   string `json:"usage_file" mapstructure:"usage_file"`
	BatchSize   int    `json:"batch_size" mapstructure:"batch_size"`
}

// Tables names the target table for each normalized entity kind.
type Tables struct {
	Groups string `json:"groups" mapstructure:"groups"`
	Names  string `json:"names" mapstructure:"names"`
	Tags   string `json:"tags" mapstructure:"tags"`
	Events string `json:"events" mapstructure:"events"`
}

// Fields holds dotted JSON paths into each input record.
type Fields struct {
	GroupName  string     `json:"group_name" mapstructure:"group_name"`
	GroupID    string     `json:"group_id" mapstructure:"group_id"`
	EventInfo  string     `json:"event_info" mapstructure:"event_info"`
	EventTitle string     `json:"event_title" mapstructure:"event_title"`
	EventDate  string     `json:"event_date" mapstructure:"event_date"`
	People     string     `json:"people" mapstructure:"people"`
	Template   string     `json:"template" mapstructure:"template"`
	Tags       []TagField `json:"tags,omitempty" mapstructure:"tags"`
}

// TagField is one tag source. A delimited field is split on commas; otherwise
// the whole trimmed value is a single tag.
type TagField struct {
	Type      string `json:"type" mapstructure:"type"`
	Path      string `json:"path" mapstructure:"path"`
	Delimited bool   `json:"delimited" mapstructure:"delimited"`
}

var (
	supportedProviders = []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supportedFormats   = []string{"json", "yaml"}
)

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.SchemaPath == "" {
		c.SchemaPath = "./schema.sql"
	}
	if c.MappingFormat == "" {
		c.MappingFormat = "json"
	}
	if c.LogMode == "" {
		c.LogMode = "dev"
	}
	if c.Database.Provider == "" {
		c.Database.Provider = "postgresql"
	}
	if c.Database.URLEnv == "" {
		c.Database.URLEnv = "DATABASE_URL"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "pgx"
	}
	if c.Output.SeedFile == "" {
		c.Output.SeedFile = "seed.sql"
	}
	if c.Output.MappingFile == "" {
		c.Output.MappingFile = "mapping." + c.MappingFormat
	}
	if c.Output.UsageFile == "" {
		c.Output.UsageFile = "TESTDATA.md"
	}
	if c.Output.BatchSize <= 0 {
		c.Output.BatchSize = 1
	}
	if c.Tables.Groups == "" {
		c.Tables.Groups = "workgroups"
	}
	if c.Tables.Names == "" {
		c.Tables.Names = "names"
	}
	if c.Tables.Tags == "" {
		c.Tables.Tags = "tags"
	}
	if c.Tables.Events == "" {
		c.Tables.Events = "meetingsummaries"
	}
	if c.Fields.GroupName == "" {
		c.Fields.GroupName = "workgroup"
	}
	if c.Fields.GroupID == "" {
		c.Fields.GroupID = "workgroup_id"
	}
	if c.Fields.EventInfo == "" {
		c.Fields.EventInfo = "meetingInfo"
	}
	if c.Fields.EventTitle == "" {
		c.Fields.EventTitle = c.Fields.EventInfo + ".name"
	}
	if c.Fields.EventDate == "" {
		c.Fields.EventDate = c.Fields.EventInfo + ".date"
	}
	if c.Fields.People == "" {
		c.Fields.People = c.Fields.EventInfo + ".peoplePresent"
	}
	if c.Fields.Template == "" {
		c.Fields.Template = "type"
	}
	if len(c.Fields.Tags) == 0 {
		c.Fields.Tags = []TagField{
			{Type: "topicsCovered", Path: "tags.topicsCovered", Delimited: true},
			{Type: "emotions", Path: "tags.emotions", Delimited: true},
			{Type: "gamesPlayed", Path: "tags.gamesPlayed", Delimited: true},
			{Type: "other", Path: "tags.other"},
		}
	}
}

func (c *Config) Validate() error {
	if !contains(supportedProviders, c.Database.Provider) {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}
	if !contains(supportedFormats, c.MappingFormat) {
		return fmt.Errorf("unsupported mapping format: %s. Supported formats: %v", c.MappingFormat, supportedFormats)
	}
	if c.Database.Driver != "pgx" && c.Database.Driver != "pq" {
		return fmt.Errorf("unsupported postgres driver: %s", c.Database.Driver)
	}
	if c.Output.SeedFile == "" {
		return fmt.Errorf("output.seed_file cannot be empty")
	}
	seen := make(map[string]bool, 4)
	for _, t := range []string{c.Tables.Groups, c.Tables.Names, c.Tables.Tags, c.Tables.Events} {
		if seen[t] {
			return fmt.Errorf("table %s is mapped to more than one entity kind", t)
		}
		seen[t] = true
	}
	return nil
}

// Dialect folds provider aliases onto the three dialects the generator knows.
func (c *Config) Dialect() string {
	switch c.Database.Provider {
	case "mysql":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return "postgresql"
	}
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

// OutputPaths resolves the three artifact paths. Without an explicit output
// directory, artifacts land next to the input file.
func (c *Config) OutputPaths(inputPath string) (seed, mapping, usage string, err error) {
	dir := c.OutputDir
	if dir == "" {
		abs, err := filepath.Abs(inputPath)
		if err != nil {
			return "", "", "", fmt.Errorf("failed to resolve input path %s: %w", inputPath, err)
		}
		dir = filepath.Dir(abs)
	}
	return filepath.Join(dir, c.Output.SeedFile),
		filepath.Join(dir, c.Output.MappingFile),
		filepath.Join(dir, c.Output.UsageFile),
		nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
