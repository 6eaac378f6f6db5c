package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Afrawles/statusreport/internal/report"
)

const DefaultProjectsFile = "config/projects.yaml"

type Config struct {
	Organization   string                   `yaml:"organization"`
	DoneStatuses   []string                 `yaml:"done_statuses"`
	StartDateField string                   `yaml:"start_date_field"`
	Projects       map[string]ProjectConfig `yaml:"projects"`

	Jira   JiraConfig   `yaml:"-"`
	Output OutputConfig `yaml:"-"`
}

type JiraConfig struct {
	URL               string
	Email             string
	APIToken          string
	RequestsPerSecond float64
}

type OutputConfig struct {
	Directory string
	Formats   []string // html, json, xlsx, csv
}

type ProjectConfig struct {
	ProjectKey       string         `yaml:"project_key"`
	JiraKey          string         `yaml:"jira_key"`
	Name             string         `yaml:"name"`
	Description      string         `yaml:"description"`
	ArchitectureDesc string         `yaml:"architecture_desc"`
	Cameras          []CameraConfig `yaml:"cameras"`
	Deviations       Notes          `yaml:"deviations"`
	BlockersDefault  string         `yaml:"blockers_default"`
	LessonsLearned   Notes          `yaml:"lessons_learned"`
}

type CameraConfig struct {
	Name          string `yaml:"name"`
	IP            string `yaml:"ip"`
	TelegramGroup string `yaml:"telegram_group"`
	Status        string `yaml:"status"`
}

// Notes accepts either a single paragraph or a list of paragraphs.
type Notes []string

func (n *Notes) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*n = nil
			return nil
		}
		*n = Notes{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*n = list
		return nil
	}
	return fmt.Errorf("line %d: expected text or list of text", value.Line)
}

func Default() *Config {
	return &Config{
		DoneStatuses:   append([]string(nil), report.DefaultDoneStatuses...),
		StartDateField: "customfield_10015",
		Projects:       map[string]ProjectConfig{},
		Output:         OutputConfig{}.withDefaults(),
	}
}

func (o OutputConfig) withDefaults() OutputConfig {
	if o.Directory == "" {
		o.Directory = "reports"
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{"html", "json"}
	}
	return o
}

// Load reads .env (when present), the projects file and the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile parses the projects file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &report.ConfigurationError{Key: "projects file", Reason: fmt.Sprintf("%s not found", path)}
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(cfg.DoneStatuses) == 0 {
		cfg.DoneStatuses = append([]string(nil), report.DefaultDoneStatuses...)
	}
	if cfg.Projects == nil {
		cfg.Projects = map[string]ProjectConfig{}
	}
	return cfg, nil
}

// ApplyEnv overlays credentials and output settings from the environment.
func (c *Config) ApplyEnv() error {
	c.Jira.URL = getEnvOrDefault("JIRA_URL", c.Jira.URL)
	c.Jira.Email = getEnvOrDefault("JIRA_EMAIL", c.Jira.Email)
	c.Jira.APIToken = getEnvOrDefault("JIRA_API_TOKEN", c.Jira.APIToken)
	c.StartDateField = getEnvOrDefault("JIRA_START_DATE_FIELD", c.StartDateField)

	if rps := os.Getenv("JIRA_REQUESTS_PER_SECOND"); rps != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(rps), 64)
		if err != nil || v < 0 {
			return &report.ConfigurationError{Key: "JIRA_REQUESTS_PER_SECOND", Reason: fmt.Sprintf("invalid rate %q", rps)}
		}
		c.Jira.RequestsPerSecond = v
	}

	c.Output.Directory = getEnvOrDefault("OUTPUT_DIR", c.Output.Directory)
	if formats := os.Getenv("OUTPUT_FORMAT"); formats != "" {
		c.Output.Formats = splitList(formats)
	}
	c.Output = c.Output.withDefaults()
	return nil
}

func (c *Config) Validate() error {
	var missing []string
	if c.Jira.URL == "" {
		missing = append(missing, "JIRA_URL")
	}
	if c.Jira.Email == "" {
		missing = append(missing, "JIRA_EMAIL")
	}
	if c.Jira.APIToken == "" {
		missing = append(missing, "JIRA_API_TOKEN")
	}
	if len(missing) > 0 {
		return &report.ConfigurationError{Key: "jira", Reason: "missing " + strings.Join(missing, ", ")}
	}
	return nil
}

// ProjectKeys lists configured projects in sorted order.
func (c *Config) ProjectKeys() []string {
	keys := make([]string, 0, len(c.Projects))
	for k := range c.Projects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Project returns the builder's view of the project configured under key.
func (c *Config) Project(key string) (report.Project, error) {
	pc, ok := c.Projects[key]
	if !ok {
		return report.Project{}, &report.ConfigurationError{Key: key, Reason: "project not found in configuration"}
	}

	projectKey := pc.ProjectKey
	if projectKey == "" {
		projectKey = pc.JiraKey
	}
	if projectKey == "" {
		projectKey = key
	}

	cameras := make([]report.Camera, 0, len(pc.Cameras))
	for _, cam := range pc.Cameras {
		cameras = append(cameras, report.Camera{
			Name:          cam.Name,
			IP:            cam.IP,
			TelegramGroup: cam.TelegramGroup,
			Status:        cam.Status,
		})
	}

	return report.Project{
		Key:              projectKey,
		Name:             pc.Name,
		Description:      pc.Description,
		ArchitectureDesc: pc.ArchitectureDesc,
		Cameras:          cameras,
		Deviations:       pc.Deviations,
		BlockersDefault:  pc.BlockersDefault,
		LessonsLearned:   pc.LessonsLearned,
	}, nil
}

func (c *Config) DoneSet() report.DoneSet {
	return report.NewDoneSet(c.DoneStatuses...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
