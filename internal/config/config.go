package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ConfigFileName = "routernav.yaml"

const DefaultLogFile = ".routernav/logs/routernav.log"

// Config describes the pages of the demo application, the navigation
// script run by `routernav run` and which navigations are vetoed or fail.
type Config struct {
	ProjectName string   `yaml:"project_name"`
	Start       string   `yaml:"start"`
	Pages       []Page   `yaml:"pages"`
	Script      []Step   `yaml:"script,omitempty"`
	Veto        []string `yaml:"veto,omitempty"`
	Fail        []string `yaml:"fail,omitempty"`
	LogFile     string   `yaml:"log_file,omitempty"`
}

type Page struct {
	Href  string `yaml:"href"`
	Title string `yaml:"title"`
}

// Step is one scripted navigation. Href is ignored by back, forward and refresh.
type Step struct {
	Op   string `yaml:"op"`
	Href string `yaml:"href,omitempty"`
}

var stepOps = map[string]bool{
	"push":     true,
	"replace":  true,
	"back":     false,
	"forward":  false,
	"refresh":  false,
	"prefetch": true,
}

// NeedsHref reports whether op takes an href.
func NeedsHref(op string) bool { return stepOps[op] }

// Hrefs returns the href of every page in declaration order.
func (c *Config) Hrefs() []string {
	out := make([]string, 0, len(c.Pages))
	for _, p := range c.Pages {
		out = append(out, p.Href)
	}
	return out
}

// Vetoed reports whether navigation to href must be cancelled.
func (c *Config) Vetoed(href string) bool {
	for _, v := range c.Veto {
		if v == href {
			return true
		}
	}
	return false
}

// Default returns the sample configuration written by `routernav init`.
func Default() Config {
	return Config{
		ProjectName: "routernav-demo",
		Start:       "/",
		Pages: []Page{
			{Href: "/", Title: "Home"},
			{Href: "/about", Title: "About"},
			{Href: "/portfolio", Title: "Portfolio"},
			{Href: "/contact", Title: "Contact"},
		},
		Script: []Step{
			{Op: "prefetch", Href: "/about"},
			{Op: "push", Href: "/about"},
			{Op: "push", Href: "/portfolio"},
			{Op: "back"},
			{Op: "forward"},
			{Op: "replace", Href: "/contact"},
			{Op: "refresh"},
		},
		Veto:    []string{"/portfolio"},
		LogFile: DefaultLogFile,
	}
}

// ValidateConfig validates the configuration for required fields and
// consistency between pages, script, veto and fail lists.
func ValidateConfig(cfg *Config) error {
	var validationErrors []string

	if strings.TrimSpace(cfg.ProjectName) == "" {
		validationErrors = append(validationErrors, "project_name cannot be empty")
	}

	if len(cfg.Pages) == 0 {
		validationErrors = append(validationErrors, "pages cannot be empty")
	}

	known := make(map[string]bool, len(cfg.Pages))
	for i, p := range cfg.Pages {
		if strings.TrimSpace(p.Href) == "" {
			validationErrors = append(validationErrors, fmt.Sprintf("page %d: href cannot be empty", i+1))
			continue
		}
		if known[p.Href] {
			validationErrors = append(validationErrors, fmt.Sprintf("page %d: duplicate href %s", i+1, p.Href))
		}
		known[p.Href] = true
	}

	if strings.TrimSpace(cfg.Start) == "" {
		validationErrors = append(validationErrors, "start cannot be empty")
	} else if len(known) > 0 && !known[cfg.Start] {
		validationErrors = append(validationErrors, fmt.Sprintf("start page %s is not listed in pages", cfg.Start))
	}

	for i, s := range cfg.Script {
		needsHref, ok := stepOps[s.Op]
		if !ok {
			validationErrors = append(validationErrors, fmt.Sprintf("script step %d: unknown op %q", i+1, s.Op))
			continue
		}
		if needsHref && strings.TrimSpace(s.Href) == "" {
			validationErrors = append(validationErrors, fmt.Sprintf("script step %d: %s requires href", i+1, s.Op))
		}
	}

	for _, v := range cfg.Veto {
		if !known[v] {
			validationErrors = append(validationErrors, fmt.Sprintf("veto: %s is not listed in pages", v))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// LoadAndValidateConfig loads and validates routernav.yaml from the
// working directory.
func LoadAndValidateConfig() (*Config, error) {
	if !ConfigExists() {
		return nil, errors.New("routernav.yaml not found. Please run 'routernav init' first")
	}
	return LoadFile(ConfigFileName)
}

// LoadFile reads, interpolates and validates the configuration at path.
// ${VAR} references resolve from the OS environment first, then from a
// .env file beside the configuration.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	dotEnv, err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env"))
	if err != nil {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}
	expanded := os.Expand(string(data), func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotEnv[key]
	})

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WriteConfig marshals cfg to path, refusing to overwrite an existing file.
func WriteConfig(path string, cfg Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// loadDotEnv reads a .env file. A missing file yields an empty map.
func loadDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	return godotenv.Read(path)
}

func ConfigExists() bool {
	_, err := os.Stat(ConfigFileName)
	return !os.IsNotExist(err)
}

func GetConfigPath() string {
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ConfigFileName)
}
