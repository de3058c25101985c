package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/render-tools/internal/debounce"
	"github.com/shinji-kodama/render-tools/internal/log"
	"github.com/shinji-kodama/render-tools/internal/model"
	"github.com/shinji-kodama/render-tools/internal/signature"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RENDER_TOOLS_"

// DefaultEnvFile is read when present in the working directory.
const DefaultEnvFile = ".env"

// Config is the complete configuration.
type Config struct {
	// Debounce is the quiet interval of the camera dialog fields.
	Debounce time.Duration `yaml:"debounce" validate:"gte=0"`

	// Locale is the BCP 47 tag used to parse and format decimal input.
	Locale string `yaml:"locale" validate:"omitempty,bcp47_language_tag"`

	// Signatures adds to or replaces entries of the built-in signature table.
	Signatures []signature.Spec `yaml:"signatures" validate:"dive"`

	Log      LogConfig      `yaml:"log"`
	Renderer RendererConfig `yaml:"renderer"`
	Export   ExportConfig   `yaml:"export"`
}

// LogConfig configures the optional rotating log file.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB" validate:"gte=0"`
	MaxBackups int    `yaml:"maxBackups" validate:"gte=0"`
}

// RendererConfig names the external program that loads the renderer.
type RendererConfig struct {
	Loader string   `yaml:"loader"`
	Args   []string `yaml:"args"`

	// StateFile records a successful load. Empty means renderer.yaml in
	// the user cache directory.
	StateFile string `yaml:"stateFile"`
}

// RendererStateFile returns the configured state file or the default one.
// It returns "" when no cache directory is available.
func (c *Config) RendererStateFile() string {
	if c.Renderer.StateFile != "" {
		return c.Renderer.StateFile
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "render-tools", "renderer.yaml")
}

// ExportConfig configures the image-capture command.
type ExportConfig struct {
	Command     string   `yaml:"command"`
	Args        []string `yaml:"args"`
	Compression float64  `yaml:"compression" validate:"gte=0,lte=1"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Debounce: debounce.DefaultInterval,
		Locale:   "en",
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Export: ExportConfig{
			Compression: model.DefaultCompression,
		},
	}
}

// Options tells Load where to look.
type Options struct {
	// Path is the YAML config file. Empty means defaults only unless
	// RENDER_TOOLS_CONFIG names a file.
	Path string

	// EnvFile is loaded into the process environment when it exists.
	// Variables already set are not overwritten. Empty means DefaultEnvFile.
	EnvFile string
}

// Load builds the configuration from defaults, the config file and the
// environment.
//
// A missing config file given explicitly is an error; a missing .env file
// is not.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Default()

	path := opts.Path
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.WrapCLIError(model.ExitInvalidInput,
				fmt.Sprintf("config file not found: %s", path), err)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from RENDER_TOOLS_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("DEBOUNCE"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sDEBOUNCE %q: %w", EnvPrefix, v, err)
		}
		c.Debounce = d
	}
	if v, ok := get("LOCALE"); ok {
		c.Locale = v
	}
	if v, ok := get("LOG_FILE"); ok {
		c.Log.File = v
	}
	if v, ok := get("RENDERER_LOADER"); ok {
		c.Renderer.Loader = v
	}
	if v, ok := get("CAPTURE_COMMAND"); ok {
		c.Export.Command = v
	}
	if v, ok := get("COMPRESSION"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sCOMPRESSION %q: %w", EnvPrefix, v, err)
		}
		c.Export.Compression = f
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and that the signature entries merge
// into a valid table.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return model.NewCLIError(model.ExitInvalidInput, "invalid configuration: "+strings.Join(msgs, "; "))
		}
		return err
	}
	if _, err := c.SignatureTable(); err != nil {
		return model.WrapCLIError(model.ExitInvalidInput, "invalid configuration", err)
	}
	return nil
}

// SignatureTable returns the built-in table merged with the configured
// entries.
func (c *Config) SignatureTable() (*signature.Table, error) {
	return signature.Default().Merge(c.Signatures)
}

// LogOptions returns the logger options for the configured log file.
func (c *Config) LogOptions(verbose bool) log.Options {
	return log.Options{
		Verbose:    verbose,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
	}
}
