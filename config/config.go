package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/pelletier/go-toml/v2"
)

// ErrNoLabels is returned when the configured label set is empty.
var ErrNoLabels = errors.New("config: at least one label is required")

// MaxLabels is the number of labels reachable from the 1..9 keys.
const MaxLabels = 9

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CROP_ANNOTATOR_"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds runtime configuration for the annotator.
// Fields may be loaded from a JSON or TOML file and overridden by the
// environment and command-line flags.
type Config struct {
	Debug    bool   `json:"debug" toml:"debug"`
	LogFile  string `json:"log_file" toml:"log_file"`
	LogLevel string `json:"log_level" toml:"log_level" validate:"oneof=debug info warn error"`

	ImageDir string   `json:"image_dir" toml:"image_dir" validate:"required"`
	SaveDir  string   `json:"save_dir" toml:"save_dir"`
	Labels   []string `json:"labels" toml:"labels" validate:"min=1,max=9,unique,dive,required"`

	// Display
	WindowWidth  int `json:"window_width" toml:"window_width" validate:"gte=320"`
	WindowHeight int `json:"window_height" toml:"window_height" validate:"gte=240"`
	MarkerRadius int `json:"marker_radius" toml:"marker_radius" validate:"gte=1,lte=64"`

	// Watch appends images created in ImageDir while the session runs.
	Watch          bool `json:"watch" toml:"watch"`
	ImageCacheSize int  `json:"image_cache_size" toml:"image_cache_size" validate:"gte=1,lte=64"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:          false,
		LogLevel:       "info",
		Labels:         []string{"unknown"},
		WindowWidth:    1280,
		WindowHeight:   860,
		MarkerRadius:   5,
		Watch:          false,
		ImageCacheSize: 4,
	}
}

// Normalize clamps values to safe ranges and trims labels.
func (c *Config) Normalize() {
	if c.WindowWidth <= 0 {
		c.WindowWidth = 1280
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = 860
	}
	if c.MarkerRadius <= 0 {
		c.MarkerRadius = 5
	}
	if c.ImageCacheSize <= 0 {
		c.ImageCacheSize = 4
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Debug {
		c.LogLevel = "debug"
	}
	labels := c.Labels[:0]
	for _, l := range c.Labels {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	c.Labels = labels
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate normalizes the configuration, defaults the save directory to the
// image directory, then checks it.
func (c *Config) Validate() error {
	c.Normalize()
	if c.SaveDir == "" {
		c.SaveDir = c.ImageDir
	}
	if len(c.Labels) == 0 {
		return ErrNoLabels
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: invalid %s (%s=%s)", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Load attempts to read configuration from path. The format follows the
// extension: .toml is decoded as TOML, anything else as JSON. If the file does
// not exist it returns DefaultConfig(). On decode error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes the configuration to path, as TOML when the extension is .toml
// and as indented JSON otherwise.
func (c *Config) Save(path string) error {
	c.Normalize()
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func isTOML(path string) bool { return strings.EqualFold(filepath.Ext(path), ".toml") }

// DefaultPath returns the per-user configuration file location.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("crop-annotator", "config.json"))
}

// FindDefault returns the per-user configuration file if one exists.
func FindDefault() (string, bool) {
	p, err := xdg.SearchConfigFile(filepath.Join("crop-annotator", "config.json"))
	if err != nil {
		return "", false
	}
	return p, true
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// ApplyEnv overrides fields from CROP_ANNOTATOR_* variables using lookup
// (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	str("IMAGE_DIR", &c.ImageDir)
	str("SAVE_DIR", &c.SaveDir)
	str("LOG_FILE", &c.LogFile)
	str("LOG_LEVEL", &c.LogLevel)
	if v, ok := lookup(EnvPrefix + "LABELS"); ok {
		c.Labels = strings.Split(v, ",")
	}
	for key, dst := range map[string]*bool{"DEBUG": &c.Debug, "WATCH": &c.Watch} {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err)
			}
			*dst = b
		}
	}
	return nil
}
