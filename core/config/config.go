package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/tristendillon/httpskin/core/logger"
)

const DefaultFileName = "httpskin.yaml"

type Config struct {
	BasePackage     string   `mapstructure:"base_package" validate:"required,javapackage"`
	ClassName       string   `mapstructure:"class_name" validate:"required,javaident"`
	Debug           bool     `mapstructure:"debug"`
	Sources         []string `mapstructure:"sources"`
	Manifests       []string `mapstructure:"manifests"`
	Output          string   `mapstructure:"output" validate:"required"`
	TransportImport string   `mapstructure:"transport_import" validate:"required,javapackage"`
	ResultImport    string   `mapstructure:"result_import" validate:"required,javapackage"`
	DefaultParent   string   `mapstructure:"default_parent" validate:"omitempty,javapackage"`
	Watch           Watch    `mapstructure:"watch"`

	// Dir is where the config file lives; relative paths resolve against it.
	Dir string `mapstructure:"-"`
	// File is the config file that was read, empty when defaults were used.
	File string `mapstructure:"-"`
}

type Watch struct {
	Exclude  []string      `mapstructure:"exclude"`
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_package", "kale.net.http")
	v.SetDefault("class_name", "HttpRequestEntity")
	v.SetDefault("debug", false)
	v.SetDefault("sources", []string{"src/main/java"})
	v.SetDefault("manifests", []string{})
	v.SetDefault("output", "build/generated/source/httpskin")
	v.SetDefault("transport_import", "kale.net.http.impl.HttpRequest")
	v.SetDefault("result_import", "rx.Observable")
	v.SetDefault("default_parent", "java.io.Serializable")
	v.SetDefault("watch.exclude", []string{"build", ".gradle", ".idea"})
	v.SetDefault("watch.debounce", 500*time.Millisecond)
}

func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	wd, _ := os.Getwd()
	cfg.Dir = wd
	return &cfg
}

// Load reads configPath (httpskin.yaml in the working directory when
// empty). A missing file is not an error: defaults are used. Every key can
// be overridden with an HTTPSKIN_ environment variable, e.g.
// HTTPSKIN_BASE_PACKAGE or HTTPSKIN_WATCH_DEBOUNCE.
func Load(configPath string) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cannot determine working dir: %w", err)
		}
		configPath = filepath.Join(wd, DefaultFileName)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %s: %w", configPath, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("HTTPSKIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := ""
	if _, err := os.Stat(absPath); errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return nil, fmt.Errorf("config file %s not found", configPath)
		}
		logger.Debug("No config file found, using default config")
	} else {
		v.SetConfigFile(absPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", absPath, err)
		}
		file = absPath
		logger.Debug("Config file found: %s", absPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Dir = filepath.Dir(absPath)
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Config: %+v", cfg)

	return &cfg, nil
}

var (
	javaIdentPattern   = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	javaPackagePattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)
)

func newValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("javaident", func(fl validator.FieldLevel) bool {
		return javaIdentPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("javapackage", func(fl validator.FieldLevel) bool {
		return javaPackagePattern.MatchString(fl.Field().String())
	})
	return validate
}

func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(c.Sources) == 0 && len(c.Manifests) == 0 {
		return fmt.Errorf("invalid config: at least one of sources or manifests is required")
	}
	return nil
}

// ResolvePath makes p absolute relative to the config directory.
func (c *Config) ResolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

func (c *Config) SourceDirs() []string {
	dirs := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		dirs[i] = c.ResolvePath(s)
	}
	return dirs
}

func (c *Config) ManifestFiles() []string {
	files := make([]string, len(c.Manifests))
	for i, m := range c.Manifests {
		files[i] = c.ResolvePath(m)
	}
	return files
}

func (c *Config) OutputDir() string {
	return c.ResolvePath(c.Output)
}

// OutputFile is the generated unit's path relative to OutputDir, following
// the Java package layout.
func (c *Config) OutputFile() string {
	return strings.ReplaceAll(c.BasePackage, ".", "/") + "/" + c.ClassName + ".java"
}

func (c *Config) TransportType() string {
	return simpleName(c.TransportImport)
}

func (c *Config) ResultType() string {
	return simpleName(c.ResultImport)
}

func simpleName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
