package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// this is a pointer so that if someone attempts to use it before loading it will
// panic and force them to load it first.
// it is also private so that it cannot be modified after loading.
var _loaded *Config

// Submission profiles understood by the console controller.
const (
	ProfileConfirmed = "confirmed"
	ProfileSilent    = "silent"
)

// DefaultConfigFile is read when neither --config nor USERCONSOLE_CONFIG_FILE is set.
const DefaultConfigFile = "userconsole.yaml"

// Config is the main configuration structure
type Config struct {
	Common Common `yaml:"common"`
}

// Load loads the configuration following proper precedence:
// defaults → config file → .env → environment variables.
// An empty configFile falls back to USERCONSOLE_CONFIG_FILE and then DefaultConfigFile.
func Load(configFile string) error {
	// Start with defaults
	LoadDefault()

	// .env only fills variables that are not already set in the environment
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	if configFile == "" {
		configFile = os.Getenv("USERCONSOLE_CONFIG_FILE")
	}
	if configFile == "" {
		configFile = DefaultConfigFile
	}

	log.Printf("Attempting to load config file: %s", configFile)

	if err := LoadFromFile(configFile); err != nil {
		log.Printf("Failed to load config file: %v, using defaults", err)
	} else {
		log.Printf("Successfully loaded config from file: %s", configFile)
	}

	// Apply environment variable overrides (highest priority)
	ApplyEnvOverrides()

	if err := _loaded.Validate(); err != nil {
		return err
	}

	log.Printf("Final config - API base URL: %s, submit profile: %s",
		_loaded.Common.API.BaseURL,
		_loaded.Common.Submit.Profile)
	return nil
}

func LoadDefault() {
	config := defaultConfig
	_loaded = &config
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := defaultConfig

	// Merge YAML values over defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	_loaded = &cfg
	return nil
}

// Validate reports settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Common.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	switch c.Common.Submit.Profile {
	case ProfileConfirmed, ProfileSilent:
	default:
		return fmt.Errorf("unknown submit profile %q (want %q or %q)",
			c.Common.Submit.Profile, ProfileConfirmed, ProfileSilent)
	}
	if c.Common.Http.Port <= 0 || c.Common.Http.Port > 65535 {
		return fmt.Errorf("http.port out of range: %d", c.Common.Http.Port)
	}
	return nil
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
var defaultConfig = Config{
	Common: Common{
		Log: logConfig{
			Level:  "info",
			Format: "json",
		},
		Http: httpConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		API: apiConfig{
			BaseURL: "http://localhost:3001",
		},
		Submit: submitConfig{
			Profile: ProfileConfirmed,
		},
	},
}

type Common struct {
	Log    logConfig    `yaml:"log"`
	Http   httpConfig   `yaml:"http"`
	API    apiConfig    `yaml:"api"`
	Submit submitConfig `yaml:"submit"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type httpConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (c httpConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type apiConfig struct {
	BaseURL string `yaml:"base_url"` // users service root, without the /api/users path
}

type submitConfig struct {
	Profile string `yaml:"profile"` // "confirmed" or "silent"
}

// there should be a getter for each top level field in the config struct.
// these getters will panic if the config has not been loaded.

func Logger() logConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Log
}

func Http() httpConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Http
}

func API() apiConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.API
}

func Submit() submitConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Submit
}

func Get() *Config {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded
}

// SetProfile overrides the submit profile after loading, e.g. from a CLI flag.
func SetProfile(profile string) error {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	prev := _loaded.Common.Submit.Profile
	_loaded.Common.Submit.Profile = profile
	if err := _loaded.Validate(); err != nil {
		_loaded.Common.Submit.Profile = prev
		return err
	}
	return nil
}

func ApplyEnvOverrides() {
	if _loaded == nil {
		return
	}

	if level := os.Getenv("USERCONSOLE_LOG_LEVEL"); level != "" {
		_loaded.Common.Log.Level = level
	}
	if format := os.Getenv("USERCONSOLE_LOG_FORMAT"); format != "" {
		_loaded.Common.Log.Format = format
	}

	if httpHost := os.Getenv("USERCONSOLE_HTTP_HOST"); httpHost != "" {
		_loaded.Common.Http.Host = httpHost
	}
	if httpPort := os.Getenv("USERCONSOLE_HTTP_PORT"); httpPort != "" {
		if port, err := strconv.Atoi(httpPort); err == nil {
			_loaded.Common.Http.Port = port
		}
	}

	if apiURL := os.Getenv("USERCONSOLE_API_URL"); apiURL != "" {
		_loaded.Common.API.BaseURL = apiURL
	}

	if profile := os.Getenv("USERCONSOLE_SUBMIT_PROFILE"); profile != "" {
		_loaded.Common.Submit.Profile = strings.ToLower(profile)
	}
}
