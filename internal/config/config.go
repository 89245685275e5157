// Package config manages environment variables.
//
// It reads variables from `.env.local` / `.env` files,
// loads them into structured Go types (struct), and
// exposes helpers that check required values are present
// so each command can fail fast on bad/missing config.
//
// Responsibilities:
//   - Load environment variables (optionally from env files).
//   - Map the well-known app variables (Supabase, WillyWeather) and
//     SURFCHECK_ prefixed settings into a structured config.
//   - Report missing required values by their environment variable name.
//   - Provide sane defaults for every optional block.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Two kinds of variables end up in the same koanf tree:

	- the web app's own variables, which the tools share with the Next.js
	  project (NEXT_PUBLIC_SUPABASE_URL, SUPABASE_SERVICE_KEY, ...). They have
	  no common prefix, so they are mapped one by one through wellKnownEnv.
	- tool settings with the SURFCHECK_ prefix. A double underscore separates
	  nesting levels: SURFCHECK_HTTP__TIMEOUT -> http.timeout.
*/

// EnvPrefix is the prefix for tool-specific settings.
const EnvPrefix = "SURFCHECK_"

// Environment variable names shared with the web application.
const (
	EnvSupabaseURL        = "NEXT_PUBLIC_SUPABASE_URL"
	EnvSupabaseServiceKey = "SUPABASE_SERVICE_KEY"
	EnvSupabaseAnonKey    = "NEXT_PUBLIC_SUPABASE_ANON_KEY"
	EnvWeatherAPIKey      = "WILLY_WEATHER_API_KEY"
	EnvDatabaseURL        = "DATABASE_URL"
)

// DefaultEnvFiles are loaded, in order, by Load when no files are given.
// Values already present in the process environment always win.
var DefaultEnvFiles = []string{".env.local"}

var wellKnownEnv = map[string]string{
	EnvSupabaseURL:        "supabase.url",
	EnvSupabaseServiceKey: "supabase.service_key",
	EnvSupabaseAnonKey:    "supabase.anon_key",
	EnvWeatherAPIKey:      "weather.api_key",
	EnvDatabaseURL:        "database.url",
}

// Config is the root configuration object shared by every surfctl command.
//
// The `env:"..."` tags name the variable a value comes from; they are used to
// report missing values in terms the operator can act on.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Supabase      SupabaseConfig       `koanf:"supabase"`
	Weather       WeatherConfig        `koanf:"weather"`
	App           AppConfig            `koanf:"app"`
	HTTP          HTTPConfig           `koanf:"http"`
	Database      DatabaseConfig       `koanf:"database"`
	Server        ServerConfig         `koanf:"server"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" env:"SURFCHECK_PRIMARY__ENV" validate:"required"`
}

// SupabaseConfig holds the hosted database endpoint and its two credential tiers.
//
// ServiceKey is the elevated key (bypasses row level security).
// AnonKey is the restricted key the browser uses.
type SupabaseConfig struct {
	URL        string `koanf:"url" env:"NEXT_PUBLIC_SUPABASE_URL" validate:"required,url"`
	ServiceKey string `koanf:"service_key" env:"SUPABASE_SERVICE_KEY"`
	AnonKey    string `koanf:"anon_key" env:"NEXT_PUBLIC_SUPABASE_ANON_KEY"`
}

// WeatherConfig configures the WillyWeather client.
type WeatherConfig struct {
	APIKey     string `koanf:"api_key" env:"WILLY_WEATHER_API_KEY" validate:"required"`
	BaseURL    string `koanf:"base_url" env:"SURFCHECK_WEATHER__BASE_URL" validate:"required,url"`
	LocationID int    `koanf:"location_id" env:"SURFCHECK_WEATHER__LOCATION_ID" validate:"required"`
	Forecasts  string `koanf:"forecasts" env:"SURFCHECK_WEATHER__FORECASTS" validate:"required"`
	Days       int    `koanf:"days" env:"SURFCHECK_WEATHER__DAYS" validate:"min=1"`
}

// AppConfig points at the deployed web application.
//
// URL may omit the scheme, https is assumed.
type AppConfig struct {
	URL        string `koanf:"url" env:"SURFCHECK_APP__URL"`
	HealthPath string `koanf:"health_path" env:"SURFCHECK_APP__HEALTH_PATH" validate:"required"`
}

// HTTPConfig holds the single outbound request timeout used by every check.
type HTTPConfig struct {
	Timeout time.Duration `koanf:"timeout" env:"SURFCHECK_HTTP__TIMEOUT" validate:"min=1s"`
}

// DatabaseConfig contains the PostgreSQL connection string and pool tuning.
// Used by `serve`, `migrate` and the postgres backend of `conntest`.
type DatabaseConfig struct {
	URL             string        `koanf:"url" env:"DATABASE_URL" validate:"required"`
	MaxConns        int32         `koanf:"max_conns" env:"SURFCHECK_DATABASE__MAX_CONNS" validate:"min=1"`
	MinConns        int32         `koanf:"min_conns" env:"SURFCHECK_DATABASE__MIN_CONNS" validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" env:"SURFCHECK_DATABASE__CONN_MAX_LIFETIME"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" env:"SURFCHECK_DATABASE__CONN_MAX_IDLE_TIME"`
}

// ServerConfig groups settings for the test-db HTTP server.
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" env:"SURFCHECK_SERVER__PORT" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" env:"SURFCHECK_SERVER__READ_TIMEOUT" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" env:"SURFCHECK_SERVER__WRITE_TIMEOUT" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" env:"SURFCHECK_SERVER__IDLE_TIMEOUT" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" env:"SURFCHECK_SERVER__CORS_ALLOWED_ORIGINS"`
	RateLimit          float64  `koanf:"rate_limit" env:"SURFCHECK_SERVER__RATE_LIMIT"`
}

// Default returns a Config populated with everything that has a sensible default.
// Credentials are left empty on purpose.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "local"},
		Weather: WeatherConfig{
			BaseURL:    "https://api.willyweather.com.au/v2",
			LocationID: 17663, // Wollongong
			Forecasts:  "swell,wind",
			Days:       1,
		},
		App: AppConfig{
			URL:        "surf-forecast-app-beta.vercel.app",
			HealthPath: "/api/test-db",
		},
		HTTP: HTTPConfig{Timeout: 10 * time.Second},
		Database: DatabaseConfig{
			MaxConns:        4,
			MinConns:        0,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          20,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// Load reads env files, then the process environment, into a Config.
//
// Missing env files are ignored. Load never checks that credentials are set:
// each command decides which values it requires (see RequireConnTest and
// Validate*), so the operator gets a precise report instead of a crash.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = DefaultEnvFiles
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}

	k := koanf.New(".")

	err := k.Load(env.Provider("", ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if cfg.Observability == nil {
		cfg.Observability = DefaultObservabilityConfig()
	}
	cfg.Observability.ServiceName = "surf-tools"
	cfg.Observability.Environment = cfg.Primary.Env

	if err := cfg.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return cfg, nil
}

// envKey maps a raw environment variable name to a koanf key.
// Returning "" tells the env provider to skip the variable.
func envKey(s string) string {
	if key, ok := wellKnownEnv[s]; ok {
		return key
	}
	if !strings.HasPrefix(s, EnvPrefix) {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// IsLocal reports whether the tools run against a developer machine.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}

// DatabaseKey returns the Supabase credential the tools should use and the
// name of the variable it comes from.
func (c *Config) DatabaseKey(anon bool) (key, envName string) {
	if anon {
		return c.Supabase.AnonKey, EnvSupabaseAnonKey
	}
	return c.Supabase.ServiceKey, EnvSupabaseServiceKey
}

// NamedValue is a config value paired with the environment variable it comes from.
type NamedValue struct {
	Name  string
	Value string
}

// RequireConnTest lists, in reporting order, the values the connection tester
// cannot run without.
func (c *Config) RequireConnTest(anon bool) []NamedValue {
	key, keyName := c.DatabaseKey(anon)
	return []NamedValue{
		{Name: EnvSupabaseURL, Value: c.Supabase.URL},
		{Name: keyName, Value: key},
		{Name: EnvWeatherAPIKey, Value: c.Weather.APIKey},
	}
}

// Missing returns the names of every value that is empty, preserving order.
func Missing(values []NamedValue) []string {
	validate := newValidator()

	var missing []string
	for _, v := range values {
		if err := validate.Var(v.Value, "required"); err != nil {
			missing = append(missing, v.Name)
		}
	}
	return missing
}

// ValidateServer checks the blocks `serve` depends on.
func (c *Config) ValidateServer() error {
	validate := newValidator()
	if err := validate.Struct(c.Primary); err != nil {
		return describe(err)
	}
	if err := validate.Struct(c.Database); err != nil {
		return describe(err)
	}
	if err := validate.Struct(c.Server); err != nil {
		return describe(err)
	}
	return nil
}

// ValidateDatabase checks the block `migrate` and the postgres backend depend on.
func (c *Config) ValidateDatabase() error {
	if err := newValidator().Struct(c.Database); err != nil {
		return describe(err)
	}
	return nil
}

// ValidateConnTest checks the non-credential settings of the connection tester.
// Credentials are handled by RequireConnTest so they can be reported as a check.
func (c *Config) ValidateConnTest() error {
	validate := newValidator()
	if err := validate.StructExcept(c.Weather, "APIKey"); err != nil {
		return describe(err)
	}
	if err := validate.Struct(c.App); err != nil {
		return describe(err)
	}
	if err := validate.Struct(c.HTTP); err != nil {
		return describe(err)
	}
	return nil
}

// newValidator returns a validator that names fields by their env tag.
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("env"); name != "" {
			return name
		}
		return field.Name
	})
	return validate
}

// describe flattens validator errors into one readable error.
func describe(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		if fe.Tag() == "required" {
			problems = append(problems, fmt.Sprintf("%s is required", fe.Field()))
			continue
		}
		problems = append(problems, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}
