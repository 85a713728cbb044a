package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Data sources accepted by DATA_SOURCE.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config captures all runtime configuration. The env tag names the variable each field is read from.
type Config struct {
	Port string `mapstructure:"port" env:"PORT" validate:"required,numeric"`

	DataSource         string `mapstructure:"data_source" env:"DATA_SOURCE" validate:"oneof=csv postgres"`
	DatasetPath        string `mapstructure:"dataset_path" env:"DATASET_PATH" validate:"required_without=DatasetURL"`
	DatasetURL         string `mapstructure:"dataset_url" env:"DATASET_URL" validate:"omitempty,url"`
	DatasetAPIKey      string `mapstructure:"dataset_api_key" env:"DATASET_API_KEY"`
	DatasetTimeoutSecs int    `mapstructure:"dataset_timeout_secs" env:"DATASET_TIMEOUT_SECS" validate:"gt=0"`

	DBURL             string `mapstructure:"db_url" env:"DB_URL" validate:"required_if=DataSource postgres"`
	DBMaxConns        int    `mapstructure:"db_max_conns" env:"DB_MAX_CONNS" validate:"gt=0"`
	DBMinConns        int    `mapstructure:"db_min_conns" env:"DB_MIN_CONNS" validate:"gte=0,ltefield=DBMaxConns"`
	DBMaxIdleSecs     int    `mapstructure:"db_max_conn_idle_secs" env:"DB_MAX_CONN_IDLE_SECS" validate:"gte=0"`
	DBMaxLifeSecs     int    `mapstructure:"db_max_conn_lifetime_secs" env:"DB_MAX_CONN_LIFETIME_SECS" validate:"gte=0"`
	DBConnTimeoutSecs int    `mapstructure:"db_conn_timeout_secs" env:"DB_CONN_TIMEOUT_SECS" validate:"gte=0"`
	DBStatementCache  int    `mapstructure:"db_statement_cache_capacity" env:"DB_STATEMENT_CACHE_CAPACITY" validate:"gte=0"`

	ReadTimeoutSecs  int `mapstructure:"server_read_timeout" env:"SERVER_READ_TIMEOUT" validate:"gt=0"`
	WriteTimeoutSecs int `mapstructure:"server_write_timeout" env:"SERVER_WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeoutSecs  int `mapstructure:"server_idle_timeout" env:"SERVER_IDLE_TIMEOUT" validate:"gt=0"`

	PieCategoryCap int `mapstructure:"pie_category_cap" env:"PIE_CATEGORY_CAP" validate:"gte=2"`
	TopN           int `mapstructure:"top_n" env:"TOP_N" validate:"gte=1"`
}

var defaults = map[string]any{
	"port":                        "8080",
	"data_source":                 SourceCSV,
	"dataset_path":                "imdb-data.csv",
	"dataset_url":                 "",
	"dataset_api_key":             "",
	"dataset_timeout_secs":        10,
	"db_url":                      "",
	"db_max_conns":                4,
	"db_min_conns":                0,
	"db_max_conn_idle_secs":       300,
	"db_max_conn_lifetime_secs":   3600,
	"db_conn_timeout_secs":        10,
	"db_statement_cache_capacity": 64,
	"server_read_timeout":         15,
	"server_write_timeout":        15,
	"server_idle_timeout":         60,
	"pie_category_cap":            7,
	"top_n":                       10,
}

// SetDefaults registers every key with its default so viper resolves env overrides for all of them.
func SetDefaults(v *viper.Viper) {
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load resolves configuration from v (environment plus an optional config file already read into v),
// applying defaults and validation.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DataSource = strings.ToLower(strings.TrimSpace(cfg.DataSource))

	if err := newValidator().Struct(cfg); err != nil {
		return Config{}, describe(err)
	}
	return cfg, nil
}

// UsesRemoteDataset reports whether the CSV dataset is fetched over HTTP.
func (c Config) UsesRemoteDataset() bool {
	return c.DatasetURL != ""
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})
	return validate
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	name := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Errorf("%s is required", name)
	case "required_without":
		return fmt.Errorf("%s or %s is required", name, envName(fe.Param()))
	case "gt":
		return fmt.Errorf("%s must be positive", name)
	case "gte":
		if fe.Param() == "0" {
			return fmt.Errorf("%s must be non-negative", name)
		}
		return fmt.Errorf("%s must be at least %s", name, fe.Param())
	case "ltefield":
		return fmt.Errorf("%s cannot exceed %s", name, envName(fe.Param()))
	case "oneof":
		return fmt.Errorf("%s must be one of [%s]", name, fe.Param())
	case "numeric":
		return fmt.Errorf("%s must be a number", name)
	case "url":
		return fmt.Errorf("%s must be a valid URL", name)
	default:
		return fmt.Errorf("%s is invalid (%s)", name, fe.Tag())
	}
}

func envName(field string) string {
	if f, ok := reflect.TypeOf(Config{}).FieldByName(field); ok {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
	}
	return field
}
