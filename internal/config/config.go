package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Bedotech/smartbook/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Cache      CacheConfig
	Tax        TaxConfig
	Property   PropertyConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled bool
	// ActiveRuleTTL bounds how stale a cached active-rule lookup may be.
	// Rule changes are rare and administrative, so minutes are fine.
	ActiveRuleTTL time.Duration
}

// TaxConfig carries property-independent defaults used when a tax rule
// leaves an exemption parameter unset.
type TaxConfig struct {
	DefaultAgeExemptionThreshold int
	DefaultBusDriverRatio        int
}

// PropertyConfig identifies the structure on municipality reports
type PropertyConfig struct {
	ID           string
	Name         string
	FacilityCode string
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/smartbook")

	v.SetEnvPrefix("SMARTBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "smartbook")
	v.SetDefault("postgres.dbname", "smartbook")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.activerulettl", 15*time.Minute)
	v.SetDefault("tax.defaultageexemptionthreshold", types.DefaultAgeExemptionThreshold)
	v.SetDefault("tax.defaultbusdriverratio", types.DefaultBusDriverRatio)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Configuration) Validate() error {
	return validator.New().Struct(c)
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetDefaultConfig returns a configuration suitable for tests and scripts
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "smartbook",
			DBName:  "smartbook",
			SSLMode: "disable",
		},
		Cache: CacheConfig{
			Enabled:       true,
			ActiveRuleTTL: 15 * time.Minute,
		},
		Tax: TaxConfig{
			DefaultAgeExemptionThreshold: types.DefaultAgeExemptionThreshold,
			DefaultBusDriverRatio:        types.DefaultBusDriverRatio,
		},
		Property: PropertyConfig{
			ID:           "property_default",
			Name:         "Struttura Demo",
			FacilityCode: "IT-000000",
		},
	}
}
