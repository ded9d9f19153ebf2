package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	AppPort string

	DBDriver   string
	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs   int
	FlowTTLSecs    int
	SessionTTLSecs int

	LoanAPIBaseURL     string
	LoanAPITimeoutSecs int
	LoanTermMonths     int

	LogLevel  string
	LogFormat string
}

var defaults = map[string]any{
	"APP_PORT":                 "8080",
	"DB_DRIVER":                DriverMySQL,
	"SQLITE_PATH":              "preapproval.db",
	"MYSQL_HOST":               "mysql",
	"MYSQL_PORT":               "3306",
	"MYSQL_DB":                 "preapproval",
	"MYSQL_USER":               "preapproval",
	"MYSQL_PASS":               "preapproval",
	"REDIS_ADDR":               "redis:6379",
	"REDIS_DB":                 0,
	"IDEMPOTENCY_TTL_SECONDS":  300,
	"FLOW_TTL_SECONDS":         86400,
	"SESSION_TTL_SECONDS":      86400,
	"LOAN_API_BASE_URL":        "http://localhost:3001/api",
	"LOAN_API_TIMEOUT_SECONDS": 15,
	"LOAN_TERM_MONTHS":         12,
	"LOG_LEVEL":                "info",
	"LOG_FORMAT":               "json",
}

// Load reads the environment, after an optional .env in the working directory.
// Variables already set in the environment win over the file.
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppPort:    v.GetString("APP_PORT"),
		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		SQLitePath: v.GetString("SQLITE_PATH"),
		MySQLHost:  v.GetString("MYSQL_HOST"),
		MySQLPort:  v.GetString("MYSQL_PORT"),
		MySQLDB:    v.GetString("MYSQL_DB"),
		MySQLUser:  v.GetString("MYSQL_USER"),
		MySQLPass:  v.GetString("MYSQL_PASS"),

		RedisAddr: v.GetString("REDIS_ADDR"),
		RedisDB:   v.GetInt("REDIS_DB"),

		IdempTTLSecs:   v.GetInt("IDEMPOTENCY_TTL_SECONDS"),
		FlowTTLSecs:    v.GetInt("FLOW_TTL_SECONDS"),
		SessionTTLSecs: v.GetInt("SESSION_TTL_SECONDS"),

		LoanAPIBaseURL:     strings.TrimRight(v.GetString("LOAN_API_BASE_URL"), "/"),
		LoanAPITimeoutSecs: v.GetInt("LOAN_API_TIMEOUT_SECONDS"),
		LoanTermMonths:     v.GetInt("LOAN_TERM_MONTHS"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	u, err := url.Parse(c.LoanAPIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid LOAN_API_BASE_URL %q", c.LoanAPIBaseURL)
	}
	if c.LoanAPITimeoutSecs <= 0 {
		return errors.New("LOAN_API_TIMEOUT_SECONDS must be positive")
	}
	if c.LoanTermMonths <= 0 {
		return errors.New("LOAN_TERM_MONTHS must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }
func (c *Config) FlowTTL() time.Duration        { return time.Duration(c.FlowTTLSecs) * time.Second }
func (c *Config) SessionTTL() time.Duration     { return time.Duration(c.SessionTTLSecs) * time.Second }
func (c *Config) LoanAPITimeout() time.Duration {
	return time.Duration(c.LoanAPITimeoutSecs) * time.Second
}

// FlowLockTTL outlives the slowest event a flow can run: a submission that
// waits out the full loan API timeout.
func (c *Config) FlowLockTTL() time.Duration { return c.LoanAPITimeout() + 15*time.Second }
