// Package config loads server settings from the environment, an optional
// .env file and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Addr     string
	TLSCert  string
	TLSKey   string
	TokenKey string
	// Engineers holds "login:bcrypt-hash" entries.
	Engineers    []string
	RefdataDir   string
	LogLevel     string
	RateLimit    float64
	RateBurst    int
	AuthDisabled bool
}

var ErrNoTokenKey = errors.New("TOKEN_KEY environment variable is not set")

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":443")
	v.SetDefault("tls_cert", "server.crt")
	v.SetDefault("tls_key", "server.key")
	v.SetDefault("log_level", "info")
	v.SetDefault("rate_limit", 1.0)
	v.SetDefault("rate_burst", 3)
	v.SetDefault("auth_disabled", false)
	v.SetDefault("engineers", "")
	v.SetDefault("refdata_dir", "")
	v.SetDefault("token_key", "")
}

// Flags returns the command line flags understood by Load.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("plantroom", pflag.ContinueOnError)
	fs.String("config", "", "YAML config file")
	fs.String("addr", ":443", "listen address")
	fs.String("log-level", "info", "log level")
	return fs
}

// Load merges, lowest first: defaults, the config file, .env, the process
// environment and flags from fs (which may be nil).
func Load(fs *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if fs != nil {
		if f := fs.Lookup("addr"); f != nil && f.Changed {
			v.Set("addr", f.Value.String())
		}
		if f := fs.Lookup("log-level"); f != nil && f.Changed {
			v.Set("log_level", f.Value.String())
		}
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
			log.WithField("file", v.ConfigFileUsed()).Info("config file loaded")
		}
	}

	c := &Config{
		Addr:         v.GetString("addr"),
		TLSCert:      v.GetString("tls_cert"),
		TLSKey:       v.GetString("tls_key"),
		TokenKey:     v.GetString("token_key"),
		Engineers:    engineers(v),
		RefdataDir:   v.GetString("refdata_dir"),
		LogLevel:     v.GetString("log_level"),
		RateLimit:    v.GetFloat64("rate_limit"),
		RateBurst:    v.GetInt("rate_burst"),
		AuthDisabled: v.GetBool("auth_disabled"),
	}
	if c.TokenKey == "" && !c.AuthDisabled {
		return nil, ErrNoTokenKey
	}
	return c, nil
}

// engineers accepts a YAML list or a comma separated string.
func engineers(v *viper.Viper) []string {
	if _, ok := v.Get("engineers").([]interface{}); ok {
		return v.GetStringSlice("engineers")
	}
	return splitList(v.GetString("engineers"))
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SetupLogging applies the configured level to the standard logrus logger.
func SetupLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}
