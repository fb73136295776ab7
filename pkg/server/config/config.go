/* Copyright 2025 Bindery Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/bindery/bindery/pkg/dirs"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// DefaultDBDir is the default directory name for Bindery data
	DefaultDBDir = "bindery"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
)

var (
	// DefaultDBPath is the default path to the database file
	DefaultDBPath = filepath.Join(dirs.DataHome, DefaultDBDir, DefaultDBFilename)
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrWebURLInvalid is an error for an incomplete configuration with invalid web url
	ErrWebURLInvalid = errors.New("Invalid WebURL")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
)

func readBoolEnv(name string) bool {
	return os.Getenv(name) == "true"
}

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// Config is an application configuration
type Config struct {
	AppEnv              string
	WebURL              string
	DisableRegistration bool
	Port                string
	DBPath              string
	DatabaseURL         string
	StylesDir           string
	EmailEnabled        bool
	LogLevel            string
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv              string `yaml:"app_env"`
	Port                string `yaml:"port"`
	WebURL              string `yaml:"web_url"`
	DBPath              string `yaml:"db_path"`
	DatabaseURL         string `yaml:"database_url"`
	StylesDir           string `yaml:"styles_dir"`
	DisableRegistration bool   `yaml:"disable_registration"`
	EmailEnabled        bool   `yaml:"email_enabled"`
	LogLevel            string `yaml:"log_level"`
}

// LoadFile reads configuration parameters from a YAML file
func LoadFile(path string) (Params, error) {
	var p Params

	data, err := os.ReadFile(path)
	if err != nil {
		return p, errors.Wrapf(err, "reading config file %s", path)
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, errors.Wrapf(err, "parsing config file %s", path)
	}

	return p, nil
}

// New constructs and returns a new validated config.
// Empty string params will fall back to environment variables and defaults.
func New(p Params) (Config, error) {
	c := Config{
		AppEnv:              getOrEnv(p.AppEnv, "APP_ENV", AppEnvProduction),
		Port:                getOrEnv(p.Port, "PORT", "3001"),
		WebURL:              getOrEnv(p.WebURL, "WebURL", "http://localhost:3001"),
		DBPath:              getOrEnv(p.DBPath, "DBPath", DefaultDBPath),
		DatabaseURL:         getOrEnv(p.DatabaseURL, "DATABASE_URL", ""),
		StylesDir:           getOrEnv(p.StylesDir, "StylesDir", ""),
		DisableRegistration: p.DisableRegistration || readBoolEnv("DisableRegistration"),
		EmailEnabled:        p.EmailEnabled || readBoolEnv("EmailEnabled"),
		LogLevel:            getOrEnv(p.LogLevel, "LOG_LEVEL", "info"),
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

func validate(c Config) error {
	if _, err := url.ParseRequestURI(c.WebURL); err != nil {
		return errors.Wrapf(ErrWebURLInvalid, "'%s'", c.WebURL)
	}
	if c.Port == "" {
		return ErrPortInvalid
	}

	// a postgres URL takes precedence over the sqlite path
	if c.DatabaseURL == "" && c.DBPath == "" {
		return ErrDBMissingPath
	}

	return nil
}
