// Package config sources OAuth credentials from the environment and keeps
// persistent CLI preferences in ~/.zaim-cli/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Credentials is the full OAuth 1.0a credential set the gateway needs.
// Sourcing them is external to core logic; core components receive this
// struct explicitly and never read the environment themselves.
type Credentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// CredentialsFromEnv reads the ZAIM_* variables.
func CredentialsFromEnv() Credentials {
	return Credentials{
		ConsumerKey:       os.Getenv("ZAIM_CONSUMER_KEY"),
		ConsumerSecret:    os.Getenv("ZAIM_CONSUMER_SECRET"),
		AccessToken:       os.Getenv("ZAIM_ACCESS_TOKEN"),
		AccessTokenSecret: os.Getenv("ZAIM_ACCESS_TOKEN_SECRET"),
	}
}

// Complete reports whether all four values are present.
func (c Credentials) Complete() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" &&
		c.AccessToken != "" && c.AccessTokenSecret != ""
}

// HasConsumerPair reports whether the consumer key/secret are present; the
// access pair may then come from the saved login tokens.
func (c Credentials) HasConsumerPair() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != ""
}

const fileName = "config.yaml"

// File is the persistent CLI preference store.
type File struct {
	v    *viper.Viper
	path string
}

// Open loads the preference file, applying defaults for missing keys. A
// missing file is not an error; defaults apply until the first Save.
func Open(dir string) (*File, error) {
	path := filepath.Join(dir, fileName)
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return &File{v: v, path: path}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("display.currency_format", "yen")
	v.SetDefault("display.show_transaction_count", true)
	v.SetDefault("behavior.confirm_transactions", true)
	v.SetDefault("behavior.default_comment_prefix", "CLI")
	v.SetDefault("balance.lookback_days", 365)
}

func (f *File) Path() string { return f.path }

func (f *File) CurrencyFormat() string     { return f.v.GetString("display.currency_format") }
func (f *File) ShowTransactionCount() bool { return f.v.GetBool("display.show_transaction_count") }
func (f *File) ConfirmTransactions() bool  { return f.v.GetBool("behavior.confirm_transactions") }
func (f *File) CommentPrefix() string      { return f.v.GetString("behavior.default_comment_prefix") }
func (f *File) LookbackDays() int          { return f.v.GetInt("balance.lookback_days") }

// All returns every setting, defaults included, for display.
func (f *File) All() map[string]any {
	return f.v.AllSettings()
}

// Set stores a dotted key, coercing "true"/"false" and integer literals to
// their typed values.
func (f *File) Set(key, value string) {
	switch {
	case strings.EqualFold(value, "true"), strings.EqualFold(value, "false"):
		f.v.Set(key, strings.EqualFold(value, "true"))
	default:
		if n, err := strconv.Atoi(value); err == nil {
			f.v.Set(key, n)
		} else {
			f.v.Set(key, value)
		}
	}
}

// Save writes the current settings to disk, creating the directory if
// needed.
func (f *File) Save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := f.v.WriteConfigAs(f.path); err != nil {
		return fmt.Errorf("write config %s: %w", f.path, err)
	}
	return nil
}

// Reset discards every stored setting and rewrites the file with defaults.
func (f *File) Reset() error {
	v := viper.New()
	v.SetConfigFile(f.path)
	setDefaults(v)
	f.v = v
	return f.Save()
}
