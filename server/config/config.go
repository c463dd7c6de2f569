// Copyright 2022-2023 Tigris Data, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

var configPath = []string{
	"/etc/search-api/",
	"$HOME/.search-api/",
	"./config/",
	"./",
}

// envPrefix is used by viper to detect environment variables that should be used.
// viper will automatically uppercase this and append _ to it
var envPrefix = "search_api"

var envEnv = "search_api_environment"
var environment string

const (
	EnvTest        = "test"
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

func GetEnvironment() string {
	return environment
}

func LoadEnvironment() {
	env := os.Getenv(envEnv)
	if env == "" {
		env = os.Getenv(strings.ToUpper(envEnv))
	}

	environment = env
}

// LoadConfig reads "name[.environment].yaml" from the config paths on top of the values already present in
// config, then applies environment variables and command line flags.
func LoadConfig(name string, config *Config) {
	LoadEnvironment()

	if GetEnvironment() != "" {
		name += "." + GetEnvironment()
	}

	viper.SetConfigName(name)
	viper.SetConfigType("yaml")

	for _, v := range configPath {
		viper.AddConfigPath(v)
	}

	if err := mergeDefaults(viper.GetViper(), config); err != nil {
		log.Err(err).Msg("merge config")
	}

	// This is needed to replace periods with underscores when mapping environment variables to multi-level
	// config keys. For example, this will allow search.host to be mapped to SEARCH_API_SEARCH_HOST
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The environment variables have a higher priority as compared to config values defined in the config file.
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	pflag.Parse()
	err := viper.BindPFlags(pflag.CommandLine)
	log.Err(err).Msg("bind flags")

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warn().Err(err).Msgf("config file not found")
		} else {
			log.Fatal().Err(err).Msgf("error reading config")
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		log.Fatal().Err(err).Msg("error unmarshalling config")
	}

	log.Debug().Msg(spew.Sdump(viper.AllKeys()))
}

// WatchConfig re-reads the config file whenever it changes and hands the new configuration to onChange.
// A file that can't be decoded is logged and ignored, the previous configuration stays in effect.
func WatchConfig(onChange func(*Config)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Info().Str("notify", e.Name).Msg("config file changed")

		config := DefaultConfig
		config.Indexes = nil
		if err := viper.Unmarshal(&config); err != nil {
			log.Err(err).Str("file", e.Name).Msg("error unmarshalling changed config")
			return
		}

		onChange(&config)
	})

	viper.WatchConfig()
}

// ReadConfig decodes a yaml document on top of the values already present in config. Environment variables
// and flags are not consulted.
func ReadConfig(r io.Reader, config *Config) error {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := mergeDefaults(v, config); err != nil {
		return err
	}

	if err := v.MergeConfig(r); err != nil {
		return errors.Wrap(err, "error reading config")
	}

	// the defaults are already merged into v, decoding into a fresh map keeps the caller's map untouched
	config.Indexes = nil
	if err := v.Unmarshal(config); err != nil {
		return errors.Wrap(err, "error unmarshalling config")
	}

	return nil
}

// mergeDefaults is needed to automatically bind environment variables to config struct.
func mergeDefaults(v *viper.Viper, config *Config) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}

	return v.MergeConfig(bytes.NewBuffer(b))
}
