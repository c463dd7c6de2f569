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

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

type LogConfig struct {
	Level  string
	Format string
	// SampleRate keeps one out of every SampleRate debug messages, zero or one keeps all of them.
	SampleRate uint32 `mapstructure:"sample_rate" yaml:"sample_rate" json:"sample_rate"`
}

// trim full path. output in the form directory/file.go
func consoleFormatCaller(i interface{}) string {
	var c string
	if cc, ok := i.(string); ok {
		c = cc
	}
	if len(c) > 0 {
		l := strings.Split(c, "/")
		if len(l) == 1 {
			return l[0]
		}
		return l[len(l)-2] + "/" + l[len(l)-1]
	}
	return c
}

// Configure default logger
func Configure(config LogConfig) {
	ConfigureWithWriter(config, os.Stdout)
}

// ConfigureWithWriter configures the default logger to write to out.
func ConfigureWithWriter(config LogConfig, out io.Writer) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	lvl, err := zerolog.ParseLevel(config.Level)
	if err != nil || len(config.Level) == 0 {
		log.Error().Err(err).Str("level", config.Level).Msg("error parsing log level. defaulting to info level")
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if config.Format == "console" {
		output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		output.FormatCaller = consoleFormatCaller
		logger = zerolog.New(output)
	} else {
		logger = zerolog.New(out)
	}
	logger = logger.Level(lvl).With().Timestamp().CallerWithSkipFrameCount(3).Stack().Logger()

	if config.SampleRate > 1 {
		logger = logger.Sample(zerolog.LevelSampler{
			DebugSampler: &zerolog.BasicSampler{N: config.SampleRate},
		})
	}

	log.Logger = logger
}

// E is a helper function to shortcut condition checking and logging
// in the case of error
// Used like this:
//
//	if E(err) {
//	    return err
//	}
//
// to replace:
//
//	if err != nil {
//	    log.Msgf(err.Error())
//	    return err
//	}
func E(err error) bool {
	if err == nil {
		return false
	}

	log.Error().CallerSkipFrame(2).Err(err).Msg("error")

	return true
}

// CE is a helper to shortcut error creation and logging
// Used like this:
//
//	return CE("msg, value %v", value)
//
// to replace:
//
//	err := fmt.Errorf("msg, value %v", value)
//	log.Msgf("msg, value %v", value)
//	return err
func CE(format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)

	log.Error().CallerSkipFrame(2).Err(err).Msg("error")

	return err
}
