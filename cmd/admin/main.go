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

package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/zerojuls/search-api/cmd/admin/cmd"
	"github.com/zerojuls/search-api/schema"
	"github.com/zerojuls/search-api/server/config"
	"github.com/zerojuls/search-api/util"
	ulog "github.com/zerojuls/search-api/util/log"
)

func main() {
	ulog.Configure(ulog.LogConfig{Level: "error"})

	// the command flags are parsed by cobra
	pflag.CommandLine = pflag.NewFlagSet("", pflag.ContinueOnError)
	pflag.CommandLine.ParseErrorsWhitelist.UnknownFlags = true

	config.LoadConfig("search-api", &config.DefaultConfig)
	config.DefaultConfig.Log.Level = "error"

	ulog.Configure(config.DefaultConfig.Log)

	registry, err := schema.NewRegistry(config.DefaultConfig.Indexes)
	if err != nil {
		log.Error().Err(err).Msg("error loading index configuration")
	}
	util.Fatal(err, "loading index configuration")

	cmd.Registry = registry
	cmd.Execute()
}
