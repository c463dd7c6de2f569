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

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zerojuls/search-api/schema"
	"github.com/zerojuls/search-api/util"
)

// Registry holds the indexes the commands compile against.
var Registry *schema.Registry

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "search-admin",
		Short:         "Inspect index configuration and compile filters offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newIndexesCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newCompileCmd())
	rootCmd.AddCommand(newGetCmd())

	return rootCmd
}

func Execute() {
	rootCmd := newRootCmd()
	util.Fatal(rootCmd.Execute(), "%s", rootCmd.Name())
}
