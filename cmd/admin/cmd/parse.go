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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zerojuls/search-api/query/filter"
	"github.com/zerojuls/search-api/query/sort"
)

func newParseCmd() *cobra.Command {
	var sortClauses bool

	parseCmd := &cobra.Command{
		Use:   "parse <expression>",
		Short: "Parse a filter and print it fully parenthesized with canonical operator names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sortClauses {
				ordering, err := sort.Parse(args[0])
				if err != nil {
					return err
				}
				for _, s := range ordering {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", s.Field.Name(), s.Order())
				}
				return nil
			}

			node, err := filter.Parse(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), node.String())

			return nil
		},
	}
	parseCmd.Flags().BoolVar(&sortClauses, "sort", false, "parse the expression as sort clauses")

	return parseCmd
}
