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
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes [index]",
		Short: "List the configured indexes, or the fields of one index",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if len(args) == 0 {
				_, _ = fmt.Fprintln(w, "INDEX\tSHARDS\tDEFAULT SIZE\tMAX SIZE\tFIELDS")
				for _, name := range Registry.Indexes() {
					meta, err := Registry.Index(name)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", name, meta.Shards, meta.DefaultSize, meta.MaxSize,
						len(meta.FieldNames()))
				}
				return w.Flush()
			}

			meta, err := Registry.Index(args[0])
			if err != nil {
				return err
			}

			names := meta.FieldNames()
			sort.Strings(names)

			_, _ = fmt.Fprintln(w, "FIELD\tTYPE")
			for _, name := range names {
				t, _ := meta.FieldType(name)
				_, _ = fmt.Fprintf(w, "%s\t%s\n", name, t)
			}

			return w.Flush()
		},
	}
}
