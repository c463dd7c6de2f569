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

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	api "github.com/zerojuls/search-api/api/server/v1"
	"github.com/zerojuls/search-api/query/search"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", b)
	return err
}

func newCompileCmd() *cobra.Command {
	req := &api.SearchRequest{}

	compileCmd := &cobra.Command{
		Use:   "compile <index>",
		Short: "Print the backend search request compiled from the given parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Index = args[0]

			compiled, err := search.NewCompiler(Registry).Compile(req)
			if err != nil {
				return err
			}

			return printJSON(cmd, compiled)
		},
	}

	flags := compileCmd.Flags()
	flags.StringVar(&req.Filter, "filter", "", "filter expression")
	flags.StringVar(&req.Q, "q", "", "free text query")
	flags.StringVar(&req.MM, "mm", "", "minimum should match of the free text query")
	flags.StringSliceVar(&req.Fields, "fields", nil, "free text fields, field[:boost]")
	flags.StringSliceVar(&req.Sort, "sort", nil, "sort clauses, field [ASC|DESC]")
	flags.StringSliceVar(&req.Facets, "facets", nil, "facet fields")
	flags.IntVar(&req.FacetSize, "facet-size", 0, "number of values per facet")
	flags.IntVar(&req.From, "from", 0, "offset of the first result")
	flags.IntVar(&req.Size, "size", 0, "page size")
	flags.StringSliceVar(&req.IncludeFields, "include", nil, "source fields to include")
	flags.StringSliceVar(&req.ExcludeFields, "exclude", nil, "source fields to exclude")

	return compileCmd
}

func newGetCmd() *cobra.Command {
	req := &api.GetRequest{}

	getCmd := &cobra.Command{
		Use:   "get <index> <id>",
		Short: "Print the backend lookup compiled for a document id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Index, req.ID = args[0], args[1]

			compiled, err := search.NewCompiler(Registry).CompileGet(req)
			if err != nil {
				return err
			}

			out := map[string]any{"index": compiled.Index, "id": compiled.ID}
			if !compiled.Source.IsEmpty() {
				out["_source"] = compiled.Source
			}

			return printJSON(cmd, out)
		},
	}

	getCmd.Flags().StringSliceVar(&req.IncludeFields, "include", nil, "source fields to include")
	getCmd.Flags().StringSliceVar(&req.ExcludeFields, "exclude", nil, "source fields to exclude")

	return getCmd
}
