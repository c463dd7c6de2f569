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

package search

import (
	"regexp"
	"strconv"
	"strings"

	api "github.com/zerojuls/search-api/api/server/v1"
	"github.com/zerojuls/search-api/errors"
	"github.com/zerojuls/search-api/query/filter"
	"github.com/zerojuls/search-api/schema"
)

const (
	queryStringOperator = "OR"
	boostSeparator      = ":"
	defaultBoost        = 1.0
)

var mmPattern = regexp.MustCompile(`^-?\d{1,3}%?$`)

// ValidateMinimumShouldMatch accepts an absolute count of up to three digits or a percentage in [-100, 100],
// both optionally negative.
func ValidateMinimumShouldMatch(mm string) error {
	if !mmPattern.MatchString(mm) {
		return errors.Validation("invalid minimum should match '%s'", mm)
	}

	if strings.HasSuffix(mm, "%") {
		pct, _ := strconv.Atoi(strings.TrimSuffix(mm, "%"))
		if pct < -100 || pct > 100 {
			return errors.Validation("minimum should match '%s' must be between -100%% and 100%%", mm)
		}
	}

	return nil
}

// minimumShouldMatch returns the request mm or the index default when the request has none. The request value is
// checked even without a free text query.
func minimumShouldMatch(req *api.SearchRequest, meta *schema.IndexMetadata) (string, error) {
	mm := strings.TrimSpace(req.MM)
	if len(mm) == 0 {
		if !req.HasQuery() {
			return "", nil
		}
		mm = meta.MM
	}

	if err := ValidateMinimumShouldMatch(mm); err != nil {
		return "", err
	}

	return mm, nil
}

func queryString(req *api.SearchRequest, meta *schema.IndexMetadata, mm string) (*QueryStringQuery, error) {
	fields, err := queryStringFields(req, meta)
	if err != nil {
		return nil, err
	}

	return &QueryStringQuery{
		Query:              strings.TrimSpace(req.Q),
		Fields:             fields,
		DefaultOperator:    queryStringOperator,
		MinimumShouldMatch: mm,
	}, nil
}

// queryStringFields parses the "field[:boost]" list of the request into "field^boost" entries. Text fields are
// searched on their keyword sub-field. Without a list in the request the index defaults are used as they are.
func queryStringFields(req *api.SearchRequest, meta *schema.IndexMetadata) ([]string, error) {
	if !req.HasFields() {
		return meta.DefaultFields, nil
	}

	var fields []string
	for _, entry := range splitList(req.Fields) {
		name, boost := entry, defaultBoost
		if i := strings.LastIndex(entry, boostSeparator); i >= 0 {
			name = strings.TrimSpace(entry[:i])

			b, err := strconv.ParseFloat(strings.TrimSpace(entry[i+1:]), 64)
			if err != nil {
				return nil, errors.Validation("invalid boost in field '%s'", entry)
			}
			boost = b
		}

		f, err := filter.ParseField(name)
		if err != nil {
			return nil, err
		}
		if f.Not {
			return nil, errors.Syntax("negation is not allowed in search field '%s'", entry)
		}

		name = f.Name()
		if !meta.HasField(name) {
			return nil, errors.NotFound("search field '%s' not found in index '%s'", name, meta.Name)
		}
		if meta.IsTypeOf(name, schema.TextType) && !strings.HasSuffix(name, schema.RawSuffix) {
			name += schema.RawSuffix
		}

		fields = append(fields, name+"^"+formatBoost(boost))
	}

	return fields, nil
}

func formatBoost(b float64) string {
	s := strconv.FormatFloat(b, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// splitList flattens a list of comma separated values, dropping blank entries.
func splitList(values []string) []string {
	var res []string
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); len(s) > 0 {
				res = append(res, s)
			}
		}
	}

	return res
}
