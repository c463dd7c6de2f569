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
	"github.com/buger/jsonparser"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// Hit is a single document returned by the backend.
type Hit struct {
	ID     string
	Score  float64
	Source jsoniter.RawMessage
}

// Result is one page of search results. Aggregations are passed through as returned by the backend.
type Result struct {
	Total        int64
	Hits         []Hit
	Aggregations jsoniter.RawMessage
}

// parseSearchResponse extracts the hits, total and aggregations of a search or scroll response body. The
// scroll id is empty for plain searches.
func parseSearchResponse(body []byte) (*Result, string, error) {
	res := &Result{}

	total, err := jsonparser.GetInt(body, "hits", "total", "value")
	if err == jsonparser.KeyPathNotFoundError {
		// older backends report the total as a bare number
		total, err = jsonparser.GetInt(body, "hits", "total")
	}
	if err != nil && err != jsonparser.KeyPathNotFoundError {
		return nil, "", errors.Wrap(err, "reading hits total")
	}
	res.Total = total

	var hitErr error
	_, err = jsonparser.ArrayEach(body, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		if hitErr != nil {
			return
		}
		var hit *Hit
		if hit, hitErr = parseHit(value); hitErr == nil {
			res.Hits = append(res.Hits, *hit)
		}
	}, "hits", "hits")
	if err != nil && err != jsonparser.KeyPathNotFoundError {
		return nil, "", errors.Wrap(err, "reading hits")
	}
	if hitErr != nil {
		return nil, "", hitErr
	}

	aggs, dataType, _, err := jsonparser.Get(body, "aggregations")
	if err == nil && dataType == jsonparser.Object {
		res.Aggregations = aggs
	}

	scrollID, _ := jsonparser.GetString(body, "_scroll_id")

	return res, scrollID, nil
}

func parseHit(value []byte) (*Hit, error) {
	id, err := jsonparser.GetString(value, "_id")
	if err != nil {
		return nil, errors.Wrap(err, "reading hit id")
	}

	hit := &Hit{ID: id}
	// _score is null for sorted searches
	if score, err := jsonparser.GetFloat(value, "_score"); err == nil {
		hit.Score = score
	}
	if source, dataType, _, err := jsonparser.Get(value, "_source"); err == nil && dataType == jsonparser.Object {
		hit.Source = source
	}

	return hit, nil
}

// parseGetResponse returns the document of a get response, nil when the backend reports it as not found.
func parseGetResponse(body []byte) (*Hit, error) {
	if found, err := jsonparser.GetBoolean(body, "found"); err == nil && !found {
		return nil, nil
	}

	return parseHit(body)
}
