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
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// member is one key of an object whose keys must be written in a fixed order.
type member struct {
	key   string
	value any
}

// object marshals its members in order. The backend query DSL is order sensitive in places (a single key per
// clause object) and the order makes the compiled output stable.
type object []member

func (o object) MarshalJSON() ([]byte, error) {
	stream := json.BorrowStream(nil)
	defer json.ReturnStream(stream)

	stream.WriteObjectStart()
	for i, m := range o {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(m.key)
		stream.WriteVal(m.value)
	}
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}

	return append([]byte(nil), stream.Buffer()...), nil
}

// Query is a clause of the compiled boolean query.
type Query interface {
	MarshalJSON() ([]byte, error)
}

// BoolQuery combines clauses: every must clause has to match, no must_not clause may match and at least
// MinimumShouldMatch should clauses have to match.
type BoolQuery struct {
	Must               []Query
	MustNot            []Query
	Should             []Query
	MinimumShouldMatch string
}

func (b *BoolQuery) IsEmpty() bool {
	return len(b.Must) == 0 && len(b.MustNot) == 0 && len(b.Should) == 0
}

func (b *BoolQuery) MarshalJSON() ([]byte, error) {
	body := object{}
	if len(b.Must) > 0 {
		body = append(body, member{"must", b.Must})
	}
	if len(b.MustNot) > 0 {
		body = append(body, member{"must_not", b.MustNot})
	}
	if len(b.Should) > 0 {
		body = append(body, member{"should", b.Should})
	}
	if len(b.MinimumShouldMatch) > 0 {
		body = append(body, member{"minimum_should_match", b.MinimumShouldMatch})
	}

	return object{{"bool", body}}.MarshalJSON()
}

type MatchQuery struct {
	Field    string
	Value    any
	Operator string
}

func (q *MatchQuery) MarshalJSON() ([]byte, error) {
	return object{{"match", object{{q.Field, object{{"query", q.Value}, {"operator", q.Operator}}}}}}.MarshalJSON()
}

// ExistsQuery matches documents holding a non null value in Field.
type ExistsQuery struct {
	Field string
}

func (q *ExistsQuery) MarshalJSON() ([]byte, error) {
	return object{{"exists", object{{"field", q.Field}}}}.MarshalJSON()
}

// RangeQuery bounds are ignored when nil.
type RangeQuery struct {
	Field string
	GT    any
	GTE   any
	LT    any
	LTE   any
}

func (q *RangeQuery) MarshalJSON() ([]byte, error) {
	bounds := object{}
	for _, b := range []member{{"gt", q.GT}, {"gte", q.GTE}, {"lt", q.LT}, {"lte", q.LTE}} {
		if b.value != nil {
			bounds = append(bounds, b)
		}
	}

	return object{{"range", object{{q.Field, bounds}}}}.MarshalJSON()
}

type TermsQuery struct {
	Field  string
	Values []any
}

func (q *TermsQuery) MarshalJSON() ([]byte, error) {
	return object{{"terms", object{{q.Field, q.Values}}}}.MarshalJSON()
}

// IDsQuery matches documents by their id.
type IDsQuery struct {
	Values []string
}

func (q *IDsQuery) MarshalJSON() ([]byte, error) {
	return object{{"ids", object{{"values", q.Values}}}}.MarshalJSON()
}

type WildcardQuery struct {
	Field string
	Value string
}

func (q *WildcardQuery) MarshalJSON() ([]byte, error) {
	return object{{"wildcard", object{{q.Field, object{{"value", q.Value}}}}}}.MarshalJSON()
}

// LatLon is a coordinate in the order used by the backend.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type GeoBoundingBoxQuery struct {
	Field       string
	TopLeft     LatLon
	BottomRight LatLon
}

func (q *GeoBoundingBoxQuery) MarshalJSON() ([]byte, error) {
	box := object{{"top_left", q.TopLeft}, {"bottom_right", q.BottomRight}}
	return object{{"geo_bounding_box", object{{q.Field, box}}}}.MarshalJSON()
}

type GeoPolygonQuery struct {
	Field  string
	Points []LatLon
}

func (q *GeoPolygonQuery) MarshalJSON() ([]byte, error) {
	return object{{"geo_polygon", object{{q.Field, object{{"points", q.Points}}}}}}.MarshalJSON()
}

// NestedQuery scopes Query to the objects of the nested field Path.
type NestedQuery struct {
	Path  string
	Query Query
}

func (q *NestedQuery) MarshalJSON() ([]byte, error) {
	return object{{"nested", object{{"path", q.Path}, {"query", q.Query}}}}.MarshalJSON()
}

// QueryStringQuery is the free text clause. Fields are "name^boost" entries.
type QueryStringQuery struct {
	Query              string
	Fields             []string
	DefaultOperator    string
	MinimumShouldMatch string
}

func (q *QueryStringQuery) MarshalJSON() ([]byte, error) {
	body := object{{"query", q.Query}}
	if len(q.Fields) > 0 {
		body = append(body, member{"fields", q.Fields})
	}
	body = append(body, member{"default_operator", q.DefaultOperator})
	if len(q.MinimumShouldMatch) > 0 {
		body = append(body, member{"minimum_should_match", q.MinimumShouldMatch})
	}

	return object{{"query_string", body}}.MarshalJSON()
}

// Aggregation is a facet request.
type Aggregation interface {
	MarshalJSON() ([]byte, error)
}

// NamedAggregation is an aggregation and the key its result is reported under.
type NamedAggregation struct {
	Name        string
	Aggregation Aggregation
}

type namedAggregations []NamedAggregation

func (n namedAggregations) MarshalJSON() ([]byte, error) {
	o := make(object, len(n))
	for i, a := range n {
		o[i] = member{a.Name, a.Aggregation}
	}

	return o.MarshalJSON()
}

type TermsAggregation struct {
	Field     string
	Size      int
	ShardSize int
}

func (a *TermsAggregation) MarshalJSON() ([]byte, error) {
	return object{{"terms", object{{"field", a.Field}, {"size", a.Size}, {"shard_size", a.ShardSize}}}}.MarshalJSON()
}

// NestedAggregation runs its sub aggregations on the objects of the nested field Path.
type NestedAggregation struct {
	Path string
	Aggs []NamedAggregation
}

func (a *NestedAggregation) MarshalJSON() ([]byte, error) {
	return object{{"nested", object{{"path", a.Path}}}, {"aggs", namedAggregations(a.Aggs)}}.MarshalJSON()
}

type SortClause struct {
	Field string
	Order string
	// NestedPath is set when Field belongs to a nested object.
	NestedPath string
}

func (s SortClause) MarshalJSON() ([]byte, error) {
	body := object{{"order", s.Order}}
	if len(s.NestedPath) > 0 {
		body = append(body, member{"nested", object{{"path", s.NestedPath}}})
	}

	return object{{s.Field, body}}.MarshalJSON()
}

// SourceFilter selects the document fields returned with every hit.
type SourceFilter struct {
	Includes []string `json:"includes,omitempty"`
	Excludes []string `json:"excludes,omitempty"`
}

func (s *SourceFilter) IsEmpty() bool {
	return s == nil || (len(s.Includes) == 0 && len(s.Excludes) == 0)
}

// Request is a compiled search, ready to be sent to the backend.
type Request struct {
	Index        string
	Query        *BoolQuery
	From         int
	Size         int
	Sort         []SortClause
	Aggregations []NamedAggregation
	Source       *SourceFilter
	// QueryTimeout bounds the time the backend spends collecting hits, zero leaves the backend default.
	QueryTimeout time.Duration
}

// MarshalJSON writes the body of the backend search request, the index is part of the URL.
func (r *Request) MarshalJSON() ([]byte, error) {
	body := object{{"from", r.From}, {"size", r.Size}}
	if r.QueryTimeout > 0 {
		body = append(body, member{"timeout", formatTimeout(r.QueryTimeout)})
	}
	if r.Query != nil {
		body = append(body, member{"query", r.Query})
	}
	if len(r.Sort) > 0 {
		body = append(body, member{"sort", r.Sort})
	}
	if len(r.Aggregations) > 0 {
		body = append(body, member{"aggs", namedAggregations(r.Aggregations)})
	}
	if !r.Source.IsEmpty() {
		body = append(body, member{"_source", r.Source})
	}

	return body.MarshalJSON()
}

// formatTimeout writes d in the backend time unit syntax. Sub-millisecond budgets are rounded up to 1ms.
func formatTimeout(d time.Duration) string {
	ms := d.Milliseconds()
	if ms == 0 {
		ms = 1
	}

	return strconv.FormatInt(ms, 10) + "ms"
}

// GetRequest is a compiled lookup of a single document.
type GetRequest struct {
	Index  string
	ID     string
	Source *SourceFilter
}
