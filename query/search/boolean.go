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
	"github.com/zerojuls/search-api/errors"
	"github.com/zerojuls/search-api/query/filter"
	"github.com/zerojuls/search-api/schema"
)

const (
	matchOperator = "OR"
	mmAtLeastOne  = "1"
)

// lowering turns a filter tree into boolean query clauses for one index.
type lowering struct {
	meta *schema.IndexMetadata
}

// placed is a clause waiting to be added to a boolean container.
type placed struct {
	clause   Query
	inverted bool
	// nested holds the clauses gathered under the nested field path when it is set.
	nested     string
	nestedBody []placed
}

// root lowers the whole filter into the top level boolean query.
func (l *lowering) root(n filter.Node) (*BoolQuery, error) {
	n, inverted, err := unwrap(n)
	if err != nil {
		return nil, err
	}

	top := &BoolQuery{}

	g, ok := n.(*filter.Group)
	if !ok {
		return top, l.fill(top, filter.And, []filter.Node{n}, inverted)
	}

	if g.Negated != inverted {
		sub, err := l.group(g)
		if err != nil {
			return nil, err
		}
		top.MustNot = append(top.MustNot, sub)
		return top, nil
	}

	if err := l.fill(top, g.Operator, g.Children, false); err != nil {
		return nil, err
	}
	if g.Operator == filter.Or {
		top.MinimumShouldMatch = mmAtLeastOne
	}

	return top, nil
}

// group lowers a group of two or more children into its own boolean query, ignoring its negation.
func (l *lowering) group(g *filter.Group) (*BoolQuery, error) {
	b := &BoolQuery{}
	if err := l.fill(b, g.Operator, g.Children, false); err != nil {
		return nil, err
	}
	if g.Operator == filter.Or {
		b.MinimumShouldMatch = mmAtLeastOne
	}

	return b, nil
}

// fill adds the children to b combined with op. The extra inversion applies to every child, it carries the
// negation of single child groups that were skipped.
func (l *lowering) fill(b *BoolQuery, op filter.LogicalOperator, children []filter.Node, extra bool) error {
	var entries []*placed
	nested := map[string]*placed{}

	for _, child := range children {
		n, inverted, err := unwrap(child)
		if err != nil {
			return err
		}
		inverted = inverted != extra

		switch t := n.(type) {
		case *filter.Comparison:
			clause, base, err := l.comparison(t)
			if err != nil {
				return err
			}
			p := placed{clause: clause, inverted: base != t.Negated != t.Field.Not != inverted}

			if !l.meta.IsNested(t.Field.Name()) {
				entries = append(entries, &p)
				continue
			}

			path := t.Field.FirstName()
			bucket, ok := nested[path]
			if !ok {
				bucket = &placed{nested: path}
				nested[path] = bucket
				entries = append(entries, bucket)
			}
			bucket.nestedBody = append(bucket.nestedBody, p)
		case *filter.Group:
			sub, err := l.group(t)
			if err != nil {
				return err
			}
			entries = append(entries, &placed{clause: sub, inverted: t.Negated != inverted})
		default:
			return errors.Internal("unexpected filter node %T", n)
		}
	}

	for _, e := range entries {
		if len(e.nested) == 0 {
			place(b, op, e.clause, e.inverted)
			continue
		}

		inner := &BoolQuery{}
		for _, p := range e.nestedBody {
			place(inner, op, p.clause, p.inverted)
		}
		if op == filter.Or {
			inner.MinimumShouldMatch = mmAtLeastOne
		}
		place(b, op, &NestedQuery{Path: e.nested, Query: inner}, false)
	}

	return nil
}

// place adds a clause to b. Under AND an inverted clause goes to must_not, under OR it is wrapped into its own
// must_not so that it stays one of the should alternatives.
func place(b *BoolQuery, op filter.LogicalOperator, clause Query, inverted bool) {
	switch {
	case op == filter.And && !inverted:
		b.Must = append(b.Must, clause)
	case op == filter.And:
		b.MustNot = append(b.MustNot, clause)
	case !inverted:
		b.Should = append(b.Should, clause)
	default:
		b.Should = append(b.Should, &BoolQuery{MustNot: []Query{clause}})
	}
}

// unwrap skips groups of a single child, returning the child and whether an odd number of the skipped groups
// were negated.
func unwrap(n filter.Node) (filter.Node, bool, error) {
	inverted := false
	for {
		g, ok := n.(*filter.Group)
		if !ok {
			return n, inverted, nil
		}

		switch len(g.Children) {
		case 0:
			return nil, false, errors.Validation("filter group has no condition")
		case 1:
			inverted = inverted != g.Negated
			n = g.Children[0]
		default:
			return n, inverted, nil
		}
	}
}

// comparison lowers a single comparison. The returned flag is set for clauses that must not match by
// themselves: DIFFERENT, and EQUAL to null which becomes a negated exists.
func (l *lowering) comparison(c *filter.Comparison) (Query, bool, error) {
	if err := c.Validate(); err != nil {
		return nil, false, err
	}

	name := c.Field.Name()
	if !l.meta.HasField(name) {
		return nil, false, errors.NotFound("field '%s' not found in index '%s'", name, l.meta.Name)
	}

	switch c.Operator {
	case filter.Equal:
		if filter.IsNull(c.Value) {
			return &ExistsQuery{Field: name}, true, nil
		}
		return &MatchQuery{Field: name, Value: c.Value, Operator: matchOperator}, false, nil
	case filter.Different:
		if filter.IsNull(c.Value) {
			return &ExistsQuery{Field: name}, false, nil
		}
		return &MatchQuery{Field: name, Value: c.Value, Operator: matchOperator}, true, nil
	case filter.Greater:
		return &RangeQuery{Field: name, GT: c.Value}, false, nil
	case filter.GreaterEqual:
		return &RangeQuery{Field: name, GTE: c.Value}, false, nil
	case filter.Less:
		return &RangeQuery{Field: name, LT: c.Value}, false, nil
	case filter.LessEqual:
		return &RangeQuery{Field: name, LTE: c.Value}, false, nil
	case filter.Range:
		values := c.Values()
		return &RangeQuery{Field: name, GTE: values[0], LTE: values[1]}, false, nil
	case filter.In:
		return l.in(name, c.Values()), false, nil
	case filter.Like:
		return &WildcardQuery{Field: name, Value: likeToWildcard(filter.FormatValue(c.Value))}, false, nil
	case filter.Viewport:
		q, err := l.viewport(name, c.Points())
		return q, false, err
	case filter.Polygon:
		q, err := l.polygon(name, c.Points())
		return q, false, err
	}

	return nil, false, errors.Validation("unsupported operator on field '%s'", name)
}

func (l *lowering) in(name string, values []filter.Value) Query {
	if name == l.meta.IDField {
		ids := make([]string, len(values))
		for i, v := range values {
			ids[i] = filter.FormatValue(v)
		}
		return &IDsQuery{Values: ids}
	}

	return &TermsQuery{Field: name, Values: append([]any{}, values...)}
}
