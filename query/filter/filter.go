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

package filter

import (
	"strings"

	"github.com/zerojuls/search-api/errors"
)

// Node is an element of a parsed filter: a *Comparison or a *Group.
type Node interface {
	IsNegated() bool
	String() string
}

// Comparison compares a field to a value with a relational operator.
type Comparison struct {
	Field    Field
	Operator RelationalOperator
	Value    Value
	Negated  bool
}

func NewComparison(f Field, op RelationalOperator, v Value) (*Comparison, error) {
	if err := validateArity(f, op, v); err != nil {
		return nil, err
	}

	return &Comparison{Field: f, Operator: op, Value: v}, nil
}

func (c *Comparison) IsNegated() bool {
	return c.Negated
}

// Validate checks the value arity of a comparison built without NewComparison.
func (c *Comparison) Validate() error {
	if len(c.Field.Path) == 0 {
		return errors.Syntax("field name is empty")
	}

	return validateArity(c.Field, c.Operator, c.Value)
}

// Values returns the elements of a list operand.
func (c *Comparison) Values() []Value {
	list, _ := c.Value.([]Value)
	return list
}

// Points returns the coordinates of a geo operand.
func (c *Comparison) Points() []GeoPoint {
	points, _ := toPoints(c.Value)
	return points
}

func (c *Comparison) String() string {
	var sb strings.Builder
	if c.Negated {
		sb.WriteString("NOT ")
	}
	sb.WriteString(c.Field.String())
	sb.WriteString(" ")
	sb.WriteString(c.Operator.String())
	sb.WriteString(" ")
	writeValue(&sb, c.Value)

	return sb.String()
}

// Group combines its children with AND or OR, in the order they were written.
type Group struct {
	Operator LogicalOperator
	Children []Node
	Negated  bool
}

func (g *Group) IsNegated() bool {
	return g.Negated
}

func (g *Group) String() string {
	parts := make([]string, len(g.Children))
	for i, c := range g.Children {
		parts[i] = c.String()
	}

	s := "(" + strings.Join(parts, " "+g.Operator.String()+" ") + ")"
	if g.Negated {
		return "NOT " + s
	}

	return s
}

// negate toggles the negation of a node. A node already negated is wrapped into a negated group so that
// double negation stays visible in the tree.
func negate(n Node) Node {
	if n.IsNegated() {
		return &Group{Operator: And, Children: []Node{n}, Negated: true}
	}

	switch t := n.(type) {
	case *Comparison:
		t.Negated = true
	case *Group:
		t.Negated = true
	}

	return n
}

func writeValue(sb *strings.Builder, v Value) {
	switch t := v.(type) {
	case []Value:
		sb.WriteString("[")
		for i, e := range t {
			if i > 0 {
				sb.WriteString(",")
			}
			writeValue(sb, e)
		}
		sb.WriteString("]")
	case string:
		sb.WriteString(`"`)
		sb.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(t))
		sb.WriteString(`"`)
	case float64:
		f := FormatValue(t)
		sb.WriteString(f)
		if !strings.ContainsAny(f, ".eEIN") {
			sb.WriteString(".0")
		}
	default:
		sb.WriteString(FormatValue(v))
	}
}
