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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRelationalOperator(t *testing.T) {
	for op, aliases := range relationalAliases {
		for _, a := range aliases {
			t.Run(a, func(t *testing.T) {
				parsed, err := ParseRelationalOperator(" " + a + " ")
				require.NoError(t, err)
				require.Equal(t, op, parsed)
			})
		}
	}

	for _, input := range []string{"", "eq", "EQUALS", "=>", "~", "GT GT"} {
		t.Run("invalid "+input, func(t *testing.T) {
			_, err := ParseRelationalOperator(input)
			require.Error(t, err)
		})
	}
}

func TestParseLogicalOperator(t *testing.T) {
	for op, aliases := range logicalAliases {
		for _, a := range aliases {
			t.Run(a, func(t *testing.T) {
				parsed, err := ParseLogicalOperator(a)
				require.NoError(t, err)
				require.Equal(t, op, parsed)
			})
		}
	}

	for _, input := range []string{"and", "ANDY", "&", "|"} {
		t.Run("invalid "+input, func(t *testing.T) {
			_, err := ParseLogicalOperator(input)
			require.Error(t, err)
		})
	}
}

func TestAliasTable(t *testing.T) {
	t.Run("longest match", func(t *testing.T) {
		a, ok := relationalTable.match("<=5")
		require.True(t, ok)
		require.Equal(t, "<=", a.text)

		a, ok = relationalTable.match("GREATER_EQUAL 5")
		require.True(t, ok)
		require.Equal(t, GreaterEqual, RelationalOperator(a.op))
	})
	t.Run("word boundary", func(t *testing.T) {
		_, ok := relationalTable.match("INSIDE")
		require.False(t, ok)
		_, ok = logicalTable.match("ORDER")
		require.False(t, ok)
	})
	t.Run("duplicate alias", func(t *testing.T) {
		_, err := newAliasTable(map[int][]string{1: {"EQ"}, 2: {"EQ"}})
		require.Error(t, err)
		require.Panics(t, func() {
			mustAliasTable(map[int][]string{1: {"X", "X"}})
		})
	})
	t.Run("empty alias", func(t *testing.T) {
		require.Panics(t, func() {
			mustAliasTable(map[int][]string{1: {""}})
		})
	})
}
