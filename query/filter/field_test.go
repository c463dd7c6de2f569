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
	api "github.com/zerojuls/search-api/api/server/v1"
	"github.com/zerojuls/search-api/errors"
)

func TestParseField(t *testing.T) {
	cases := []struct {
		input string
		path  []string
		not   bool
	}{
		{"a", []string{"a"}, false},
		{"a.b.c", []string{"a", "b", "c"}, false},
		{"  _meta.id_2 ", []string{"_meta", "id_2"}, false},
		{"NOT a.b", []string{"a", "b"}, true},
		{"!a", []string{"a"}, true},
		{"NOTE", []string{"NOTE"}, false},
	}
	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			f, err := ParseField(c.input)
			require.NoError(t, err)
			require.Equal(t, c.path, f.Path)
			require.Equal(t, c.not, f.Not)
		})
	}

	for _, input := range []string{"", "a.", "a..b", ".a", "1a", "a b", "NOT"} {
		t.Run("invalid "+input, func(t *testing.T) {
			_, err := ParseField(input)
			require.Equal(t, api.SyntaxError, errors.KindOf(err))
		})
	}
}

func TestField(t *testing.T) {
	f, err := NewField("nested1", "field4")
	require.NoError(t, err)
	require.Equal(t, "nested1.field4", f.Name())
	require.Equal(t, "nested1", f.FirstName())
	require.True(t, f.Equal(Field{Path: []string{"nested1", "field4"}, Not: true}))
	require.False(t, f.Equal(Field{Path: []string{"nested1"}}))

	_, err = NewField()
	require.Error(t, err)
	_, err = NewField("a", "")
	require.Error(t, err)
}
