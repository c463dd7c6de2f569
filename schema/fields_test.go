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

package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToFieldType(t *testing.T) {
	cases := []struct {
		mapping string
		exp     FieldType
	}{
		{"nested", NestedType},
		{"geo_point", GeoPointType},
		{"keyword", KeywordType},
		{"text", TextType},
		{"string", TextType},
		{"TEXT", TextType},
		{"long", OtherType},
		{"date", OtherType},
		{"boolean", OtherType},
		{"object", OtherType},
		{"scaled_float", OtherType},
		{"geo_shape", UnknownType},
		{"", UnknownType},
	}
	for _, c := range cases {
		t.Run(c.mapping, func(t *testing.T) {
			require.Equal(t, c.exp, ToFieldType(c.mapping))
		})
	}
}

func TestFieldTypeString(t *testing.T) {
	require.Equal(t, "geo_point", GeoPointType.String())
	require.Equal(t, "unknown", FieldType(42).String())
}

func TestValidFieldNamePattern(t *testing.T) {
	for _, name := range []string{"a", "_id", "address.geoLocation", "a1.b_2.c3"} {
		require.True(t, ValidFieldNamePattern.MatchString(name), name)
	}
	for _, name := range []string{"", "1a", "a.", ".a", "a..b", "a-b", "a b"} {
		require.False(t, ValidFieldNamePattern.MatchString(name), name)
	}
}

func TestFirstSegment(t *testing.T) {
	require.Equal(t, "nested1", FirstSegment("nested1.field4"))
	require.Equal(t, "title", FirstSegment("title"))
}
