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
	"regexp"
	"strings"
)

type FieldType int

const (
	UnknownType FieldType = iota
	// NestedType is an object indexed so that its sub-fields must be queried together in a nested scope.
	NestedType
	GeoPointType
	// KeywordType is a string indexed as a single term.
	KeywordType
	// TextType is an analyzed string, its keyword variant is the ".raw" sub-field.
	TextType
	OtherType
)

var FieldNames = [...]string{
	UnknownType:  "unknown",
	NestedType:   "nested",
	GeoPointType: "geo_point",
	KeywordType:  "keyword",
	TextType:     "text",
	OtherType:    "other",
}

// RawSuffix is the sub-field holding the keyword variant of a text field.
const RawSuffix = ".raw"

var (
	MsgFieldNameInvalidPattern = "invalid field name, each segment can only contain [a-zA-Z0-9_] and it can only start with [a-zA-Z_] for fieldName = '%s'"
	ValidFieldNamePattern      = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)*$`)
)

const (
	mappingNested    = "nested"
	mappingGeoPoint  = "geo_point"
	mappingKeyword   = "keyword"
	mappingText      = "text"
	mappingString    = "string"
	mappingLong      = "long"
	mappingInteger   = "integer"
	mappingShort     = "short"
	mappingByte      = "byte"
	mappingDouble    = "double"
	mappingFloat     = "float"
	mappingDate      = "date"
	mappingBoolean   = "boolean"
	mappingObject    = "object"
	mappingOther     = "other"
	mappingScaledFlt = "scaled_float"
)

// ToFieldType classifies a backend mapping type name. Unrecognized names are UnknownType.
func ToFieldType(mapping string) FieldType {
	switch strings.ToLower(mapping) {
	case mappingNested:
		return NestedType
	case mappingGeoPoint:
		return GeoPointType
	case mappingKeyword:
		return KeywordType
	case mappingText, mappingString:
		return TextType
	case mappingLong, mappingInteger, mappingShort, mappingByte, mappingDouble, mappingFloat, mappingScaledFlt,
		mappingDate, mappingBoolean, mappingObject, mappingOther:
		return OtherType
	default:
		return UnknownType
	}
}

func (f FieldType) String() string {
	if f < 0 || int(f) >= len(FieldNames) {
		return FieldNames[UnknownType]
	}

	return FieldNames[f]
}

// FirstSegment returns the part of a dotted path before the first separator.
func FirstSegment(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}

	return path
}
