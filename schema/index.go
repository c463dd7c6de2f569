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
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/zerojuls/search-api/server/config"
)

// IndexMetadata is the read-only description of an index used while compiling requests against it.
type IndexMetadata struct {
	Name string
	// IDField is the meta field holding the document id.
	IDField        string
	Shards         int
	DefaultSize    int
	MaxSize        int
	FacetSize      int
	MM             string
	DefaultFields  []string
	SourceIncludes []string
	SourceExcludes []string
	QueryTimeout   time.Duration

	fields map[string]FieldType
}

// NewIndexMetadata builds the metadata of an index from its configuration. Every problem found in the
// configuration is reported in the returned error, not only the first one.
func NewIndexMetadata(name string, cfg config.IndexConfig) (*IndexMetadata, error) {
	cfg = cfg.WithDefaults()

	var err error
	if len(name) == 0 {
		err = multierror.Append(err, fmt.Errorf("index name is empty"))
	}
	if cfg.Shards < 0 {
		err = multierror.Append(err, fmt.Errorf("index '%s': shards must be positive, got %d", name, cfg.Shards))
	}
	if cfg.DefaultSize < 0 {
		err = multierror.Append(err, fmt.Errorf("index '%s': default_size must be positive, got %d", name, cfg.DefaultSize))
	}
	if cfg.FacetSize < 0 {
		err = multierror.Append(err, fmt.Errorf("index '%s': facet_size must be positive, got %d", name, cfg.FacetSize))
	}
	if cfg.QueryTimeout < 0 {
		err = multierror.Append(err, fmt.Errorf("index '%s': query_timeout must not be negative, got %s", name,
			cfg.QueryTimeout))
	}
	if cfg.MaxSize < cfg.DefaultSize {
		err = multierror.Append(err, fmt.Errorf("index '%s': max_size %d is lower than default_size %d", name,
			cfg.MaxSize, cfg.DefaultSize))
	}

	fields := make(map[string]FieldType, len(cfg.Fields))
	for _, f := range cfg.Fields {
		if !ValidFieldNamePattern.MatchString(f.Name) {
			err = multierror.Append(err, fmt.Errorf("index '%s': "+MsgFieldNameInvalidPattern, name, f.Name))
			continue
		}
		if _, ok := fields[f.Name]; ok {
			err = multierror.Append(err, fmt.Errorf("index '%s': duplicate field '%s'", name, f.Name))
			continue
		}

		t := ToFieldType(f.Type)
		if t == UnknownType {
			err = multierror.Append(err, fmt.Errorf("index '%s': unsupported type '%s' for field '%s'", name, f.Type, f.Name))
			continue
		}
		fields[f.Name] = t
	}

	for _, f := range append(append([]string{}, cfg.SourceIncludes...), cfg.SourceExcludes...) {
		if _, ok := fields[f]; !ok && f != cfg.IDField {
			err = multierror.Append(err, fmt.Errorf("index '%s': source field '%s' is not declared", name, f))
		}
	}

	if err != nil {
		return nil, err
	}

	return &IndexMetadata{
		Name:           name,
		IDField:        cfg.IDField,
		Shards:         cfg.Shards,
		DefaultSize:    cfg.DefaultSize,
		MaxSize:        cfg.MaxSize,
		FacetSize:      cfg.FacetSize,
		MM:             cfg.MM,
		DefaultFields:  cfg.DefaultFields,
		SourceIncludes: cfg.SourceIncludes,
		SourceExcludes: cfg.SourceExcludes,
		QueryTimeout:   cfg.QueryTimeout,
		fields:         fields,
	}, nil
}

// FieldType returns the type of the field at path. The ".raw" sub-field of a text field is a keyword and the
// id field is always known.
func (m *IndexMetadata) FieldType(path string) (FieldType, bool) {
	if t, ok := m.fields[path]; ok {
		return t, true
	}

	if base := strings.TrimSuffix(path, RawSuffix); base != path && m.fields[base] == TextType {
		return KeywordType, true
	}

	if path == m.IDField {
		return KeywordType, true
	}

	return UnknownType, false
}

func (m *IndexMetadata) HasField(path string) bool {
	_, ok := m.FieldType(path)
	return ok
}

// IsTypeOf reports whether the field at path is declared with type t.
func (m *IndexMetadata) IsTypeOf(path string, t FieldType) bool {
	ft, ok := m.FieldType(path)
	return ok && ft == t
}

// IsNested reports whether the first segment of path is a nested field.
func (m *IndexMetadata) IsNested(path string) bool {
	return m.IsTypeOf(FirstSegment(path), NestedType)
}

// FieldNames returns the declared field paths.
func (m *IndexMetadata) FieldNames() []string {
	names := make([]string, 0, len(m.fields))
	for k := range m.fields {
		names = append(names, k)
	}

	return names
}
