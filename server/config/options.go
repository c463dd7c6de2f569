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

package config

import (
	"time"

	"github.com/zerojuls/search-api/util/log"
)

type ServerConfig struct {
	Host string
	Port int16
	// ReadHeaderTimeout bounds how long the server waits for request headers.
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout" json:"read_header_timeout"`
	// RateLimit is the number of requests per second accepted by the HTTP server, zero disables limiting.
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
	RateBurst int `mapstructure:"rate_burst" yaml:"rate_burst" json:"rate_burst"`
}

type Config struct {
	Log     log.LogConfig
	Server  ServerConfig           `yaml:"server" json:"server"`
	Search  SearchConfig           `yaml:"search" json:"search"`
	Metrics MetricsConfig          `yaml:"metrics" json:"metrics"`
	Tracing TracingConfig          `yaml:"tracing" json:"tracing"`
	Indexes map[string]IndexConfig `yaml:"indexes" json:"indexes"`
}

// SearchConfig is the address of the search backend the compiled queries are sent to.
type SearchConfig struct {
	Host    string
	Port    int16
	Timeout time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

type TracingConfig struct {
	Enabled    bool
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate" json:"sample_rate"`
	AgentAddr  string  `mapstructure:"agent_addr" yaml:"agent_addr" json:"agent_addr"`
}

// IndexConfig holds the per index settings used to compile queries against the index.
type IndexConfig struct {
	// Shards is the number of primary shards, used as the shard size of facet aggregations.
	Shards int `mapstructure:"shards" yaml:"shards" json:"shards"`
	// IDField is the meta field holding the document id, an IN filter on it becomes an ids query.
	IDField     string `mapstructure:"id_field" yaml:"id_field" json:"id_field"`
	DefaultSize int    `mapstructure:"default_size" yaml:"default_size" json:"default_size"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size" json:"max_size"`
	FacetSize   int    `mapstructure:"facet_size" yaml:"facet_size" json:"facet_size"`
	// MM is the default minimum should match of free text queries.
	MM string `mapstructure:"mm" yaml:"mm" json:"mm"`
	// DefaultFields are the free text fields used when a request doesn't list any.
	DefaultFields  []string      `mapstructure:"default_fields" yaml:"default_fields" json:"default_fields"`
	SourceIncludes []string      `mapstructure:"source_includes" yaml:"source_includes" json:"source_includes"`
	SourceExcludes []string      `mapstructure:"source_excludes" yaml:"source_excludes" json:"source_excludes"`
	Fields         []FieldConfig `mapstructure:"fields" yaml:"fields" json:"fields"`
	// QueryTimeout is sent with every search on the index, zero leaves the backend default.
	QueryTimeout time.Duration `mapstructure:"query_timeout" yaml:"query_timeout" json:"query_timeout"`
}

// FieldConfig declares the mapping type of a dotted field path, i.e. "address.location" of type "geo_point".
// Fields are declared as a list because configuration keys are case-insensitive and dot separated.
type FieldConfig struct {
	Name string `mapstructure:"name" yaml:"name" json:"name"`
	Type string `mapstructure:"type" yaml:"type" json:"type"`
}

var DefaultConfig = Config{
	Log: log.LogConfig{
		Level:  "info",
		Format: "console",
	},
	Server: ServerConfig{
		Host:              "0.0.0.0",
		Port:              8080,
		ReadHeaderTimeout: 5 * time.Second,
		RateBurst:         100,
	},
	Search: SearchConfig{
		Host:    "localhost",
		Port:    9200,
		Timeout: 2 * time.Second,
	},
	Metrics: MetricsConfig{
		Enabled: true,
	},
	Tracing: TracingConfig{
		Enabled:    false,
		SampleRate: 0.01,
	},
	Indexes: map[string]IndexConfig{},
}

// DefaultIndexConfig is merged under every configured index so that only the settings that differ need to be set.
var DefaultIndexConfig = IndexConfig{
	Shards:      1,
	IDField:     "id",
	DefaultSize: 20,
	MaxSize:     200,
	FacetSize:   20,
	MM:          "75%",
}

// WithDefaults returns a copy of the index config with the zero settings replaced by DefaultIndexConfig.
func (c IndexConfig) WithDefaults() IndexConfig {
	if c.Shards == 0 {
		c.Shards = DefaultIndexConfig.Shards
	}
	if len(c.IDField) == 0 {
		c.IDField = DefaultIndexConfig.IDField
	}
	if c.DefaultSize == 0 {
		c.DefaultSize = DefaultIndexConfig.DefaultSize
	}
	if c.MaxSize == 0 {
		c.MaxSize = DefaultIndexConfig.MaxSize
	}
	if c.FacetSize == 0 {
		c.FacetSize = DefaultIndexConfig.FacetSize
	}
	if len(c.MM) == 0 {
		c.MM = DefaultIndexConfig.MM
	}

	return c
}
