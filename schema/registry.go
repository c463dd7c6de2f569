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
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"github.com/zerojuls/search-api/errors"
	"github.com/zerojuls/search-api/server/config"
	"go.uber.org/atomic"
)

// Provider looks up the metadata of an index. Implementations must be safe for concurrent use.
type Provider interface {
	Index(name string) (*IndexMetadata, error)
}

type snapshot map[string]*IndexMetadata

// Registry is a Provider backed by an immutable snapshot of the index metadata. A refresh builds a complete
// new snapshot and swaps it in, so lookups never observe a partially refreshed registry.
type Registry struct {
	current atomic.Value
}

func NewRegistry(indexes map[string]config.IndexConfig) (*Registry, error) {
	r := &Registry{}
	r.current.Store(snapshot{})

	if err := r.Refresh(indexes); err != nil {
		return nil, err
	}

	return r, nil
}

// Refresh replaces the registry content. When any index is invalid the registry is left unchanged and the
// returned error lists every invalid setting.
func (r *Registry) Refresh(indexes map[string]config.IndexConfig) error {
	next := make(snapshot, len(indexes))

	var err error
	for name, cfg := range indexes {
		m, e := NewIndexMetadata(name, cfg)
		if e != nil {
			err = multierror.Append(err, e)
			continue
		}
		next[name] = m
	}

	if err != nil {
		return err
	}

	r.current.Store(next)
	log.Info().Strs("indexes", r.Indexes()).Msg("index metadata refreshed")

	return nil
}

func (r *Registry) Index(name string) (*IndexMetadata, error) {
	if len(name) == 0 {
		return nil, errors.Validation("index is required")
	}

	m, ok := r.load()[name]
	if !ok {
		return nil, errors.NotFound("index '%s' not found", name)
	}

	return m, nil
}

// Indexes returns the sorted names of the registered indexes.
func (r *Registry) Indexes() []string {
	s := r.load()
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)

	return names
}

func (r *Registry) load() snapshot {
	return r.current.Load().(snapshot)
}
