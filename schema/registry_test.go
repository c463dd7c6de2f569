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
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
	api "github.com/zerojuls/search-api/api/server/v1"
	"github.com/zerojuls/search-api/errors"
	"github.com/zerojuls/search-api/server/config"
)

func testIndexes() map[string]config.IndexConfig {
	return map[string]config.IndexConfig{
		"listings": {
			Shards:         3,
			MaxSize:        50,
			QueryTimeout:   100 * time.Millisecond,
			DefaultFields:  []string{"title"},
			SourceIncludes: []string{"title"},
			Fields: []config.FieldConfig{
				{Name: "title", Type: "text"},
				{Name: "nested1", Type: "nested"},
				{Name: "nested1.field4", Type: "keyword"},
				{Name: "address.geoLocation", Type: "geo_point"},
				{Name: "price", Type: "long"},
			},
		},
	}
}

func TestRegistry(t *testing.T) {
	r, err := NewRegistry(testIndexes())
	require.NoError(t, err)
	require.Equal(t, []string{"listings"}, r.Indexes())

	m, err := r.Index("listings")
	require.NoError(t, err)
	require.Equal(t, "id", m.IDField)
	require.Equal(t, 3, m.Shards)
	require.Equal(t, 20, m.DefaultSize)
	require.Equal(t, 50, m.MaxSize)
	require.Equal(t, "75%", m.MM)
	require.Equal(t, 100*time.Millisecond, m.QueryTimeout)

	t.Run("field types", func(t *testing.T) {
		require.True(t, m.IsTypeOf("title", TextType))
		require.True(t, m.IsTypeOf("title.raw", KeywordType))
		require.True(t, m.IsTypeOf("address.geoLocation", GeoPointType))
		require.True(t, m.IsNested("nested1.field4"))
		require.False(t, m.IsNested("address.geoLocation"))
		require.True(t, m.HasField("id"))
		require.False(t, m.HasField("price.raw"))
		require.False(t, m.HasField("unknown"))
	})

	t.Run("unknown index", func(t *testing.T) {
		_, err := r.Index("missing")
		require.Equal(t, api.MetadataLookupFailure, errors.KindOf(err))
	})

	t.Run("empty index name", func(t *testing.T) {
		_, err := r.Index("")
		require.Equal(t, api.ValidationError, errors.KindOf(err))
	})
}

func TestRegistryRefreshKeepsSnapshotOnError(t *testing.T) {
	r, err := NewRegistry(testIndexes())
	require.NoError(t, err)

	err = r.Refresh(map[string]config.IndexConfig{
		"broken": {
			Shards:       -1,
			DefaultSize:  30,
			MaxSize:      10,
			QueryTimeout: -time.Second,
			Fields: []config.FieldConfig{
				{Name: "a", Type: "geo_shape"},
				{Name: "a..b", Type: "text"},
				{Name: "c", Type: "text"},
				{Name: "c", Type: "keyword"},
			},
			SourceExcludes: []string{"missing"},
		},
	})
	require.Error(t, err)

	var me *multierror.Error
	require.True(t, errors.As(err, &me))
	// negative shards and timeout, max < default, unknown type, invalid name, duplicate, undeclared source field
	require.Len(t, me.Errors, 7)

	require.Equal(t, []string{"listings"}, r.Indexes())
}

func TestRegistryConcurrentRefresh(t *testing.T) {
	r, err := NewRegistry(testIndexes())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m, err := r.Index("listings")
				require.NoError(t, err)
				require.True(t, m.HasField("title"))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				require.NoError(t, r.Refresh(testIndexes()))
			}
		}()
	}
	wg.Wait()
}
