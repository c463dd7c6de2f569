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

package stream

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zerojuls/search-api/errors"
	"github.com/zerojuls/search-api/store/search"
)

type batchIterator struct {
	batches [][]search.Hit
	err     error
	closed  bool
}

func (b *batchIterator) Next(_ context.Context, hits *[]search.Hit) bool {
	if len(b.batches) == 0 {
		return false
	}
	*hits, b.batches = b.batches[0], b.batches[1:]
	return true
}

func (b *batchIterator) Err() error {
	if len(b.batches) == 0 {
		return b.err
	}
	return nil
}

func (b *batchIterator) Close(context.Context) error {
	b.closed = true
	return nil
}

type flushRecorder struct {
	bytes.Buffer
	flushed []string
}

func (f *flushRecorder) Flush() {
	f.flushed = append(f.flushed, f.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, fmt.Errorf("broken pipe")
}

func hits(sources ...string) []search.Hit {
	res := make([]search.Hit, 0, len(sources))
	for i, s := range sources {
		res = append(res, search.Hit{ID: fmt.Sprint(i), Source: []byte(s)})
	}
	return res
}

func TestWrite(t *testing.T) {
	t.Run("one line per hit, flush per batch", func(t *testing.T) {
		it := &batchIterator{batches: [][]search.Hit{
			hits(`{"id":1}`, `{"id":2}`),
			hits(`{"id":3}`),
		}}
		w := &flushRecorder{}

		n, err := Write(context.TODO(), w, it)
		require.NoError(t, err)
		require.Equal(t, 3, n)
		require.Equal(t, "{\"id\":1}\n{\"id\":2}\n{\"id\":3}\n", w.String())
		require.Equal(t, []string{
			"{\"id\":1}\n{\"id\":2}\n",
			"{\"id\":1}\n{\"id\":2}\n{\"id\":3}\n",
		}, w.flushed)
	})

	t.Run("hit without source", func(t *testing.T) {
		it := &batchIterator{batches: [][]search.Hit{{{ID: "1"}}}}
		var w bytes.Buffer

		n, err := Write(context.TODO(), &w, it)
		require.NoError(t, err)
		require.Equal(t, 1, n)
		require.Equal(t, "{}\n", w.String())
	})

	t.Run("empty", func(t *testing.T) {
		w := &flushRecorder{}

		n, err := Write(context.TODO(), w, &batchIterator{})
		require.NoError(t, err)
		require.Zero(t, n)
		require.Empty(t, w.String())
		require.Empty(t, w.flushed)
	})

	t.Run("iterator failure", func(t *testing.T) {
		it := &batchIterator{batches: [][]search.Hit{hits(`{}`)}, err: errors.Unavailable("search backend unreachable")}
		var w bytes.Buffer

		n, err := Write(context.TODO(), &w, it)
		require.Error(t, err)
		require.Equal(t, 1, n)
		require.Equal(t, "{}\n", w.String())
	})

	t.Run("writer failure", func(t *testing.T) {
		it := &batchIterator{batches: [][]search.Hit{hits(`{}`), hits(`{}`)}}

		n, err := Write(context.TODO(), failingWriter{}, it)
		require.EqualError(t, err, "broken pipe")
		require.Zero(t, n)
		require.Len(t, it.batches, 1)
	})
}
