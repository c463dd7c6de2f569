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

// Package stream writes search results as newline delimited JSON.
package stream

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/valyala/bytebufferpool"
	"github.com/zerojuls/search-api/store/search"
)

const ContentType = "application/x-ndjson"

var emptyDocument = []byte("{}")

type flusher interface {
	Flush()
}

// Write drains it, writing the source of every hit on its own line. Each batch is written at once and flushed
// when w supports it. Returns the number of records written.
func Write(ctx context.Context, w io.Writer, it search.Iterator) (int, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	f, canFlush := w.(flusher)

	var (
		written int
		batch   []search.Hit
	)
	for it.Next(ctx, &batch) {
		buf.Reset()
		for _, hit := range batch {
			if len(hit.Source) == 0 {
				_, _ = buf.Write(emptyDocument)
			} else {
				_, _ = buf.Write(hit.Source)
			}
			_ = buf.WriteByte('\n')
		}

		if _, err := w.Write(buf.B); err != nil {
			log.Err(err).Int("records", written).Msg("write error on result stream")
			return written, err
		}
		written += len(batch)

		if canFlush {
			f.Flush()
		}
	}

	return written, it.Err()
}
