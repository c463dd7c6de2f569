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

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	api "github.com/zerojuls/search-api/api/server/v1"
	"google.golang.org/grpc/codes"
)

func TestConstructors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code codes.Code
		kind api.Kind
	}{
		{"syntax", Syntax("unexpected '%s'", ")"), codes.InvalidArgument, api.SyntaxError},
		{"validation", Validation("size %d over max", 500), codes.InvalidArgument, api.ValidationError},
		{"not found", NotFound("index '%s' not found", "x"), codes.NotFound, api.MetadataLookupFailure},
		{"internal", Internal("boom"), codes.Internal, api.InternalError},
		{"unavailable", Unavailable("backend down"), codes.Unavailable, api.InternalError},
		{"resource exhausted", ResourceExhausted("slow down"), codes.ResourceExhausted, api.LimitExceeded},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var ep *api.Error
			require.True(t, As(c.err, &ep))
			require.Equal(t, c.code, ep.Code)
			require.Equal(t, c.kind, KindOf(c.err))
			require.Equal(t, c.kind, KindOf(fmt.Errorf("wrapped: %w", c.err)))
		})
	}

	require.Equal(t, "unexpected ')'", Syntax("unexpected '%s'", ")").Error())
	require.Equal(t, api.InternalError, KindOf(fmt.Errorf("plain")))
}
