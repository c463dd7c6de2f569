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

package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestError(t *testing.T) {
	err := Errorf(codes.NotFound, MetadataLookupFailure, "index '%s' not found", "listings")
	require.Equal(t, &Error{Code: codes.NotFound, Kind: MetadataLookupFailure, Message: "index 'listings' not found"}, err)
	require.Equal(t, "index 'listings' not found", err.Error())

	var (
		wrapped error = fmt.Errorf("compile: %w", err)
		ep      *Error
	)
	require.True(t, errors.As(wrapped, &ep))
	require.Equal(t, MetadataLookupFailure, ep.Kind)

	require.Nil(t, NewError(codes.OK, InternalError, "ok"))
}

func TestErrorHTTPStatus(t *testing.T) {
	cases := []struct {
		code   codes.Code
		status int
	}{
		{codes.InvalidArgument, http.StatusBadRequest},
		{codes.NotFound, http.StatusNotFound},
		{codes.ResourceExhausted, http.StatusTooManyRequests},
		{codes.Unavailable, http.StatusServiceUnavailable},
		{codes.Internal, http.StatusInternalServerError},
	}

	for _, c := range cases {
		t.Run(c.code.String(), func(t *testing.T) {
			require.Equal(t, c.status, NewError(c.code, InternalError, "x").HTTPStatus())
		})
	}

	var nilErr *Error
	require.Equal(t, http.StatusOK, nilErr.HTTPStatus())
}

func TestErrorMarshalJSON(t *testing.T) {
	b, err := jsoniter.Marshal(Errorf(codes.InvalidArgument, SyntaxError, "unexpected '%s' at offset %d", ")", 4))
	require.NoError(t, err)
	require.JSONEq(t, `{"error": {"code": "INVALID_ARGUMENT", "kind": "syntax_error", "message": "unexpected ')' at offset 4"}}`,
		string(b))
}

func TestCodeToString(t *testing.T) {
	require.Equal(t, "INVALID_ARGUMENT", CodeToString(codes.InvalidArgument))
	require.Equal(t, "NOT_FOUND", CodeToString(codes.NotFound))
	require.Equal(t, "RESOURCE_EXHAUSTED", CodeToString(codes.ResourceExhausted))
	require.Equal(t, "OK", CodeToString(codes.OK))
}
