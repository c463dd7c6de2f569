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
	"errors"

	api "github.com/zerojuls/search-api/api/server/v1"
	"google.golang.org/grpc/codes"
)

// Syntax constructs an error for malformed filter, sort or field text (HTTP: 400).
func Syntax(format string, args ...any) error {
	return api.Errorf(codes.InvalidArgument, api.SyntaxError, format, args...)
}

// Validation constructs an error for well-formed but unacceptable input (HTTP: 400).
func Validation(format string, args ...any) error {
	return api.Errorf(codes.InvalidArgument, api.ValidationError, format, args...)
}

// NotFound constructs an error for an unknown index or field (HTTP: 404).
func NotFound(format string, args ...any) error {
	return api.Errorf(codes.NotFound, api.MetadataLookupFailure, format, args...)
}

// Internal constructs internal server error (HTTP: 500).
func Internal(format string, args ...any) error {
	return api.Errorf(codes.Internal, api.InternalError, format, args...)
}

// Unavailable constructs service unavailable error (HTTP: 503).
func Unavailable(format string, args ...any) error {
	return api.Errorf(codes.Unavailable, api.InternalError, format, args...)
}

// ResourceExhausted constructs an error for callers over the request rate limit (HTTP: 429).
func ResourceExhausted(format string, args ...any) error {
	return api.Errorf(codes.ResourceExhausted, api.LimitExceeded, format, args...)
}

// KindOf returns the kind of the api error wrapped by err, InternalError for anything else.
func KindOf(err error) api.Kind {
	var ae *api.Error
	if errors.As(err, &ae) {
		return ae.Kind
	}

	return api.InternalError
}

// Convenience helpers.

var (
	As = errors.As
	Is = errors.Is
)
