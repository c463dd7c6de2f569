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
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/iancoleman/strcase"
	jsoniter "github.com/json-iterator/go"
	"google.golang.org/grpc/codes"
)

// Kind classifies an Error for callers that need to tell client mistakes apart from lookup failures without
// parsing messages.
type Kind string

const (
	// SyntaxError is raised for malformed filter, sort or field text.
	SyntaxError Kind = "syntax_error"
	// ValidationError is raised for well-formed input that is not acceptable, for example an operator/value arity
	// mismatch or a page size over the index maximum.
	ValidationError Kind = "validation_error"
	// MetadataLookupFailure is raised when an index or a field is unknown to the metadata provider.
	MetadataLookupFailure Kind = "metadata_lookup_failure"
	// LimitExceeded is raised when a caller is over the request rate of the server.
	LimitExceeded Kind = "limit_exceeded"
	// InternalError is anything else.
	InternalError Kind = "internal_error"
)

// Error is the user facing error of the search API. The Code is a grpc code which is translated to an HTTP status
// when the error is written by the HTTP layer, see HTTPStatus.
type Error struct {
	// The status code, which should be an enum value of [google.rpc.Code][google.rpc.Code].
	Code codes.Code `json:"-"`
	// Kind is the error class.
	Kind Kind `json:"kind,omitempty"`
	// A developer-facing error message.
	Message string `json:"message,omitempty"`
}

// Error to return the underlying error message
func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status code matching the grpc code of the error.
func (e *Error) HTTPStatus() int {
	if e == nil {
		return http.StatusOK
	}

	return runtime.HTTPStatusFromCode(e.Code)
}

// MarshalJSON writes the error in the shape returned to HTTP clients,
//
//	{"error": {"code": "INVALID_ARGUMENT", "kind": "syntax_error", "message": "..."}}
func (e *Error) MarshalJSON() ([]byte, error) {
	type body struct {
		Code    string `json:"code"`
		Kind    Kind   `json:"kind,omitempty"`
		Message string `json:"message,omitempty"`
	}

	return jsoniter.Marshal(struct {
		Error body `json:"error"`
	}{
		Error: body{
			Code:    CodeToString(e.Code),
			Kind:    e.Kind,
			Message: e.Message,
		},
	})
}

// CodeToString converts a grpc code to its upper snake case name, i.e. codes.InvalidArgument -> "INVALID_ARGUMENT".
func CodeToString(c codes.Code) string {
	return strcase.ToScreamingSnake(c.String())
}

// Errorf returns Error(c, k, fmt.Sprintf(format, a...)).
func Errorf(c codes.Code, k Kind, format string, a ...interface{}) *Error {
	return NewError(c, k, fmt.Sprintf(format, a...))
}

// NewError returns an error representing c and msg. If c is OK, returns nil.
func NewError(c codes.Code, k Kind, msg string) *Error {
	if c == codes.OK {
		return nil
	}

	return &Error{
		Code:    c,
		Kind:    k,
		Message: msg,
	}
}
