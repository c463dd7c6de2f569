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

package search

import (
	"context"
	"net/http"

	"github.com/buger/jsonparser"
	"github.com/zerojuls/search-api/errors"
)

// errorReason extracts the message of a backend error body. The backend returns either a structured error or
// a plain string.
func errorReason(status int, body []byte) string {
	if reason, err := jsonparser.GetString(body, "error", "reason"); err == nil {
		return reason
	}
	if reason, err := jsonparser.GetString(body, "error"); err == nil {
		return reason
	}

	return http.StatusText(status)
}

// convertResponseError maps a failed backend response to an api error.
func convertResponseError(status int, body []byte) error {
	reason := errorReason(status, body)

	switch status {
	case http.StatusNotFound:
		return errors.NotFound("search backend: %s", reason)
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return errors.Unavailable("search backend: %s", reason)
	}

	return errors.Internal("search backend returned %d: %s", status, reason)
}

// convertTransportError maps a failure to reach the backend. Cancellation by the caller is passed through.
func convertTransportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return errors.Unavailable("search backend unreachable: %s", err.Error())
}
