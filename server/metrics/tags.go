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

package metrics

import (
	api "github.com/zerojuls/search-api/api/server/v1"
	"github.com/zerojuls/search-api/errors"
)

const unknownTagValue = "unknown"

// standardizeTags returns a tag set holding exactly the given keys. Prometheus needs the same tag keys on every
// emission of a metric, missing values are reported as "unknown".
func standardizeTags(tags map[string]string, keys []string) map[string]string {
	res := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := tags[k]; ok && len(v) > 0 {
			res[k] = v
		} else {
			res[k] = unknownTagValue
		}
	}
	return res
}

func mergeTags(tagSets ...map[string]string) map[string]string {
	res := make(map[string]string)
	for _, tagSet := range tagSets {
		for k, v := range tagSet {
			if cur, ok := res[k]; !ok || cur == unknownTagValue {
				res[k] = v
			}
		}
	}
	return res
}

func getErrorTags(err error) map[string]string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return map[string]string{
			"error_kind": string(apiErr.Kind),
			"error_code": api.CodeToString(apiErr.Code),
		}
	}

	return map[string]string{
		"error_kind": string(api.InternalError),
		"error_code": unknownTagValue,
	}
}

func GetIndexTags(index string) map[string]string {
	return map[string]string{
		"index": index,
	}
}
