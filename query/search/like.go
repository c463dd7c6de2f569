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
	"strings"
)

// likeToWildcard translates a LIKE pattern to a wildcard pattern. The two character sequence `\n` becomes a line
// break first, then:
//
//	%   -> *      \%  -> %
//	_   -> ?      \_  -> _
//	*   -> \*     ?   -> \?
//
// Any other escaped character is kept with its backslash.
func likeToWildcard(pattern string) string {
	pattern = strings.ReplaceAll(pattern, `\n`, "\n")

	var sb strings.Builder
	sb.Grow(len(pattern) + 8)

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '\\':
			if i+1 == len(pattern) {
				sb.WriteByte(c)
				continue
			}
			i++
			if next := pattern[i]; next != '%' && next != '_' {
				sb.WriteByte(c)
			}
			sb.WriteByte(pattern[i])
		case '*', '?':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '%':
			sb.WriteByte('*')
		case '_':
			sb.WriteByte('?')
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}
