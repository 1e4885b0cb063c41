// Copyright 2026 The dovecot-core Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cfgparser

import (
	"os"
	"strings"
)

const envMarker = "$ENV:"

// expandEnv substitutes each occurrence of "$ENV:NAME" that starts the value
// or is preceded by whitespace with the current process environment's value
// of NAME (empty string if unset). NAME runs to the next space or the end of
// the value. Every other "$" is copied verbatim. It is only ever applied to
// unquoted assignment values; quoted values are unescaped instead, never
// expanded.
func expandEnv(value string) string {
	var out strings.Builder
	i := 0
	for i < len(value) {
		atBoundary := i == 0 || value[i-1] == ' ' || value[i-1] == '\t'
		if atBoundary && strings.HasPrefix(value[i:], envMarker) {
			rest := value[i+len(envMarker):]
			name := rest
			if end := strings.IndexByte(rest, ' '); end >= 0 {
				name = rest[:end]
			}
			out.WriteString(os.Getenv(name))
			i += len(envMarker) + len(name)
			continue
		}
		out.WriteByte(value[i])
		i++
	}
	return out.String()
}
