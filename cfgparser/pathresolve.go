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

import "path/filepath"

// resolveIncludePath resolves a !include/!include_try pattern relative to
// the path of the frame that contains the directive. Absolute patterns pass
// through untouched. A relative pattern is joined against the directory
// component of basePath; if basePath has no directory component (it's a
// bare filename, as root config paths usually are when invoked from the
// directory they live in), the pattern passes through unchanged instead of
// being anchored to ".".
func resolveIncludePath(basePath, pattern string) string {
	if filepath.IsAbs(pattern) {
		return pattern
	}
	dir, _ := filepath.Split(basePath)
	if dir == "" {
		return pattern
	}
	return filepath.Join(dir, pattern)
}
