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
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// errNoMatches is returned internally by expandIncludePattern when a pattern
// matches nothing; processInclude turns it into success for tolerant
// includes and propagates it for strict ones.
var errNoMatches = fmt.Errorf("No matches")

// expandIncludePattern resolves pattern against the frame that contains the
// include directive and expands it to the concrete, sorted list of paths it
// matches. A pattern that doublestar rejects as invalid is tried as a
// literal path instead. Every valid pattern, including a bareword target
// ("!include local.conf"), goes through the glob, so a missing bareword
// file is reported as errNoMatches.
func expandIncludePattern(basePath, pattern string) ([]string, error) {
	resolved := resolveIncludePath(basePath, pattern)

	if !doublestar.ValidatePattern(resolved) {
		return []string{resolved}, nil
	}

	matches, err := doublestar.FilepathGlob(resolved)
	if err != nil {
		return nil, fmt.Errorf("include pattern %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, errNoMatches
	}
	return matches, nil
}

// processInclude expands stmt's pattern relative to the current top frame
// and pushes each matched file onto the parser's input stack in expansion
// order. A tolerant include (!include_try) turns a no-match or a
// file-not-found open failure into success with nothing pushed; any other
// failure, or any failure at all for a strict include, aborts.
func (p *Parser) processInclude(f *inputFrame, stmt statement) error {
	matches, err := expandIncludePattern(f.path, stmt.value)
	if err != nil {
		if stmt.tolerant && err == errNoMatches {
			return nil
		}
		return err
	}

	for _, path := range matches {
		if err := p.stack.push(path); err != nil {
			if stmt.tolerant && isNotExist(err) {
				continue
			}
			return err
		}
		err := p.parseFrame()
		if err != nil {
			return err
		}
	}
	return nil
}
