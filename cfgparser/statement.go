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
	"strings"
)

type stmtKind int

const (
	stmtAssignment stmtKind = iota
	stmtSectionOpen
	stmtSectionClose
	stmtInclude
)

// statement is one classified unit of a logical line: an assignment, a
// section boundary, or an include directive. Real settings files routinely
// pack several of these onto one physical line ("passdb { driver = pam }"
// is idiomatic), so a single logical line can yield more than one
// statement; splitStatements walks the line left to right and emits them in
// order.
type statement struct {
	kind     stmtKind
	key      string // assignment key, or section type
	name     string // section name (may be empty)
	value    string // assignment value, or include pattern
	quoted   bool   // assignment value came from a quoted literal
	tolerant bool   // !include_try rather than !include
}

// splitStatements classifies a complete logical line into the statements it
// contains, per the grammar in spec.md §6: KEY/TYPE are runs of
// non-whitespace, non-'=' bytes; NAME is a run of non-whitespace bytes;
// VALUE extends to the next unquoted '}' (so it can share a line with a
// section close) or to the end of the line.
func splitStatements(line string) ([]statement, error) {
	var stmts []statement
	i := 0
	n := len(line)
	skipWS := func() {
		for i < n && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
	}

	for {
		skipWS()
		if i >= n {
			break
		}
		if line[i] == '}' {
			stmts = append(stmts, statement{kind: stmtSectionClose})
			i++
			continue
		}

		start := i
		for i < n && line[i] != ' ' && line[i] != '\t' && line[i] != '=' && line[i] != '{' {
			i++
		}
		key := line[start:i]
		if key == "" {
			return nil, fmt.Errorf("Expecting '='")
		}
		skipWS()

		if key == "!include" || key == "!include_try" {
			pattern := strings.TrimSpace(line[i:])
			stmts = append(stmts, statement{kind: stmtInclude, value: pattern, tolerant: key == "!include_try"})
			i = n
			continue
		}

		if i < n && line[i] == '=' {
			i++
			skipWS()
			value, consumed, quoted, err := scanValue(line[i:])
			if err != nil {
				return nil, err
			}
			i += consumed
			stmts = append(stmts, statement{kind: stmtAssignment, key: key, value: value, quoted: quoted})
			continue
		}

		if i < n && line[i] == '{' {
			i++
			stmts = append(stmts, statement{kind: stmtSectionOpen, key: key})
			continue
		}

		// Anything else must be "NAME {"; anything short of that is a
		// malformed section header.
		start = i
		for i < n && line[i] != ' ' && line[i] != '\t' && line[i] != '{' {
			i++
		}
		name := line[start:i]
		skipWS()
		if i >= n || line[i] != '{' {
			return nil, fmt.Errorf("Expecting '='")
		}
		i++
		stmts = append(stmts, statement{kind: stmtSectionOpen, key: key, name: name})
	}
	return stmts, nil
}

// scanValue reads one assignment value starting at s. A quoted value is
// unescaped in place and returned with quoted=true; it is never
// environment-expanded. An unquoted value runs to the next unquoted '}' (or
// end of string), is trimmed, and is environment-expanded.
func scanValue(s string) (value string, consumed int, quoted bool, err error) {
	if len(s) > 0 && (s[0] == '\'' || s[0] == '"') {
		quote := s[0]
		var b strings.Builder
		j := 1
		for j < len(s) {
			c := s[j]
			switch {
			case c == '\\' && j+1 < len(s):
				b.WriteByte(s[j+1])
				j += 2
			case c == quote:
				return b.String(), j + 1, true, nil
			default:
				b.WriteByte(c)
				j++
			}
		}
		return "", 0, false, fmt.Errorf("malformed value: unterminated quoted string")
	}

	j := 0
	for j < len(s) && s[j] != '}' {
		j++
	}
	raw := strings.TrimRight(s[:j], " \t")
	return expandEnv(raw), j, false, nil
}
