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

// nextLogicalLine reads physical lines from frame until it has assembled one
// complete logical line: leading whitespace stripped, blank and
// comment-only lines discarded, an in-line "#" comment (quote-aware) cut
// off, and any trailing unquoted backslash continuation joined to the next
// physical line with a single separating space. It returns ok=false once the
// frame is exhausted with nothing left to deliver.
func (p *Parser) nextLogicalLine(f *inputFrame) (line string, ok bool, err error) {
	var buf strings.Builder
	for {
		raw, readErr := f.reader.ReadString('\n')
		if raw == "" && readErr != nil {
			if buf.Len() > 0 {
				return buf.String(), true, nil
			}
			return "", false, nil
		}
		f.line++
		text := strings.TrimRight(raw, "\r\n")

		rest := strings.TrimLeft(text, " \t")
		if rest == "" || rest[0] == '#' {
			continue
		}

		stripped, cerr := stripComment(f, p, rest)
		if cerr != nil {
			return "", false, cerr
		}
		stripped = strings.TrimRight(stripped, " \t")

		if strings.HasSuffix(stripped, `\`) {
			// Only the backslash itself is dropped here, not whatever
			// whitespace precedes it: the next join adds its own
			// separating space, so a line like "a = 1 \" contributes both
			// its own trailing space and the join's space to the result.
			stripped = stripped[:len(stripped)-1]
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(stripped)
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
			buf.WriteString(stripped)
		} else {
			buf.Reset()
			buf.WriteString(stripped)
		}
		return buf.String(), true, nil
	}
}

// stripComment scans s for an in-line "#" that starts a comment, honoring
// single- and double-quoted spans in which "#" is literal and backslash
// escapes the following character. A "#" found outside quotes always ends
// the line; if it isn't preceded by whitespace, a warning is emitted but the
// comment is still cut. An unterminated quoted span is a syntax error.
func stripComment(f *inputFrame, p *Parser, s string) (string, error) {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				if i+1 < len(s) {
					i++
				}
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '#':
			if i > 0 && s[i-1] != ' ' && s[i-1] != '\t' {
				p.warnf(f, "ambiguous '#' character in line, treating it as comment start")
			}
			return s[:i], nil
		}
	}
	if quote != 0 {
		return "", &ParseError{Path: f.path, Line: f.line, Err: fmt.Errorf("malformed value: unterminated quoted string")}
	}
	return s, nil
}
