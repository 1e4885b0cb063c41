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
	"log"
	"strings"
)

// KVFunc handles one assignment inside the section currently open (or the
// top level, when no section is open). A non-nil return aborts the parse
// with that error, enriched with the enclosing section's path/line.
type KVFunc func(key, value string, quoted bool) error

// SectionFunc handles a section boundary. It is called with a non-empty
// sectionType and close=false on "TYPE NAME {" / "TYPE {"; with
// sectionType="" and close=true on the matching "}". Returning false from an
// open call rejects the section: its body is still scanned to track nesting
// but no further callbacks fire from inside it.
type SectionFunc func(sectionType, name string, close bool) (bool, error)

// Options configures a single call to Parse.
type Options struct {
	// Section, if non-empty, is a slash-separated path ("A/B/C") naming the
	// single nested section whose body should be dispatched. The open and
	// close of each section along that path are dispatched as it is
	// matched; every other part of the file, including assignments directly
	// inside those enclosing sections, is parsed for structure only.
	Section string

	// KV receives every assignment not suppressed by skip mode or
	// path-targeting. May be nil, in which case assignments are silently
	// discarded (the section structure is still validated).
	KV KVFunc

	// Sect receives every section open/close not suppressed by skip mode
	// or path-targeting. May be nil, in which case every section body is
	// treated as rejected (skip mode from depth 1 down).
	Sect SectionFunc

	// Logger receives warnings (e.g. ambiguous '#') and nothing else. Nil
	// discards them.
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(discardWriter{}, "", 0)
	}
	return o.Logger
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// sectionMark records one currently-open section: where it began, for error
// enrichment, and whether it is part of the selector chain a targeted parse
// is navigating (onPath), which decides whether its close is dispatched
// regardless of the ambient skip state.
type sectionMark struct {
	path   string
	line   int
	onPath bool
}

// Parser drives a single parse of a root settings file and everything it
// transitively includes. It is not safe for concurrent or reentrant use;
// create one Parser per call to Parse.
type Parser struct {
	opts  Options
	stack inputStack

	depth int // current section nesting depth
	skip  int // >0 while inside a rejected or not-yet-matched subtree

	targetParts     []string // remaining path-selector components
	targetDepth     int      // depth at which the last selector component matched
	targetSatisfied bool     // the whole selector has matched
	targetDepths    []int    // depths of currently-open selector-chain sections, outermost first

	marks []sectionMark // one entry per currently-open section
}

// Depth reports the parser's current section nesting depth. Meaningful only
// while a parse is in progress. Parse creates its Parser internally and does
// not hand it to callers or callbacks.
func (p *Parser) Depth() int { return p.depth }

// Parse reads rootPath and every file it transitively includes, dispatching
// typed events to opts.KV and opts.Sect. It returns the first error
// encountered, formatted as "Error in configuration file <path> line <N>:
// <message>", optionally suffixed with the enclosing section's context. A
// failure to open rootPath itself is returned as os.Open's error, without
// that file:line prefix.
func Parse(rootPath string, opts Options) error {
	p := &Parser{opts: opts}
	if opts.Section != "" {
		p.targetParts = strings.Split(opts.Section, "/")
		// Per spec.md §4.7: a path-targeted parse begins with skip=1, so
		// nothing at the implicit top level dispatches until the first
		// selector component is found.
		p.skip = 1
	}

	if err := p.stack.push(rootPath); err != nil {
		return err
	}
	return p.parseFrame()
}

// parseFrame reads and dispatches logical lines from the current top frame
// until it is exhausted (or a targeted parse reaches the end of its
// selector's subtree), then pops it and returns control to the including
// frame. Includes encountered along the way recurse into parseFrame on the
// newly pushed frame before this call resumes, so expansion order is
// preserved without batching pushes.
func (p *Parser) parseFrame() error {
	f := p.stack.top
	defer p.stack.pop()

	for {
		line, ok, err := p.nextLogicalLine(f)
		if err != nil {
			return p.wrapErr(f, err)
		}
		if !ok {
			return nil
		}

		stmts, err := splitStatements(line)
		if err != nil {
			return p.wrapErr(f, err)
		}

		for _, stmt := range stmts {
			done, err := p.dispatch(f, stmt)
			if err != nil {
				return p.wrapErr(f, err)
			}
			if done {
				return nil
			}
		}
	}
}

// dispatch applies one classified statement to parser state, invoking
// callbacks as appropriate. done=true signals that a path-targeted parse has
// just closed back out of its selector's outermost section, so the parse
// should end successfully without reading further.
func (p *Parser) dispatch(f *inputFrame, stmt statement) (done bool, err error) {
	switch stmt.kind {
	case stmtInclude:
		if p.skip > 0 {
			return false, nil
		}
		return false, p.processInclude(f, stmt)

	case stmtAssignment:
		// While a selector is still being matched, only the sections on its
		// path are dispatched, not the assignments in their bodies.
		if p.skip > 0 || p.seeking() {
			return false, nil
		}
		if p.opts.KV == nil {
			return false, nil
		}
		if err := p.opts.KV(stmt.key, stmt.value, stmt.quoted); err != nil {
			return false, p.enrich(err)
		}
		return false, nil

	case stmtSectionOpen:
		return false, p.openSection(f, stmt)

	case stmtSectionClose:
		return p.closeSection()
	}
	return false, fmt.Errorf("unreachable statement kind")
}

// seeking reports whether a path selector is still being matched: it was
// requested and not yet fully found.
func (p *Parser) seeking() bool {
	return len(p.targetParts) > 0 && !p.targetSatisfied
}

// matchesTarget reports whether sectionType matches the next unconsumed
// selector component at the depth just opened.
func (p *Parser) matchesTarget(sectionType string) bool {
	return p.depth == p.targetDepth+1 && sectionType == p.targetParts[0]
}

func (p *Parser) advanceTarget() {
	p.targetDepth = p.depth
	p.targetParts = p.targetParts[1:]
	if len(p.targetParts) == 0 {
		p.targetSatisfied = true
	}
}

func (p *Parser) openSection(f *inputFrame, stmt statement) error {
	p.depth++
	onPath := false

	// atRootSeek is true only for a candidate at the implicit top level
	// (nothing real is currently open) while still seeking the first
	// unmatched selector component. skip may already be 1 there purely
	// from Parse's initial seed, not because some enclosing section was
	// actually rejected, so it must not be treated as an ordinary nested
	// skip depth to blindly increment.
	atRootSeek := len(p.marks) == 0 && p.seeking()

	switch {
	case p.skip > 0 && !atRootSeek:
		p.skip++

	case p.seeking() && !p.matchesTarget(stmt.key):
		p.skip = 1

	default:
		// Either this section matches the next selector component, or no
		// selector is in play (or it is already fully satisfied) and this
		// is an ordinary dispatch. skip is reset here because it may still
		// carry Parse's initial seed value even though a match was found.
		p.skip = 0
		if p.seeking() {
			onPath = true
		}
		if p.opts.Sect == nil {
			p.skip = 1
		} else {
			accept, err := p.opts.Sect(stmt.key, stmt.name, false)
			if err != nil {
				p.marks = append(p.marks, sectionMark{path: f.path, line: f.line, onPath: onPath})
				if onPath {
					p.targetDepths = append(p.targetDepths, p.depth)
				}
				return p.enrich(err)
			}
			if !accept {
				p.skip = 1
			}
		}
		if onPath {
			p.advanceTarget()
		}
	}

	p.marks = append(p.marks, sectionMark{path: f.path, line: f.line, onPath: onPath})
	if onPath {
		p.targetDepths = append(p.targetDepths, p.depth)
	}
	return nil
}

func (p *Parser) closeSection() (done bool, err error) {
	if p.depth == 0 || len(p.marks) == 0 {
		return false, fmt.Errorf("Unexpected '}'")
	}

	mark := p.marks[len(p.marks)-1]
	p.marks = p.marks[:len(p.marks)-1]

	closingTarget := mark.onPath && len(p.targetDepths) > 0 && p.targetDepths[len(p.targetDepths)-1] == p.depth
	p.depth--

	if closingTarget {
		p.targetDepths = p.targetDepths[:len(p.targetDepths)-1]
		if p.opts.Sect != nil {
			if _, err := p.opts.Sect("", "", true); err != nil {
				return false, p.enrich(err)
			}
		}
		if len(p.targetDepths) == 0 {
			return true, nil
		}
		p.skip = 1
		return false, nil
	}

	if p.skip > 0 {
		p.skip--
		return false, nil
	}

	if p.opts.Sect != nil {
		if _, err := p.opts.Sect("", "", true); err != nil {
			return false, p.enrich(err)
		}
	}
	return false, nil
}

// enrich wraps a callback error with the path/line of the innermost
// currently-open section, per spec.md §4.7's error-enrichment rule.
func (p *Parser) enrich(err error) error {
	if len(p.marks) == 0 {
		return err
	}
	m := p.marks[len(p.marks)-1]
	return &sectionChangedError{err: err, path: m.path, line: m.line}
}

// wrapErr attaches file:line context to err using the frame at which it was
// detected, unless it is already a *ParseError propagated up from a nested
// include's own parseFrame.
func (p *Parser) wrapErr(f *inputFrame, err error) error {
	if pe, ok := err.(*ParseError); ok {
		return pe
	}
	return &ParseError{Path: f.path, Line: f.line, Err: err}
}

func (p *Parser) warnf(f *inputFrame, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.opts.logger().Printf("Error in configuration file %s line %d: %s", f.path, f.line, msg)
}
