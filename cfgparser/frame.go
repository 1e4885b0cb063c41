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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tphelps/dovecot-core/internal/collections"
)

// inputFrame is one open settings file together with its line cursor. A
// parse of a root file and its transitively included files is a chain of
// these, linked through prev the way a call stack grows, so popping back to
// the including frame on EOF is automatic.
type inputFrame struct {
	path   string
	canon  string
	reader *bufio.Reader
	file   io.Closer
	line   int
	prev   *inputFrame
}

// inputStack is the parser-local chain of open frames. Its zero value is an
// empty stack.
type inputStack struct {
	top *inputFrame
}

// canonicalPaths returns the set of canonical paths for every frame
// currently on the stack, used to reject recursive includes.
func (s *inputStack) canonicalPaths() collections.Set[string] {
	seen := make(collections.Set[string])
	for f := s.top; f != nil; f = f.prev {
		seen.Add(f.canon)
	}
	return seen
}

// push opens path and makes it the new top of the stack. It fails with a
// "Recursive include file" error if path (by canonical form) is already open
// somewhere in the active chain, without touching the filesystem; otherwise
// it opens the file and reports whatever *os.PathError os.Open returns.
func (s *inputStack) push(path string) error {
	canon := canonicalPath(path)
	if s.canonicalPaths().Contains(canon) {
		return fmt.Errorf("Recursive include file: %s", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	s.top = &inputFrame{
		path:   path,
		canon:  canon,
		reader: bufio.NewReader(file),
		file:   file,
		prev:   s.top,
	}
	return nil
}

// pop closes and discards the current top frame, exposing the frame that
// included it (or leaving the stack empty at the root).
func (s *inputStack) pop() {
	if s.top == nil {
		return
	}
	s.top.file.Close()
	s.top = s.top.prev
}

func canonicalPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(path)
}

// isNotExist reports whether err is (or wraps) a file-not-found condition,
// the only push failure a tolerant include is allowed to swallow.
func isNotExist(err error) bool {
	return os.IsNotExist(err)
}
