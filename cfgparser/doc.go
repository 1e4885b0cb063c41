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

// Package cfgparser implements a hierarchical parser for the settings files
// used by a mail-server suite (dovecot.conf and its transitively included
// files). It tokenizes each input, classifies every logical line as an
// assignment, a section boundary, or an include directive, and dispatches
// the result to caller-supplied handlers that populate typed option
// structures. The parser itself is opaque to whatever in-memory
// representation a consumer builds: it only produces well-formed events and
// rejects syntactic errors.
//
// The entry point is Parse. A companion helper, ApplySetting, walks a table
// of named option definitions and writes coerced values into a
// caller-provided record; it is independent of the rest of the package and
// can be used from a KVFunc handler.
package cfgparser
