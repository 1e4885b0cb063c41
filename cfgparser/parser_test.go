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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kvEvent struct {
	key, value string
	quoted     bool
}

type sectEvent struct {
	sectionType, name string
	close             bool
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseBasicAssignment(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "dovecot.conf", "foo = bar\n")

	var kvs []kvEvent
	err := Parse(path, Options{
		KV: func(key, value string, quoted bool) error {
			kvs = append(kvs, kvEvent{key, value, quoted})
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []kvEvent{{"foo", "bar", false}}, kvs)
}

func TestParseLineContinuationAndComment(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "dovecot.conf", "a = 1 \\\n   2 # trailing\n")

	var kvs []kvEvent
	err := Parse(path, Options{
		KV: func(key, value string, quoted bool) error {
			kvs = append(kvs, kvEvent{key, value, quoted})
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []kvEvent{{"a", "1  2", false}}, kvs)
}

func TestParseQuotedHashAndEscape(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "dovecot.conf", `x = "he said \"hi#there\""`+"\n")

	var kvs []kvEvent
	err := Parse(path, Options{
		KV: func(key, value string, quoted bool) error {
			kvs = append(kvs, kvEvent{key, value, quoted})
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []kvEvent{{"x", `he said "hi#there"`, true}}, kvs)
}

func TestParseSectionRejectionErrorEnrichment(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "dovecot.conf", "svc { key = v }\n")

	err := Parse(path, Options{
		Sect: func(sectionType, name string, close bool) (bool, error) {
			return true, nil
		},
		KV: func(key, value string, quoted bool) error {
			return fmt.Errorf("nope")
		},
	})
	require.Error(t, err)
	assert.Equal(t,
		fmt.Sprintf("Error in configuration file %s line 1: nope (section changed in %s at line 1)", path, path),
		err.Error())
}

func TestParseIncludeCycleFails(t *testing.T) {
	dir := t.TempDir()
	aPath := writeTestFile(t, dir, "a.conf", "!include b.conf\n")
	writeTestFile(t, dir, "b.conf", "!include a.conf\n")

	var kvCalled bool
	err := Parse(aPath, Options{
		KV: func(key, value string, quoted bool) error {
			kvCalled = true
			return nil
		},
	})
	require.Error(t, err)
	assert.Regexp(t, "Recursive include file: .*a\\.conf", err.Error())
	assert.False(t, kvCalled)
}

func TestParseTargetedSection(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "dovecot.conf", `
outer {
  inner { k = 1 }
  other { k = 2 }
}
`)

	var kvs []kvEvent
	var sects []sectEvent
	err := Parse(path, Options{
		Section: "outer/inner",
		KV: func(key, value string, quoted bool) error {
			kvs = append(kvs, kvEvent{key, value, quoted})
			return nil
		},
		Sect: func(sectionType, name string, close bool) (bool, error) {
			sects = append(sects, sectEvent{sectionType, name, close})
			return true, nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []kvEvent{{"k", "1", false}}, kvs)
	assert.Equal(t, []sectEvent{
		{"outer", "", false},
		{"inner", "", false},
		{"", "", true},
		{"", "", true},
	}, sects)
}

func TestParseTargetedSectionMissingYieldsNoKV(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "dovecot.conf", "outer {\n  inner { k = 1 }\n}\n")

	var kvs []kvEvent
	err := Parse(path, Options{
		Section: "outer/nonexistent",
		KV: func(key, value string, quoted bool) error {
			kvs = append(kvs, kvEvent{key, value, quoted})
			return nil
		},
		Sect: func(sectionType, name string, close bool) (bool, error) { return true, nil },
	})
	require.NoError(t, err)
	assert.Empty(t, kvs)
}

func TestParseUnmatchedCloseBrace(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "dovecot.conf", "}\n")

	err := Parse(path, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unexpected '}'")
}

func TestParseEnvExpansionOnlyUnquoted(t *testing.T) {
	t.Setenv("CFGPARSER_TEST_VAR", "val")
	dir := t.TempDir()
	path := writeTestFile(t, dir, "dovecot.conf", "a = $ENV:CFGPARSER_TEST_VAR\nb = \"$ENV:CFGPARSER_TEST_VAR\"\n")

	var kvs []kvEvent
	err := Parse(path, Options{
		KV: func(key, value string, quoted bool) error {
			kvs = append(kvs, kvEvent{key, value, quoted})
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []kvEvent{
		{"a", "val", false},
		{"b", "$ENV:CFGPARSER_TEST_VAR", true},
	}, kvs)
}

func TestParseIncludeTolerantMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "dovecot.conf", "!include_try missing.conf\nfoo = bar\n")

	var kvs []kvEvent
	err := Parse(path, Options{
		KV: func(key, value string, quoted bool) error {
			kvs = append(kvs, kvEvent{key, value, quoted})
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []kvEvent{{"foo", "bar", false}}, kvs)
}

func TestParseIncludeStrictMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "dovecot.conf", "!include missing.conf\n")

	err := Parse(path, Options{})
	require.Error(t, err)
}

func TestParseIncludeGlobExpandsInOrder(t *testing.T) {
	dir := t.TempDir()
	confd := filepath.Join(dir, "conf.d")
	require.NoError(t, os.Mkdir(confd, 0o755))
	writeTestFile(t, confd, "10-a.conf", "a = 1\n")
	writeTestFile(t, confd, "20-b.conf", "b = 2\n")
	path := writeTestFile(t, dir, "dovecot.conf", "!include conf.d/*.conf\n")

	var kvs []kvEvent
	err := Parse(path, Options{
		KV: func(key, value string, quoted bool) error {
			kvs = append(kvs, kvEvent{key, value, quoted})
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []kvEvent{{"a", "1", false}, {"b", "2", false}}, kvs)
}
