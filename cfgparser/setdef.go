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

import "fmt"

// SettingKind identifies how a SettingDef's value should be coerced before
// it is written into a consumer record.
type SettingKind int

const (
	KindString SettingKind = iota
	KindInt
	KindBool
)

// SettingDef describes one named setting a consumer record can receive.
// Setter is invoked with the coerced value once Name matches; its type
// depends on Kind (string for KindString, uint64 for KindInt, bool for
// KindBool). This replaces the byte-offset-into-a-struct idiom of the
// source format with a closure capturing the destination field directly,
// since Go has no portable equivalent of writing through a raw offset.
type SettingDef struct {
	Name   string
	Kind   SettingKind
	Setter func(value any)
}

// Intern, if non-nil, is applied to every string value (KindString, and the
// raw value handed to KindInt/KindBool before coercion) before it is
// written, standing in for the arena-duplication step the source format
// uses so the input buffer backing the original value can be reused or
// discarded. Most callers can leave it nil: Go strings need no such
// copying, since the tokenizer already allocates a fresh string per value.
type Intern func(string) string

// ApplySetting looks up name in defs by exact match and writes value,
// coerced according to the definition's Kind, through its Setter. It
// returns an "Unknown setting: <name>" error when no definition matches,
// and otherwise whatever error the value coercer produces.
func ApplySetting(defs []SettingDef, name, value string, intern Intern) error {
	for _, def := range defs {
		if def.Name != name {
			continue
		}
		if intern != nil {
			value = intern(value)
		}
		switch def.Kind {
		case KindString:
			def.Setter(value)
		case KindBool:
			b, err := ParseBool(value)
			if err != nil {
				return err
			}
			def.Setter(b)
		case KindInt:
			n, err := ParseUint(value)
			if err != nil {
				return err
			}
			def.Setter(n)
		default:
			return fmt.Errorf("setting %s: unsupported kind %d", name, def.Kind)
		}
		return nil
	}
	return fmt.Errorf("Unknown setting: %s", name)
}
