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
	"strconv"
	"strings"
)

// ParseBool coerces a settings value into a bool. Only the case-insensitive
// forms "yes" and "no" are accepted; anything else is a syntax error, not a
// fallback to Go's looser truthy rules.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	default:
		return false, fmt.Errorf("Invalid boolean: %s", value)
	}
}

// ParseUint coerces a settings value into a non-negative integer, accepting
// decimal and C-style octal (leading "0") literals the way the original
// parser's %i-equivalent scan did. strconv's base-0 parsing additionally
// tolerates "0x"/"0b" prefixes, which is a strict superset of what the
// source format requires and never misclassifies a valid decimal or octal
// literal.
func ParseUint(value string) (uint64, error) {
	n, err := strconv.ParseInt(value, 0, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("Invalid number: %s", value)
	}
	return uint64(n), nil
}
