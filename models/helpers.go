/*
 * Copyright 2025 the pinrex authors.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import "strings"

// searchNameStrip holds every character removed when deriving a search
// name. It covers punctuation that appears inconsistently across chemical
// naming conventions, including the unicode hyphen U+2010.
const searchNameStrip = ":{}- ()[],‐'\""

// MakeNameSearchable lowercases a polymer, chemical or solvent name and
// strips formatting characters so "Poly(ethylene oxide)" and
// "poly ethylene-oxide" resolve to the same search key.
func MakeNameSearchable(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(searchNameStrip, r) {
			return -1
		}
		return r
	}, lowered)
}
