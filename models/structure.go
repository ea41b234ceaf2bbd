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

import "github.com/uptrace/bun"

// Smarts stores a named SMARTS substructure pattern. Monomer, chemical and
// reaction procedure substructure tables all reference it.
type Smarts struct {
	bun.BaseModel `bun:"table:smarts,alias:sm"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Name        string `bun:"name,nullzero" json:"name,omitempty"`
	Smarts      string `bun:"smarts,notnull" json:"smarts"`
	Description string `bun:"description,nullzero" json:"description,omitempty"`
	Reference   string `bun:"reference,nullzero" json:"reference,omitempty"`
}
