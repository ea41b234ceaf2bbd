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

// BrettmannLab maps the names the Brettmann lab uses for materials to
// database ids. Exactly one of PolID and SolID is set: if PolID is nil the
// material is a solvent, if SolID is nil it is a polymer.
type BrettmannLab struct {
	bun.BaseModel `bun:"table:brettmann_lab,alias:bl"`

	ID    int64  `bun:"id,pk,autoincrement" json:"id"`
	PolID *int64 `bun:"pol_id,unique" json:"pol_id,omitempty"`
	SolID *int64 `bun:"sol_id,unique" json:"sol_id,omitempty"`
	Name  string `bun:"name,unique,notnull" json:"name"`

	Polymer *Polymer `bun:"rel:belongs-to,join:pol_id=id" json:"-"`
	Solvent *Solvent `bun:"rel:belongs-to,join:sol_id=id" json:"-"`
}
