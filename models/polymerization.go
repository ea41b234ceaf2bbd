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

// PolymerizationReaction is a SMARTS reaction applied to a monomer smiles
// to generate a polymer repeat unit.
type PolymerizationReaction struct {
	bun.BaseModel `bun:"table:polymerization_reactions,alias:pr"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Name        string `bun:"name,nullzero" json:"name,omitempty"`
	Smarts      string `bun:"smarts,notnull" json:"smarts"`
	Description string `bun:"description,nullzero" json:"description,omitempty"`
	Reference   string `bun:"reference,nullzero" json:"reference,omitempty"`
}

// Polymerization records that applying a polymerization reaction to a
// monomer yields a polymer. A monomer admits at most one polymer per
// reaction, so the unique constraint excludes pol_id.
type Polymerization struct {
	bun.BaseModel `bun:"table:polymerizations,alias:pz"`

	PolymerizationReactionID int64 `bun:"polymerization_reaction_id,pk,notnull,unique:unique_monomer_polymerization" json:"polymerization_reaction_id"`
	MonomerID                int64 `bun:"monomer_id,pk,notnull,unique:unique_monomer_polymerization" json:"monomer_id"`
	PolID                    int64 `bun:"pol_id,pk,notnull" json:"pol_id"`

	Reaction *PolymerizationReaction `bun:"rel:belongs-to,join:polymerization_reaction_id=id" json:"-"`
	Monomer  *Monomer                `bun:"rel:belongs-to,join:monomer_id=id" json:"-"`
	Polymer  *Polymer                `bun:"rel:belongs-to,join:pol_id=id" json:"-"`
}
