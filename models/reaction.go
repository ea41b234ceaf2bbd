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

// Reaction is a single SMARTS reaction.
type Reaction struct {
	bun.BaseModel `bun:"table:reactions,alias:r"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Smarts      string `bun:"smarts,notnull" json:"smarts"`
	Description string `bun:"description,nullzero" json:"description,omitempty"`
	Reference   string `bun:"reference,nullzero" json:"reference,omitempty"`
}

// ReactionProcedure is a named multi-step reaction sequence.
type ReactionProcedure struct {
	bun.BaseModel `bun:"table:reaction_procedures,alias:rp"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Name        string `bun:"name,unique,notnull" json:"name"`
	Description string `bun:"description,nullzero" json:"description,omitempty"`

	Steps []*ReactionStep `bun:"rel:has-many,join:id=reaction_procedure_id" json:"steps,omitempty"`
}

// ReactionStep places a reaction at a step of a procedure. Step indexing
// starts at 1.
type ReactionStep struct {
	bun.BaseModel `bun:"table:reaction_steps,alias:rs"`

	ReactionID          int64 `bun:"reaction_id,pk,notnull,unique:unique_reaction_step" json:"reaction_id"`
	ReactionProcedureID int64 `bun:"reaction_procedure_id,pk,notnull,unique:unique_reaction_step" json:"reaction_procedure_id"`
	Step                int64 `bun:"step,pk,notnull,unique:unique_reaction_step" json:"step"`

	Reaction  *Reaction          `bun:"rel:belongs-to,join:reaction_id=id" json:"-"`
	Procedure *ReactionProcedure `bun:"rel:belongs-to,join:reaction_procedure_id=id" json:"-"`
}

// ReactionProcedureStartingSubstructure is a substructure a starting
// material must contain for the procedure to apply.
type ReactionProcedureStartingSubstructure struct {
	bun.BaseModel `bun:"table:reaction_procedure_starting_substructure,alias:rpss"`

	ReactionProcedureID int64 `bun:"reaction_procedure_id,pk,notnull,unique:unique_reaction_procedure_starting_substructure" json:"reaction_procedure_id"`
	SmartsID            int64 `bun:"smarts_id,pk,notnull,unique:unique_reaction_procedure_starting_substructure" json:"smarts_id"`

	Smarts    *Smarts            `bun:"rel:belongs-to,join:smarts_id=id" json:"-"`
	Procedure *ReactionProcedure `bun:"rel:belongs-to,join:reaction_procedure_id=id" json:"-"`
}

// ReactionPolymerMapping maps a procedure and a starting chemical to the
// polymer the procedure produces from it.
type ReactionPolymerMapping struct {
	bun.BaseModel `bun:"table:reaction_polymer_mappings,alias:rpm"`

	ReactionProcedureID int64 `bun:"reaction_procedure_id,pk,notnull,unique:unique_reaction_polymer_mapping" json:"reaction_procedure_id"`
	ChemicalID          int64 `bun:"chemical_id,pk,notnull,unique:unique_reaction_polymer_mapping" json:"chemical_id"`
	PolID               int64 `bun:"pol_id,pk,notnull,unique:unique_reaction_polymer_mapping" json:"pol_id"`

	Procedure *ReactionProcedure `bun:"rel:belongs-to,join:reaction_procedure_id=id" json:"-"`
	Chemical  *Chemical          `bun:"rel:belongs-to,join:chemical_id=id" json:"-"`
	Polymer   *Polymer           `bun:"rel:belongs-to,join:pol_id=id" json:"-"`
}
