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

// Monomer stores a monomer smiles string. ReferenceID points at an id in
// the reference the monomer came from, when the source assigns one.
type Monomer struct {
	bun.BaseModel `bun:"table:monomers,alias:m"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Smiles      string `bun:"smiles,unique,notnull" json:"smiles"`
	ReferenceID string `bun:"reference_id,nullzero" json:"reference_id,omitempty"`
	Reference   string `bun:"reference,nullzero" json:"reference,omitempty"`
}

// MonomerSubstructure links a monomer to a SMARTS pattern it matches.
type MonomerSubstructure struct {
	bun.BaseModel `bun:"table:monomer_substructures,alias:ms"`

	SmartsID  int64 `bun:"smarts_id,pk,notnull,unique:unique_pair" json:"smarts_id"`
	MonomerID int64 `bun:"monomer_id,pk,notnull,unique:unique_pair" json:"monomer_id"`

	Smarts  *Smarts  `bun:"rel:belongs-to,join:smarts_id=id" json:"-"`
	Monomer *Monomer `bun:"rel:belongs-to,join:monomer_id=id" json:"-"`
}
