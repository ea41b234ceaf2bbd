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

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Chemical stores small molecule data, keyed by smiles with an optional
// CAS registry number.
type Chemical struct {
	bun.BaseModel `bun:"table:chemicals,alias:c"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	Smiles string `bun:"smiles,unique,notnull" json:"smiles"`
	CAS    string `bun:"cas,nullzero" json:"cas,omitempty"`

	Names []*ChemicalName `bun:"rel:has-many,join:id=chemical_id" json:"names,omitempty"`
}

// ChemicalName is one of the many names a chemical is known by. SearchName
// is derived from Name on insert and update.
type ChemicalName struct {
	bun.BaseModel `bun:"table:chemical_names,alias:cn"`

	ID               int64  `bun:"id,pk,autoincrement" json:"id"`
	ChemicalID       int64  `bun:"chemical_id,notnull" json:"chemical_id"`
	Name             string `bun:"name,notnull" json:"name"`
	SearchName       string `bun:"search_name,notnull" json:"search_name"`
	NamingConvention string `bun:"naming_convention,nullzero" json:"naming_convention,omitempty"`
	Notes            string `bun:"notes,nullzero" json:"notes,omitempty"`

	Chemical *Chemical `bun:"rel:belongs-to,join:chemical_id=id" json:"-"`
}

var _ bun.BeforeAppendModelHook = (*ChemicalName)(nil)

// BeforeAppendModel keeps search_name in sync with name.
func (m *ChemicalName) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		if m.Name != "" {
			m.SearchName = MakeNameSearchable(m.Name)
		}
	}
	return nil
}

// ChemicalSubstructure links a chemical to a SMARTS pattern it matches.
type ChemicalSubstructure struct {
	bun.BaseModel `bun:"table:chemical_substructures,alias:cs"`

	SmartsID   int64 `bun:"smarts_id,pk,notnull,unique:chemical_smarts_pair" json:"smarts_id"`
	ChemicalID int64 `bun:"chemical_id,pk,notnull,unique:chemical_smarts_pair" json:"chemical_id"`

	Smarts   *Smarts   `bun:"rel:belongs-to,join:smarts_id=id" json:"-"`
	Chemical *Chemical `bun:"rel:belongs-to,join:chemical_id=id" json:"-"`
}

// ChemicalSupplier is a vendor chemicals can be purchased from.
type ChemicalSupplier struct {
	bun.BaseModel `bun:"table:chemical_suppliers,alias:csup"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
	Site string `bun:"site,nullzero" json:"site,omitempty"`
}

// ChemicalCost is a priced offer for a chemical from a supplier at a point
// in time. USDCostPerGram is precomputed so cost comparisons do not need
// unit conversion at query time.
type ChemicalCost struct {
	bun.BaseModel `bun:"table:chemical_costs,alias:cc"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	Cost           float64   `bun:"cost,notnull" json:"cost"`
	CostUnit       string    `bun:"cost_unit,notnull" json:"cost_unit"`
	Amount         float64   `bun:"amount,notnull" json:"amount"`
	AmountUnit     string    `bun:"amount_unit,notnull" json:"amount_unit"`
	USDCostPerGram float64   `bun:"usd_cost_per_gram,notnull" json:"usd_cost_per_gram"`
	ChemicalID     int64     `bun:"chemical_id,notnull" json:"chemical_id"`
	SupplierID     int64     `bun:"supplier_id,notnull" json:"supplier_id"`
	Datetime       time.Time `bun:"datetime,notnull" json:"datetime"`
	Note           string    `bun:"note,nullzero" json:"note,omitempty"`

	Chemical *Chemical         `bun:"rel:belongs-to,join:chemical_id=id" json:"-"`
	Supplier *ChemicalSupplier `bun:"rel:belongs-to,join:supplier_id=id" json:"-"`
}
