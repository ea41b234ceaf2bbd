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

	"github.com/pinrex/pinrex-db/types"
)

// Solvent stores a solvent smiles plus its fingerprints. Fingerprint holds
// the polymer genome fingerprint, Map4Fingerprint the 1024-bit map4 one.
type Solvent struct {
	bun.BaseModel `bun:"table:solvents,alias:s"`

	ID              int64            `bun:"id,pk,autoincrement" json:"id"`
	Smiles          string           `bun:"smiles,unique,notnull" json:"smiles"`
	Fingerprint     types.JsonObject `bun:"fingerprint,type:jsonb,nullzero" json:"fingerprint,omitempty"`
	Map4Fingerprint types.JsonObject `bun:"map4_fingerprint,type:jsonb,nullzero" json:"map4_fingerprint,omitempty"`

	Names []*SolventName `bun:"rel:has-many,join:id=sol_id" json:"names,omitempty"`
}

// SolventName is one of the many names a solvent is known by. SearchName
// is derived from Name on insert and update.
type SolventName struct {
	bun.BaseModel `bun:"table:solvent_names,alias:sn"`

	ID               int64  `bun:"id,pk,autoincrement" json:"id"`
	SolID            int64  `bun:"sol_id,notnull" json:"sol_id"`
	Name             string `bun:"name,notnull" json:"name"`
	SearchName       string `bun:"search_name,notnull" json:"search_name"`
	NamingConvention string `bun:"naming_convention,nullzero" json:"naming_convention,omitempty"`
	Notes            string `bun:"notes,nullzero" json:"notes,omitempty"`

	Solvent *Solvent `bun:"rel:belongs-to,join:sol_id=id" json:"-"`
}

var _ bun.BeforeAppendModelHook = (*SolventName)(nil)

// BeforeAppendModel keeps search_name in sync with name.
func (m *SolventName) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		if m.Name != "" {
			m.SearchName = MakeNameSearchable(m.Name)
		}
	}
	return nil
}

// SolubilityData is a solubility observation for a polymer/solvent pair.
// Solubility holds the class (good, bad, partial solvent); the optional
// ranges bound the conditions the class was observed under.
type SolubilityData struct {
	bun.BaseModel `bun:"table:solubility_data,alias:sd"`

	ID          int64      `bun:"id,pk,autoincrement" json:"id"`
	Reference   string     `bun:"reference,notnull" json:"reference"`
	DateAdded   time.Time  `bun:"date_added,notnull" json:"date_added"`
	PolID       int64      `bun:"pol_id,notnull" json:"pol_id"`
	SolID       int64      `bun:"sol_id,notnull" json:"sol_id"`
	Solubility  string     `bun:"solubility,notnull" json:"solubility"`
	DateOfTest  *time.Time `bun:"date_of_test" json:"date_of_test,omitempty"`
	TempMin     *float64   `bun:"temp_min" json:"temp_min,omitempty"`
	TempMax     *float64   `bun:"temp_max" json:"temp_max,omitempty"`
	PdiMin      *float64   `bun:"pdi_min" json:"pdi_min,omitempty"`
	PdiMax      *float64   `bun:"pdi_max" json:"pdi_max,omitempty"`
	PolMwMin    *float64   `bun:"pol_mw_min" json:"pol_mw_min,omitempty"`
	PolMwMax    *float64   `bun:"pol_mw_max" json:"pol_mw_max,omitempty"`
	PolMwType   string     `bun:"pol_mw_type,nullzero" json:"pol_mw_type,omitempty"`
	ConcMgPerMl *float64   `bun:"conc_mg_per_ml" json:"conc_mg_per_ml,omitempty"`
	CsstFileID  *int64     `bun:"csst_file" json:"csst_file,omitempty"`

	Polymer *Polymer `bun:"rel:belongs-to,join:pol_id=id" json:"-"`
	Solvent *Solvent `bun:"rel:belongs-to,join:sol_id=id" json:"-"`
}
