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
	"database/sql/driver"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/pinrex/pinrex-db/types"
)

// PolymerPropertyErrorType restricts the error_type column of
// polymer_properties to the reported statistics.
type PolymerPropertyErrorType string

const (
	ErrorTypeSD       PolymerPropertyErrorType = "sd"
	ErrorTypeSEM      PolymerPropertyErrorType = "sem"
	ErrorTypeVariance PolymerPropertyErrorType = "variance"
)

var _ types.TextEnum = PolymerPropertyErrorType("")

// IsValid reports whether the value belongs to the allowed set. The empty
// string is valid because the column is nullable.
func (e PolymerPropertyErrorType) IsValid() bool {
	switch e {
	case "", ErrorTypeSD, ErrorTypeSEM, ErrorTypeVariance:
		return true
	}
	return false
}

func (e PolymerPropertyErrorType) String() string { return string(e) }

// Value implements driver.Valuer and rejects values outside the allowed set
// before they reach the database.
func (e PolymerPropertyErrorType) Value() (driver.Value, error) {
	if !e.IsValid() {
		return nil, fmt.Errorf("invalid polymer property error type: %q", string(e))
	}
	if e == "" {
		return nil, nil
	}
	return string(e), nil
}

// Polymer stores a repeat unit smiles and the ids it is known by.
//
// CanonicalSmiles is kept separately from Smiles because canonicalization
// can drop conformer information (cis/trans).
type Polymer struct {
	bun.BaseModel `bun:"table:polymers,alias:p"`

	ID              int64            `bun:"id,pk,autoincrement" json:"id"`
	PID             string           `bun:"pid,nullzero" json:"pid,omitempty"`
	RID             string           `bun:"rid,unique,nullzero" json:"rid,omitempty"`
	Smiles          string           `bun:"smiles,unique,nullzero" json:"smiles,omitempty"`
	CanonicalSmiles string           `bun:"canonical_smiles,nullzero" json:"canonical_smiles,omitempty"`
	Fingerprint     types.JsonObject `bun:"fingerprint,type:jsonb,nullzero" json:"fingerprint,omitempty"`
	Category        string           `bun:"category,nullzero" json:"category,omitempty"`

	Names      []*PolymerName     `bun:"rel:has-many,join:id=pol_id" json:"names,omitempty"`
	Properties []*PolymerProperty `bun:"rel:has-many,join:id=pol_id" json:"properties,omitempty"`
}

// PolymerName is one of the many names a polymer is known by. SearchName is
// derived from Name on insert and update.
type PolymerName struct {
	bun.BaseModel `bun:"table:polymer_names,alias:pn"`

	ID               int64  `bun:"id,pk,autoincrement" json:"id"`
	PolID            int64  `bun:"pol_id,notnull" json:"pol_id"`
	Name             string `bun:"name,notnull" json:"name"`
	SearchName       string `bun:"search_name,notnull" json:"search_name"`
	NamingConvention string `bun:"naming_convention,nullzero" json:"naming_convention,omitempty"`

	Polymer *Polymer `bun:"rel:belongs-to,join:pol_id=id" json:"-"`
}

var _ bun.BeforeAppendModelHook = (*PolymerName)(nil)

// BeforeAppendModel keeps search_name in sync with name.
func (m *PolymerName) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		if m.Name != "" {
			m.SearchName = MakeNameSearchable(m.Name)
		}
	}
	return nil
}

// Property is a numerical property homopolymers can be measured for, such
// as glass transition temperature or density.
type Property struct {
	bun.BaseModel `bun:"table:properties,alias:prop"`

	ID         int64  `bun:"id,pk,autoincrement" json:"id"`
	Name       string `bun:"name,notnull" json:"name"`
	ShortName  string `bun:"short_name,nullzero" json:"short_name,omitempty"`
	Unit       string `bun:"unit,nullzero" json:"unit,omitempty"`
	PlotSymbol string `bun:"plot_symbol,nullzero" json:"plot_symbol,omitempty"`
}

// PolymerProperty is a measured or computed property value for a polymer.
// Method records how the value was obtained (exp, dft, md, ml).
type PolymerProperty struct {
	bun.BaseModel `bun:"table:polymer_properties,alias:pp"`

	ID         int64                    `bun:"id,pk,autoincrement" json:"id"`
	PolID      int64                    `bun:"pol_id,notnull" json:"pol_id"`
	PropertyID int64                    `bun:"property_id,notnull" json:"property_id"`
	Value      float64                  `bun:"value,notnull" json:"value"`
	Method     string                   `bun:"method,nullzero" json:"method,omitempty"`
	Reference  string                   `bun:"reference,nullzero" json:"reference,omitempty"`
	Note       string                   `bun:"note,nullzero" json:"note,omitempty"`
	ErrorValue *float64                 `bun:"error_value" json:"error_value,omitempty"`
	ErrorType  PolymerPropertyErrorType `bun:"error_type,nullzero" json:"error_type,omitempty"`
	Conditions types.JsonObject         `bun:"conditions,type:jsonb,nullzero" json:"conditions,omitempty"`

	Polymer  *Polymer  `bun:"rel:belongs-to,join:pol_id=id" json:"-"`
	Property *Property `bun:"rel:belongs-to,join:property_id=id" json:"-"`
}

// PolymerApplication records an application a polymer is used in, grouped
// by category (food packaging, automobiles, ...).
type PolymerApplication struct {
	bun.BaseModel `bun:"table:polymer_applications,alias:pa"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	PolID       int64  `bun:"pol_id,notnull" json:"pol_id"`
	Application string `bun:"application,notnull" json:"application"`
	Category    string `bun:"category,notnull" json:"category"`
	Note        string `bun:"note,nullzero" json:"note,omitempty"`
	Reference   string `bun:"reference,nullzero" json:"reference,omitempty"`

	Polymer *Polymer `bun:"rel:belongs-to,join:pol_id=id" json:"-"`
}
