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
	"database/sql/driver"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/pinrex/pinrex-db/types"
)

// TargetModeOfAction restricts how an assay compound acts on its target.
type TargetModeOfAction string

const (
	ModeOfActionAgonist          TargetModeOfAction = "agonist"
	ModeOfActionAntagonist       TargetModeOfAction = "antagonist"
	ModeOfActionPermeabilization TargetModeOfAction = "permeabilization"
	ModeOfActionInhibition       TargetModeOfAction = "inhibition"
	ModeOfActionActivation       TargetModeOfAction = "activation"
)

var _ types.TextEnum = TargetModeOfAction("")

// IsValid reports whether the value belongs to the allowed set.
func (e TargetModeOfAction) IsValid() bool {
	switch e {
	case ModeOfActionAgonist, ModeOfActionAntagonist, ModeOfActionPermeabilization,
		ModeOfActionInhibition, ModeOfActionActivation:
		return true
	}
	return false
}

func (e TargetModeOfAction) String() string { return string(e) }

// Value implements driver.Valuer and rejects values outside the allowed set.
func (e TargetModeOfAction) Value() (driver.Value, error) {
	if !e.IsValid() {
		return nil, fmt.Errorf("invalid target mode of action: %q", string(e))
	}
	return string(e), nil
}

// Activity restricts the outcome of a molecule in an assay.
type Activity string

const (
	ActivityActive       Activity = "active"
	ActivityInactive     Activity = "inactive"
	ActivityInconclusive Activity = "inconclusive"
)

var _ types.TextEnum = Activity("")

// IsValid reports whether the value belongs to the allowed set.
func (e Activity) IsValid() bool {
	switch e {
	case ActivityActive, ActivityInactive, ActivityInconclusive:
		return true
	}
	return false
}

func (e Activity) String() string { return string(e) }

// Value implements driver.Valuer and rejects values outside the allowed set.
func (e Activity) Value() (driver.Value, error) {
	if !e.IsValid() {
		return nil, fmt.Errorf("invalid activity: %q", string(e))
	}
	return string(e), nil
}

// Gene stores gene information for assays. UniprotID is the id in the
// UniProt protein sequence database.
type Gene struct {
	bun.BaseModel `bun:"table:genes,alias:g"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	Name      string `bun:"name,unique,notnull" json:"name"`
	UniprotID *int64 `bun:"uniprot_id,unique" json:"uniprot_id,omitempty"`
}

// ExperimentalCellLine is a cell line used in an assay, with ids into the
// cell line ontology and cellosaurus resources it derives from.
type ExperimentalCellLine struct {
	bun.BaseModel `bun:"table:experimental_cell_lines,alias:ecl"`

	ID                    int64  `bun:"id,pk,autoincrement" json:"id"`
	Name                  string `bun:"name,unique,notnull" json:"name"`
	ExperimentalCellCloID string `bun:"experimental_cell_clo_id,unique,notnull" json:"experimental_cell_clo_id"`
	Cell                  string `bun:"cell,nullzero" json:"cell,omitempty"`
	CellCloID             string `bun:"cell_clo_id,nullzero" json:"cell_clo_id,omitempty"`
	CellosaurusID         string `bun:"cellosaurus_id,nullzero" json:"cellosaurus_id,omitempty"`
	Organism              string `bun:"organism,nullzero" json:"organism,omitempty"`
	OrganismTaxonID       *int64 `bun:"organism_taxon_id" json:"organism_taxon_id,omitempty"`
}

// ToxAssay is a toxicity assay. Reporter assays are paired with counter
// screens through PairID.
type ToxAssay struct {
	bun.BaseModel `bun:"table:tox_assays,alias:ta"`

	ID                      int64              `bun:"id,pk,autoincrement" json:"id"`
	AssayType               string             `bun:"assay_type,notnull" json:"assay_type"`
	PairID                  *int64             `bun:"pair_id" json:"pair_id,omitempty"`
	PubchemAID              *int64             `bun:"pubchem_aid" json:"pubchem_aid,omitempty"`
	Tox21AID                *int64             `bun:"tox21_aid" json:"tox21_aid,omitempty"`
	ReporterGeneAssay       string             `bun:"reporter_gene_assay,nullzero" json:"reporter_gene_assay,omitempty"`
	ExpCellLineID           int64              `bun:"exp_cell_line_id,notnull" json:"exp_cell_line_id"`
	GeneID                  *int64             `bun:"gene_id" json:"gene_id,omitempty"`
	Target                  string             `bun:"target,notnull" json:"target"`
	TargetEffect            string             `bun:"target_effect,notnull" json:"target_effect"`
	TargetModeOfAction      TargetModeOfAction `bun:"target_mode_of_action,notnull" json:"target_mode_of_action"`
	Kit                     string             `bun:"kit,nullzero" json:"kit,omitempty"`
	PhysicalDetectionMethod string             `bun:"physical_detection_method,nullzero" json:"physical_detection_method,omitempty"`
	DetectionInstrument     string             `bun:"detection_instrument,nullzero" json:"detection_instrument,omitempty"`
	Definition              string             `bun:"definition,nullzero" json:"definition,omitempty"`

	CellLine *ExperimentalCellLine `bun:"rel:belongs-to,join:exp_cell_line_id=id" json:"-"`
	Gene     *Gene                 `bun:"rel:belongs-to,join:gene_id=id" json:"-"`
}

// Tox21Molecule is a compound from the tox21 dataset. Cluster follows the
// reference signature clustering of Cooper and Schürer (2019).
type Tox21Molecule struct {
	bun.BaseModel `bun:"table:tox21_molecules,alias:tm"`

	ID          int64            `bun:"id,pk,autoincrement" json:"id"`
	PubchemAID  *int64           `bun:"pubchem_aid" json:"pubchem_aid,omitempty"`
	Tox21SID    types.IntArray   `bun:"tox21_sid,type:jsonb,nullzero" json:"tox21_sid,omitempty"`
	Smiles      string           `bun:"smiles,notnull" json:"smiles"`
	Fingerprint types.JsonObject `bun:"fingerprint,type:jsonb,nullzero" json:"fingerprint,omitempty"`
	Cluster     *int64           `bun:"cluster" json:"cluster,omitempty"`
}

// Tox21Data is a single molecule/assay outcome from the tox21 dataset.
type Tox21Data struct {
	bun.BaseModel `bun:"table:tox21_data,alias:td"`

	ID         int64    `bun:"id,pk,autoincrement" json:"id"`
	MoleculeID int64    `bun:"molecule_id,notnull" json:"molecule_id"`
	AssayID    int64    `bun:"assay_id,notnull" json:"assay_id"`
	Activity   Activity `bun:"activity,notnull" json:"activity"`
	PAC50Val   *float64 `bun:"pac50_val" json:"pac50_val,omitempty"`
	Reference  string   `bun:"reference,nullzero" json:"reference,omitempty"`

	Molecule *Tox21Molecule `bun:"rel:belongs-to,join:molecule_id=id" json:"-"`
	Assay    *ToxAssay      `bun:"rel:belongs-to,join:assay_id=id" json:"-"`
}
