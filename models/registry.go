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

import "github.com/pinrex/pinrex-db/database"

// Registration order matters: a table must come after every table it
// references, so CREATE TABLE and foreign key passes can run in priority
// order without forward references.
func init() {
	database.RegisteredModel(database.NewModelAdapter((*Smarts)(nil), 1))
	database.RegisteredModel(database.NewModelAdapter((*Polymer)(nil), 2))
	database.RegisteredModel(database.NewModelAdapter((*PolymerName)(nil), 3))
	database.RegisteredModel(database.NewModelAdapter((*Property)(nil), 4))
	database.RegisteredModel(database.NewModelAdapter((*PolymerProperty)(nil), 5))
	database.RegisteredModel(database.NewModelAdapter((*PolymerApplication)(nil), 6))
	database.RegisteredModel(database.NewModelAdapter((*Monomer)(nil), 7))
	database.RegisteredModel(database.NewModelAdapter((*MonomerSubstructure)(nil), 8))
	database.RegisteredModel(database.NewModelAdapter((*Chemical)(nil), 9))
	database.RegisteredModel(database.NewModelAdapter((*ChemicalName)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*ChemicalSubstructure)(nil), 11))
	database.RegisteredModel(database.NewModelAdapter((*ChemicalSupplier)(nil), 12))
	database.RegisteredModel(database.NewModelAdapter((*ChemicalCost)(nil), 13))
	database.RegisteredModel(database.NewModelAdapter((*Reaction)(nil), 14))
	database.RegisteredModel(database.NewModelAdapter((*ReactionProcedure)(nil), 15))
	database.RegisteredModel(database.NewModelAdapter((*ReactionStep)(nil), 16))
	database.RegisteredModel(database.NewModelAdapter((*ReactionProcedureStartingSubstructure)(nil), 17))
	database.RegisteredModel(database.NewModelAdapter((*ReactionPolymerMapping)(nil), 18))
	database.RegisteredModel(database.NewModelAdapter((*PolymerizationReaction)(nil), 19))
	database.RegisteredModel(database.NewModelAdapter((*Polymerization)(nil), 20))
	database.RegisteredModel(database.NewModelAdapter((*Solvent)(nil), 21))
	database.RegisteredModel(database.NewModelAdapter((*SolventName)(nil), 22))
	database.RegisteredModel(database.NewModelAdapter((*SolubilityData)(nil), 23))
	database.RegisteredModel(database.NewModelAdapter((*Gene)(nil), 24))
	database.RegisteredModel(database.NewModelAdapter((*ExperimentalCellLine)(nil), 25))
	database.RegisteredModel(database.NewModelAdapter((*ToxAssay)(nil), 26))
	database.RegisteredModel(database.NewModelAdapter((*Tox21Molecule)(nil), 27))
	database.RegisteredModel(database.NewModelAdapter((*Tox21Data)(nil), 28))
	database.RegisteredModel(database.NewModelAdapter((*CSSTFile)(nil), 29))
	database.RegisteredModel(database.NewModelAdapter((*BrettmannLab)(nil), 30))
	database.RegisteredModel(database.NewModelAdapter((*ContainersAndPackagingWaste)(nil), 31))

	registerForeignKeys()
}

func registerForeignKeys() {
	fks := []database.ForeignKeyConstraint{
		{Table: "polymer_names", Column: "pol_id", ReferenceTable: "polymers", ReferenceColumn: "id"},
		{Table: "polymer_properties", Column: "pol_id", ReferenceTable: "polymers", ReferenceColumn: "id"},
		{Table: "polymer_properties", Column: "property_id", ReferenceTable: "properties", ReferenceColumn: "id"},
		{Table: "polymer_applications", Column: "pol_id", ReferenceTable: "polymers", ReferenceColumn: "id"},
		{Table: "monomer_substructures", Column: "smarts_id", ReferenceTable: "smarts", ReferenceColumn: "id"},
		{Table: "monomer_substructures", Column: "monomer_id", ReferenceTable: "monomers", ReferenceColumn: "id"},
		{Table: "chemical_names", Column: "chemical_id", ReferenceTable: "chemicals", ReferenceColumn: "id"},
		{Table: "chemical_substructures", Column: "smarts_id", ReferenceTable: "smarts", ReferenceColumn: "id"},
		{Table: "chemical_substructures", Column: "chemical_id", ReferenceTable: "chemicals", ReferenceColumn: "id"},
		{Table: "chemical_costs", Column: "chemical_id", ReferenceTable: "chemicals", ReferenceColumn: "id"},
		{Table: "chemical_costs", Column: "supplier_id", ReferenceTable: "chemical_suppliers", ReferenceColumn: "id"},
		{Table: "reaction_steps", Column: "reaction_id", ReferenceTable: "reactions", ReferenceColumn: "id"},
		{Table: "reaction_steps", Column: "reaction_procedure_id", ReferenceTable: "reaction_procedures", ReferenceColumn: "id"},
		{Table: "reaction_procedure_starting_substructure", Column: "reaction_procedure_id", ReferenceTable: "reaction_procedures", ReferenceColumn: "id"},
		{Table: "reaction_procedure_starting_substructure", Column: "smarts_id", ReferenceTable: "smarts", ReferenceColumn: "id"},
		{Table: "reaction_polymer_mappings", Column: "reaction_procedure_id", ReferenceTable: "reaction_procedures", ReferenceColumn: "id"},
		{Table: "reaction_polymer_mappings", Column: "chemical_id", ReferenceTable: "chemicals", ReferenceColumn: "id"},
		{Table: "reaction_polymer_mappings", Column: "pol_id", ReferenceTable: "polymers", ReferenceColumn: "id"},
		{Table: "polymerizations", Column: "polymerization_reaction_id", ReferenceTable: "polymerization_reactions", ReferenceColumn: "id"},
		{Table: "polymerizations", Column: "monomer_id", ReferenceTable: "monomers", ReferenceColumn: "id"},
		{Table: "polymerizations", Column: "pol_id", ReferenceTable: "polymers", ReferenceColumn: "id"},
		{Table: "solvent_names", Column: "sol_id", ReferenceTable: "solvents", ReferenceColumn: "id"},
		{Table: "solubility_data", Column: "pol_id", ReferenceTable: "polymers", ReferenceColumn: "id"},
		{Table: "solubility_data", Column: "sol_id", ReferenceTable: "solvents", ReferenceColumn: "id"},
		{Table: "tox_assays", Column: "exp_cell_line_id", ReferenceTable: "experimental_cell_lines", ReferenceColumn: "id"},
		{Table: "tox_assays", Column: "gene_id", ReferenceTable: "genes", ReferenceColumn: "id"},
		{Table: "tox21_data", Column: "molecule_id", ReferenceTable: "tox21_molecules", ReferenceColumn: "id"},
		{Table: "tox21_data", Column: "assay_id", ReferenceTable: "tox_assays", ReferenceColumn: "id"},
		{Table: "brettmann_lab", Column: "pol_id", ReferenceTable: "polymers", ReferenceColumn: "id"},
		{Table: "brettmann_lab", Column: "sol_id", ReferenceTable: "solvents", ReferenceColumn: "id"},
	}
	for _, fk := range fks {
		database.RegisterForeignKey(fk)
	}
}
