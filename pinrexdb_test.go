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

package pinrexdb_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pinrexdb "github.com/pinrex/pinrex-db"
	"github.com/pinrex/pinrex-db/database"
	"github.com/pinrex/pinrex-db/models"
	"github.com/pinrex/pinrex-db/repository"
	"github.com/pinrex/pinrex-db/types"
)

func TestMain(m *testing.M) {
	cfg := &database.Config{
		ConnectionConfig: database.ConnectionConfig{
			Type:   "sqlite",
			DBName: "file:pinrexdb_test?mode=memory&cache=shared",
		},
		DataMigrateConfig: database.DataMigrateConfig{
			EnableForeignKey: true,
		},
	}
	if _, err := database.InitDatabaseWithOptions(cfg, false); err != nil {
		panic(err)
	}
	if err := database.RunMigrations(); err != nil {
		panic(err)
	}
	code := m.Run()
	_ = database.CloseDB()
	os.Exit(code)
}

func TestPolymerNameSearch(t *testing.T) {
	ctx := context.Background()

	polymers := pinrexdb.NewService[models.Polymer]()
	pol := &models.Polymer{Smiles: "[*]CC[*]", PID: "P010001"}
	require.NoError(t, polymers.Save(ctx, pol))
	require.NotZero(t, pol.ID)

	names := pinrexdb.NewService[models.PolymerName]()
	require.NoError(t, names.Save(ctx, &models.PolymerName{
		PolID: pol.ID,
		Name:  "Poly(ethylene)",
	}))

	// The insert hook derived search_name from the display name.
	stored, err := names.Query(ctx, "pol_id = ?", pol.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "polyethylene", stored[0].SearchName)

	search := repository.NewNameSearch(database.GetDB())
	found, err := search.Polymers(ctx, "  POLY ethylene ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, pol.ID, found[0].PolID)

	missing, err := search.Polymers(ctx, "polypropylene")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestMonomerUniqueSmiles(t *testing.T) {
	ctx := context.Background()
	monomers := pinrexdb.NewService[models.Monomer]()

	require.NoError(t, monomers.Save(ctx, &models.Monomer{Smiles: "C=C"}))
	err := monomers.Save(ctx, &models.Monomer{Smiles: "C=C"})
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
}

func TestReactionStepUniqueness(t *testing.T) {
	ctx := context.Background()

	reactions := pinrexdb.NewService[models.Reaction]()
	rxn := &models.Reaction{Smarts: "[C:1]=[C:2]>>[C:1]-[C:2]"}
	require.NoError(t, reactions.Save(ctx, rxn))

	procedures := pinrexdb.NewService[models.ReactionProcedure]()
	proc := &models.ReactionProcedure{Name: "radical polymerization"}
	require.NoError(t, procedures.Save(ctx, proc))

	steps := pinrexdb.NewService[models.ReactionStep]()
	require.NoError(t, steps.Save(ctx, &models.ReactionStep{
		ReactionID:          rxn.ID,
		ReactionProcedureID: proc.ID,
		Step:                1,
	}))

	// Same reaction at the same step of the same procedure must be rejected.
	err := steps.Save(ctx, &models.ReactionStep{
		ReactionID:          rxn.ID,
		ReactionProcedureID: proc.ID,
		Step:                1,
	})
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))

	// A later step of the same pair is fine.
	require.NoError(t, steps.Save(ctx, &models.ReactionStep{
		ReactionID:          rxn.ID,
		ReactionProcedureID: proc.ID,
		Step:                2,
	}))
}

func TestReactionStepForeignKeys(t *testing.T) {
	ctx := context.Background()

	procedures := pinrexdb.NewService[models.ReactionProcedure]()
	proc := &models.ReactionProcedure{Name: "anionic polymerization"}
	require.NoError(t, procedures.Save(ctx, proc))

	steps := pinrexdb.NewService[models.ReactionStep]()

	err := steps.Save(ctx, &models.ReactionStep{
		ReactionID:          999999,
		ReactionProcedureID: proc.ID,
		Step:                1,
	})
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolation(err))

	reactions := pinrexdb.NewService[models.Reaction]()
	rxn := &models.Reaction{Smarts: "[O:1]=[C:2]>>[O:1]-[C:2]"}
	require.NoError(t, reactions.Save(ctx, rxn))

	err = steps.Save(ctx, &models.ReactionStep{
		ReactionID:          rxn.ID,
		ReactionProcedureID: 999999,
		Step:                1,
	})
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolation(err))
}

func TestChemicalUpsert(t *testing.T) {
	ctx := context.Background()
	chemicals := pinrexdb.NewService[models.Chemical]()

	chem := &models.Chemical{Smiles: "CCO"}
	require.NoError(t, chemicals.Save(ctx, chem))

	chem.CAS = "64-17-5"
	require.NoError(t, chemicals.SaveOrUpdate(ctx, []string{"cas"}, []string{"smiles"}, chem))

	rows, err := chemicals.Query(ctx, "smiles = ?", "CCO")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "64-17-5", rows[0].CAS)
}

func TestPagination(t *testing.T) {
	ctx := context.Background()
	props := pinrexdb.NewService[models.Property]()

	seed := []*models.Property{
		{Name: "glass transition temperature", ShortName: "Tg", Unit: "K"},
		{Name: "density", ShortName: "rho", Unit: "g/cm3"},
		{Name: "melting temperature", ShortName: "Tm", Unit: "K"},
	}
	require.NoError(t, props.Save(ctx, seed...))

	page, err := props.Page(ctx, types.NewPageRequest(1, 2, nil, []string{"id ASC"}))
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 2)

	filtered, err := props.List(ctx, types.NewQueryFilter("unit = ?", "K"))
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}
