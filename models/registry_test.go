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

package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinrex/pinrex-db/database"
	"github.com/pinrex/pinrex-db/models"
)

func TestModelRegistration(t *testing.T) {
	registered := database.GetRegisteredModels()
	require.Len(t, registered, 31)

	// Priority order puts every table after the tables it references.
	for i := 1; i < len(registered); i++ {
		assert.Less(t, registered[i-1].Priority(), registered[i].Priority())
	}

	instances := database.RegisteredModelInstances()
	require.Len(t, instances, 31)
	assert.IsType(t, (*models.Smarts)(nil), instances[0])
	assert.IsType(t, (*models.ContainersAndPackagingWaste)(nil), instances[30])
}

func TestForeignKeyRegistration(t *testing.T) {
	fks := database.RegisteredForeignKeyConstraints()
	require.NotEmpty(t, fks)

	byTable := map[string]int{}
	for _, fk := range fks {
		byTable[fk.Table]++
	}
	assert.Equal(t, 3, byTable["reaction_polymer_mappings"])
	assert.Equal(t, 3, byTable["polymerizations"])
	assert.Equal(t, 2, byTable["reaction_steps"])
	assert.Equal(t, 2, byTable["brettmann_lab"])
	assert.Equal(t, 1, byTable["polymer_names"])

	for _, fk := range fks {
		if fk.Table == "polymer_names" {
			assert.Equal(t, "fk_polymer_names_pol_id", fk.GenerateConstraintName())
			assert.Contains(t, fk.GenerateSQL(), `REFERENCES "polymers"(id)`)
		}
	}
}
