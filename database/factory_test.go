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

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFromConfigKeepsTestDatabase(t *testing.T) {
	t.Setenv("PINREX_DB_NAME", "pinrex")

	base := DefaultConnectionConfig()
	base.Type = "sqlite"
	base.DBName = "pinrex"

	cfg := base.ForTestDatabase()
	require.Equal(t, "pinrex_test", cfg.DBName)

	// The env override must not point a test config at the production name.
	_, err := NewDatabaseFactory().CreateFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "pinrex_test", cfg.DBName)

	// A changed env name still lands on its test database.
	t.Setenv("PINREX_DB_NAME", "pinrex_staging")
	_, err = NewDatabaseFactory().CreateFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "pinrex_staging_test", cfg.DBName)

	// Non-test configs keep taking the env name as-is.
	_, err = NewDatabaseFactory().CreateFromConfig(base)
	require.NoError(t, err)
	assert.Equal(t, "pinrex_staging", base.DBName)
}

func TestCreateFromConfigRejectsUnsupportedType(t *testing.T) {
	cfg := DefaultConnectionConfig()
	cfg.Type = "oracle"
	_, err := NewDatabaseFactory().CreateFromConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}
