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

func TestTestDBName(t *testing.T) {
	cfg := &ConnectionConfig{DBName: "pinrex"}
	assert.Equal(t, "pinrex_test", cfg.TestDBName())

	testCfg := cfg.ForTestDatabase()
	assert.Equal(t, "pinrex_test", testCfg.DBName)
	// The original configuration is untouched.
	assert.Equal(t, "pinrex", cfg.DBName)
}

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := DefaultConnectionConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 100, cfg.MaxOpenConns)
}

func TestConnectionConfigFromEnv(t *testing.T) {
	t.Setenv("PINREX_DB_HOST", "db.internal")
	t.Setenv("PINREX_DB_PORT", "5433")
	t.Setenv("PINREX_DB_USER", "pinrex_rw")
	t.Setenv("PINREX_DB_NAME", "pinrex_staging")

	cfg := ConnectionConfigFromEnv()
	assert.Equal(t, "postgres", cfg.Type)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "pinrex_rw", cfg.Username)
	assert.Equal(t, "pinrex_staging", cfg.DBName)
}
