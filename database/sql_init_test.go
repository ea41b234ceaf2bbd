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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSQLScript(t *testing.T) {
	script := `-- seed suppliers
INSERT INTO chemical_suppliers (name) VALUES ('sigma');

INSERT INTO chemical_suppliers
  (name, site)
  VALUES ('tci', 'https://www.tcichemicals.com');

-- trailing statement without semicolon
UPDATE chemical_suppliers SET site = NULL WHERE name = 'sigma'`

	stmts := splitSQLScript(script)
	require.Len(t, stmts, 3)
	assert.Equal(t, "INSERT INTO chemical_suppliers (name) VALUES ('sigma');", stmts[0])
	assert.Contains(t, stmts[1], "VALUES ('tci', 'https://www.tcichemicals.com');")
	assert.Contains(t, stmts[2], "UPDATE chemical_suppliers")
}

func TestParseFileOrder(t *testing.T) {
	s := NewSQLInitManager(nil, "dev")
	assert.Equal(t, 1, s.parseFileOrder("001_properties.sql"))
	assert.Equal(t, 42, s.parseFileOrder("42_seed.sql"))
	// Unnumbered files sort last.
	assert.Equal(t, 999, s.parseFileOrder("cleanup.sql"))
}

func TestSQLInitExecution(t *testing.T) {
	db := openSQLiteTestDB(t, "sql_init")
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `CREATE TABLE seeds (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, env TEXT)`)
	require.NoError(t, err)

	root := t.TempDir()
	common := filepath.Join(root, "common")
	devDir := filepath.Join(root, "environments", "dev")
	require.NoError(t, os.MkdirAll(common, 0755))
	require.NoError(t, os.MkdirAll(devDir, 0755))

	require.NoError(t, os.WriteFile(filepath.Join(common, "001_base.sql"),
		[]byte("INSERT INTO seeds (name) VALUES ('base');\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(devDir, "001_dev.sql"),
		[]byte("INSERT INTO seeds (name, env) VALUES ('dev-only', '{{.ENVIRONMENT}}');\n"), 0644))

	mgr := NewSQLInitManager(db, "dev")
	mgr.SetSQLRootPath(root)

	files, err := mgr.GetSQLFiles()
	require.NoError(t, err)
	require.Len(t, files, 2)
	// Common files run before environment files.
	assert.Equal(t, "common", files[0].Environment)
	assert.Equal(t, "dev", files[1].Environment)

	require.NoError(t, mgr.ExecuteInitialization())

	var names []string
	require.NoError(t, db.NewSelect().Table("seeds").Column("name").Order("id ASC").Scan(ctx, &names))
	assert.Equal(t, []string{"base", "dev-only"}, names)

	var env string
	require.NoError(t, db.NewSelect().Table("seeds").Column("env").Where("name = ?", "dev-only").Scan(ctx, &env))
	assert.Equal(t, "dev", env)
}
