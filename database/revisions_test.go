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
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type revCompound struct {
	bun.BaseModel `bun:"table:rev_compounds,alias:rc"`

	ID     int64  `bun:"id,pk,autoincrement"`
	Smiles string `bun:"smiles,unique,notnull"`
	Label  string `bun:"label,nullzero"`
}

type revCompoundTag struct {
	bun.BaseModel `bun:"table:rev_compound_tags,alias:rct"`

	CompoundID int64  `bun:"compound_id,pk,notnull,unique:uq_rev_compound_tag"`
	Tag        string `bun:"tag,pk,notnull,unique:uq_rev_compound_tag"`
}

func openSQLiteTestDB(t *testing.T, name string) *bun.DB {
	t.Helper()
	sqlDB, err := sql.Open(sqliteshim.ShimName, "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	// cache=shared drops the database when the last connection closes, so
	// keep one pinned for the duration of the test.
	db.SetMaxIdleConns(1)
	return db
}

func TestRevisionLifecycle(t *testing.T) {
	RegisteredModel(NewModelAdapter((*revCompound)(nil), 1))
	RegisteredModel(NewModelAdapter((*revCompoundTag)(nil), 2))

	ctx := context.Background()
	db := openSQLiteTestDB(t, "revision_lifecycle")
	dir := t.TempDir()
	rm := NewRevisionManager(db, GetLogger(), dir)

	// First generation captures the full schema.
	rev, err := rm.GenerateRevision(ctx, "Create Compound Tables")
	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, "create_compound_tables", rev.Slug)
	assert.Regexp(t, `^\d{14}$`, rev.Version)

	content, err := os.ReadFile(rev.Path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, `CREATE TABLE IF NOT EXISTS "rev_compounds"`)
	assert.Contains(t, text, `CREATE TABLE IF NOT EXISTS "rev_compound_tags"`)
	assert.Contains(t, text, `CREATE UNIQUE INDEX IF NOT EXISTS "uk_rev_compounds_smiles"`)
	assert.Contains(t, text, `CREATE UNIQUE INDEX IF NOT EXISTS "uq_rev_compound_tag" ON "rev_compound_tags" ("compound_id", "tag")`)

	// Nothing is applied until upgrade runs.
	exists, err := rm.tableExists(ctx, "rev_compounds")
	require.NoError(t, err)
	assert.False(t, exists)

	applied, err := rm.UpgradeToHead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	exists, err = rm.tableExists(ctx, "rev_compounds")
	require.NoError(t, err)
	assert.True(t, exists)

	// The composite unique index enforces the pair, not the columns
	// individually.
	_, err = db.NewInsert().Model(&revCompoundTag{CompoundID: 1, Tag: "solvent"}).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&revCompoundTag{CompoundID: 1, Tag: "polymer"}).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&revCompoundTag{CompoundID: 2, Tag: "solvent"}).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&revCompoundTag{CompoundID: 2, Tag: "solvent"}).Exec(ctx)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	// Upgrading again is a no-op.
	applied, err = rm.UpgradeToHead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)

	// A database already matching the models produces no revision.
	rev, err = rm.GenerateRevision(ctx, "noop")
	require.NoError(t, err)
	assert.Nil(t, rev)

	status, err := rm.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status.Applied, 1)
	assert.Equal(t, "create_compound_tables", status.Applied[0].Name)
	assert.Empty(t, status.Pending)
}

type revCompoundWithFormula struct {
	bun.BaseModel `bun:"table:rev_compounds,alias:rc"`

	ID      int64  `bun:"id,pk,autoincrement"`
	Smiles  string `bun:"smiles,unique,notnull"`
	Label   string `bun:"label,nullzero"`
	Formula string `bun:"formula,nullzero"`
}

func TestRevisionAddColumn(t *testing.T) {
	ctx := context.Background()
	db := openSQLiteTestDB(t, "revision_add_column")
	dir := t.TempDir()
	rm := NewRevisionManager(db, GetLogger(), dir)

	v1, err := resolveTableSchema((*revCompound)(nil), "sqlite")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, buildCreateTableSQL("sqlite", v1))
	require.NoError(t, err)

	v2, err := resolveTableSchema((*revCompoundWithFormula)(nil), "sqlite")
	require.NoError(t, err)
	existing, err := listExistingColumns(ctx, db, v2.Name)
	require.NoError(t, err)
	stmts := planColumns("sqlite", v2.Name, v2.columnMap(), existing)
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0], `ADD COLUMN "formula"`)

	rev := &Revision{
		Version:    "20260829130000",
		Slug:       "add_compound_formula",
		Path:       filepath.Join(dir, "20260829130000_add_compound_formula.sql"),
		Statements: stmts,
	}
	require.NoError(t, rm.writeRevisionFile(rev))

	applied, err := rm.UpgradeToHead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	cols, err := listExistingColumns(ctx, db, v2.Name)
	require.NoError(t, err)
	formula, ok := cols["formula"]
	require.True(t, ok)
	assert.False(t, formula.NotNull)
	assert.Equal(t, "text", normalizeSQLType(formula.Type))
}

func TestCreateTableInlineForeignKeys(t *testing.T) {
	RegisterForeignKey(ForeignKeyConstraint{
		Table:           "rev_compound_tags",
		Column:          "compound_id",
		ReferenceTable:  "rev_compounds",
		ReferenceColumn: "id",
	})

	schema, err := resolveTableSchema((*revCompoundTag)(nil), "sqlite")
	require.NoError(t, err)
	attachInlineForeignKeys(schema)

	ddl := buildCreateTableSQL("sqlite", schema)
	assert.Contains(t, ddl, `FOREIGN KEY ("compound_id") REFERENCES "rev_compounds"("id")`)

	// Postgres keeps foreign keys out of the table definition; they are
	// added as named ALTER TABLE constraints afterwards.
	pgSchema, err := resolveTableSchema((*revCompoundTag)(nil), "pg")
	require.NoError(t, err)
	assert.NotContains(t, buildCreateTableSQL("pg", pgSchema), "FOREIGN KEY")
}

func TestRevisionFileNaming(t *testing.T) {
	dir := t.TempDir()
	rm := NewRevisionManager(nil, nil, dir)

	rev := &Revision{
		Version:    "20260829120000",
		Slug:       "add_widgets",
		Path:       filepath.Join(dir, "20260829120000_add_widgets.sql"),
		Statements: []string{`CREATE TABLE IF NOT EXISTS "widgets" ("id" INTEGER PRIMARY KEY AUTOINCREMENT)`},
	}
	require.NoError(t, rm.writeRevisionFile(rev))

	revs, err := rm.listRevisionFiles()
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.Equal(t, "20260829120000", revs[0].Version)
	assert.Equal(t, "add_widgets", revs[0].Slug)

	// Files that do not match the version_slug pattern are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("notes"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "draft.sql"), []byte("SELECT 1"), 0644))
	revs, err = rm.listRevisionFiles()
	require.NoError(t, err)
	assert.Len(t, revs, 1)
}

func TestNormalizeSlug(t *testing.T) {
	assert.Equal(t, "add_tox_assays", normalizeSlug("Add Tox Assays"))
	assert.Equal(t, "fix_csst_files", normalizeSlug("  fix-csst-files  "))
	assert.Equal(t, "v2schema", normalizeSlug("v2+schema!"))
	assert.Equal(t, "", normalizeSlug("!!!"))
}
