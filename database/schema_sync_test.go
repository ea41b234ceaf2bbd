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
	"github.com/uptrace/bun"
)

type sampleRecord struct {
	bun.BaseModel `bun:"table:sample_records,alias:sr"`

	ID    int64   `bun:"id,pk,autoincrement"`
	Code  string  `bun:"code,notnull,unique:uq_sample_code_kind"`
	Kind  string  `bun:"kind,notnull,unique:uq_sample_code_kind"`
	Score float64 `bun:"score,unique"`
	Note  string  `bun:"note,nullzero"`
}

type samplePair struct {
	bun.BaseModel `bun:"table:sample_pairs,alias:sp"`

	LeftID  int64 `bun:"left_id,pk,notnull,unique:uq_sample_pair"`
	RightID int64 `bun:"right_id,pk,notnull,unique:uq_sample_pair"`
}

func TestResolveTableSchema(t *testing.T) {
	schema, err := resolveTableSchema((*sampleRecord)(nil), "pg")
	require.NoError(t, err)

	assert.Equal(t, "sample_records", schema.Name)
	require.Len(t, schema.Columns, 5)
	assert.Equal(t, []string{"id"}, schema.primaryKeyColumns())

	// Grouped unique tags collapse into one multi-column index; a bare
	// unique tag gets a derived per-column name.
	require.Len(t, schema.Uniques, 2)
	assert.Equal(t, "uq_sample_code_kind", schema.Uniques[0].Name)
	assert.Equal(t, []string{"code", "kind"}, schema.Uniques[0].Columns)
	assert.Equal(t, "uk_sample_records_score", schema.Uniques[1].Name)
	assert.Equal(t, []string{"score"}, schema.Uniques[1].Columns)

	byName := schema.columnMap()
	assert.Equal(t, "text", byName["code"].Type)
	assert.Equal(t, "double precision", byName["score"].Type)
	assert.True(t, byName["code"].NotNull)
	assert.False(t, byName["note"].NotNull)
}

func TestBuildCreateTableSQLPostgres(t *testing.T) {
	schema, err := resolveTableSchema((*sampleRecord)(nil), "pg")
	require.NoError(t, err)

	sql := buildCreateTableSQL("pg", schema)
	assert.Contains(t, sql, `CREATE TABLE IF NOT EXISTS "sample_records"`)
	assert.Contains(t, sql, `"id" BIGSERIAL NOT NULL`)
	assert.Contains(t, sql, `PRIMARY KEY ("id")`)
	// Unique groups never end up in the table definition; they become
	// named indexes so multi-column groups keep their cross-column scope.
	assert.NotContains(t, sql, "UNIQUE")

	stmts := buildUniqueIndexSQLs(schema)
	require.Len(t, stmts, 2)
	assert.Equal(t, `CREATE UNIQUE INDEX IF NOT EXISTS "uq_sample_code_kind" ON "sample_records" ("code", "kind")`, stmts[0])
	assert.Equal(t, `CREATE UNIQUE INDEX IF NOT EXISTS "uk_sample_records_score" ON "sample_records" ("score")`, stmts[1])
}

func TestBuildCreateTableSQLSQLite(t *testing.T) {
	schema, err := resolveTableSchema((*sampleRecord)(nil), "sqlite")
	require.NoError(t, err)

	sql := buildCreateTableSQL("sqlite", schema)
	assert.Contains(t, sql, `"id" INTEGER PRIMARY KEY AUTOINCREMENT`)
	assert.NotContains(t, sql, `PRIMARY KEY ("id")`)
	assert.NotContains(t, sql, "UNIQUE")
}

func TestBuildCreateTableSQLCompositePK(t *testing.T) {
	schema, err := resolveTableSchema((*samplePair)(nil), "pg")
	require.NoError(t, err)

	sql := buildCreateTableSQL("pg", schema)
	assert.Contains(t, sql, `PRIMARY KEY ("left_id", "right_id")`)
	assert.NotContains(t, sql, "BIGSERIAL")

	stmts := buildUniqueIndexSQLs(schema)
	require.Len(t, stmts, 1)
	assert.Equal(t, `CREATE UNIQUE INDEX IF NOT EXISTS "uq_sample_pair" ON "sample_pairs" ("left_id", "right_id")`, stmts[0])

	// sqlite keeps the explicit PRIMARY KEY clause for composite keys.
	sqliteSchema, err := resolveTableSchema((*samplePair)(nil), "sqlite")
	require.NoError(t, err)
	assert.Contains(t, buildCreateTableSQL("sqlite", sqliteSchema), `PRIMARY KEY ("left_id", "right_id")`)
}

func TestNormalizeSQLType(t *testing.T) {
	cases := map[string]string{
		"BIGSERIAL":   "bigint",
		"serial":      "integer",
		"int8":        "bigint",
		"int4":        "integer",
		"bool":        "boolean",
		"float8":      "double precision",
		"timestamptz": "timestamp with time zone",
		"varchar(64)": "character varying(64)",
		"text":        "text",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeSQLType(in), in)
	}
}

func TestNormalizeDefault(t *testing.T) {
	assert.Equal(t, "x", normalizeDefault("'x'::text", true))
	assert.Equal(t, "", normalizeDefault("NULL", true))
	assert.Equal(t, "NULL", normalizeDefault("NULL", false))
	assert.Equal(t, "0", normalizeDefault("(0)", true))
}

func TestBuildDropIndexSkipsPrimary(t *testing.T) {
	assert.Equal(t, "", buildDropIndexSQL("pg", "sample_records", "sample_records_pkey"))
	assert.Equal(t, "", buildDropIndexSQL("sqlite", "sample_records", "sqlite_autoindex_sample_records_1"))
	assert.Equal(t, `DROP INDEX IF EXISTS "stale_idx"`, buildDropIndexSQL("pg", "sample_records", "stale_idx"))
}
