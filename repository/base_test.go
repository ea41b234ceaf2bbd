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

package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type supplierRecord struct {
	bun.BaseModel `bun:"table:supplier_records,alias:sr"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Name  string `bun:"name,unique,notnull"`
	City  string `bun:"city,nullzero"`
	Order int    `bun:"order"`
}

func openTestDB(t *testing.T, name string) *bun.DB {
	t.Helper()
	sqlDB, err := sql.Open(sqliteshim.ShimName, "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createSupplierTable(t *testing.T, db *bun.DB) {
	t.Helper()
	_, err := db.NewCreateTable().Model((*supplierRecord)(nil)).IfNotExists().Exec(context.Background())
	require.NoError(t, err)
}

// Conflict targets and set columns go through the query formatter, so even
// reserved words like "order" work as column names.
func TestUpsertQuotesIdentifiers(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, "repo_upsert_idents")
	createSupplierTable(t, db)
	repo := NewRepository[supplierRecord](db)

	require.NoError(t, repo.Create(ctx, &supplierRecord{Name: "tci", City: "portland", Order: 1}))
	require.NoError(t, repo.Upsert(ctx, []string{"city", "order"}, []string{"name"},
		&supplierRecord{Name: "tci", City: "tokyo", Order: 2}))

	rows, err := repo.Query(ctx, "name = ?", "tci")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "tokyo", rows[0].City)
	assert.Equal(t, 2, rows[0].Order)
}

func TestUpsertFallbackUsesTransaction(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, "repo_upsert_fallback")
	createSupplierTable(t, db)
	repo := &baseRepositoryImpl[supplierRecord]{db: db}

	discard := errors.New("discard")
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := repo.upsertFallback(ctx, tx, []*supplierRecord{{Name: "sigma"}}); err != nil {
			return err
		}
		return discard
	})
	require.ErrorIs(t, err, discard)

	// The rollback must take the fallback writes with it.
	n, err := db.NewSelect().Model((*supplierRecord)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestUpsertFallbackInsertThenUpdate(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, "repo_upsert_fallback_update")
	createSupplierTable(t, db)
	repo := &baseRepositoryImpl[supplierRecord]{db: db}

	first := &supplierRecord{Name: "alfa", City: "heysham"}
	require.NoError(t, repo.Create(ctx, first))

	require.NoError(t, repo.upsertFallback(ctx, db, []*supplierRecord{
		{ID: first.ID, Name: "alfa", City: "ward hill"},
	}))

	updated, err := repo.GetOne(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "ward hill", updated.City)
}
