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

	"github.com/uptrace/bun"

	"github.com/pinrex/pinrex-db/models"
)

// NameSearch resolves free-form material names against the name tables.
// Input names are normalized with models.MakeNameSearchable, so lookups
// tolerate case, whitespace and chemical punctuation differences.
type NameSearch struct {
	db *bun.DB
}

// NewNameSearch returns a NameSearch backed by the provided Bun DB.
func NewNameSearch(db *bun.DB) *NameSearch {
	return &NameSearch{db: db}
}

// Polymers returns every polymer name row matching the given name.
func (s *NameSearch) Polymers(ctx context.Context, name string) ([]*models.PolymerName, error) {
	var rows []*models.PolymerName
	err := s.db.NewSelect().Model(&rows).
		Where("search_name = ?", models.MakeNameSearchable(name)).
		Scan(ctx)
	return rows, err
}

// Chemicals returns every chemical name row matching the given name.
func (s *NameSearch) Chemicals(ctx context.Context, name string) ([]*models.ChemicalName, error) {
	var rows []*models.ChemicalName
	err := s.db.NewSelect().Model(&rows).
		Where("search_name = ?", models.MakeNameSearchable(name)).
		Scan(ctx)
	return rows, err
}

// Solvents returns every solvent name row matching the given name.
func (s *NameSearch) Solvents(ctx context.Context, name string) ([]*models.SolventName, error) {
	var rows []*models.SolventName
	err := s.db.NewSelect().Model(&rows).
		Where("search_name = ?", models.MakeNameSearchable(name)).
		Scan(ctx)
	return rows, err
}
