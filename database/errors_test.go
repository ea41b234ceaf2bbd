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
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSqlErrorPostgresCodes(t *testing.T) {
	cases := []struct {
		code string
		want SQLError
	}{
		{"42703", NoColumnErr},
		{"42701", ExistColumnErr},
		{"42704", NoIndexErr},
		{"42P01", NoTableErr},
		{"42P07", ExistTableErr},
		{"23505", DuplicateKeyErr},
		{"23502", NotNullViolationErr},
		{"23503", ForeignKeyViolationErr},
		{"23514", CheckConstraintViolationErr},
		{"22001", DataTruncatedErr},
		{"42804", InvalidTypeCastErr},
		{"22P02", InvalidTypeCastErr},
	}
	for _, c := range cases {
		err := &pq.Error{Code: pq.ErrorCode(c.code)}
		is, kind := IsSqlError(err)
		assert.True(t, is, c.code)
		assert.Equal(t, c.want, kind, c.code)
	}

	// Unmapped postgres codes are still recognized as SQL errors.
	is, kind := IsSqlError(&pq.Error{Code: "57014"})
	assert.True(t, is)
	assert.Equal(t, UnknownErr, kind)

	// Wrapped errors unwrap to the driver error.
	wrapped := fmt.Errorf("insert polymer: %w", &pq.Error{Code: "23505"})
	assert.True(t, IsUniqueViolation(wrapped))
}

func TestIsSqlErrorSQLiteMessages(t *testing.T) {
	cases := []struct {
		msg  string
		want SQLError
	}{
		{"UNIQUE constraint failed: monomers.smiles", DuplicateKeyErr},
		{"NOT NULL constraint failed: smarts.smarts", NotNullViolationErr},
		{"FOREIGN KEY constraint failed", ForeignKeyViolationErr},
		{"no such table: polymers", NoTableErr},
		{"no such column: search_name", NoColumnErr},
		{"table polymers already exists", ExistTableErr},
		{"index uk_monomers_smiles already exists", ExistIndexErr},
	}
	for _, c := range cases {
		is, kind := IsSqlError(errors.New(c.msg))
		assert.True(t, is, c.msg)
		assert.Equal(t, c.want, kind, c.msg)
	}
}

func TestIsSqlErrorUnrecognized(t *testing.T) {
	is, kind := IsSqlError(nil)
	assert.False(t, is)
	assert.Equal(t, UnknownErr, kind)

	is, _ = IsSqlError(errors.New("connection refused"))
	assert.False(t, is)

	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsForeignKeyViolation(nil))
}
