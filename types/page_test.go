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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequestDefaults(t *testing.T) {
	p := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, p.GetPage())
	assert.Equal(t, 10, p.GetPageSize())
	assert.Equal(t, 0, p.GetOffset())
	assert.Nil(t, p.GetFilter())
}

func TestPageRequestOffset(t *testing.T) {
	p := NewDefaultPageRequest(3, 25)
	assert.Equal(t, 50, p.GetOffset())
}

func TestJsonObjectRoundTrip(t *testing.T) {
	fp := JsonObject{"bit_0": 1.0, "bit_7": 0.25}
	v, err := fp.Value()
	require.NoError(t, err)

	var got JsonObject
	require.NoError(t, got.Scan(v))
	assert.Equal(t, fp, got)

	var fromNil JsonObject
	require.NoError(t, fromNil.Scan(nil))
	assert.NotNil(t, fromNil)
	assert.Empty(t, fromNil)
}

func TestTextArrayRoundTrip(t *testing.T) {
	a := TextArray{"PEG", "PVA"}
	v, err := a.Value()
	require.NoError(t, err)

	var got TextArray
	require.NoError(t, got.Scan(v))
	assert.Equal(t, a, got)

	var nilArr TextArray
	v, err = nilArr.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	require.Error(t, got.Scan(42))
}
