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

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeNameSearchable(t *testing.T) {
	cases := map[string]string{
		"colon:remove":          "colonremove",
		"Upper_Case":            "upper_case",
		"Poly(ethylene oxide)":  "polyethyleneoxide",
		"poly ethylene-oxide":   "polyethyleneoxide",
		"N,N-dimethylformamide": "nndimethylformamide",
		"  2-Propanol  ":        "2propanol",
		"poly{styrene}":         "polystyrene",
		"[emim][BF4]":           "emimbf4",
		"2,2'-bipyridine":       "22bipyridine",
		`water "heavy"`:         "waterheavy",
		"poly‐lactide":          "polylactide",
		"":                      "",
	}
	for input, want := range cases {
		assert.Equal(t, want, MakeNameSearchable(input), "input %q", input)
	}
}

func TestPolymerPropertyErrorType(t *testing.T) {
	for _, v := range []PolymerPropertyErrorType{ErrorTypeSD, ErrorTypeSEM, ErrorTypeVariance} {
		assert.True(t, v.IsValid(), v.String())
	}
	// Nullable column, so the zero value passes validation.
	assert.True(t, PolymerPropertyErrorType("").IsValid())
	assert.False(t, PolymerPropertyErrorType("stdev").IsValid())

	_, err := PolymerPropertyErrorType("stdev").Value()
	require.Error(t, err)

	v, err := ErrorTypeSD.Value()
	require.NoError(t, err)
	assert.Equal(t, "sd", v)

	v, err = PolymerPropertyErrorType("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTargetModeOfAction(t *testing.T) {
	valid := []TargetModeOfAction{
		ModeOfActionAgonist, ModeOfActionAntagonist, ModeOfActionPermeabilization,
		ModeOfActionInhibition, ModeOfActionActivation,
	}
	for _, v := range valid {
		assert.True(t, v.IsValid(), v.String())
	}
	assert.False(t, TargetModeOfAction("").IsValid())
	assert.False(t, TargetModeOfAction("blocking").IsValid())

	_, err := TargetModeOfAction("blocking").Value()
	require.Error(t, err)
}

func TestActivity(t *testing.T) {
	for _, v := range []Activity{ActivityActive, ActivityInactive, ActivityInconclusive} {
		assert.True(t, v.IsValid(), v.String())
	}
	assert.False(t, Activity("unknown").IsValid())

	v, err := ActivityActive.Value()
	require.NoError(t, err)
	assert.Equal(t, "active", v)
}
