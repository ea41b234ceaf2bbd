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
	"time"

	"github.com/uptrace/bun"

	"github.com/pinrex/pinrex-db/types"
)

// CSSTFile describes an uploaded Crystal 16 solubility screening file.
// FileName is the stored name, OriginalName the name from the uploader.
type CSSTFile struct {
	bun.BaseModel `bun:"table:csst_files,alias:cf"`

	ID                int64            `bun:"id,pk,autoincrement" json:"id"`
	FileName          string           `bun:"file_name,unique,notnull" json:"file_name"`
	OriginalName      string           `bun:"original_name,notnull" json:"original_name"`
	Polymers          types.TextArray  `bun:"polymers,type:jsonb,nullzero" json:"polymers,omitempty"`
	Solvents          types.TextArray  `bun:"solvents,type:jsonb,nullzero" json:"solvents,omitempty"`
	Concentrations    types.FloatArray `bun:"concentrations,type:jsonb,nullzero" json:"concentrations,omitempty"`
	DateAdded         time.Time        `bun:"date_added,notnull" json:"date_added"`
	StirRate          float64          `bun:"stir_rate,notnull" json:"stir_rate"`
	StartOfExperiment time.Time        `bun:"start_of_experiment,notnull" json:"start_of_experiment"`
	Version           string           `bun:"version,notnull" json:"version"`
	Project           string           `bun:"project,notnull" json:"project"`
}
