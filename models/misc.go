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

import "github.com/uptrace/bun"

// ContainersAndPackagingWaste holds yearly US containers and packaging
// waste figures broken down by material type and management pathway.
type ContainersAndPackagingWaste struct {
	bun.BaseModel `bun:"table:containers_and_packaging_waste,alias:cpw"`

	ID                int64  `bun:"id,pk,autoincrement" json:"id"`
	Value             *int64 `bun:"value" json:"value,omitempty"`
	Year              *int16 `bun:"year,type:smallint" json:"year,omitempty"`
	Type              string `bun:"type,nullzero" json:"type,omitempty"`
	ManagementPathway string `bun:"management_pathway,nullzero" json:"management_pathway,omitempty"`
	Reference         string `bun:"reference,nullzero" json:"reference,omitempty"`
	Unit              string `bun:"unit,nullzero" json:"unit,omitempty"`
}
