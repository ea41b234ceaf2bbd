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
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JsonObject maps a jsonb column to a generic object. Fingerprint columns
// (polymer genome, map4) and polymer property conditions use it.
type JsonObject map[string]interface{}

// Value implements driver.Valuer for JsonObject.
func (j JsonObject) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner for JsonObject.
func (j *JsonObject) Scan(value interface{}) error {
	if value == nil {
		*j = make(JsonObject)
		return nil
	}
	b, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, j)
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("type assertion must be []byte or string")
	}
}

// TextArray maps a list-of-strings column stored as a JSON document.
type TextArray []string

// FloatArray maps a list-of-floats column stored as a JSON document.
type FloatArray []float64

// IntArray maps a list-of-integers column stored as a JSON document.
type IntArray []int64

// Value implements driver.Valuer for TextArray.
func (a TextArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for TextArray.
func (a *TextArray) Scan(value interface{}) error {
	return scanJSONList(value, a)
}

// Value implements driver.Valuer for FloatArray.
func (a FloatArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for FloatArray.
func (a *FloatArray) Scan(value interface{}) error {
	return scanJSONList(value, a)
}

// Value implements driver.Valuer for IntArray.
func (a IntArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for IntArray.
func (a *IntArray) Scan(value interface{}) error {
	return scanJSONList(value, a)
}

func scanJSONList(value interface{}, dst interface{}) error {
	if value == nil {
		return nil
	}
	b, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("failed to decode list column: %w", err)
	}
	return nil
}
