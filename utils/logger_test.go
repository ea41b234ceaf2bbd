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

package utils

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("WARN"))
	assert.Equal(t, logrus.ErrorLevel, ParseLogLevel("error"))
	// Unknown strings fall back to info.
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("chatty"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
}

func TestNewLoggerAndLevelControl(t *testing.T) {
	l := NewLogger("PINREX-TEST")
	require.NotNil(t, l)

	assert.True(t, SetLoggerLevel("PINREX-TEST", "debug"))
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	assert.False(t, SetLoggerLevel("NOT-REGISTERED", "debug"))

	SetAllLoggersLevel(logrus.WarnLevel)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
}

func TestLog4jColorFormatter(t *testing.T) {
	f := &Log4jColorFormatter{LoggerName: "PINREX-DB"}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Level:   logrus.InfoLevel,
		Time:    time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC),
		Message: "database connected",
	}
	out, err := f.Format(entry)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "INFO")
	assert.Contains(t, s, "PINREX-DB")
	assert.Contains(t, s, "database connected")
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("PINREX_TEST_STR", "value")
	assert.Equal(t, "value", EnvDefaultString("PINREX_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", EnvDefaultString("PINREX_TEST_MISSING", "fallback"))

	t.Setenv("PINREX_TEST_BOOL", "true")
	assert.True(t, EnvDefaultBool("PINREX_TEST_BOOL", false))
	assert.False(t, EnvDefaultBool("PINREX_TEST_BOOL_MISSING", false))
}
