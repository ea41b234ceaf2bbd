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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the concrete logger type handed out by NewLogger.
type Logger = logrus.Logger

var (
	defaultConsoleLevel = logrus.InfoLevel
	defaultFileLevel    = logrus.TraceLevel
	loggerRegistryMu    sync.RWMutex
	loggerRegistry      = map[string]*logrus.Logger{}
	fileLogEnabled      = EnvDefaultBool("PINREX_FILE_LOG_ENABLED", false)
	fileLogDir          = EnvDefaultString("PINREX_FILE_LOG_DIR", "logs")
	fileLogMaxAgeDays   = 0
	consoleLogFormat    = EnvDefaultString("PINREX_LOG_FORMAT", "text")
)

// ConfigureFileLog sets the rolling file log directory and retention.
func ConfigureFileLog(dir string, maxAgeDays int) {
	if dir != "" {
		fileLogDir = dir
	}
	if maxAgeDays >= 0 {
		fileLogMaxAgeDays = maxAgeDays
	}
	fileLogEnabled = true
}

// ConfigureConsoleLogFormat selects "text" or "json" console output.
func ConfigureConsoleLogFormat(format string) {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		consoleLogFormat = "json"
	} else {
		consoleLogFormat = "text"
	}
}

// ParseLogLevel maps a level string to a logrus level, defaulting to info.
func ParseLogLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info", "":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

// RegisterLogger makes a named logger addressable by SetLoggerLevel.
func RegisterLogger(name string, l *logrus.Logger) {
	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	loggerRegistry[name] = l
}

// SetLoggerLevel adjusts one registered logger. Returns false if the name
// is unknown.
func SetLoggerLevel(name string, lvlStr string) bool {
	lvl := ParseLogLevel(lvlStr)
	loggerRegistryMu.RLock()
	lg, ok := loggerRegistry[name]
	loggerRegistryMu.RUnlock()
	if !ok {
		return false
	}
	lg.SetLevel(lvl)
	return true
}

// SetAllLoggersLevel adjusts every registered logger and the defaults.
func SetAllLoggersLevel(lvl logrus.Level) {
	loggerRegistryMu.RLock()
	for _, lg := range loggerRegistry {
		lg.SetLevel(lvl)
	}
	loggerRegistryMu.RUnlock()
	logrus.SetLevel(lvl)
	defaultConsoleLevel = lvl
	defaultFileLevel = lvl
}

type consoleWriterHook struct {
	formatter logrus.Formatter
}

func (h *consoleWriterHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *consoleWriterHook) Fire(e *logrus.Entry) error {
	if e.Level > defaultConsoleLevel {
		return nil
	}
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(b)
	return err
}

// NewLogger returns a named logger writing log4j-style (or JSON) lines to
// stdout and, when enabled, daily rolling files under the log directory.
func NewLogger(name string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(maxLevel(defaultConsoleLevel, defaultFileLevel))
	l.SetReportCaller(true)
	var consoleFmt logrus.Formatter
	if consoleLogFormat == "json" {
		consoleFmt = &JSONLogFormatter{LoggerName: name}
	} else {
		consoleFmt = &Log4jColorFormatter{LoggerName: name, NameWidth: 10}
	}
	l.SetFormatter(consoleFmt)
	l.AddHook(&consoleWriterHook{formatter: l.Formatter})
	if fileLogEnabled {
		_ = addDailyFileHook(l, name, fileLogDir, fileLogMaxAgeDays)
	}
	RegisterLogger(name, l)
	return l
}

func maxLevel(a, b logrus.Level) logrus.Level {
	if a >= b {
		return a
	}
	return b
}

type fileWriterHook struct {
	writer    io.Writer
	formatter logrus.Formatter
}

func (h *fileWriterHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *fileWriterHook) Fire(e *logrus.Entry) error {
	if e.Level > defaultFileLevel {
		return nil
	}
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(b)
	return err
}

func addDailyFileHook(l *logrus.Logger, name, dir string, maxAgeDays int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	w := &dailyWriter{baseDir: dir, name: strings.ToLower(name), maxAgeDays: maxAgeDays}
	l.AddHook(&fileWriterHook{
		writer:    w,
		formatter: &JSONLogFormatter{LoggerName: name},
	})
	return nil
}

// dailyWriter appends to <dir>/<date>/<name>.log, rolling at midnight and
// removing directories older than maxAgeDays.
type dailyWriter struct {
	baseDir    string
	name       string
	maxAgeDays int
	mu         sync.Mutex
	curDate    string
	file       *os.File
}

func (w *dailyWriter) ensureOpen(date string) error {
	if w.file != nil && w.curDate == date {
		return nil
	}
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}
	dir := filepath.Join(w.baseDir, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, w.name+".log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.file = f
	w.curDate = date
	return nil
}

func (w *dailyWriter) cleanup() {
	if w.maxAgeDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -w.maxAgeDays)
	entries, err := os.ReadDir(w.baseDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		d, err := time.Parse("2006-01-02", e.Name())
		if err != nil {
			continue
		}
		if d.Before(cutoff) {
			_ = os.RemoveAll(filepath.Join(w.baseDir, e.Name()))
		}
	}
}

func (w *dailyWriter) Write(p []byte) (int, error) {
	date := time.Now().Format("2006-01-02")
	w.mu.Lock()
	rolled := w.curDate != "" && w.curDate != date
	if err := w.ensureOpen(date); err != nil {
		w.mu.Unlock()
		return 0, err
	}
	if rolled {
		w.cleanup()
	}
	f := w.file
	w.mu.Unlock()
	return f.Write(p)
}

const (
	ansiReset   = "\x1b[0m"
	ansiFaint   = "\x1b[2m"
	ansiRed     = "\x1b[31m"
	ansiYellow  = "\x1b[33m"
	ansiGreen   = "\x1b[32m"
	ansiBlue    = "\x1b[34m"
	ansiMagenta = "\x1b[35m"
	ansiCyan    = "\x1b[36m"
)

func colorWrap(s, code string) string { return code + s + ansiReset }

func colorLevel(s string, level logrus.Level) string {
	switch level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return colorWrap(s, ansiRed)
	case logrus.WarnLevel:
		return colorWrap(s, ansiYellow)
	case logrus.InfoLevel:
		return colorWrap(s, ansiGreen)
	case logrus.DebugLevel:
		return colorWrap(s, ansiBlue)
	default:
		return colorWrap(s, ansiMagenta)
	}
}

// Log4jColorFormatter renders "ts LEVEL pid - [main] name caller : msg".
type Log4jColorFormatter struct {
	LoggerName      string
	TimestampFormat string
	NameWidth       int
}

func (f *Log4jColorFormatter) tsFormat() string {
	if f.TimestampFormat != "" {
		return f.TimestampFormat
	}
	return "2006-01-02 15:04:05.000"
}

func (f *Log4jColorFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	ts := entry.Time.Format(f.tsFormat())
	lvl := fmt.Sprintf("%7s", strings.ToUpper(entry.Level.String()))
	pid := colorWrap(fmt.Sprintf("%-6d", os.Getpid()), ansiMagenta)
	name := f.LoggerName
	if f.NameWidth > 0 {
		name = fmt.Sprintf("%*s", f.NameWidth, limitRunes(name, f.NameWidth))
	}
	caller := ""
	if entry.Caller != nil {
		caller = colorWrap(fmt.Sprintf(" %s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line), ansiFaint)
	}
	line := fmt.Sprintf("%s %s %s - %s %s%s %s %s\n",
		ts, colorLevel(lvl, entry.Level), pid, colorWrap("[main]", ansiMagenta),
		colorWrap(name, ansiCyan), caller, colorWrap(":", ansiFaint), entry.Message)
	return []byte(line), nil
}

// JSONLogFormatter renders one JSON record per line.
type JSONLogFormatter struct {
	LoggerName      string
	TimestampFormat string
}

func (f *JSONLogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	tsFmt := f.TimestampFormat
	if tsFmt == "" {
		tsFmt = "2006-01-02 15:04:05.000"
	}
	caller := ""
	if entry.Caller != nil {
		caller = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	rec := struct {
		Time    string                 `json:"time"`
		Level   string                 `json:"level"`
		Name    string                 `json:"name"`
		Caller  string                 `json:"caller,omitempty"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields,omitempty"`
	}{
		Time:    entry.Time.Format(tsFmt),
		Level:   entry.Level.String(),
		Name:    f.LoggerName,
		Caller:  caller,
		Message: entry.Message,
	}
	if len(entry.Data) > 0 {
		rec.Fields = map[string]interface{}(entry.Data)
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func limitRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// EnvDefaultString returns the env value for key or def when unset/empty.
func EnvDefaultString(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvDefaultBool returns the parsed env value for key or def when unset.
func EnvDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, _ := strconv.ParseBool(v)
		return b
	}
	return def
}
