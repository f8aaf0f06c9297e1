package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestInit_SingletonAndLevel(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	log := Init(Options{Level: "warn", Output: &buf})
	Init(Options{Level: "debug", Output: &bytes.Buffer{}})

	log.Info().Msg("dropped")
	l := Get()
	l.Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatal("info entry must be filtered at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("expected warn entry, got %q", out)
	}
}

func TestInit_WritesRotatingFile(t *testing.T) {
	Reset()
	defer Reset()

	path := filepath.Join(t.TempDir(), "clinic.log")
	var console bytes.Buffer
	Init(Options{Output: &console, File: FileOptions{Path: path, MaxSizeMB: 1}})

	l := Get()
	l.Info().Str("exam_id", "42").Msg("examination created")
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "examination created") {
		t.Fatalf("file missing entry: %q", data)
	}
	if !strings.Contains(console.String(), "examination created") {
		t.Fatal("console missing entry")
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}
