package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetOutput_Levels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	Info("imported %d cases", 3)
	Warn("ignoring mapping")
	Error("boom: %v", "x")
	Debug("hidden")

	out := buf.String()
	for _, want := range []string{"[INFO] imported 3 cases", "[WARN] ignoring mapping", "[ERROR] boom: x"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug line written while debug disabled")
	}

	SetDebug(true)
	defer SetDebug(false)
	Debug("visible")
	if !strings.Contains(buf.String(), "[DEBUG] visible") {
		t.Error("debug line missing after SetDebug(true)")
	}
}

func TestInit_FileAndMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "casesheet.log")
	var mirror bytes.Buffer

	if err := Init(path, &mirror); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Info("hello")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] hello") {
		t.Errorf("log file = %q", data)
	}
	if !strings.Contains(mirror.String(), "[INFO] hello") {
		t.Errorf("mirror = %q", mirror.String())
	}
}

func TestNoOutputIsSafe(t *testing.T) {
	SetOutput(nil)
	Info("dropped")
	if GetWriter() == nil {
		t.Error("GetWriter() must never be nil")
	}
}
