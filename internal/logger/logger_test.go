package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "winterarc.log")
	log, err := New("prod", path)
	if err != nil {
		t.Fatal(err)
	}
	log.With("service", "test").Info("limit exceeded", "app", "TikTok")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"limit exceeded", `"service":"test"`, `"app":"TikTok"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("log missing %s: %s", want, data)
		}
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Debug("ignored")
	log.With("k", "v").Error("ignored")
	log.Sync()
}
