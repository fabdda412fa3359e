package device_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"taskdeck/internal/device"
)

func TestIdentityGeneratesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")

	id, err := device.Identity(path)
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("not a uuid: %q", id)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 0600", perm)
	}
}

func TestIdentityStableAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")

	first, err := device.Identity(path)
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	second, err := device.Identity(path)
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if first != second {
		t.Errorf("identity changed between calls: %q then %q", first, second)
	}
}

func TestIdentityReusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")
	if err := os.WriteFile(path, []byte("existing-id\n"), 0600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	id, err := device.Identity(path)
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if id != "existing-id" {
		t.Errorf("id = %q, want existing-id", id)
	}
}

func TestIdentityRegeneratesWhenFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")
	if err := os.WriteFile(path, []byte("\n"), 0600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	id, err := device.Identity(path)
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if id == "" {
		t.Error("expected a generated identity")
	}
}
