package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestLoadOrCreateCreatesAndReuses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "player_id.json")

	first, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("id %q is not a uuid: %v", first, err)
	}

	second, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("second LoadOrCreate: %v", err)
	}
	if second != first {
		t.Fatalf("id changed between runs: %q -> %q", first, second)
	}
}

func TestLoadOrCreateReadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player_id.json")
	const id = "6f1c2a9e-8d7b-4f55-9b1e-3f2f8a0c9d11"
	if err := os.WriteFile(path, []byte(`{"player_id": "`+id+`"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadOrCreate(path)
	if err != nil || got != id {
		t.Fatalf("got %q, %v; want %q", got, err, id)
	}
}

func TestLoadOrCreateReplacesCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player_id.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	again, _ := LoadOrCreate(path)
	if got != again {
		t.Fatalf("replacement id was not saved: %q vs %q", got, again)
	}
}

func TestForSSHUser(t *testing.T) {
	a := ForSSHUser("alice")
	if a != ForSSHUser("alice") {
		t.Fatal("ForSSHUser is not deterministic")
	}
	if a == ForSSHUser("bob") {
		t.Fatal("different users share an id")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("not a uuid: %v", err)
	}
}
