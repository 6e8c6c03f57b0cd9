// Package profile keeps the player's identity between runs.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type file struct {
	PlayerID string `json:"player_id"`
}

// LoadOrCreate returns the player ID stored at path. A missing, unreadable
// or corrupt file is replaced with a freshly generated ID.
func LoadOrCreate(path string) (string, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var f file
		if json.Unmarshal(data, &f) == nil {
			if _, perr := uuid.Parse(f.PlayerID); perr == nil {
				return f.PlayerID, nil
			}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("read profile: %w", err)
	}

	id := uuid.NewString()
	if err := save(path, id); err != nil {
		return id, err
	}
	return id, nil
}

func save(path, id string) error {
	data, err := json.MarshalIndent(file{PlayerID: id}, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create profile dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// ForSSHUser derives a stable player ID from an SSH user name so the same
// login keeps the same wallet.
func ForSSHUser(user string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("ssh://"+user)).String()
}
