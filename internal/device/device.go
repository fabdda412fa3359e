// Package device manages the per-install device identity.
package device

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Identity returns the device identity stored at path, generating and
// persisting a new one on first use. The identity is stable for the
// life of the install and is sent with login, refresh, and logout calls
// so the backend can scope sessions per device.
func Identity(path string) (string, error) {
	const op = "device.Identity"

	data, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if id != "" {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0600); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}
