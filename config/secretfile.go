package config

import (
	"fmt"
	"os"
	"strings"
)

// ReadSecretFile returns the trimmed contents of a file holding a single secret, such as a
// private key.
func ReadSecretFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%s: %v", path, err)
	}
	secretBytes, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%s: %v", path, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("%s: file is empty", path)
	}
	return secret, nil
}
