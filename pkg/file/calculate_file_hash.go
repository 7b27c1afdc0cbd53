package file

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// CalculateFileHash returns the hex sha256 of the file at filePath.
func CalculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func ValidateFileHash(filePath, expectedHash string) error {
	if expectedHash == "" {
		return nil
	}

	calculatedHash, err := CalculateFileHash(filePath)
	if err != nil {
		return err
	}

	if calculatedHash != expectedHash {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expectedHash, calculatedHash)
	}

	return nil
}
