package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomSuffix — случайный hex-суффикс для имён файлов (nBytes*2 символов).
func RandomSuffix(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 4
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
