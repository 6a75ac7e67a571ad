// Package security provides the symmetric vault that seals account passwords
// and proxy credentials for storage at rest.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/reelpilot/autopost/internal/domain"
)

// AESVault seals secrets with AES-256-CBC. The wire format is
// hex(iv):hex(ciphertext); a fresh random IV per Seal call means the same
// plaintext never seals to the same output twice. Error values never carry
// key or plaintext material.
type AESVault struct {
	key []byte
}

// NewAESVault parses the hex-encoded 256-bit key. Anything other than 64 hex
// characters is rejected up front so a misconfigured deployment fails at
// startup, not on the first credential write.
func NewAESVault(hexKey string) (*AESVault, error) {
	if len(hexKey) != 64 {
		return nil, fmt.Errorf("%w: expected 64 hex characters", domain.ErrInvalidKey)
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid hex", domain.ErrInvalidKey)
	}
	return &AESVault{key: key}, nil
}

// Seal encrypts plaintext into the iv:ciphertext wire format.
func (v *AESVault) Seal(plaintext string) (string, error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", fmt.Errorf("%w: cipher init", domain.ErrInvalidKey)
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("sealing secret: %w", err)
	}
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(out), nil
}

// Unseal reverses Seal. Malformed input and wrong-key decrypts surface as
// distinct sentinels so callers can tell data corruption from key rotation
// mistakes.
func (v *AESVault) Unseal(sealed string) (string, error) {
	parts := strings.Split(sealed, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: expected iv:ciphertext", domain.ErrMalformedCiphertext)
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return "", fmt.Errorf("%w: bad iv", domain.ErrMalformedCiphertext)
	}
	ct, err := hex.DecodeString(parts[1])
	if err != nil || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: bad ciphertext", domain.ErrMalformedCiphertext)
	}
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", fmt.Errorf("%w: cipher init", domain.ErrInvalidKey)
	}
	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ct)
	plain, ok := pkcs7Unpad(out, aes.BlockSize)
	if !ok {
		return "", domain.ErrDecryptionFailed
	}
	return string(plain), nil
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, bool) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, false
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}
