package api

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

const (
	oauthStateVersion = "s1"
	oauthStateAAD     = "fasttrack.oauth-state"
	oauthStateSkew    = time.Minute
)

var (
	errOAuthStateInvalid = errors.New("invalid oauth state cookie")
	errOAuthStateExpired = errors.New("oauth state expired")
)

// oauthStateSealer keeps the OAuth state in an AES-GCM sealed cookie together
// with the time it was issued. No server-side storage is needed.
type oauthStateSealer struct {
	aead cipher.AEAD
	ttl  time.Duration
}

func newOAuthStateSealer(secretKey []byte, ttl time.Duration) (*oauthStateSealer, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("oauth state secret key is required")
	}

	key := make([]byte, 32)
	reader := hkdf.New(sha256.New, secretKey, nil, []byte(oauthStateAAD))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive oauth state key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init oauth state cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init oauth state aead: %w", err)
	}
	return &oauthStateSealer{aead: aead, ttl: ttl}, nil
}

// Layout before sealing: 8 byte big-endian unix seconds, then the state.
func (sealer *oauthStateSealer) seal(state string, issuedAt time.Time) (string, error) {
	if state == "" {
		return "", errors.New("oauth state is required")
	}

	plaintext := make([]byte, 8, 8+len(state))
	binary.BigEndian.PutUint64(plaintext, uint64(issuedAt.Unix()))
	plaintext = append(plaintext, state...)

	nonce := make([]byte, sealer.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate oauth state nonce: %w", err)
	}
	sealed := sealer.aead.Seal(nonce, nonce, plaintext, []byte(oauthStateAAD))
	return oauthStateVersion + "." + base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (sealer *oauthStateSealer) open(raw string, now time.Time) (string, error) {
	version, encoded, found := strings.Cut(strings.TrimSpace(raw), ".")
	if !found || version != oauthStateVersion {
		return "", errOAuthStateInvalid
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", errOAuthStateInvalid
	}
	nonceSize := sealer.aead.NonceSize()
	if len(payload) <= nonceSize {
		return "", errOAuthStateInvalid
	}
	plaintext, err := sealer.aead.Open(nil, payload[:nonceSize], payload[nonceSize:], []byte(oauthStateAAD))
	if err != nil || len(plaintext) <= 8 {
		return "", errOAuthStateInvalid
	}

	issuedAt := time.Unix(int64(binary.BigEndian.Uint64(plaintext[:8])), 0)
	if now.Before(issuedAt.Add(-oauthStateSkew)) || now.Sub(issuedAt) > sealer.ttl {
		return "", errOAuthStateExpired
	}
	return string(plaintext[8:]), nil
}
