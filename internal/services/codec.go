package services

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// SessionCodec seals game-session state into an opaque token that can
// live in a client-visible cookie. AES-256-CBC with a fresh random IV
// per call, IV prefixed to the ciphertext, base64url on the wire. The
// client must not be able to read the dealer's hole card or the mine
// layout, nor forge a winning state.
type SessionCodec struct {
	block cipher.Block
}

// NewSessionCodec takes explicit 32-byte key material from config; the
// key is never derived from other credentials.
func NewSessionCodec(key []byte) (*SessionCodec, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("session key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init session cipher: %v", err)
	}
	return &SessionCodec{block: block}, nil
}

// Encode marshals v to JSON and encrypts it under a fresh IV.
func (c *SessionCodec) Encode(v any) (string, error) {
	plain, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal session: %v", err)
	}
	plain = pkcs7Pad(plain, aes.BlockSize)

	buf := make([]byte, aes.BlockSize+len(plain))
	iv := buf[:aes.BlockSize]
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("session iv: %v", err)
	}

	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(buf[aes.BlockSize:], plain)
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Decode decrypts a token into v. It fails closed: any malformed input
// (bad base64, truncated ciphertext, bad padding, bad JSON) yields
// false and never panics. False means "no session".
func (c *SessionCodec) Decode(token string, v any) bool {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return false
	}
	if len(raw) < 2*aes.BlockSize || len(raw)%aes.BlockSize != 0 {
		return false
	}

	iv, ct := raw[:aes.BlockSize], raw[aes.BlockSize:]
	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plain, ct)

	plain, ok := pkcs7Unpad(plain, aes.BlockSize)
	if !ok {
		return false
	}
	return json.Unmarshal(plain, v) == nil
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, bool) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, false
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}
