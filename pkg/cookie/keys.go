package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const minSecretLen = 32

var b64 = base64.RawURLEncoding

// keyring is one secret expanded into an HMAC key and an AES-256-GCM cipher.
type keyring struct {
	mac  []byte
	aead cipher.AEAD
}

func newKeyring(secret string) (*keyring, bool) {
	if len(secret) < minSecretLen {
		return nil, false
	}
	expand := func(label string) []byte {
		out := make([]byte, 32)
		// hkdf only fails after 255*hash-size bytes.
		_, _ = io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(label)), out)
		return out
	}

	block, err := aes.NewCipher(expand("hostkit/cookie/encrypt"))
	if err != nil {
		return nil, false
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, false
	}
	return &keyring{mac: expand("hostkit/cookie/sign"), aead: aead}, true
}

// sign returns base64(value) "." base64(hmac(name|value)).
func (k *keyring) sign(name, value string) string {
	return b64.EncodeToString([]byte(value)) + "." + b64.EncodeToString(k.sum(name, []byte(value)))
}

func (k *keyring) sum(name string, value []byte) []byte {
	h := hmac.New(sha256.New, k.mac)
	h.Write([]byte(name))
	h.Write([]byte{'|'})
	h.Write(value)
	return h.Sum(nil)
}

// seal returns base64(nonce || ciphertext), with the cookie name as
// additional data.
func (k *keyring) seal(name, value string) (string, error) {
	nonce := make([]byte, k.aead.NonceSize(), k.aead.NonceSize()+len(value)+k.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return b64.EncodeToString(k.aead.Seal(nonce, nonce, []byte(value), []byte(name))), nil
}

func (k *keyring) open(name string, data []byte) ([]byte, bool) {
	ns := k.aead.NonceSize()
	if len(data) < ns {
		return nil, false
	}
	out, err := k.aead.Open(nil, data[:ns], data[ns:], []byte(name))
	return out, err == nil
}

// verify tries every keyring against a signed value.
func verify(keys []*keyring, name, raw string) (string, error) {
	encValue, encSig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrBadSig
	}
	value, err := b64.DecodeString(encValue)
	if err != nil {
		return "", ErrBadSig
	}
	sig, err := b64.DecodeString(encSig)
	if err != nil {
		return "", ErrBadSig
	}
	for _, k := range keys {
		if hmac.Equal(sig, k.sum(name, value)) {
			return string(value), nil
		}
	}
	return "", ErrBadSig
}

// unseal tries every keyring against an encrypted value.
func unseal(keys []*keyring, name, raw string) (string, error) {
	data, err := b64.DecodeString(raw)
	if err != nil {
		return "", ErrDecrypt
	}
	for _, k := range keys {
		if out, ok := k.open(name, data); ok {
			return string(out), nil
		}
	}
	return "", ErrDecrypt
}
