package confbind

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Protection errors.
var (
	ErrInvalidKeySize  = errors.New("invalid key size")
	ErrCiphertextShort = errors.New("ciphertext too short")
	ErrUnprotectFailed = errors.New("unprotect failed")
)

// DefaultEntropy is the fixed fallback entropy used when neither the call
// site nor the field metadata supplies entropy. The value is part of the
// wire contract: data protected with the fallback can only be recovered
// with this exact byte sequence. Callers relying on it forgo the secrecy
// that entropy separation would otherwise add.
var DefaultEntropy = []byte{12, 48, 8, 20}

// Params carries the protection parameters for a single transform:
// opaque entropy bytes and a scope tag.
type Params struct {
	Entropy []byte
	Scope   Scope
}

// DefaultParams returns the fallback parameters: DefaultEntropy with
// machine-local scope.
func DefaultParams() Params {
	return Params{Entropy: DefaultEntropy, Scope: ScopeMachine}
}

// resolveParams computes the effective parameters for one field. Entropy
// and scope resolve independently: explicit call-site value, else field
// metadata, else the defaults.
func resolveParams(explicit, field *Params, def Params) Params {
	out := def

	if field != nil {
		if len(field.Entropy) > 0 {
			out.Entropy = field.Entropy
		}
		if field.Scope != "" {
			out.Scope = field.Scope
		}
	}

	if explicit != nil {
		if len(explicit.Entropy) > 0 {
			out.Entropy = explicit.Entropy
		}
		if explicit.Scope != "" {
			out.Scope = explicit.Scope
		}
	}

	return out
}

// Protector wraps an external cryptographic service. Both operations are
// synchronous and side-effect-free; failures are deterministic and occur
// only on malformed ciphertext or parameter mismatch. The walker never
// touches key material.
type Protector interface {
	// Protect encrypts plaintext under the given parameters.
	Protect(plaintext []byte, params Params) ([]byte, error)

	// Unprotect decrypts ciphertext produced by Protect with matching
	// parameters.
	Unprotect(ciphertext []byte, params Params) ([]byte, error)
}

// localProtector implements AES-GCM protection with per-call key derivation.
type localProtector struct {
	master []byte
}

// Local returns a Protector backed by AES-GCM. The working key is derived
// per call via HKDF-SHA256 from the master key, the effective entropy
// (salt), and the scope tag. Decrypting with mismatched entropy or scope
// fails authentication.
//
// Master key must be 16, 24, or 32 bytes.
func Local(masterKey []byte) (Protector, error) {
	if len(masterKey) != 16 && len(masterKey) != 24 && len(masterKey) != 32 {
		return nil, fmt.Errorf("%w: must be 16, 24, or 32 bytes, got %d", ErrInvalidKeySize, len(masterKey))
	}

	master := make([]byte, len(masterKey))
	copy(master, masterKey)

	return &localProtector{master: master}, nil
}

// aead derives the AEAD for the given parameters.
func (p *localProtector) aead(params Params) (cipher.AEAD, error) {
	kdf := hkdf.New(sha256.New, p.master, params.Entropy, []byte("confbind."+string(params.Scope)))

	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}

func (p *localProtector) Protect(plaintext []byte, params Params) ([]byte, error) {
	gcm, err := p.aead(params)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	// Prepend nonce to ciphertext
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (p *localProtector) Unprotect(ciphertext []byte, params Params) ([]byte, error) {
	gcm, err := p.aead(params)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, ErrCiphertextShort
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnprotectFailed, err)
	}

	return plaintext, nil
}
