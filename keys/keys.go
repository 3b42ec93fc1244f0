// Package keys provides the signing identities used to authorize operations.
//
// Two kinds of identity are supported: local keys (ed25519 for the network's
// standard scheme, dilithium3 for deployments that require a post-quantum
// scheme) and remote signers bound to a known public key. Both sit behind the
// Signer interface; the transaction layer never sees the difference.
package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"hashnet.dev/sdk/errs"
)

// Algorithm names a signature scheme accepted by the network.
type Algorithm string

const (
	AlgEd25519    Algorithm = "ed25519"
	AlgDilithium3 Algorithm = "dilithium3"
)

// PublicKey is an algorithm-tagged public key.
type PublicKey struct {
	alg   Algorithm
	bytes []byte
}

func Ed25519PublicKey(pub ed25519.PublicKey) (PublicKey, error) {
	if l := len(pub); l != ed25519.PublicKeySize {
		return PublicKey{}, errs.New(errs.KindCrypto,
			fmt.Sprintf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, l))
	}
	return PublicKey{alg: AlgEd25519, bytes: append([]byte(nil), pub...)}, nil
}

func (p PublicKey) Algorithm() Algorithm { return p.alg }

// Bytes returns a copy of the raw key material.
func (p PublicKey) Bytes() []byte { return append([]byte(nil), p.bytes...) }

// String encodes the key as "<algorithm>:<base64>".
func (p PublicKey) String() string {
	return string(p.alg) + ":" + base64.StdEncoding.EncodeToString(p.bytes)
}

// Equal reports whether two public keys are the same key under the same
// algorithm.
func (p PublicKey) Equal(other PublicKey) bool {
	if p.alg != other.alg || len(p.bytes) != len(other.bytes) {
		return false
	}
	for i := range p.bytes {
		if p.bytes[i] != other.bytes[i] {
			return false
		}
	}
	return true
}

// Verify checks sig over message for this key's algorithm.
func (p PublicKey) Verify(message, sig []byte) bool {
	switch p.alg {
	case AlgEd25519:
		if len(p.bytes) != ed25519.PublicKeySize {
			return false
		}
		return ed25519.Verify(ed25519.PublicKey(p.bytes), message, sig)
	case AlgDilithium3:
		return verifyDilithium3(p.bytes, message, sig)
	default:
		return false
	}
}

// Signer produces signatures bound to a declared public key.
//
// Sign may suspend (a remote signer performs a network round-trip); it is
// invoked only during freeze/sign, never inside the dispatch retry loop.
type Signer interface {
	PublicKey() PublicKey
	Sign(message []byte) ([]byte, error)
}

// PrivateKey is a local ed25519 signing identity.
type PrivateKey struct {
	k ed25519.PrivateKey
}

// GenerateEd25519 returns a new ed25519 private key read from rand.
func GenerateEd25519(rand io.Reader) (PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return PrivateKey{}, errs.Wrap(errs.KindCrypto, "ed25519 keygen failed", err)
	}
	return PrivateKey{k: priv}, nil
}

// PrivateKeyFromSeedHex decodes a 64-hex-digit ed25519 seed.
func PrivateKeyFromSeedHex(s string) (PrivateKey, error) {
	seed, err := hex.DecodeString(s)
	if err != nil {
		return PrivateKey{}, errs.Wrap(errs.KindCrypto, "malformed key seed hex", err)
	}
	if len(seed) != ed25519.SeedSize {
		return PrivateKey{}, errs.New(errs.KindCrypto,
			fmt.Sprintf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(seed)))
	}
	return PrivateKey{k: ed25519.NewKeyFromSeed(seed)}, nil
}

// SeedHex returns the hex-encoded 32-byte seed.
func (p PrivateKey) SeedHex() string {
	return hex.EncodeToString(p.k.Seed())
}

func (p PrivateKey) PublicKey() PublicKey {
	pub, _ := Ed25519PublicKey(p.k.Public().(ed25519.PublicKey))
	return pub
}

func (p PrivateKey) Sign(message []byte) ([]byte, error) {
	if len(p.k) != ed25519.PrivateKeySize {
		return nil, errs.New(errs.KindCrypto, "signing with an uninitialized private key")
	}
	return ed25519.Sign(p.k, message), nil
}

// RemoteSigner adapts an external signing callback bound to a known public
// key. The callback receives the exact canonical bytes to sign.
type RemoteSigner struct {
	pub  PublicKey
	sign func(message []byte) ([]byte, error)
}

func NewRemoteSigner(pub PublicKey, sign func(message []byte) ([]byte, error)) RemoteSigner {
	return RemoteSigner{pub: pub, sign: sign}
}

func (r RemoteSigner) PublicKey() PublicKey { return r.pub }

func (r RemoteSigner) Sign(message []byte) ([]byte, error) {
	sig, err := r.sign(message)
	if err != nil {
		return nil, errs.Wrap(errs.KindCrypto, "remote signer failed", err)
	}
	return sig, nil
}
