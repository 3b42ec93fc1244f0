package keys

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"

	"hashnet.dev/sdk/errs"
)

// Dilithium3 signatures are computed over a digest of the canonical bytes
// rather than the bytes themselves; sha3-256 is the scheme the network
// verifies, the other digests exist for external signing services that
// pre-hash with their own algorithm.

const defaultDilithiumHash = "sha3-256"

func digestFor(hashAlg string, message []byte) ([]byte, error) {
	switch hashAlg {
	case "sha256":
		s := sha256.Sum256(message)
		return s[:], nil
	case "sha512":
		s := sha512.Sum512(message)
		return s[:], nil
	case "sha3-256":
		s := sha3.Sum256(message)
		return s[:], nil
	default:
		return nil, errs.New(errs.KindCrypto, fmt.Sprintf("unsupported hash algorithm: %q", hashAlg))
	}
}

// Dilithium3Signer is a local dilithium3 signing identity.
type Dilithium3Signer struct {
	priv    *mode3.PrivateKey
	pub     PublicKey
	hashAlg string
}

// GenerateDilithium3 returns a new dilithium3 signer read from rand.
func GenerateDilithium3(rand io.Reader) (Dilithium3Signer, error) {
	pub, priv, err := mode3.GenerateKey(rand)
	if err != nil {
		return Dilithium3Signer{}, errs.Wrap(errs.KindCrypto, "dilithium3 keygen failed", err)
	}
	return Dilithium3Signer{
		priv:    priv,
		pub:     PublicKey{alg: AlgDilithium3, bytes: pub.Bytes()},
		hashAlg: defaultDilithiumHash,
	}, nil
}

// WithHash returns a copy of the signer that pre-hashes with hashAlg
// (sha256, sha512, or sha3-256).
func (d Dilithium3Signer) WithHash(hashAlg string) Dilithium3Signer {
	d.hashAlg = hashAlg
	return d
}

func (d Dilithium3Signer) PublicKey() PublicKey { return d.pub }

func (d Dilithium3Signer) Sign(message []byte) ([]byte, error) {
	if d.priv == nil {
		return nil, errs.New(errs.KindCrypto, "signing with an uninitialized dilithium3 key")
	}
	digest, err := digestFor(d.hashAlg, message)
	if err != nil {
		return nil, err
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(d.priv, digest, sig)
	return sig, nil
}

// verifyDilithium3 checks a signature over sha3-256(message), the digest the
// network itself verifies.
func verifyDilithium3(pubBytes, message, sig []byte) bool {
	if len(pubBytes) != mode3.PublicKeySize {
		return false
	}
	var packed [mode3.PublicKeySize]byte
	copy(packed[:], pubBytes)
	var pub mode3.PublicKey
	pub.Unpack(&packed)

	digest, err := digestFor(defaultDilithiumHash, message)
	if err != nil {
		return false
	}
	return mode3.Verify(&pub, digest, sig)
}
