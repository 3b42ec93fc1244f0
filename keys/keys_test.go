package keys

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEd25519SignVerify(t *testing.T) {
	priv, err := GenerateEd25519(nil)
	require.NoError(t, err)

	message := []byte("canonical body bytes")
	sig, err := priv.Sign(message)
	require.NoError(t, err)

	pub := priv.PublicKey()
	require.Equal(t, AlgEd25519, pub.Algorithm())
	require.True(t, pub.Verify(message, sig))
	require.False(t, pub.Verify([]byte("different bytes"), sig))
}

func TestPrivateKeySeedRoundTrip(t *testing.T) {
	priv, err := GenerateEd25519(nil)
	require.NoError(t, err)

	restored, err := PrivateKeyFromSeedHex(priv.SeedHex())
	require.NoError(t, err)
	require.True(t, priv.PublicKey().Equal(restored.PublicKey()))
}

func TestPrivateKeyFromSeedHexFailures(t *testing.T) {
	_, err := PrivateKeyFromSeedHex("zz")
	require.Error(t, err)
	_, err = PrivateKeyFromSeedHex("abcd") // wrong length
	require.Error(t, err)
}

func TestPublicKeyString(t *testing.T) {
	priv, err := GenerateEd25519(nil)
	require.NoError(t, err)
	s := priv.PublicKey().String()
	require.True(t, strings.HasPrefix(s, "ed25519:"), s)
}

func TestRemoteSigner(t *testing.T) {
	priv, err := GenerateEd25519(nil)
	require.NoError(t, err)

	var sawMessage []byte
	remote := NewRemoteSigner(priv.PublicKey(), func(message []byte) ([]byte, error) {
		sawMessage = message
		return priv.Sign(message)
	})

	message := []byte("sign me remotely")
	sig, err := remote.Sign(message)
	require.NoError(t, err)
	require.Equal(t, message, sawMessage)
	require.True(t, remote.PublicKey().Verify(message, sig))
}

func TestDilithium3SignVerify(t *testing.T) {
	signer, err := GenerateDilithium3(nil)
	require.NoError(t, err)

	message := []byte("post-quantum payload")
	sig, err := signer.Sign(message)
	require.NoError(t, err)

	pub := signer.PublicKey()
	require.Equal(t, AlgDilithium3, pub.Algorithm())
	require.True(t, pub.Verify(message, sig))
	require.False(t, pub.Verify([]byte("tampered"), sig))
}

func TestDilithium3UnsupportedHash(t *testing.T) {
	signer, err := GenerateDilithium3(nil)
	require.NoError(t, err)
	_, err = signer.WithHash("md5").Sign([]byte("x"))
	require.Error(t, err)
}

func TestKeyStore(t *testing.T) {
	ks, err := OpenKeyStore(t.TempDir())
	require.NoError(t, err)

	priv, err := ks.Init("operator", "", false)
	require.NoError(t, err)

	loaded, err := ks.Load("operator")
	require.NoError(t, err)
	require.True(t, priv.PublicKey().Equal(loaded.PublicKey()))

	// Refuses to clobber without force.
	_, err = ks.Init("operator", "", false)
	require.Error(t, err)
	_, err = ks.Init("operator", "", true)
	require.NoError(t, err)

	_, err = ks.Init("second", "", false)
	require.NoError(t, err)
	names, err := ks.List()
	require.NoError(t, err)
	require.Equal(t, []string{"operator", "second"}, names)

	_, err = ks.Load("missing")
	require.Error(t, err)
}
