package keys

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// KeyStore is a simple local-first store for operator keys.
//
// Features:
// - Supports ed25519 keys only
// - Stores seeds on the local filesystem, one file per named identity
// - No external dependencies
//
// It exists for the CLI and for local development; production deployments are
// expected to use a RemoteSigner against their own key infrastructure.
type KeyStore struct {
	Directory string
}

// DefaultDirectory returns ~/.hashnet/keys.
func DefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".hashnet", "keys"), nil
}

// OpenKeyStore opens (or designates) a key store at directory, falling back
// to the default directory when empty.
func OpenKeyStore(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = DefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

func (ks *KeyStore) keyFilePath(name string) string {
	return filepath.Join(ks.Directory, name+".key")
}

// Init generates and stores a new ed25519 key under name. Refuses to
// overwrite an existing key unless force is set.
func (ks *KeyStore) Init(name string, seedHex string, force bool) (PrivateKey, error) {
	if strings.ContainsAny(name, "/\\") || name == "" {
		return PrivateKey{}, fmt.Errorf("invalid key name %q", name)
	}
	path := ks.keyFilePath(name)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return PrivateKey{}, fmt.Errorf("key %q already exists (use force to overwrite)", name)
		}
	}

	var priv PrivateKey
	var err error
	if seedHex != "" {
		priv, err = PrivateKeyFromSeedHex(seedHex)
	} else {
		priv, err = GenerateEd25519(nil)
	}
	if err != nil {
		return PrivateKey{}, err
	}

	if err := os.MkdirAll(ks.Directory, 0o700); err != nil {
		return PrivateKey{}, err
	}
	if err := os.WriteFile(path, []byte(priv.SeedHex()+"\n"), 0o600); err != nil {
		return PrivateKey{}, err
	}
	return priv, nil
}

// Load reads the ed25519 key stored under name.
func (ks *KeyStore) Load(name string) (PrivateKey, error) {
	b, err := os.ReadFile(ks.keyFilePath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return PrivateKey{}, fmt.Errorf("key %q not found in %s", name, ks.Directory)
		}
		return PrivateKey{}, err
	}
	return PrivateKeyFromSeedHex(strings.TrimSpace(string(b)))
}

// List returns the names of all stored keys, sorted.
func (ks *KeyStore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".key") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".key"))
	}
	sort.Strings(names)
	return names, nil
}
