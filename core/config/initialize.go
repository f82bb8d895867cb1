package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"log"
	"os"
	"path/filepath"
)

// Initialize writes a fresh configuration into dir: the default config.yaml
// and a generated SSH host key. Files that already exist are kept, so it's
// safe to run over a populated directory. The resulting configuration is
// loaded and returned.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	switch _, err := os.Stat(configPath); {
	case os.IsNotExist(err):
		if err := os.WriteFile(configPath, defaultConfigData, 0644); err != nil {
			return nil, err
		}
		logger.Printf("Created %s", ConfigurationName)
	case err != nil:
		return nil, err
	default:
		logger.Printf("Found existing %s, skipping", ConfigurationName)
	}

	keyPath := filepath.Join(dir, PrivateKeyName)
	switch _, err := os.Stat(keyPath); {
	case os.IsNotExist(err):
		logger.Printf("Generating %s, this may take a moment", PrivateKeyName)
		keyPem, err := generateHostKey()
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(keyPath, keyPem, 0600); err != nil {
			return nil, err
		}
		logger.Printf("Created %s", PrivateKeyName)
	case err != nil:
		return nil, err
	default:
		logger.Printf("Found existing %s, skipping", PrivateKeyName)
	}

	return Load(dir)
}

// generateHostKey creates a PEM encoded RSA key for the SSH server.
func generateHostKey() ([]byte, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), nil
}
