package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/bsms/internal/hdkey"
	"github.com/yourusername/bsms/internal/settings"
	"github.com/yourusername/bsms/internal/transport"
)

// Network selects which Bitcoin network a BSMS device operates against.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

// Config resolves the BSMS CLI's base data directory and network
// selection, and wires the settings store, filesystem transport, and
// HD key service together for cmd/bsms.
type Config struct {
	DataDir string
	Network Network
	XFP     uint32

	// TransportDir, if set, roots the round-artifact transport here
	// instead of DataDir: an attached removable disk, when the
	// operator is physically carrying round files between devices
	// rather than running every role on one machine.
	TransportDir string
}

const (
	envDataDir = "BSMS_DATA_DIR"
	envNetwork = "BSMS_NETWORK"
	settingsFileName = "bsms_settings.json"
)

// FromEnv builds a Config from BSMS_DATA_DIR / BSMS_NETWORK, applying
// sensible defaults when unset: a ".bsms" directory under the user's
// home directory, mainnet.
func FromEnv() (*Config, error) {
	dataDir := os.Getenv(envDataDir)
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve default data directory: %w", err)
		}
		dataDir = filepath.Join(home, ".bsms")
	}

	network := Mainnet
	if os.Getenv(envNetwork) == "testnet" {
		network = Testnet
	}

	return &Config{DataDir: dataDir, Network: network}, nil
}

// SettingsPath returns the path to the settings JSON file under DataDir.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.DataDir, settingsFileName)
}

// OpenSettings loads (or initializes) the settings store at SettingsPath.
func (c *Config) OpenSettings() (*settings.Store, error) {
	return settings.Open(c.SettingsPath())
}

// Transport builds the filesystem transport rooted at TransportDir,
// falling back to DataDir when no removable disk has been selected.
func (c *Config) Transport() *transport.Disk {
	if c.TransportDir != "" {
		return transport.New(c.TransportDir)
	}
	return transport.New(c.DataDir)
}

// HDKeyService builds the HD key service for the configured network.
func (c *Config) HDKeyService() *hdkey.Service {
	if c.Network == Testnet {
		return hdkey.NewTestnetService()
	}
	return hdkey.NewMainnetService()
}
