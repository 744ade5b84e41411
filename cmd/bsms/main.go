package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"syscall"

	"golang.org/x/term"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"

	"github.com/yourusername/bsms/internal/app"
	"github.com/yourusername/bsms/internal/bsms"
	"github.com/yourusername/bsms/internal/cli"
	"github.com/yourusername/bsms/internal/transport"
)

const Version = "0.1.0"

func main() {
	if cli.DetectMode() == cli.ModeDashboard {
		handleDashboardMode()
		return
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := app.FromEnv()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	resolveTransportDir(cfg)

	switch os.Args[1] {
	case "coordinator-round1":
		if err := cli.RunCoordinatorRound1(cfg); err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
	case "coordinator-round2":
		store, err := cfg.OpenSettings()
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		sessions, err := store.CoordinatorSessions()
		if err != nil || len(sessions) == 0 {
			fmt.Println("no coordinator session on file; run coordinator-round1 first")
			os.Exit(1)
		}
		session := sessions[len(sessions)-1]
		if _, err := cli.RunCoordinatorRound2(cfg, &session); err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
	case "signer-round1":
		root, err := loadRootKey(cfg)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		account, _ := strconv.ParseUint(envOr("BSMS_ACCOUNT", "0"), 10, 32)
		if err := cli.RunSignerRound1(cfg, root, uint32(account)); err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
	case "signer-round2":
		root, err := loadRootKey(cfg)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		store, err := cfg.OpenSettings()
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		sessions, err := store.SignerSessions()
		if err != nil || len(sessions) == 0 {
			fmt.Println("no signer session on file; run signer-round1 first")
			os.Exit(1)
		}
		if _, err := cli.RunSignerRound2(cfg, root, sessions[len(sessions)-1], store); err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("bsms v%s\n", Version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// loadRootKey reads a BIP-39 mnemonic (and optional passphrase) from
// stdin, derives the device's root key, and sets cfg.XFP to that
// root's own fingerprint, the identifier every key-origin string this
// device emits is stamped with.
func loadRootKey(cfg *app.Config) (*hdkeychain.ExtendedKey, error) {
	fmt.Print("Enter mnemonic: ")
	mnemonicBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("failed to read mnemonic: %w", err)
	}

	passphrase := envOr("BSMS_PASSPHRASE", "")
	seed, err := cli.SeedFromMnemonic(string(mnemonicBytes), passphrase)
	if err != nil {
		return nil, err
	}

	svc := cfg.HDKeyService()
	root, err := svc.NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	xfp, err := svc.Fingerprint(root)
	if err != nil {
		return nil, err
	}
	cfg.XFP = xfp
	return root, nil
}

// resolveTransportDir points cfg's round-artifact transport at an
// attached removable disk when BSMS_REMOVABLE_DISK=1 and one can be
// found; settings stay on the local data directory regardless, only
// the round files (the ones meant to physically travel between
// devices) move.
func resolveTransportDir(cfg *app.Config) {
	if envOr("BSMS_REMOVABLE_DISK", "") != "1" {
		return
	}
	disks, err := transport.DetectRemovableDisks()
	if err != nil || len(disks) == 0 {
		fmt.Println("no removable disk found; using the local data directory")
		return
	}
	cfg.TransportDir = disks[0]
	fmt.Printf("using removable disk: %s\n", cfg.TransportDir)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printUsage() {
	fmt.Println("bsms - BIP-129 Bitcoin Secure Multisig Setup")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  bsms coordinator-round1   Start a new coordinator session (M-of-N, format, encryption)")
	fmt.Println("  bsms coordinator-round2   Collect signer contributions and assemble the wallet descriptor")
	fmt.Println("  bsms signer-round1        Contribute this device's key to a coordinator session")
	fmt.Println("  bsms signer-round2        Verify and enrol the assembled wallet descriptor")
	fmt.Println("  bsms version              Show version information")
	fmt.Println("  bsms help                 Show this help message")
}

// handleDashboardMode runs one round non-interactively: all input
// from environment variables, a single JSON response on stdout, logs
// on stderr.
func handleDashboardMode() {
	cli.WriteLog(fmt.Sprintf("bsms v%s - dashboard mode", Version))

	command := os.Getenv("CLI_COMMAND")
	if command == "" {
		writeDashboardError("CLI_COMMAND environment variable not set")
		return
	}

	cfg, err := app.FromEnv()
	if err != nil {
		writeDashboardError(err.Error())
		return
	}

	switch command {
	case "coordinator-round1":
		n, _ := strconv.Atoi(os.Getenv("BSMS_N"))
		m, _ := strconv.Atoi(os.Getenv("BSMS_M"))
		format := bsms.AddressFormat(envOr("BSMS_ADDRESS_FORMAT", string(bsms.NativeSegwit)))
		enc := bsms.EncryptionType(envOr("BSMS_ENCRYPTION", string(bsms.StandardEncryption)))

		session, err := bsms.CoordinatorRound1(m, n, format, enc)
		if err != nil {
			writeDashboardError(err.Error())
			return
		}
		store, err := cfg.OpenSettings()
		if err != nil {
			writeDashboardError(err.Error())
			return
		}
		if err := store.AddCoordinatorSession(*session); err != nil {
			writeDashboardError(err.Error())
			return
		}
		cli.WriteJSON(map[string]interface{}{
			"success": true,
			"tokens":  session.Tokens,
			"summary": bsms.Summarize(session),
		})
	default:
		writeDashboardError(fmt.Sprintf("unknown command: %s", command))
	}
}

func writeDashboardError(msg string) {
	jsonBytes, _ := json.Marshal(map[string]interface{}{"success": false, "error": msg})
	fmt.Println(string(jsonBytes))
	os.Exit(1)
}
