package cli

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"

	"github.com/yourusername/bsms/internal/app"
	"github.com/yourusername/bsms/internal/bsms"
	"github.com/yourusername/bsms/internal/transport"
)

// Coordinator round-2 artifacts arrive as "bsms_cr2*.txt" when the
// session is unencrypted and "bsms_cr2*.dat" when it is.
const (
	coordinatorRound2GlobText = "bsms_cr2*.txt"
	coordinatorRound2GlobData = "bsms_cr2*.dat"
)

// RunSignerRound1 drives the signer's first round: accept a
// token from the coordinator (the all-zero sentinel when there is
// none), derive the requested key, build and sign the round-1
// message, write the outgoing artifact for the coordinator to
// collect, and then persist the signer session.
func RunSignerRound1(cfg *app.Config, root *hdkeychain.ExtendedKey, account uint32) error {
	token := bsms.NormalizeToken(PromptLine("Token (blank for no-token setup)"))
	if token == "" {
		token = bsms.SentinelToken
	}
	if err := bsms.ValidateToken(token); err != nil {
		return err
	}

	hintChoice, ok := PromptChoice("Key type: (u)nknown script, (n)ative segwit, (s) nested segwit", "uns")
	if !ok {
		return errors.New("cancelled")
	}
	hint := bsms.HintUnknown
	switch hintChoice {
	case 'n':
		hint = bsms.HintNative
	case 's':
		hint = bsms.HintNested
	}

	enc := bsms.NoEncryption
	if token != bsms.SentinelToken {
		encChoice, ok := PromptChoice("Encryption: (s)tandard, (e)xtended", "se")
		if !ok {
			return errors.New("cancelled")
		}
		if encChoice == 'e' {
			enc = bsms.ExtendedEncryption
		} else {
			enc = bsms.StandardEncryption
		}
	}

	description := PromptLine("Description (blank for none)")

	log.Printf("Signer round 1 started: account %d, %s key type", account, hint)

	svc := cfg.HDKeyService()
	out, err := bsms.SignerRound1(svc, bsms.Round1Input{
		Token:       token,
		Account:     account,
		Hint:        hint,
		Description: description,
		XFP:         cfg.XFP,
		Root:        root,
		Encryption:  enc,
	})
	if err != nil {
		return err
	}

	disk := cfg.Transport()
	name := transport.SignerRound1Filename(out.Encryption, token)
	if err := disk.WriteFile(name, out.Payload, 0600); err != nil {
		return err
	}
	log.Printf("Wrote signer round-1 artifact %s", name)

	// The session is only recorded once the artifact has actually
	// been emitted; a failed write leaves no trace in settings.
	store, err := cfg.OpenSettings()
	if err != nil {
		return err
	}
	if err := store.AddSignerSession(token); err != nil {
		return err
	}
	log.Printf("Signer round 1 complete: session persisted for fingerprint %s", bsms.FormatXFP(cfg.XFP))

	fmt.Fprintf(os.Stdout, "round 1 complete (fingerprint %s), artifact written for the coordinator\n", bsms.FormatXFP(cfg.XFP))
	return nil
}

// RunSignerRound2 drives the signer's second round: read the
// coordinator's round-2 artifact, verify it end to end against the
// signer's own key, and on success hand the descriptor to the
// wallet-enrolment collaborator before consuming the signer session
// (the session is only removed once the collaborator confirms
// acceptance).
func RunSignerRound2(cfg *app.Config, root *hdkeychain.ExtendedKey, session bsms.SignerSession, enroller bsms.WalletEnroller) (*bsms.Round2Result, error) {
	log.Printf("Signer round 2 started: verifying coordinator descriptor template")

	disk := cfg.Transport()
	names, err := listRound2Candidates(disk, session.Token)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New("no round-2 artifact found")
	}

	svc := cfg.HDKeyService()

	// A corrupted envelope may be retried once at the transport
	// layer: a second candidate file gets one chance before the
	// round is abandoned. The engine itself never retries.
	var result *bsms.Round2Result
	var lastErr error
	for attempt, name := range names {
		payload, err := disk.ReadFile(name)
		if err != nil {
			return nil, err
		}
		result, err = bsms.SignerRound2(svc, session, payload, cfg.XFP, root)
		if err == nil {
			break
		}
		if !errors.Is(err, bsms.ErrDecryptionFailed) || attempt >= 1 {
			return nil, err
		}
		lastErr = err
	}
	if result == nil {
		return nil, lastErr
	}

	name := "bsms_" + result.DescriptorText[len(result.DescriptorText)-4:]
	if err := enroller.Enrol(result.DescriptorText, name, 0); err != nil {
		return nil, err
	}

	store, err := cfg.OpenSettings()
	if err != nil {
		return nil, err
	}
	if err := store.RemoveSignerSession(session.Token); err != nil {
		return nil, err
	}
	log.Printf("Signer round 2 complete: wallet %s enrolled, session consumed", name)

	fmt.Fprintf(os.Stdout, "enrolled descriptor: %s\n", result.DescriptorText)
	fmt.Fprintf(os.Stdout, "address: %s\n", result.Address)
	return result, nil
}

// listRound2Candidates lists the coordinator round-2 artifacts
// matching the session's encryption state, with any file carrying the
// session token's four-character filename prefix ordered first so an
// EXTENDED signer tries its own artifact before a sibling's.
func listRound2Candidates(disk *transport.Disk, token string) ([]string, error) {
	glob := coordinatorRound2GlobData
	if token == bsms.SentinelToken {
		glob = coordinatorRound2GlobText
	}
	names, err := disk.ListPattern(glob)
	if err != nil {
		return nil, err
	}
	if len(token) < 4 {
		return names, nil
	}
	prefix := token[:4]
	ordered := make([]string, 0, len(names))
	var rest []string
	for _, n := range names {
		if strings.Contains(n, prefix) {
			ordered = append(ordered, n)
		} else {
			rest = append(rest, n)
		}
	}
	return append(ordered, rest...), nil
}
