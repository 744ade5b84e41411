package cli

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/yourusername/bsms/internal/app"
	"github.com/yourusername/bsms/internal/bsms"
	"github.com/yourusername/bsms/internal/transport"
)

// RunCoordinatorRound1 drives the coordinator's first round end to
// end: prompt for M, N, address format, and encryption type,
// generate tokens, persist the session, write the per-signer token
// files, and display the summary for distribution.
func RunCoordinatorRound1(cfg *app.Config) error {
	n, ok := PromptNumber("Number of signers (N)", 2, 15)
	if !ok {
		return errors.New("cancelled")
	}
	m, ok := PromptNumber("Required signatures (M)", 1, n)
	if !ok {
		return errors.New("cancelled")
	}

	formatChoice, ok := PromptChoice("Address format: (n)ative segwit or (s) nested segwit", "ns")
	if !ok {
		return errors.New("cancelled")
	}
	format := bsms.NativeSegwit
	if formatChoice == 's' {
		format = bsms.NestedSegwit
	}

	encChoice, ok := PromptChoice("Encryption: (n)one, (s)tandard, (e)xtended", "nse")
	if !ok {
		return errors.New("cancelled")
	}
	enc := bsms.NoEncryption
	switch encChoice {
	case 's':
		enc = bsms.StandardEncryption
	case 'e':
		enc = bsms.ExtendedEncryption
	}

	log.Printf("Coordinator round 1 started: %d-of-%d, %s, %s encryption", m, n, format, enc)

	session, err := bsms.CoordinatorRound1(m, n, format, enc)
	if err != nil {
		return err
	}

	store, err := cfg.OpenSettings()
	if err != nil {
		return err
	}
	if err := store.AddCoordinatorSession(*session); err != nil {
		return err
	}

	disk := cfg.Transport()
	for _, token := range session.Tokens {
		name := transport.TokenFilename(token)
		if err := disk.WriteFile(name, []byte(token), 0600); err != nil {
			return err
		}
		log.Printf("Wrote token file %s", name)
	}
	log.Printf("Coordinator round 1 complete: session persisted, %d token file(s) written", len(session.Tokens))

	fmt.Fprint(os.Stdout, bsms.Summarize(session))
	return nil
}

// RunCoordinatorRound2 drives the coordinator's second round end to
// end: collect the N signer round-1 artifacts via the
// transport's auto-collection rule, ingest and verify them, assemble
// the descriptor template and agreement address, and write one
// round-2 artifact per token.
func RunCoordinatorRound2(cfg *app.Config, session *bsms.CoordinatorSession) (*bsms.CoordinatorRound2Result, error) {
	log.Printf("Coordinator round 2 started: collecting %d signer contribution(s)", session.N)

	disk := cfg.Transport()

	payloads, err := disk.CollectSignerRound1(session)
	if err != nil {
		return nil, err
	}
	Progress(0.2)

	svc := cfg.HDKeyService()
	result, err := bsms.CoordinatorRound2(svc, session, payloads)
	if err != nil {
		return nil, err
	}
	Progress(0.6)

	for i, artifact := range result.Artifacts {
		name := transport.CoordinatorRound2Filename(session.Encryption, artifact.Token)
		if err := disk.WriteFile(name, artifact.Data, 0600); err != nil {
			return nil, err
		}
		log.Printf("Wrote round-2 artifact %s", name)
		Progress(0.6 + 0.4*float64(i+1)/float64(len(result.Artifacts)))
	}
	log.Printf("Coordinator round 2 complete: %d artifact(s) written, first address %s", len(result.Artifacts), result.Template.Address)

	fmt.Fprintf(os.Stdout, "descriptor: %s\n", result.Template.Descriptor)
	fmt.Fprintf(os.Stdout, "first address: %s\n", result.Template.Address)
	return result, nil
}
