package transport

import (
	"fmt"

	"github.com/yourusername/bsms/internal/bsms"
)

// CollectSignerRound1 gathers the N signer round-1 artifacts from the
// transport's directory following the auto-collection rule matching
// session's encryption type. Payloads are returned in the order
// CoordinatorRound2 expects: for EXTENDED, index i's payload is the
// one matching session's i'th token; for STANDARD and NO_ENCRYPTION,
// token is shared or absent so file order does not matter.
func (d *Disk) CollectSignerRound1(session *bsms.CoordinatorSession) ([][]byte, error) {
	switch session.Encryption {
	case bsms.NoEncryption:
		return d.collectNoEncryption(session.N)
	case bsms.StandardEncryption:
		return d.collectStandard(session)
	case bsms.ExtendedEncryption:
		return d.collectExtended(session)
	default:
		return nil, fmt.Errorf("unknown encryption type %q", session.Encryption)
	}
}

func (d *Disk) collectNoEncryption(n int) ([][]byte, error) {
	names, err := d.ListPattern(round1GlobText)
	if err != nil {
		return nil, err
	}
	if len(names) != n {
		return nil, fmt.Errorf("expected exactly %d signer round-1 files, found %d", n, len(names))
	}
	return d.readAll(names)
}

func (d *Disk) collectStandard(session *bsms.CoordinatorSession) ([][]byte, error) {
	names, err := d.ListPattern(round1GlobData)
	if err != nil {
		return nil, err
	}

	token := session.Tokens[0]
	kEnc, err := bsms.DeriveKey(token)
	if err != nil {
		return nil, err
	}

	var survivors [][]byte
	for _, name := range names {
		raw, err := d.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if _, err := bsms.DecryptEnvelope(append([]byte(nil), kEnc...), token, raw); err != nil {
			continue
		}
		survivors = append(survivors, raw)
	}
	bsms.ClearBytes(kEnc)

	if len(survivors) != session.N {
		return nil, fmt.Errorf("expected exactly %d decryptable signer round-1 files, found %d", session.N, len(survivors))
	}
	return survivors, nil
}

func (d *Disk) collectExtended(session *bsms.CoordinatorSession) ([][]byte, error) {
	names, err := d.ListPattern(round1GlobData)
	if err != nil {
		return nil, err
	}

	payloads := make([][]byte, session.N)
	for i, token := range session.Tokens {
		prefix := tokPrefix(token)
		var match string
		count := 0
		for _, name := range names {
			if matchesPrefix(name, prefix) {
				match = name
				count++
			}
		}
		if count == 0 {
			return nil, fmt.Errorf("no signer round-1 file found for token %d (prefix %s)", i, prefix)
		}
		if count > 1 {
			return nil, bsms.ErrAutoCollectionAmbiguous
		}
		raw, err := d.ReadFile(match)
		if err != nil {
			return nil, err
		}
		payloads[i] = raw
	}
	return payloads, nil
}

func (d *Disk) readAll(names []string) ([][]byte, error) {
	out := make([][]byte, len(names))
	for i, name := range names {
		raw, err := d.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}
