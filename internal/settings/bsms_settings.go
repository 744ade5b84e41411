package settings

import (
	"encoding/json"
	"fmt"

	"github.com/yourusername/bsms/internal/bsms"
)

// bsmsKey is the top-level settings key under which BSMS state
// lives: an object with "s" (signer session tokens) and "c"
// (coordinator session tuples). Unknown sibling keys in the settings
// file are left untouched.
const bsmsKey = "bsms"

// persistedCoordinatorSession is the on-disk tuple form of a
// CoordinatorSession: (M, N, addr_fmt, et, tokens[]).
type persistedCoordinatorSession struct {
	M       int
	N       int
	AddrFmt string
	EncType string
	Tokens  []string
}

// MarshalJSON renders the tuple as a JSON array, matching the
// persisted layout's (M, N, addr_fmt, et, tokens[]) shape rather than
// an object.
func (p persistedCoordinatorSession) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{p.M, p.N, p.AddrFmt, p.EncType, p.Tokens})
}

func (p *persistedCoordinatorSession) UnmarshalJSON(data []byte) error {
	var tuple [5]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("coordinator session tuple must have 5 elements: %w", err)
	}
	if err := json.Unmarshal(tuple[0], &p.M); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[1], &p.N); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[2], &p.AddrFmt); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[3], &p.EncType); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[4], &p.Tokens); err != nil {
		return err
	}
	return nil
}

func toPersisted(s bsms.CoordinatorSession) persistedCoordinatorSession {
	return persistedCoordinatorSession{
		M:       s.M,
		N:       s.N,
		AddrFmt: string(s.AddressFormat),
		EncType: string(s.Encryption),
		Tokens:  s.Tokens,
	}
}

func fromPersisted(p persistedCoordinatorSession) bsms.CoordinatorSession {
	return bsms.CoordinatorSession{
		M:             p.M,
		N:             p.N,
		AddressFormat: bsms.AddressFormat(p.AddrFmt),
		Encryption:    bsms.EncryptionType(p.EncType),
		Tokens:        p.Tokens,
	}
}

// bsmsData is the "bsms" settings object's in-memory shape.
type bsmsData struct {
	SignerTokens []string                      `json:"s"`
	Coordinators []persistedCoordinatorSession `json:"c"`
}

func (s *Store) loadBSMS() (*bsmsData, bool, error) {
	raw, ok := s.Get(bsmsKey)
	if !ok {
		return &bsmsData{}, false, nil
	}
	var d bsmsData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, false, fmt.Errorf("failed to parse \"bsms\" settings object: %w", err)
	}
	return &d, true, nil
}

// SignerSessions returns every persisted SignerSession token.
func (s *Store) SignerSessions() ([]bsms.SignerSession, error) {
	d, _, err := s.loadBSMS()
	if err != nil {
		return nil, err
	}
	out := make([]bsms.SignerSession, len(d.SignerTokens))
	for i, t := range d.SignerTokens {
		out[i] = bsms.SignerSession{Token: t}
	}
	return out, nil
}

// CoordinatorSessions returns every persisted CoordinatorSession.
func (s *Store) CoordinatorSessions() ([]bsms.CoordinatorSession, error) {
	d, _, err := s.loadBSMS()
	if err != nil {
		return nil, err
	}
	out := make([]bsms.CoordinatorSession, len(d.Coordinators))
	for i, c := range d.Coordinators {
		out[i] = fromPersisted(c)
	}
	return out, nil
}

// AddSignerSession appends token to the signer session list and
// saves transactionally. A signer session is created at signer
// round-1 after successful self-contribution emission.
func (s *Store) AddSignerSession(token string) error {
	d, _, err := s.loadBSMS()
	if err != nil {
		return err
	}
	d.SignerTokens = append(d.SignerTokens, token)
	return s.saveBSMS(d)
}

// RemoveSignerSession removes token from the signer session list and
// saves transactionally. A signer session is consumed at signer
// round-2 once the wallet-enrolment collaborator confirms acceptance.
func (s *Store) RemoveSignerSession(token string) error {
	d, _, err := s.loadBSMS()
	if err != nil {
		return err
	}
	filtered := d.SignerTokens[:0]
	for _, t := range d.SignerTokens {
		if t != token {
			filtered = append(filtered, t)
		}
	}
	d.SignerTokens = filtered
	return s.saveBSMS(d)
}

// AddCoordinatorSession appends session to the coordinator session
// list and saves transactionally. A coordinator session is created at
// coordinator round-1 and persists across round-2 (it is not removed).
func (s *Store) AddCoordinatorSession(session bsms.CoordinatorSession) error {
	if err := session.Validate(); err != nil {
		return err
	}
	d, _, err := s.loadBSMS()
	if err != nil {
		return err
	}
	d.Coordinators = append(d.Coordinators, toPersisted(session))
	return s.saveBSMS(d)
}

// saveBSMS writes d back under the "bsms" key using the
// transactional write-back discipline, surfacing an OutOfSpace
// *bsms.Error on failure regardless of whether the retry succeeded.
func (s *Store) saveBSMS(d *bsmsData) error {
	if err := s.SaveKeyTransactional(bsmsKey, d); err != nil {
		return &bsms.Error{Kind: bsms.KindOutOfSpace, Msg: "failed to persist BSMS settings", Err: err}
	}
	return nil
}
