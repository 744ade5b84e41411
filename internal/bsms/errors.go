package bsms

import "fmt"

// ErrorKind classifies why a BSMS protocol operation failed. It lets
// callers branch on failure category without string matching.
type ErrorKind string

const (
	KindInvalidToken          ErrorKind = "invalid_token"
	KindDecryptionFailed      ErrorKind = "decryption_failed"
	KindVersionMismatch       ErrorKind = "version_mismatch"
	KindTokenMismatch         ErrorKind = "token_mismatch"
	KindKeyFormatError        ErrorKind = "key_format_error"
	KindSignatureInvalid      ErrorKind = "signature_invalid"
	KindPathRestrictionInvalid ErrorKind = "path_restriction_invalid"
	KindDescriptorInvalid     ErrorKind = "descriptor_invalid"
	KindSelfMissing           ErrorKind = "self_missing"
	KindDuplicateSelf         ErrorKind = "duplicate_self"
	KindAddressMismatch       ErrorKind = "address_mismatch"
	KindOutOfSpace            ErrorKind = "out_of_space"
	KindBoundsError           ErrorKind = "bounds_error"

	// KindInternal covers failures outside the protocol's own control
	// flow, such as the system random source being unavailable. Not
	// one of the protocol's own failure categories; added because every engine error
	// is a *Error, and a handful of failure sites genuinely have no
	// better category.
	KindInternal ErrorKind = "internal_error"
)

// Error is the single error type raised by the bsms engine. Every
// failure site constructs one of these directly; nothing classifies
// opaque errors after the fact.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bsms: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("bsms: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match against a bare *Error carrying only a Kind,
// so callers can do errors.Is(err, &bsms.Error{Kind: bsms.KindAddressMismatch}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func newInvalidTokenError(msg string) *Error          { return newError(KindInvalidToken, msg, nil) }
func newDecryptionFailedError(err error) *Error       { return newError(KindDecryptionFailed, "envelope did not decrypt to a BSMS-prefixed message", err) }
func newVersionMismatchError(got string) *Error       { return newError(KindVersionMismatch, fmt.Sprintf("unexpected version line %q", got), nil) }
func newTokenMismatchError() *Error                   { return newError(KindTokenMismatch, "token inside payload does not match session token", nil) }
func newKeyFormatError(msg string, err error) *Error  { return newError(KindKeyFormatError, msg, err) }
func newSignatureInvalidError(msg string) *Error      { return newError(KindSignatureInvalid, msg, nil) }
func newPathRestrictionInvalidError(got string) *Error {
	return newError(KindPathRestrictionInvalid, fmt.Sprintf("unexpected path restriction line %q", got), nil)
}
func newDescriptorInvalidError(msg string, err error) *Error { return newError(KindDescriptorInvalid, msg, err) }
func newSelfMissingError() *Error                            { return newError(KindSelfMissing, "no key-origin entry matches this device's master fingerprint", nil) }
func newDuplicateSelfError() *Error                          { return newError(KindDuplicateSelf, "more than one key-origin entry matches this device's master fingerprint", nil) }
func newAddressMismatchError() *Error                        { return newError(KindAddressMismatch, "computed first address does not match the payload's address", nil) }
func newOutOfSpaceError(err error) *Error                    { return newError(KindOutOfSpace, "persistent settings save failed", err) }
func newBoundsError(msg string) *Error                       { return newError(KindBoundsError, msg, nil) }

// Sentinel errors for use with errors.Is by callers that only care
// about the kind, not the message.
var (
	ErrInvalidToken           = &Error{Kind: KindInvalidToken}
	ErrDecryptionFailed       = &Error{Kind: KindDecryptionFailed}
	ErrVersionMismatch        = &Error{Kind: KindVersionMismatch}
	ErrTokenMismatch          = &Error{Kind: KindTokenMismatch}
	ErrKeyFormatError         = &Error{Kind: KindKeyFormatError}
	ErrSignatureInvalid       = &Error{Kind: KindSignatureInvalid}
	ErrPathRestrictionInvalid = &Error{Kind: KindPathRestrictionInvalid}
	ErrDescriptorInvalid      = &Error{Kind: KindDescriptorInvalid}
	ErrSelfMissing            = &Error{Kind: KindSelfMissing}
	ErrDuplicateSelf          = &Error{Kind: KindDuplicateSelf}
	ErrAddressMismatch        = &Error{Kind: KindAddressMismatch}
	ErrOutOfSpace             = &Error{Kind: KindOutOfSpace}
	ErrBoundsError            = &Error{Kind: KindBoundsError}
	ErrInternal               = &Error{Kind: KindInternal}

	// ErrAutoCollectionRejected is the sentinel for an operator
	// declining auto-collection, distinct from auto-collection having
	// been attempted and failed validation. Nothing in this module
	// returns it: the CLI collects signer files without asking first.
	ErrAutoCollectionRejected = &Error{Kind: "auto_collection_rejected"}

	// ErrAutoCollectionAmbiguous signals that more than one candidate
	// file matched a token's filename prefix during auto-collection.
	ErrAutoCollectionAmbiguous = &Error{Kind: "auto_collection_ambiguous"}
)
