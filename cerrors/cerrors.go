// Package cerrors enumerates the error taxonomy shared across every
// component of the toolkit. Callers match against these with errors.Is;
// wrapping with fmt.Errorf("...: %w", cerrors.X) is expected at call sites
// that need to attach context.
package cerrors

import "errors"

// Input errors.
var (
	ErrPointerIsNull        = errors.New("cardano: pointer is null")
	ErrInvalidArgument      = errors.New("cardano: invalid argument")
	ErrInsufficientBuffer   = errors.New("cardano: insufficient buffer size")
	ErrOutOfBoundsRead      = errors.New("cardano: out of bounds read")
	ErrOutOfBoundsWrite     = errors.New("cardano: out of bounds write")
)

// Encoding errors.
var (
	ErrInvalidCBOR           = errors.New("cardano: invalid cbor")
	ErrUnexpectedCBORType    = errors.New("cardano: unexpected cbor type")
	ErrInvalidCBORArraySize  = errors.New("cardano: invalid cbor array size")
	ErrTruncatedInput        = errors.New("cardano: truncated input")
	ErrIntegerOutOfRange     = errors.New("cardano: integer out of range")
	ErrLossOfPrecision       = errors.New("cardano: loss of precision")
	ErrContainerMismatch     = errors.New("cardano: container mismatch")
)

// Domain errors.
var (
	ErrInvalidAddress          = errors.New("cardano: invalid address")
	ErrInvalidHashSize         = errors.New("cardano: invalid hash size")
	ErrInvalidKeySize          = errors.New("cardano: invalid key size")
	ErrInvalidDerivationIndex  = errors.New("cardano: invalid derivation index")
	ErrUnknownCertificate      = errors.New("cardano: unknown certificate")
	ErrUnknownGovernanceAction = errors.New("cardano: unknown governance action")
)

// Crypto errors.
var (
	ErrSignatureVerificationFailed = errors.New("cardano: signature verification failed")
	ErrAuthenticationFailed        = errors.New("cardano: authentication failed")
	ErrChecksumMismatch            = errors.New("cardano: checksum mismatch")
)

// Balancer errors.
var (
	ErrBalanceInsufficient   = errors.New("cardano: balance insufficient")
	ErrBalanceUnstable       = errors.New("cardano: balance unstable")
	ErrMinAdaViolation       = errors.New("cardano: min ada violation")
	ErrScriptEvaluationFailed = errors.New("cardano: script evaluation failed")
	ErrBalancingFailed       = errors.New("cardano: balancing failed")
)

// Resource errors.
var (
	ErrMemoryAllocationFailed = errors.New("cardano: memory allocation failed")
	ErrNotImplemented         = errors.New("cardano: not implemented")
)

// Key handler errors.
var (
	ErrKeyNotFound       = errors.New("cardano: no key at the requested derivation path")
	ErrWrongPassphrase   = errors.New("cardano: wrong keystore passphrase")
)
