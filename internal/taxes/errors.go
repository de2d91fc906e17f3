package taxes

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable discriminator of the failure taxonomy. The
// orchestrator is the only place that maps a kind to a transport status
// code; everywhere else kinds exist for diagnostics and branching.
type ErrorKind string

const (
	// KindIncompletePayload covers expected gaps in the tax base (no lines,
	// no address yet), not system faults.
	KindIncompletePayload ErrorKind = "IncompletePayload"

	// KindMissingChannelSlug means the payload carried no channel slug,
	// which is a platform-side contract violation.
	KindMissingChannelSlug ErrorKind = "MissingChannelSlug"

	// KindMissingMetadata means the app was installed but never configured.
	KindMissingMetadata ErrorKind = "MissingMetadata"

	// KindWrongChannel means the webhook fired for a channel this
	// installation does not serve.
	KindWrongChannel ErrorKind = "WrongChannel"

	// KindProviderNotAssigned means no channel-to-provider mapping is
	// configured at all.
	KindProviderNotAssigned ErrorKind = "ProviderNotAssignedToChannel"

	// KindConfigBroken means metadata was present but corrupt: failed
	// decryption, failed decode, or a dangling provider instance reference.
	KindConfigBroken ErrorKind = "ConfigBroken"

	// KindFailedCalculatingTaxes means the provider call itself failed
	// (network, auth, provider-side validation, timeout, open circuit).
	KindFailedCalculatingTaxes ErrorKind = "FailedCalculatingTaxes"

	// KindUnhandled is the terminal bucket for anything the taxonomy did
	// not anticipate. Always captured before responding.
	KindUnhandled ErrorKind = "UnhandledError"
)

// Error is the typed result every internal failure is converted into at the
// boundary of the component that detected it. No raw provider or SDK error
// crosses a package boundary unclassified.
type Error struct {
	Kind  ErrorKind
	msg   string
	cause error
}

// NewError creates an Error of the given kind.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// WrapError creates an Error of the given kind wrapping an underlying cause.
func WrapError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches sentinel errors by identity and any *Error by kind, so
// errors.Is(err, ErrMissingAddress) and errors.Is(err, &Error{Kind: ...})
// both behave as expected through wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == e {
		return true
	}
	return t.msg == "" && t.Kind == e.Kind
}

// KindOf extracts the taxonomy kind from any error. Errors that never
// passed through the taxonomy come back as KindUnhandled, which by
// definition means the taxonomy did not anticipate them.
func KindOf(err error) ErrorKind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnhandled
}

// Sentinel payload-validation errors. Both are IncompletePayload, but the
// orchestrator branches on the exact sentinel: a missing address has a
// defined zero-tax fallback, missing lines does not.
var (
	ErrMissingLines   = NewError(KindIncompletePayload, "no lines found in tax base")
	ErrMissingAddress = NewError(KindIncompletePayload, "no address found in tax base")
)
