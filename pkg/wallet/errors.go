package wallet

import (
	"context"
	"net"

	"github.com/pkg/errors"
)

// ErrorKind is the closed set of failure categories a wallet interaction
// can surface. Callers branch on the kind by value; no error message
// inspection is ever required.
type ErrorKind int

const (
	ErrorKindUnknown ErrorKind = iota
	// ErrorKindCancelled indicates the user dismissed the interaction.
	ErrorKindCancelled
	// ErrorKindInsufficientFunds indicates the wallet lacks the lamports to
	// cover the requested operation.
	ErrorKindInsufficientFunds
	// ErrorKindRejected indicates the wallet refused the interaction, for
	// example a declined signature prompt.
	ErrorKindRejected
	// ErrorKindNetwork indicates a transport failure between the wallet and
	// the cluster.
	ErrorKindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindCancelled:
		return "cancelled"
	case ErrorKindInsufficientFunds:
		return "insufficient funds"
	case ErrorKindRejected:
		return "rejected"
	case ErrorKindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error couples an ErrorKind with its cause. Connectors construct these at
// the point of failure, where the category is known precisely.
type Error struct {
	Kind  ErrorKind
	cause error
}

func NewError(kind ErrorKind, cause error) *Error {
	return &Error{
		Kind:  kind,
		cause: cause,
	}
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Classify maps an error to its ErrorKind. Wallet errors carry their kind
// directly; context cancellation and transport failures are recognized by
// type. Anything else is ErrorKindUnknown.
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrorKindUnknown
	}

	var walletErr *Error
	if errors.As(err, &walletErr) {
		return walletErr.Kind
	}

	if errors.Is(err, context.Canceled) {
		return ErrorKindCancelled
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindNetwork
	}

	return ErrorKindUnknown
}
