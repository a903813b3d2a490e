package exceptions

import (
	"errors"
	"strconv"
	"syscall"
)

// Kind is the class of a socket failure. A Kind is itself an error, so
// errors.Is(err, KindTimeout) matches any SocketError of that kind.
type Kind uint8

const (
	KindIO Kind = iota
	KindInvalidSocket
	KindTimeout
	KindConnectionRefused
	KindConnectionReset
	KindConnectionAborted
	KindInvalidArgument
	KindNotImplemented
	KindNetworkUnreachable
	KindHostUnreachable
	KindHostDown
	KindNetworkDown
	KindAddressInUse
	KindAddressNotAvailable
)

var kindNames = [...]string{
	KindIO:                  "I/O error",
	KindInvalidSocket:       "invalid socket",
	KindTimeout:             "timeout",
	KindConnectionRefused:   "connection refused",
	KindConnectionReset:     "connection reset by peer",
	KindConnectionAborted:   "software caused connection abort",
	KindInvalidArgument:     "invalid argument",
	KindNotImplemented:      "not implemented",
	KindNetworkUnreachable:  "network is unreachable",
	KindHostUnreachable:     "no route to host",
	KindHostDown:            "host is down",
	KindNetworkDown:         "network is down",
	KindAddressInUse:        "address already in use",
	KindAddressNotAvailable: "cannot assign requested address",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind " + strconv.Itoa(int(k))
}

func (k Kind) Error() string {
	return k.String()
}

// SocketError is the error raised by socket and poll operations.
type SocketError struct {
	Kind    Kind
	Code    syscall.Errno
	Message string
	Context string
}

func NewSocketError(kind Kind, message string, context string) *SocketError {
	return &SocketError{Kind: kind, Message: message, Context: context}
}

func (e *SocketError) Error() string {
	message := e.Message
	if message == "" {
		message = e.Kind.String()
	}
	if e.Context != "" {
		message += ": " + e.Context
	}
	if e.Code != 0 {
		message += " (errno " + strconv.Itoa(int(e.Code)) + ")"
	}
	return message
}

func (e *SocketError) Unwrap() error {
	if e.Code == 0 {
		return nil
	}
	return e.Code
}

func (e *SocketError) Is(target error) bool {
	kind, isKind := target.(Kind)
	return isKind && kind == e.Kind
}

func (e *SocketError) Timeout() bool {
	return e.Kind == KindTimeout
}

func (e *SocketError) Temporary() bool {
	return e.Kind == KindTimeout
}

// KindOf returns the kind of the first SocketError in err's chain.
func KindOf(err error) (Kind, bool) {
	var socketErr *SocketError
	if errors.As(err, &socketErr) {
		return socketErr.Kind, true
	}
	return KindIO, false
}

func IsKind(err error, kinds ...Kind) bool {
	kind, loaded := KindOf(err)
	if !loaded {
		return false
	}
	for _, target := range kinds {
		if kind == target {
			return true
		}
	}
	return false
}

// IsRecoverable reports whether err is a timeout or a dropped connection.
func IsRecoverable(err error) bool {
	return IsKind(err, KindTimeout, KindConnectionReset, KindConnectionAborted)
}
