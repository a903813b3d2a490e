//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package exceptions

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

type errnoEntry struct {
	code        syscall.Errno
	kind        Kind
	message     string
	withContext bool
}

// EWOULDBLOCK aliases EAGAIN and ENOTSUP aliases EOPNOTSUPP on most targets,
// so the table is a list folded into a map instead of a map literal.
var errnoEntries = []errnoEntry{
	{unix.EINTR, KindIO, "Interrupted", false},
	{unix.EACCES, KindIO, "Permission denied", false},
	{unix.EFAULT, KindIO, "Bad address", false},
	{unix.EINVAL, KindInvalidArgument, "Invalid argument", false},
	{unix.EMFILE, KindIO, "Too many open files", false},
	{unix.EAGAIN, KindIO, "Operation would block", false},
	{unix.EWOULDBLOCK, KindIO, "Operation would block", false},
	{unix.EINPROGRESS, KindIO, "Operation now in progress", false},
	{unix.EALREADY, KindIO, "Operation already in progress", false},
	{unix.ENOTSOCK, KindIO, "Socket operation attempted on non-socket", false},
	{unix.EDESTADDRREQ, KindIO, "Destination address required", false},
	{unix.EMSGSIZE, KindIO, "Message too long", false},
	{unix.EPROTOTYPE, KindIO, "Wrong protocol type", false},
	{unix.ENOPROTOOPT, KindIO, "Protocol not available", false},
	{unix.EPROTONOSUPPORT, KindIO, "Protocol not supported", false},
	{unix.ESOCKTNOSUPPORT, KindIO, "Socket type not supported", false},
	{unix.EOPNOTSUPP, KindIO, "Operation not supported", false},
	{unix.ENOTSUP, KindIO, "Operation not supported", false},
	{unix.EPFNOSUPPORT, KindIO, "Protocol family not supported", false},
	{unix.EAFNOSUPPORT, KindIO, "Address family not supported", false},
	{unix.EADDRINUSE, KindAddressInUse, "Address already in use", true},
	{unix.EADDRNOTAVAIL, KindAddressNotAvailable, "Cannot assign requested address", true},
	{unix.ENETDOWN, KindNetworkDown, "Network is down", false},
	{unix.ENETUNREACH, KindNetworkUnreachable, "Network is unreachable", false},
	{unix.ENETRESET, KindIO, "Network dropped connection on reset", false},
	{unix.ECONNABORTED, KindConnectionAborted, "Software caused connection abort", false},
	{unix.ECONNRESET, KindConnectionReset, "Connection reset by peer", false},
	{unix.ENOBUFS, KindIO, "No buffer space available", false},
	{unix.EISCONN, KindIO, "Socket is already connected", false},
	{unix.ENOTCONN, KindIO, "Socket is not connected", false},
	{unix.ESHUTDOWN, KindIO, "Cannot send after socket shutdown", false},
	{unix.ETIMEDOUT, KindTimeout, "Timeout", false},
	{unix.ECONNREFUSED, KindConnectionRefused, "Connection refused", true},
	{unix.EHOSTDOWN, KindHostDown, "Host is down", true},
	{unix.EHOSTUNREACH, KindHostUnreachable, "No route to host", true},
	{unix.EPIPE, KindIO, "Broken pipe", false},
	{unix.EBADF, KindIO, "Bad socket descriptor", false},
}

var errnoTable map[syscall.Errno]errnoEntry

func init() {
	errnoTable = make(map[syscall.Errno]errnoEntry, len(errnoEntries))
	for _, entry := range errnoEntries {
		errnoTable[entry.code] = entry
	}
}

// Classify maps an OS error code to a SocketError. It returns nil for the
// zero code; unknown codes become KindIO carrying the code and context.
func Classify(code syscall.Errno, context string) *SocketError {
	if code == 0 {
		return nil
	}
	entry, loaded := errnoTable[code]
	if !loaded {
		return &SocketError{Kind: KindIO, Code: code, Message: code.Error(), Context: context}
	}
	socketErr := &SocketError{Kind: entry.kind, Code: code, Message: entry.message}
	if entry.withContext {
		socketErr.Context = context
	}
	return socketErr
}

// FromErrno classifies the errno carried by err. Errors that carry no errno
// are wrapped with the context as message.
func FromErrno(err error, context string) error {
	if err == nil {
		return nil
	}
	var code syscall.Errno
	if errors.As(err, &code) {
		if socketErr := Classify(code, context); socketErr != nil {
			return socketErr
		}
		return nil
	}
	if context == "" {
		return err
	}
	return Cause(err, context)
}
