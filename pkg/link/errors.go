package link

import "errors"

var (
	// ErrNotConnected indicates no port is open.
	ErrNotConnected = errors.New("not connected")
	// ErrPortUnavailable indicates the port is not in the enumerated list
	// or can't be opened.
	ErrPortUnavailable = errors.New("port unavailable")
	// ErrPortBusy indicates the port is used by another process.
	ErrPortBusy = errors.New("port busy")
	// ErrTransportFault indicates an I/O error, the link is disconnected.
	ErrTransportFault = errors.New("transport fault")
)
