// Package comm provides line-oriented transports for text-command
// instruments and the Conn wrapper the drivers talk through.
package comm

import "io"

// Port is a byte stream to one instrument. Implementations map their
// native read timeout onto ErrTimeout.
type Port interface {
	io.ReadWriter
	io.Closer
	ResetInputBuffer() error
}
