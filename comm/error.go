package comm

import (
	"bytes"
	"errors"
	"fmt"
	"unicode"
)

// ErrTimeout is returned by ports when a read deadline passes with no data.
var ErrTimeout = errors.New("timeout")

type ErrorKind int

const (
	ErrIO ErrorKind = iota
	ErrValidate
	ErrDecode
)

// Error records a failed transaction and the bytes involved in it.
type Error struct {
	Kind     ErrorKind
	Send     []byte
	Received []byte
	Err      error
}

func (e *Error) Error() string {
	ret := e.Err.Error()
	if e.Send != nil {
		ret += fmt.Sprintf(", Send: [% X]%s", e.Send, printable(e.Send))
	}
	if e.Received != nil {
		ret += fmt.Sprintf(", Rcvd: [% X]%s", e.Received, printable(e.Received))
	}
	return ret
}

func (e *Error) Unwrap() error { return e.Err }

func printable(str []byte) []byte {
	return bytes.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, str)
}
