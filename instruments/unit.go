// Package instruments holds the declarative property layer shared by all
// drivers: command templates, validators, value maps and the sub-unit
// addressing used by channels and traces.
package instruments

import (
	"strings"

	"github.com/FenHarel95/pymeasure/comm"
)

type subst struct {
	placeholder string
	id          string
}

// Unit is a device or one of its addressable sub-units. All units of a
// device share one Conn; a sub-unit carries the placeholder substitutions
// that address it, outermost first.
type Unit struct {
	conn *comm.Conn
	subs []subst
}

func NewUnit(conn *comm.Conn) *Unit {
	return &Unit{conn: conn}
}

// Child derives a sub-unit that fills {placeholder} with id in every
// command it sends, on top of the parent's own substitutions.
func (u *Unit) Child(placeholder, id string) *Unit {
	subs := make([]subst, len(u.subs), len(u.subs)+1)
	copy(subs, u.subs)
	return &Unit{conn: u.conn, subs: append(subs, subst{placeholder, id})}
}

// Expand substitutes the unit's identifiers into cmd, parent placeholders
// first. Identifiers are inserted verbatim.
func (u *Unit) Expand(cmd string) string {
	for _, s := range u.subs {
		cmd = strings.ReplaceAll(cmd, "{"+s.placeholder+"}", s.id)
	}
	return cmd
}

func (u *Unit) Conn() *comm.Conn { return u.conn }

// Write expands cmd and sends it.
func (u *Unit) Write(cmd string) error {
	return u.conn.WriteLine(u.Expand(cmd))
}

// Ask expands cmd, sends it and reads one response line.
func (u *Unit) Ask(cmd string) (string, error) {
	return u.conn.Ask(u.Expand(cmd))
}
