package instruments

import (
	"fmt"
	"strings"

	"github.com/FenHarel95/pymeasure/comm"
)

// ValueMap is the bidirectional association between user-facing values and
// the tokens the instrument speaks on the wire. Construction derives the
// inverse, so every possible device response maps back to exactly one value.
type ValueMap[T comparable] struct {
	wire map[T]string
	user map[string]T
}

// NewValueMap panics on duplicate wire tokens; maps are fixed driver tables
// and an ambiguous one is a programming error.
func NewValueMap[T comparable](m map[T]string) *ValueMap[T] {
	vm := &ValueMap[T]{
		wire: make(map[T]string, len(m)),
		user: make(map[string]T, len(m)),
	}
	for v, token := range m {
		if _, dup := vm.user[token]; dup {
			panic("duplicate wire token " + token)
		}
		vm.wire[v] = token
		vm.user[token] = v
	}
	return vm
}

// Property binds a logical attribute to its query and set commands.
// At least one of Query and Command must be present. Command carries the
// fmt verb for the outgoing value; Query responses are decoded by Values
// (inverse lookup) or Parse, then refined by GetProcess.
type Property[T comparable] struct {
	Name       string
	Query      string
	Command    string
	Validate   Validator[T]
	Parse      func(string) (T, error)
	GetProcess func(T) T
	SetProcess func(T) T
	Values     *ValueMap[T]
}

// Get issues the query and decodes exactly one response line.
func (p Property[T]) Get(u *Unit) (v T, err error) {
	if p.Query == "" {
		return v, &comm.Error{Kind: comm.ErrDecode, Err: fmt.Errorf("%s is not readable", p.Name)}
	}
	line, err := u.Ask(p.Query)
	if err != nil {
		return v, err
	}
	raw := strings.TrimSpace(line)
	if p.Values != nil {
		var ok bool
		if v, ok = p.Values.user[raw]; !ok {
			return v, &comm.Error{Kind: comm.ErrDecode, Received: []byte(raw),
				Err: fmt.Errorf("%s: no value for device response %q", p.Name, raw)}
		}
	} else if v, err = p.Parse(raw); err != nil {
		var zero T
		return zero, &comm.Error{Kind: comm.ErrDecode, Received: []byte(raw), Err: err}
	}
	if p.GetProcess != nil {
		v = p.GetProcess(v)
	}
	return v, nil
}

// Set validates the candidate and writes the set command. A validation
// failure returns before anything reaches the wire.
func (p Property[T]) Set(u *Unit, v T) error {
	if p.Command == "" {
		return &comm.Error{Kind: comm.ErrValidate, Err: fmt.Errorf("%s is not writable", p.Name)}
	}
	if p.Values != nil {
		token, ok := p.Values.wire[v]
		if !ok {
			return &comm.Error{Kind: comm.ErrValidate, Err: fmt.Errorf("%s: value %v has no wire mapping", p.Name, v)}
		}
		return u.Write(fmt.Sprintf(p.Command, token))
	}
	if p.Validate != nil {
		var err error
		if v, err = p.Validate(v); err != nil {
			return err
		}
	}
	if p.SetProcess != nil {
		v = p.SetProcess(v)
	}
	return u.Write(fmt.Sprintf(p.Command, v))
}
