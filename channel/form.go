// Package channel holds the state and validation of the open-channel form.
package channel

import (
	"encoding/json"
	"errors"
	"math/big"
)

// DefaultSettleTimeout is the settle timeout, in blocks, a new form starts with
const DefaultSettleTimeout int64 = 500

// Validation errors, one per failing field
var (
	ErrOwnAddress    = errors.New("partner address is your own address")
	ErrInvalidAmount = errors.New("must be greater than 0")
	ErrRequired      = errors.New("required")
)

// Field identifies a form field
type Field int

const (
	FieldPartner Field = iota
	FieldToken
	FieldBalance
	FieldSettleTimeout
)

// Fields lists the form fields in display order
var Fields = []Field{FieldPartner, FieldToken, FieldBalance, FieldSettleTimeout}

func (f Field) String() string {
	switch f {
	case FieldPartner:
		return "partner"
	case FieldToken:
		return "token"
	case FieldBalance:
		return "balance"
	case FieldSettleTimeout:
		return "settle timeout"
	}
	return "unknown"
}

// State is the current content of the form
type State struct {
	PartnerAddress string
	TokenAddress   string
	Balance        *big.Int
	SettleTimeout  int64
}

// Result is handed to the caller when the form is accepted
type Result struct {
	TokenAddress   string   `json:"token_address"`
	PartnerAddress string   `json:"partner_address"`
	SettleTimeout  int64    `json:"settle_timeout"`
	Balance        *big.Int `json:"balance"`
}

// JSON returns the indented JSON encoding of the result
func (r Result) JSON() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// ValidatePartner returns a validator rejecting an empty address or one equal
// to own. Comparison is exact: no case folding or checksum normalisation.
func ValidatePartner(own string) func(string) error {
	return func(addr string) error {
		if addr == "" {
			return ErrRequired
		}
		if addr == own {
			return ErrOwnAddress
		}
		return nil
	}
}

// ValidateToken rejects an empty token address
func ValidateToken(addr string) error {
	if addr == "" {
		return ErrRequired
	}
	return nil
}

// ValidateAmount rejects a balance that is not strictly positive. Nil counts as zero.
func ValidateAmount(v *big.Int) error {
	if v == nil || v.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateSettleTimeout rejects a timeout that is not strictly positive
func ValidateSettleTimeout(v int64) error {
	if v <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Form owns the field state for one dialog session
type Form struct {
	own          string
	validatePeer func(string) error
	state        State
}

// NewForm creates a form with default values. own is the address of the
// local node; the partner may not be equal to it.
func NewForm(own string) *Form {
	return &Form{
		own:          own,
		validatePeer: ValidatePartner(own),
		state: State{
			Balance:       big.NewInt(0),
			SettleTimeout: DefaultSettleTimeout,
		},
	}
}

func (f *Form) OwnAddress() string { return f.own }

func (f *Form) SetPartner(addr string) { f.state.PartnerAddress = addr }

func (f *Form) SetToken(addr string) { f.state.TokenAddress = addr }

func (f *Form) SetBalance(v *big.Int) {
	if v == nil {
		f.state.Balance = nil
		return
	}
	f.state.Balance = new(big.Int).Set(v)
}

func (f *Form) SetSettleTimeout(v int64) { f.state.SettleTimeout = v }

// State returns a copy of the current field values
func (f *Form) State() State {
	s := f.state
	if s.Balance != nil {
		s.Balance = new(big.Int).Set(s.Balance)
	}
	return s
}

// Err returns the validation error of a single field, nil if it is valid
func (f *Form) Err(field Field) error {
	switch field {
	case FieldPartner:
		return f.validatePeer(f.state.PartnerAddress)
	case FieldToken:
		return ValidateToken(f.state.TokenAddress)
	case FieldBalance:
		return ValidateAmount(f.state.Balance)
	case FieldSettleTimeout:
		return ValidateSettleTimeout(f.state.SettleTimeout)
	}
	return nil
}

// Errors returns the failing fields and their errors
func (f *Form) Errors() map[Field]error {
	errs := make(map[Field]error)
	for _, field := range Fields {
		if err := f.Err(field); err != nil {
			errs[field] = err
		}
	}
	return errs
}

// Valid reports whether every field passes validation
func (f *Form) Valid() bool {
	return len(f.Errors()) == 0
}

// Accept snapshots the fields into a Result. It does not validate: callers
// must only offer acceptance while Valid reports true.
func (f *Form) Accept() Result {
	s := f.State()
	return Result{
		TokenAddress:   s.TokenAddress,
		PartnerAddress: s.PartnerAddress,
		SettleTimeout:  s.SettleTimeout,
		Balance:        s.Balance,
	}
}
