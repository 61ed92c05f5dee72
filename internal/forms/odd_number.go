// Package forms binds and validates submitted form data.
package forms

import (
	"errors"
	"math/big"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error messages shown next to the field.
const (
	MsgRequired    = "This field is required."
	MsgWholeNumber = "Enter a whole number."
	MsgNotOdd      = "That number is not odd!"
)

// NumberField is the form field name used by the CSRF demo.
const NumberField = "number"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("wholenumber", func(fl validator.FieldLevel) bool {
		_, err := ParseWholeNumber(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("odd", func(fl validator.FieldLevel) bool {
		n, err := ParseWholeNumber(fl.Field().String())
		return err == nil && IsOdd(n)
	}); err != nil {
		panic(err)
	}
	return v
}

var messages = map[string]string{
	"required":    MsgRequired,
	"wholenumber": MsgWholeNumber,
	"odd":         MsgNotOdd,
}

// trailing ".000" and whitespace are accepted on integers, e.g. "7.0"
var decimalSuffix = regexp.MustCompile(`\.0*\s*$`)

// ErrNotWholeNumber is returned by ParseWholeNumber.
var ErrNotWholeNumber = errors.New("not a whole number")

// ParseWholeNumber parses an integer field value of any size. Surrounding
// whitespace and an all-zero fractional part are ignored.
func ParseWholeNumber(raw string) (*big.Int, error) {
	s := decimalSuffix.ReplaceAllString(strings.TrimSpace(raw), "")
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, ErrNotWholeNumber
	}
	return n, nil
}

// IsOdd reports whether n is odd, negative numbers included.
func IsOdd(n *big.Int) bool {
	return n.Bit(0) == 1
}

type oddNumberFields struct {
	Number string `validate:"required,wholenumber,odd"`
}

// OddNumberForm accepts a single odd integer.
type OddNumberForm struct {
	bound  bool
	value  string
	number *big.Int
	errors map[string][]string
}

// NewOddNumberForm binds data to the form. A nil data gives an unbound form,
// as rendered on the first GET.
func NewOddNumberForm(data url.Values) *OddNumberForm {
	f := &OddNumberForm{bound: data != nil}
	if data != nil {
		f.value = data.Get(NumberField)
	}
	return f
}

// IsBound reports whether data was submitted.
func (f *OddNumberForm) IsBound() bool { return f.bound }

// IsValid runs validation once and reports the result. Unbound forms are
// never valid.
func (f *OddNumberForm) IsValid() bool {
	if !f.bound {
		return false
	}
	if f.errors == nil {
		f.clean()
	}
	return len(f.errors) == 0
}

// Number returns the cleaned value; ok is false unless the form is valid.
func (f *OddNumberForm) Number() (n *big.Int, ok bool) {
	if !f.IsValid() {
		return nil, false
	}
	return f.number, true
}

// Errors returns field errors keyed by field name.
func (f *OddNumberForm) Errors() map[string][]string {
	f.IsValid()
	return f.errors
}

func (f *OddNumberForm) clean() {
	f.errors = map[string][]string{}

	fields := oddNumberFields{Number: strings.TrimSpace(f.value)}
	err := validate.Struct(fields)
	if err == nil {
		f.number, _ = ParseWholeNumber(fields.Number)
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		f.errors[NumberField] = append(f.errors[NumberField], err.Error())
		return
	}
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		f.errors[NumberField] = append(f.errors[NumberField], msg)
	}
}

// Bindings exposes the form to templates.
func (f *OddNumberForm) Bindings() map[string]any {
	valid := f.IsValid()
	errs := []string{}
	if f.bound {
		errs = append(errs, f.errors[NumberField]...)
	}
	return map[string]any{
		"is_bound": f.bound,
		"is_valid": valid,
		"value":    f.value,
		"errors":   errs,
	}
}
