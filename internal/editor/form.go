// Package editor holds the presentation-independent state of the settings
// editors: one Field per control, addressed by a stable ID.
//
// A Form does not know how it is rendered. A CLI prints it, a test pokes it
// directly, and a graphical front end would mirror it into widgets. Domain
// references that a control displays (a grid, a property, a grid result)
// are kept in a map on the Form keyed by editor ID rather than inside the
// Field, so the rendering layer never owns domain objects.
package editor

import (
	"fmt"
)

// ID identifies one editor control, for example "mechanical.youngsMod".
type ID string

// Kind describes which part of a Field carries the control's value.
type Kind int

const (
	// KindText is free text, such as the model name.
	KindText Kind = iota
	// KindReal is a text box holding a real number; blank means unset.
	KindReal
	// KindInt is a text box holding an integer; blank means unset.
	KindInt
	// KindNumeric is a spin box. Its value is always a whole number.
	KindNumeric
	// KindCheck is a check box.
	KindCheck
	// KindChoice is a drop-down list with a selected index.
	KindChoice
	// KindList is a list of labels with a selected index.
	KindList
	// KindReference is a drop target showing a bound domain reference.
	KindReference
	// KindGroup is a container whose only state is whether it is enabled.
	KindGroup
)

var kindNames = []string{"text", "real", "int", "numeric", "check", "choice", "list", "reference", "group"}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Field is the state of one control.
type Field struct {
	ID    ID
	Kind  Kind
	Label string

	// Text is the content of text, real and int boxes, and the display
	// name of a bound reference.
	Text string

	// Value is the spin-box value of a numeric control.
	Value int

	Checked bool

	// Items and Selected describe choice and list controls. Selected is -1
	// when nothing is selected.
	Items    []string
	Selected int

	// Unit is the unit label shown next to the control.
	Unit string

	// Icon is the icon name of a bound reference.
	Icon string

	Enabled bool
}

// Form is an ordered collection of fields plus the reference bindings.
type Form struct {
	order  []ID
	fields map[ID]*Field
	refs   map[ID]any
}

// NewForm returns an empty form.
func NewForm() *Form {
	return &Form{
		fields: make(map[ID]*Field),
		refs:   make(map[ID]any),
	}
}

// Add registers a new enabled field and returns it. Adding an ID twice
// returns the existing field unchanged.
func (f *Form) Add(id ID, kind Kind, label string) *Field {
	if fld, ok := f.fields[id]; ok {
		return fld
	}
	fld := &Field{ID: id, Kind: kind, Label: label, Selected: -1, Enabled: true}
	f.fields[id] = fld
	f.order = append(f.order, id)
	return fld
}

// Field returns the field with the given ID, or nil.
func (f *Form) Field(id ID) *Field {
	return f.fields[id]
}

// Fields returns every field in registration order.
func (f *Form) Fields() []*Field {
	out := make([]*Field, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.fields[id])
	}
	return out
}

// lookup returns the field for id or an UnknownFieldError.
func (f *Form) lookup(id ID) (*Field, error) {
	fld, ok := f.fields[id]
	if !ok {
		return nil, &UnknownFieldError{ID: id}
	}
	return fld, nil
}

// SetText replaces the text of a field.
func (f *Form) SetText(id ID, text string) error {
	fld, err := f.lookup(id)
	if err != nil {
		return err
	}
	fld.Text = text
	return nil
}

// SetChecked sets the state of a check box.
func (f *Form) SetChecked(id ID, checked bool) error {
	fld, err := f.lookup(id)
	if err != nil {
		return err
	}
	fld.Checked = checked
	return nil
}

// SetSelected sets the selected index of a choice or list control.
// The index is stored as given; clamping is the reader's job.
func (f *Form) SetSelected(id ID, index int) error {
	fld, err := f.lookup(id)
	if err != nil {
		return err
	}
	fld.Selected = index
	return nil
}

// SetValue sets the value of a numeric control.
func (f *Form) SetValue(id ID, value int) error {
	fld, err := f.lookup(id)
	if err != nil {
		return err
	}
	fld.Value = value
	return nil
}

// SetEnabled enables or disables a field.
func (f *Form) SetEnabled(id ID, enabled bool) error {
	fld, err := f.lookup(id)
	if err != nil {
		return err
	}
	fld.Enabled = enabled
	return nil
}

// SetUnit replaces the unit label of a field.
func (f *Form) SetUnit(id ID, unit string) error {
	fld, err := f.lookup(id)
	if err != nil {
		return err
	}
	fld.Unit = unit
	return nil
}

// Bind associates a domain reference with a reference field and shows its
// display name and icon. A nil ref clears the binding.
func (f *Form) Bind(id ID, ref any, names NameResolver) error {
	fld, err := f.lookup(id)
	if err != nil {
		return err
	}
	if ref == nil {
		delete(f.refs, id)
		fld.Text, fld.Icon = "", ""
		return nil
	}
	f.refs[id] = ref
	if names != nil {
		fld.Text, fld.Icon = names.Resolve(ref)
	}
	return nil
}

// Bound returns the domain reference bound to id, or nil.
func (f *Form) Bound(id ID) any {
	return f.refs[id]
}

// UnknownFieldError is returned when an operation names an editor the form
// does not contain.
type UnknownFieldError struct {
	ID ID
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown editor %q", string(e.ID))
}
