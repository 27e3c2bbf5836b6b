package controller

import (
	"fmt"

	"github.com/shinji-kodama/dfmgen/internal/editor"
)

// WrongKindError is returned when an edit does not fit the editor, such as
// binding a reference to a text box.
type WrongKindError struct {
	ID   editor.ID
	Kind editor.Kind
}

func (e *WrongKindError) Error() string {
	return fmt.Sprintf("editor %q is a %s control", string(e.ID), e.Kind)
}

// RefTypeError is returned when a reference editor is given a reference it
// does not take, such as a grid result on a single-source property.
type RefTypeError struct {
	ID  editor.ID
	Ref any
}

func (e *RefTypeError) Error() string {
	return fmt.Sprintf("editor %q does not take a %T reference", string(e.ID), e.Ref)
}
