// set.go implements the "dfmgen set" command.
//
// set edits one or more editors the way a user would in the interactive
// editor, then runs a store pass and saves the package. Editing an editor
// re-runs the rules that depend on it, so for example setting
// calculation.noFractureSets also resets
// calculation.checkAllMicrofractureStressShadows.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dfmgen/internal/controller"
	"github.com/shinji-kodama/dfmgen/internal/editor"
	"github.com/shinji-kodama/dfmgen/internal/model"
	"github.com/shinji-kodama/dfmgen/internal/workflow"
)

// NewSetCommand creates the "set" cobra command.
func NewSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <editor> <value> [<editor> <value>...]",
		Short: "Set editor values and store the package",
		Long: `Set one or more editors and store the argument package.

Values are interpreted by editor kind:
  text, real, int   the text as typed; blank or invalid numbers become unset
  numeric           an integer
  check             true or false
  choice            an item name (case-insensitive) or its index
  reference         grid:<path>, property:<path> or result:<path>;
                    an empty value clears the reference

Examples:
  dfmgen set main.modelName "Field A"
  dfmgen set aperture.method "Barton-Bandis" aperture.jrc 12
  dfmgen set mechanical.youngsMod.source result:/cases/geomech/E
  dfmgen set stress.depthAtDeformation.default ""`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return fmt.Errorf("expected <editor> <value> pairs, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd.OutOrStdout(), args)
		},
	}
	return cmd
}

func runSet(w io.Writer, args []string) error {
	s, err := openSession(sessionOptions{kind: workflow.KindWorkflow, create: true})
	if err != nil {
		return err
	}
	defer s.close()

	for i := 0; i < len(args); i += 2 {
		id, value := editor.ID(args[i]), args[i+1]
		if err := applyEdit(s.ctrl, id, value); err != nil {
			return err
		}
	}

	s.ctrl.Store()
	if err := s.save(); err != nil {
		return err
	}

	if IsJSONOutput() {
		values := make(map[string]string, len(args)/2)
		for i := 0; i < len(args); i += 2 {
			fld := s.ctrl.Form().Field(editor.ID(args[i]))
			values[args[i]] = fieldValue(s.ctrl.Form(), fld)
		}
		return printJSON(w, map[string]interface{}{"package": s.path, "values": values})
	}
	fmt.Fprintf(w, "Updated %d editor(s) in %s\n", len(args)/2, s.path)
	return nil
}

// applyEdit routes a textual value to the controller entry point matching
// the editor kind.
func applyEdit(c *controller.Controller, id editor.ID, value string) error {
	fld := c.Form().Field(id)
	if fld == nil {
		return model.NewCLIError(model.ExitUnknownField, fmt.Sprintf("unknown editor %q (see \"dfmgen show\")", id))
	}

	switch fld.Kind {
	case editor.KindText, editor.KindReal, editor.KindInt:
		return c.SetText(id, value)

	case editor.KindNumeric:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("%s expects an integer", id), err)
		}
		return c.SetValue(id, n)

	case editor.KindCheck:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("%s expects true or false", id), err)
		}
		return c.SetChecked(id, b)

	case editor.KindChoice:
		index, err := choiceIndex(fld.Items, value)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("invalid value for %s", id), err)
		}
		return c.SetSelected(id, index)

	case editor.KindReference:
		ref, err := parseRef(value)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("invalid reference for %s", id), err)
		}
		if err := c.Bind(id, ref); err != nil {
			return model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("cannot set %s to %q", id, value), err)
		}
		return nil

	default:
		return model.NewCLIError(model.ExitGeneralError, fmt.Sprintf("editor %q is a %s and cannot be set", id, fld.Kind))
	}
}

// choiceIndex accepts an item name (case-insensitive) or a 0-based index.
func choiceIndex(items []string, value string) (int, error) {
	v := strings.TrimSpace(value)
	for i, item := range items {
		if strings.EqualFold(item, v) {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < len(items) {
		return n, nil
	}
	return 0, fmt.Errorf("%q is not one of %s", value, strings.Join(quoteAll(items), ", "))
}

func quoteAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strconv.Quote(s)
	}
	return out
}

var errRefPrefix = errors.New("references must start with grid:, property: or result:")

// parseRef turns "grid:<path>", "property:<path>" or "result:<path>" into
// the matching reference type. An empty value means "no reference" and
// yields nil.
func parseRef(value string) (any, error) {
	v := strings.TrimSpace(value)
	switch {
	case v == "":
		return nil, nil
	case strings.HasPrefix(v, refPrefixGrid):
		return refOrNil(model.GridRef(strings.TrimPrefix(v, refPrefixGrid))), nil
	case strings.HasPrefix(v, refPrefixProperty):
		return refOrNil(model.PropertyRef(strings.TrimPrefix(v, refPrefixProperty))), nil
	case strings.HasPrefix(v, refPrefixResult):
		return refOrNil(model.GridResultRef(strings.TrimPrefix(v, refPrefixResult))), nil
	default:
		return nil, errRefPrefix
	}
}

func refOrNil[R interface{ IsNull() bool }](r R) any {
	if r.IsNull() {
		return nil
	}
	return r
}
