// show.go implements the "dfmgen show" command.
//
// show runs a load pass and prints every editor as the interactive editor
// would display it, including derived state: disabled controls and the
// unit of the microfracture density A.
package cli

import (
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

type showFlags struct {
	// prefix restricts output to editors whose ID starts with it.
	prefix string
}

// NewShowCommand creates the "show" cobra command.
func NewShowCommand() *cobra.Command {
	flags := &showFlags{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the argument package editors",
		Long: `Show every editor of the argument package with its value, unit and
enabled state.

Examples:
  dfmgen show
  dfmgen show --section aperture
  dfmgen show --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.prefix, "section", "",
		"Only show editors in this section (main, mechanical, stress, output, aperture, calculation)")

	return cmd
}

func runShow(w io.Writer, flags *showFlags) error {
	s, err := openSession(sessionOptions{kind: workflow.KindWorkflow, create: true})
	if err != nil {
		return err
	}
	defer s.close()

	var fields []*editor.Field
	for _, fld := range s.ctrl.Form().Fields() {
		if flags.prefix == "" || strings.HasPrefix(string(fld.ID), flags.prefix+".") {
			fields = append(fields, fld)
		}
	}

	if IsJSONOutput() {
		return printShowJSON(w, s, fields)
	}
	printShowText(w, s, fields)
	return nil
}

type showFieldJSON struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Label   string   `json:"label"`
	Value   string   `json:"value"`
	Unit    string   `json:"unit,omitempty"`
	Items   []string `json:"items,omitempty"`
	Enabled bool     `json:"enabled"`
}

func printShowJSON(w io.Writer, s *session, fields []*editor.Field) error {
	type resultJSON struct {
		Package         string          `json:"package"`
		Fields          []showFieldJSON `json:"fields"`
		Episodes        []string        `json:"episodes"`
		SelectedEpisode int             `json:"selectedEpisode"`
	}

	result := resultJSON{
		Package:         s.path,
		Fields:          make([]showFieldJSON, 0, len(fields)),
		Episodes:        make([]string, 0, s.pkg.EpisodeCount()),
		SelectedEpisode: s.ctrl.SelectedEpisode(),
	}
	for _, fld := range fields {
		if fld.Kind == editor.KindList {
			continue
		}
		entry := showFieldJSON{
			ID:      string(fld.ID),
			Kind:    fld.Kind.String(),
			Label:   fld.Label,
			Value:   fieldValue(s.ctrl.Form(), fld),
			Unit:    fld.Unit,
			Enabled: fld.Enabled,
		}
		if fld.Kind == editor.KindChoice {
			entry.Items = fld.Items
		}
		result.Fields = append(result.Fields, entry)
	}
	result.Episodes = append(result.Episodes, s.ctrl.Form().Field(controller.IDEpisodes).Items...)

	return printJSON(w, result)
}

// printShowText prints one editor per row:
//
//	EDITOR                          VALUE          UNIT
//	aperture.hMinUniform            0.0005         m
//	aperture.jrc                    10                    (disabled)
func printShowText(w io.Writer, s *session, fields []*editor.Field) {
	fmt.Fprintf(w, "Package: %s\n\n", s.path)
	fmt.Fprintf(w, "%-58s %-24s %s\n", "EDITOR", "VALUE", "UNIT")

	for _, fld := range fields {
		if fld.Kind == editor.KindList {
			continue
		}
		line := fmt.Sprintf("%-58s %-24s %s", fld.ID, fieldValue(s.ctrl.Form(), fld), fld.Unit)
		if !fld.Enabled {
			line += " (disabled)"
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}

	fmt.Fprintln(w)
	printEpisodes(w, s.ctrl.Form().Field(controller.IDEpisodes))
}

// printEpisodes prints the episode list, marking the selection.
func printEpisodes(w io.Writer, list *editor.Field) {
	if len(list.Items) == 0 {
		fmt.Fprintln(w, "No deformation episodes.")
		return
	}
	fmt.Fprintln(w, "Deformation episodes:")
	for i, item := range list.Items {
		marker := " "
		if i == list.Selected {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\n", marker, item)
	}
}

// fieldValue renders an editor's state as text.
func fieldValue(form *editor.Form, fld *editor.Field) string {
	switch fld.Kind {
	case editor.KindNumeric:
		return strconv.Itoa(fld.Value)
	case editor.KindCheck:
		return strconv.FormatBool(fld.Checked)
	case editor.KindChoice:
		if fld.Selected >= 0 && fld.Selected < len(fld.Items) {
			return fld.Items[fld.Selected]
		}
		return "-"
	case editor.KindReference:
		return formatRef(form.Bound(fld.ID))
	case editor.KindGroup:
		if fld.Enabled {
			return "enabled"
		}
		return "disabled"
	case editor.KindList:
		return strconv.Itoa(len(fld.Items))
	default:
		return fld.Text
	}
}

// Reference prefixes accepted by "set" and printed by "show".
const (
	refPrefixGrid     = "grid:"
	refPrefixProperty = "property:"
	refPrefixResult   = "result:"
)

// formatRef renders a bound reference with its kind prefix, or "" when
// nothing is bound.
func formatRef(ref any) string {
	switch r := ref.(type) {
	case model.GridRef:
		return refPrefixGrid + string(r)
	case model.PropertyRef:
		return refPrefixProperty + string(r)
	case model.GridResultRef:
		return refPrefixResult + string(r)
	default:
		return ""
	}
}
