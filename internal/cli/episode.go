// episode.go implements the "dfmgen episode" command group.
//
// Episodes are addressed by their 1-based position in the list, as shown
// by "dfmgen episode list". Removing an episode renumbers every later one.
package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/shinji-kodama/dfmgen/internal/controller"
	"github.com/shinji-kodama/dfmgen/internal/field"
	"github.com/shinji-kodama/dfmgen/internal/model"
	"github.com/shinji-kodama/dfmgen/internal/workflow"
)

// episodeFlags holds the detail-editor values. They are strings so that a
// blank value can mean "unset", exactly as in the editor text boxes.
type episodeFlags struct {
	duration            string
	ehminAzimuth        string
	ehminRate           string
	ehmaxRate           string
	overpressureRate    string
	temperatureChange   string
	upliftRate          string
	stressArchingFactor string
}

func (f *episodeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.duration, "duration", "", "Duration in ma (blank: until termination)")
	fs.StringVar(&f.ehminAzimuth, "ehmin-azimuth", "", "Azimuth of minimum horizontal strain, degrees")
	fs.StringVar(&f.ehminRate, "ehmin-rate", "", "Minimum horizontal strain rate per ma (extension is negative)")
	fs.StringVar(&f.ehmaxRate, "ehmax-rate", "", "Maximum horizontal strain rate per ma")
	fs.StringVar(&f.overpressureRate, "overpressure-rate", "", "Fluid overpressure rate")
	fs.StringVar(&f.temperatureChange, "temperature-change", "", "Temperature change rate")
	fs.StringVar(&f.upliftRate, "uplift-rate", "", "Uplift rate")
	fs.StringVar(&f.stressArchingFactor, "stress-arching", "", "Stress arching factor")
}

// apply copies every flag the user set onto ep.
func (f *episodeFlags) apply(fs *pflag.FlagSet, ep *model.DeformationEpisode) int {
	targets := []struct {
		name  string
		value string
		dst   *float64
	}{
		{"duration", f.duration, &ep.Duration},
		{"ehmin-azimuth", f.ehminAzimuth, &ep.EhminAzimuth},
		{"ehmin-rate", f.ehminRate, &ep.EhminRate},
		{"ehmax-rate", f.ehmaxRate, &ep.EhmaxRate},
		{"overpressure-rate", f.overpressureRate, &ep.OverpressureRate},
		{"temperature-change", f.temperatureChange, &ep.TemperatureChange},
		{"uplift-rate", f.upliftRate, &ep.UpliftRate},
		{"stress-arching", f.stressArchingFactor, &ep.StressArchingFactor},
	}
	changed := 0
	for _, t := range targets {
		if fs.Changed(t.name) {
			*t.dst = field.ParseReal(t.value)
			changed++
		}
	}
	return changed
}

// NewEpisodeCommand creates the "episode" cobra command group.
func NewEpisodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "episode",
		Short: "Manage deformation episodes",
		Long: `Add, edit, remove and list the deformation episodes of the package.

Examples:
  dfmgen episode list
  dfmgen episode add --duration 5 --ehmin-rate -0.02
  dfmgen episode edit 2 --duration ""
  dfmgen episode remove 1`,
	}

	cmd.AddCommand(newEpisodeListCommand())
	cmd.AddCommand(newEpisodeAddCommand())
	cmd.AddCommand(newEpisodeEditCommand())
	cmd.AddCommand(newEpisodeRemoveCommand())
	return cmd
}

func newEpisodeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List deformation episodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(sessionOptions{kind: workflow.KindWorkflow, create: true})
			if err != nil {
				return err
			}
			defer s.close()
			return printEpisodeList(cmd.OutOrStdout(), s)
		},
	}
}

func newEpisodeAddCommand() *cobra.Command {
	flags := &episodeFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a deformation episode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(sessionOptions{kind: workflow.KindWorkflow, create: true})
			if err != nil {
				return err
			}
			defer s.close()

			index := s.ctrl.AddEpisode()
			if err := editEpisode(s, index, flags, cmd.Flags()); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}
			return printEpisodeList(cmd.OutOrStdout(), s)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newEpisodeEditCommand() *cobra.Command {
	flags := &episodeFlags{}
	cmd := &cobra.Command{
		Use:   "edit <n>",
		Short: "Edit a deformation episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(sessionOptions{kind: workflow.KindWorkflow, create: true})
			if err != nil {
				return err
			}
			defer s.close()

			index, err := episodeIndex(args[0], s.pkg.EpisodeCount())
			if err != nil {
				return err
			}
			if !s.ctrl.EditEpisode(index) {
				return model.NewCLIError(model.ExitGeneralError, fmt.Sprintf("no episode %s", args[0]))
			}
			if err := s.ctrl.SetSelected(controller.IDEpisodes, index); err != nil {
				return err
			}
			if err := editEpisode(s, index, flags, cmd.Flags()); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}
			return printEpisodeList(cmd.OutOrStdout(), s)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newEpisodeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <n>",
		Short: "Remove a deformation episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(sessionOptions{kind: workflow.KindWorkflow, create: true})
			if err != nil {
				return err
			}
			defer s.close()

			index, err := episodeIndex(args[0], s.pkg.EpisodeCount())
			if err != nil {
				return err
			}
			s.ctrl.RemoveEpisode(index)
			if err := s.save(); err != nil {
				return err
			}
			return printEpisodeList(cmd.OutOrStdout(), s)
		},
	}
}

// editEpisode writes the changed flags through the open detail editor of
// index. Nothing is written when no flag was given.
func editEpisode(s *session, index int, flags *episodeFlags, fs *pflag.FlagSet) error {
	dlg := s.ctrl.Dialogs().Get(index)
	if dlg == nil {
		return fmt.Errorf("episode %d has no open editor", index+1)
	}
	defer dlg.Close()

	ep, err := dlg.Episode()
	if err != nil {
		return err
	}
	if flags.apply(fs, &ep) == 0 {
		return nil
	}
	return dlg.Apply(ep)
}

// episodeIndex converts a 1-based episode number into an index.
func episodeIndex(arg string, count int) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > count {
		return 0, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("invalid episode %q: the package has %d episode(s)", arg, count))
	}
	return n - 1, nil
}

func printEpisodeList(w io.Writer, s *session) error {
	list := s.ctrl.Form().Field(controller.IDEpisodes)
	if IsJSONOutput() {
		out := make([]episodeJSON, 0, len(list.Items))
		for i, label := range list.Items {
			ep := s.pkg.Episode(i)
			out = append(out, episodeJSON{
				Number:              i + 1,
				Label:               label,
				Selected:            i == list.Selected,
				Duration:            realOrNull(ep.Duration),
				EhminAzimuth:        realOrNull(ep.EhminAzimuth),
				EhminRate:           realOrNull(ep.EhminRate),
				EhmaxRate:           realOrNull(ep.EhmaxRate),
				OverpressureRate:    realOrNull(ep.OverpressureRate),
				TemperatureChange:   realOrNull(ep.TemperatureChange),
				UpliftRate:          realOrNull(ep.UpliftRate),
				StressArchingFactor: realOrNull(ep.StressArchingFactor),
			})
		}
		return printJSON(w, map[string]interface{}{"episodes": out})
	}
	printEpisodes(w, list)
	return nil
}

// episodeJSON is the JSON form of one episode. Unset values are null.
type episodeJSON struct {
	Number              int      `json:"number"`
	Label               string   `json:"label"`
	Selected            bool     `json:"selected"`
	Duration            *float64 `json:"duration"`
	EhminAzimuth        *float64 `json:"ehminAzimuth"`
	EhminRate           *float64 `json:"ehminRate"`
	EhmaxRate           *float64 `json:"ehmaxRate"`
	OverpressureRate    *float64 `json:"overpressureRate"`
	TemperatureChange   *float64 `json:"temperatureChange"`
	UpliftRate          *float64 `json:"upliftRate"`
	StressArchingFactor *float64 `json:"stressArchingFactor"`
}

func realOrNull(v float64) *float64 {
	if model.IsUnset(v) {
		return nil
	}
	return &v
}
