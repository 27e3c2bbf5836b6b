package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dfmgen/internal/workflow"
)

// NewResetCommand creates the "reset" cobra command.
func NewResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore every argument to its default",
		Long: `Restore every argument, including the deformation episode history, to
its built-in default and save the package.

Examples:
  dfmgen reset
  dfmgen reset --package fieldA.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cmd.OutOrStdout())
		},
	}
}

func runReset(w io.Writer) error {
	s, err := openSession(sessionOptions{kind: workflow.KindWorkflow, create: true})
	if err != nil {
		return err
	}
	defer s.close()

	s.ctrl.ResetDefaults()
	if err := s.save(); err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, map[string]interface{}{"package": s.path, "reset": true})
	}
	fmt.Fprintf(w, "Reset %s to defaults\n", s.path)
	return nil
}
