// watch.go implements the "dfmgen watch" command.
//
// watch keeps a controller open on the package file and prints the
// derived editor state every time another process rewrites the file. The
// file watcher runs on the command's own goroutine, so reloads and the
// controller's load passes are serialized.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/dfmgen/internal/controller"
	"github.com/shinji-kodama/dfmgen/internal/pkgfile"
	"github.com/shinji-kodama/dfmgen/internal/workflow"
)

// NewWatchCommand creates the "watch" cobra command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload and report whenever the package file changes",
		Long: `Watch the argument package file and report the reloaded state each
time another process saves it. Stop with Ctrl-C.

Examples:
  dfmgen watch
  dfmgen watch --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd.OutOrStdout())
		},
	}
}

func runWatch(ctx context.Context, w io.Writer) error {
	s, err := openSession(sessionOptions{kind: workflow.KindWorkflow})
	if err != nil {
		return err
	}
	defer s.close()

	watcher, err := pkgfile.NewWatcher(s.path, s.wctx, s.pkg, logger)
	if err != nil {
		return err
	}

	// The controller subscribed first, so its load pass has run by the
	// time this listener reports.
	unsubscribe := s.wctx.Subscribe(workflow.NewToken(), func() {
		if err := printWatchSummary(w, s); err != nil {
			logger.Warn("failed to print reload summary", zap.Error(err))
		}
	})
	defer unsubscribe()

	if !IsJSONOutput() {
		fmt.Fprintf(w, "Watching %s\n", s.path)
	}
	return watcher.Run(ctx)
}

func printWatchSummary(w io.Writer, s *session) error {
	form := s.ctrl.Form()
	model := form.Field(controller.IDModelName).Text
	densityUnit := form.Field(controller.IDInitialDensityDefault).Unit
	episodes := len(form.Field(controller.IDEpisodes).Items)

	if IsJSONOutput() {
		return printJSON(w, map[string]interface{}{
			"event":       "reloaded",
			"model":       model,
			"episodes":    episodes,
			"densityUnit": densityUnit,
		})
	}
	_, err := fmt.Fprintf(w, "Reloaded %q: %d episode(s), density unit %s\n", model, episodes, densityUnit)
	return err
}
