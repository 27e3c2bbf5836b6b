package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/dfmgen/internal/pkgfile"
)

// NewImportCommand creates the "import" cobra command.
func NewImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.jsonc>",
		Short: "Replace the package with a JSON/JSONC document",
		Long: `Replace the argument package with a JSON document. Comments and
trailing commas are allowed. Values the document omits keep their default;
unknown keys are rejected.

Examples:
  dfmgen import exported.jsonc
  dfmgen import --package fieldA.yaml exported.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.OutOrStdout(), args[0])
		},
	}
}

func runImport(w io.Writer, src string) error {
	imported, err := pkgfile.Import(src)
	if err != nil {
		return err
	}

	path, err := resolvePackagePath(true)
	if err != nil {
		return err
	}
	if err := pkgfile.Save(path, imported); err != nil {
		return err
	}
	logger.Debug("argument package imported", zap.String("from", src), zap.String("to", path))

	if IsJSONOutput() {
		return printJSON(w, map[string]interface{}{
			"package":  path,
			"model":    imported.ModelName,
			"episodes": imported.EpisodeCount(),
		})
	}
	fmt.Fprintf(w, "Imported %s into %s (%d episode(s))\n", src, path, imported.EpisodeCount())
	return nil
}
