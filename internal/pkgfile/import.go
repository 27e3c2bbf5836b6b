package pkgfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/dfmgen/internal/model"
)

// Import reads a package written as JSONC. Comments and trailing commas
// are stripped first. Unknown keys are rejected so a misspelt field is not
// silently ignored.
//
// JSON cannot represent NaN, so values the document omits (or sets to
// null) keep their default. For an episode that is the default episode,
// whose duration runs until termination.
func Import(path string) (*model.ArgumentPackage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.WrapCLIError(
				model.ExitPackageNotFound,
				fmt.Sprintf("package document not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read package document: %w", err)
	}
	return ImportBytes(data, path)
}

// ImportBytes is Import on an in-memory document.
func ImportBytes(data []byte, name string) (*model.ArgumentPackage, error) {
	pkg := model.NewArgumentPackage()
	// Each listed episode is decoded over the default episode; the list
	// replaces the default history.
	pkg.Episodes = nil

	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package document at %s: %w", name, err)
	}
	if pkg.Episodes == nil {
		pkg.Episodes = model.NewArgumentPackage().Episodes
	}

	pkg.Normalize()
	return pkg, nil
}
