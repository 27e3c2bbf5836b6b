package editor

import (
	"github.com/shinji-kodama/dfmgen/internal/model"
)

// NameResolver returns the display name and icon of a domain reference.
// It is presentation only; nothing in the synchronization logic depends on
// the returned strings.
type NameResolver interface {
	Resolve(ref any) (name, icon string)
}

// PathNames resolves references by the last element of their path.
type PathNames struct{}

// Resolve implements NameResolver.
func (PathNames) Resolve(ref any) (string, string) {
	switch r := ref.(type) {
	case model.GridRef:
		return r.Name(), "grid"
	case model.PropertyRef:
		return r.Name(), "property"
	case model.GridResultRef:
		return r.Name(), "grid-result"
	default:
		return "", ""
	}
}
