// Package pkgfile persists argument packages for the dfmgen host.
//
// The settings core keeps an ArgumentPackage in memory and never touches
// the disk; this package is the host side of persistence:
//
//   - Load and Save a package as YAML (gopkg.in/yaml.v3). NaN, the unset
//     sentinel for reals, round-trips as ".nan".
//   - Serialize writers and readers of the same file across processes with
//     an adjacent lock file (github.com/gofrs/flock).
//   - Import a package from JSONC (JSON with Comments) via
//     github.com/tidwall/jsonc. JSON has no NaN, so a JSON document is
//     overlaid onto the defaults and omitted values keep their default.
//   - Locate the package file in the standard paths of a project.
//   - Watch the file (github.com/fsnotify/fsnotify) and, when another
//     process rewrites it, reload it into the shared package and broadcast
//     a change notification so every open controller reloads.
package pkgfile
