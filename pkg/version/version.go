// Package version reports build identity. The values are set with
// -ldflags "-X github.com/justyntemme/retrocall/pkg/version.version=...".
package version

//nolint:gochecknoglobals // set at link time
var (
	name    = "retrocall"
	version = "dev"
	commit  = "unknown"
)

// Name returns the program name.
func Name() string {
	return name
}

// Version returns the release version.
func Version() string {
	return version
}

// Commit returns the source revision.
func Commit() string {
	return commit
}
