// Package buildinfo carries version information stamped in at link time:
//
//	go build -ldflags "-X github.com/c112110130-dot/waste-system-django-sub002/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/c112110130-dot/waste-system-django-sub002/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/c112110130-dot/waste-system-django-sub002/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/wastechart
package buildinfo

import "fmt"

var (
	Version = "dev"     // semantic version
	Commit  = "none"    // git commit
	Date    = "unknown" // build time, RFC 3339
)

// String returns the build information as "version (commit, date)".
func String() string {
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt:  %s\n", Version, Commit, Date)
}
