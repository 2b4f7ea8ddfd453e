// Package version reports the jv build.
package version

import "runtime/debug"

// Version is set at link time:
//
//	go build -ldflags "-X github.com/vanderheijden86/jsonview/pkg/version.Version=v1.2.3"
var Version = "v0.1.0"

// String returns Version, followed by the short VCS revision when the binary
// was built from a checkout.
func String() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}
	var rev string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev == "" {
		return Version
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if dirty {
		rev += "-dirty"
	}
	return Version + " (" + rev + ")"
}
