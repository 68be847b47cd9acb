package version

// Version is the current application version.
// Override at build time via:
//
//	go build -ldflags "-X github.com/vanderheijden86/unimatch/pkg/version.Version=v1.2.3"
var Version = "v0.3.0"

// String returns the version line printed by --version.
func String() string {
	return "unimatch " + Version
}
