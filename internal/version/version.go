package version

// Version is the release of the simulator binaries.
// Set at build time with
// -ldflags "-X github.com/rxtech-lab/market-sim/internal/version.Version=1.2.3".
// "main" marks a development build.
var Version = "v0.3.0"

// GetVersion returns the current version.
func GetVersion() string {
	return Version
}
