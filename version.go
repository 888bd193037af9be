package verbiage

// Version information for verbiage.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/verbiage.GitCommit=abc1234"
const (
	// Name is the application name.
	Name = "verbiage"

	// Description is a short description of the application.
	Description = "Locale term cache synchronization for verbiage services"

	// Version is the semantic version of the application.
	Version = "0.3.0"

	// RepositoryURL is the source code repository URL.
	RepositoryURL = "https://github.com/ZaguanLabs/verbiage"

	// License is the software license.
	License = "MIT"
)

// BuildInfo contains build-time information.
// These are typically set via ldflags during build.
var (
	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// FullVersion returns the version string with optional build info.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns the User-Agent sent with remote requests.
func UserAgent() string {
	return Name + "/" + Version
}
