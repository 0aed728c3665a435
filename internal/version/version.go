package version

import "runtime"

var (
	AppName     = "Shimarin"
	AppFullName = "Shimarin AniList bot"
	BuildDate   = "unknown" // set via ldflags
	GoVersion   = runtime.Version()
)
