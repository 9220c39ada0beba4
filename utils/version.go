package utils

// Build info, set with -ldflags "-X github.com/tradierkit/tradier/utils.Tag=...".
var (
	Tag        = "dev"
	GitHash    = "unknown"
	BuildStamp = "unknown"
)
