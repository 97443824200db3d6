package version

// Version is overridden at build time with
// -ldflags "-X github.com/tristendillon/httpskin/core/version.Version=..."
var Version = "v0.1.0-dev"
