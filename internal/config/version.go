package config

// Version is the application version, overridden at build time via
// -ldflags "-X github.com/tunestream/tunestream/internal/config.Version=...".
var Version = "0.1.0-dev"
