package config

// Version is the backoffice binary version.
// Set at build time via: -ldflags "-X github.com/ginternational/backoffice/internal/config.Version=<tag>"
var Version = "dev"
