package waypoint

// Version is the release of the module, overridden at build time with
// -ldflags "-X github.com/aretw0/waypoint.Version=...".
var Version = "v0.1.0-dev"
