// Package build holds build-time information.
package build

// Version is the remake release. Release builds set it with
// -ldflags "-X go.trai.ch/remake/internal/build.Version=<tag>".
var Version = "dev"
