package pptgen

import "fmt"

// Version information for the library.
const (
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)

// Version is the full version string of the library.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
