// Package platform reports the host OS, architecture and Go toolchain
// version, replacing the original C implementation's /etc/os-release
// parsing: Go's runtime package already answers this portably.
package platform

import "runtime"

// Info describes the platform the binary was built for and is
// currently running on.
type Info struct {
	OS        string
	Arch      string
	GoVersion string
}

// Probe returns the current platform's Info.
func Probe() Info {
	return Info{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		GoVersion: runtime.Version(),
	}
}
