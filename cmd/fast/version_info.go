package main

import (
	"runtime/debug"
)

var readBuildInfo = debug.ReadBuildInfo

// initVersion falls back to the module version when the binary was built
// with go install instead of a release build.
func initVersion() {
	if version != defaultVersion {
		return
	}

	info, ok := readBuildInfo()
	if !ok || info == nil {
		return
	}

	if info.Main.Version == "" || info.Main.Version == "(devel)" {
		return
	}

	version = info.Main.Version
}
