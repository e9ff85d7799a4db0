package iffmeta

import (
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the iffmeta library.
const Version = "0.1.0"

// Build metadata, set with -ldflags:
//
//	go build -ldflags="-X github.com/simonhull/iffmeta.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/iffmeta.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	gitCommit = ""
	buildTime = ""
)

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string
	GitCommit string // empty when unknown
	BuildTime string // empty when unknown
	GoVersion string
	Modified  bool // built from a dirty tree
}

// GetVersionInfo resolves build metadata. Values not set through -ldflags
// are taken from the VCS stamp the go command embeds.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String formats the version with a short commit hash, e.g. "0.1.0 (3f2a9c1d07b4)".
func (v VersionInfo) String() string {
	if v.GitCommit == "" {
		return v.Version
	}
	commit := v.GitCommit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if v.Modified {
		commit += "+dirty"
	}
	return v.Version + " (" + commit + ")"
}
