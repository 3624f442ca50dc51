// Package version exposes build metadata stamped into the binary at link
// time. The build scripts pass the values with -ldflags, for example:
//
//	go build -ldflags "-X github.com/drblury/itemapi/version.GitCommit=$(git rev-parse HEAD)"
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags at build time. The defaults keep local `go run` output
// sensible without any stamping.
var (
	PackageName    = "itemapi"
	PackageVersion = "0.0.0-dev"
	DeployTag      = "local"
	BuildTime      = "unknown"
	GitBranch      = "unknown"
	GitCommit      = "unknown"
)

// Info is the version payload served by the version endpoint.
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	DeployTag string `json:"deploy_tag"`
	BuildTime string `json:"build_time"`
	Branch    string `json:"branch"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

// Current returns the build metadata for the running binary.
func Current() Info {
	return Info{
		Name:      PackageName,
		Version:   PackageVersion,
		DeployTag: DeployTag,
		BuildTime: BuildTime,
		Branch:    GitBranch,
		Commit:    GitCommit,
		GoVersion: runtime.Version(),
	}
}

// String renders a single-line summary for the -version flag and startup log.
func (i Info) String() string {
	return fmt.Sprintf("%s %s %s %s %s", i.Name, i.Version, i.BuildTime, i.Branch, i.Commit)
}
