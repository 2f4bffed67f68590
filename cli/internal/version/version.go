// Package version holds build information for the iconfont binary.
package version

import (
	"fmt"
	"runtime"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

var (
	// Version is the version of the CLI
	Version = "0.1.0"
	// BuildDate is the build date
	BuildDate = "unknown"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// Info holds version information
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

// Get returns version information
func Get() Info {
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("iconfont version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString returns a detailed version string
func (i Info) FullString() string {
	return fmt.Sprintf(`iconfont version %s
Build Date: %s
Git Commit: %s
Platform: %s
Go Version: %s`, i.Version, i.BuildDate, i.GitCommit, i.Platform, i.GoVersion)
}

// Markdown returns the version information as a markdown table.
func (i Info) Markdown() string {
	var b strings.Builder
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Version | %s |\n", i.Version)
	fmt.Fprintf(&b, "| Build Date | %s |\n", i.BuildDate)
	fmt.Fprintf(&b, "| Git Commit | %s |\n", i.GitCommit)
	fmt.Fprintf(&b, "| Platform | %s |\n", i.Platform)
	fmt.Fprintf(&b, "| Go Version | %s |\n", i.GoVersion)
	return b.String()
}

// Require checks the running version against a constraint such as
// ">= 0.1, < 1.0", as pinned by a project's config file.
func Require(constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := goversion.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := goversion.NewVersion(Version)
	if err != nil {
		return fmt.Errorf("invalid build version %q: %w", Version, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("iconfont %s does not satisfy required version %s", Version, constraint)
	}
	return nil
}
