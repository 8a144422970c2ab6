package release

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// BranchPrefix starts the name of every release branch.
const BranchPrefix = "release-v"

type Config struct {
	// Version is the semantic version of the release being processed.
	Version *semver.Version

	// Branch is the name of the release branch.
	Branch string

	// Tag is the name of the final release tag.
	Tag string

	// Today is the date YYYY-MM-DD date of the release.
	Today string

	// Changelog is the name of the file holding the change log.
	Changelog string

	// Owner is the name of the owner of the project on github.
	Owner string

	// Project is the name of the repository on github.
	Project string

	// TargetBranch is the branch we are merging into (usually master).
	TargetBranch string

	// ChangesInfo is the bullets in the change log to put into the release
	// body.
	ChangesInfo string
}

// GoCEFConfig is the release configuration of this module.
var GoCEFConfig = Config{
	Changelog: "Changes.md",
	Owner:     "zostay",
	Project:   "go-cef",

	TargetBranch: "master",
}

// SetVersion fills in the version, branch, tag and date of the release. A
// leading "v" on the version is ignored.
func (c *Config) SetVersion(v string, now time.Time) error {
	version, err := semver.NewVersion(strings.TrimPrefix(v, "v"))
	if err != nil {
		return fmt.Errorf("bad release version %q: %w", v, err)
	}

	c.Version = version
	c.Branch = BranchPrefix + version.String()
	c.Tag = "v" + version.String()
	c.Today = now.Format("2006-01-02")

	return nil
}

// VersionFromBranch returns the version named by a release branch reference
// such as refs/heads/release-v1.2.3.
func VersionFromBranch(name plumbing.ReferenceName) (string, error) {
	if !name.IsBranch() || !strings.HasPrefix(name.Short(), BranchPrefix) {
		return "", fmt.Errorf("%s is not a release branch", name)
	}

	return strings.TrimPrefix(name.Short(), BranchPrefix), nil
}

func ref(t, n string) string {
	return path.Join("refs", t, n)
}

func refSpec(r string) config.RefSpec {
	return config.RefSpec(strings.Join([]string{r, r}, ":"))
}

func (c *Config) BranchRef() string {
	return ref("heads", c.Branch)
}

func (c *Config) BranchRefName() plumbing.ReferenceName {
	return plumbing.ReferenceName(c.BranchRef())
}

func (c *Config) BranchRefSpec() config.RefSpec {
	return refSpec(c.BranchRef())
}

func (c *Config) TargetBranchRef() string {
	return ref("heads", c.TargetBranch)
}

func (c *Config) TargetBranchRefName() plumbing.ReferenceName {
	return plumbing.ReferenceName(c.TargetBranchRef())
}

func (c *Config) TagRef() string {
	return ref("tags", c.Tag)
}

func (c *Config) TagRefSpec() config.RefSpec {
	return refSpec(c.TagRef())
}
