package release

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/google/go-github/v49/github"
	"go.uber.org/zap"

	"github.com/zostay/go-cef/tools/pm/changes"
)

// StartSteps are the steps of starting a release, in order.
func (p *Process) StartSteps() []Step {
	return []Step{
		p.CheckGitCleanliness,
		p.LintChangelog,
		p.MakeReleaseBranch,
		p.FixupChangelog,
		p.AddAndCommit,
		p.PushReleaseBranch,
		p.CreateGithubPullRequest,
	}
}

// CheckGitCleanliness requires the target branch to be checked out, clean and
// identical to origin.
func (p *Process) CheckGitCleanliness(context.Context) error {
	headRef, err := p.repo.Head()
	if err != nil {
		return fmt.Errorf("unable to find HEAD: %w", err)
	}

	if headRef.Name() != p.TargetBranchRefName() {
		return fmt.Errorf("you must checkout %s to release", p.TargetBranch)
	}

	remoteRefs, err := p.remote.List(&git.ListOptions{})
	if err != nil {
		return fmt.Errorf("unable to list remote git references: %w", err)
	}

	found := false
	for _, ref := range remoteRefs {
		if ref.Name() == p.TargetBranchRefName() {
			if ref.Hash() != headRef.Hash() {
				return fmt.Errorf("local copy differs from remote, you need to push or pull")
			}
			found = true
			break
		}
	}

	if !found {
		return fmt.Errorf("origin has no %s branch", p.TargetBranch)
	}

	stat, err := p.wc.Status()
	if err != nil {
		return fmt.Errorf("unable to check working copy status: %w", err)
	}

	if !stat.IsClean() {
		return fmt.Errorf("your working copy is dirty")
	}

	return nil
}

// LintChangelog requires a clean change log with a WIP section to stamp.
func (p *Process) LintChangelog(context.Context) error {
	changelog, err := os.Open(p.Changelog)
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", p.Changelog, err)
	}
	defer func() { _ = changelog.Close() }()

	return changes.NewLinter(changelog, changes.CheckPreRelease).Check()
}

// MakeReleaseBranch creates and checks out the release branch.
func (p *Process) MakeReleaseBranch(context.Context) error {
	err := p.repo.CreateBranch(&config.Branch{
		Name:   p.Branch,
		Remote: "origin",
		Merge:  p.BranchRefName(),
	})
	if err != nil {
		return fmt.Errorf("unable to create release branch %s: %w", p.Branch, err)
	}

	p.ForCleanup(func() { _ = p.repo.DeleteBranch(p.Branch) })

	err = p.wc.Checkout(&git.CheckoutOptions{
		Branch: p.BranchRefName(),
		Create: true,
	})
	if err != nil {
		return fmt.Errorf("unable to switch to %s: %w", p.Branch, err)
	}

	p.ForCleanup(func() {
		_ = p.wc.Checkout(&git.CheckoutOptions{Branch: p.TargetBranchRefName()})
		_ = p.repo.Storer.RemoveReference(p.BranchRefName())
	})

	p.log().Info("created release branch", zap.String("branch", p.Branch))

	return nil
}

// FixupChangelog turns the WIP heading into the heading of this release.
func (p *Process) FixupChangelog(context.Context) error {
	r, err := os.Open(p.Changelog)
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", p.Changelog, err)
	}
	defer func() { _ = r.Close() }()

	newChangelog := p.Changelog + ".new"

	w, err := os.Create(newChangelog)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", newChangelog, err)
	}

	p.ForCleanup(func() { _ = os.Remove(newChangelog) })

	if err := changes.Stamp(w, r, p.Version, p.Today); err != nil {
		_ = w.Close()
		return err
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("unable to close %s: %w", newChangelog, err)
	}

	if err := os.Rename(newChangelog, p.Changelog); err != nil {
		return fmt.Errorf("unable to overwrite %s with %s: %w", p.Changelog, newChangelog, err)
	}

	p.ToAdd(p.Changelog)

	return nil
}

// AddAndCommit commits the files changed for the release.
func (p *Process) AddAndCommit(context.Context) error {
	for _, fn := range p.addFiles {
		if _, err := p.wc.Add(fn); err != nil {
			return fmt.Errorf("error adding file %s to git: %w", fn, err)
		}
	}

	if _, err := p.wc.Commit("releng: "+p.Tag, &git.CommitOptions{}); err != nil {
		return fmt.Errorf("error committing changes to git: %w", err)
	}

	return nil
}

// PushReleaseBranch pushes the release branch to origin.
func (p *Process) PushReleaseBranch(context.Context) error {
	err := p.repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []config.RefSpec{p.BranchRefSpec()},
	})
	if err != nil {
		return fmt.Errorf("error pushing changes to github: %w", err)
	}

	return nil
}

// CreateGithubPullRequest opens the pull request for the release branch.
func (p *Process) CreateGithubPullRequest(ctx context.Context) error {
	pr, _, err := p.gh.PullRequests.Create(ctx, p.Owner, p.Project, &github.NewPullRequest{
		Title: github.String("Release " + p.Tag),
		Head:  github.String(p.Branch),
		Base:  github.String(p.TargetBranch),
		Body:  github.String(fmt.Sprintf("Pull request to release %s of %s.", p.Tag, p.Project)),
	})
	if err != nil {
		return fmt.Errorf("unable to create pull request: %w", err)
	}

	p.log().Info("opened pull request", zap.String("url", pr.GetHTMLURL()))

	return nil
}
