package release

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/google/go-github/v49/github"
	"go.uber.org/zap"

	"github.com/zostay/go-cef/tools/pm/changes"
)

// FinishSteps are the steps of finishing a release, in order.
func (p *Process) FinishSteps() []Step {
	return []Step{
		p.CaptureChangesInfo,
		p.CheckReadyForMerge,
		p.MergePullRequest,
		p.TagRelease,
		p.CreateRelease,
	}
}

// CaptureChangesInfo loads the bullets for the changelog section relevant to
// this release into the process configuration for use when creating the release
// later.
func (p *Process) CaptureChangesInfo(context.Context) error {
	chgs, err := changes.ExtractSectionFile(p.Changelog, p.Tag)
	if err != nil {
		return fmt.Errorf("unable to get log of changes: %w", err)
	}

	p.ChangesInfo = chgs

	return nil
}

// CheckReadyForMerge ensures that all the required tests are passing.
func (p *Process) CheckReadyForMerge(ctx context.Context) error {
	bp, _, err := p.gh.Repositories.GetBranchProtection(ctx, p.Owner, p.Project, p.TargetBranch)
	if err != nil {
		return fmt.Errorf("unable to get branch protection of %s: %w", p.TargetBranch, err)
	}

	checks := bp.GetRequiredStatusChecks().Checks
	passage := make(map[string]bool, len(checks))
	for _, check := range checks {
		passage[check.Context] = false
	}

	crs, _, err := p.gh.Checks.ListCheckRunsForRef(ctx, p.Owner, p.Project, p.Branch, &github.ListCheckRunsOptions{})
	if err != nil {
		return fmt.Errorf("unable to list check runs for branch %s: %w", p.Branch, err)
	}

	for _, run := range crs.CheckRuns {
		if _, required := passage[run.GetName()]; !required {
			continue
		}

		passage[run.GetName()] =
			run.GetStatus() == "completed" &&
				run.GetConclusion() == "success"
	}

	for k, v := range passage {
		if !v {
			return fmt.Errorf("cannot merge release branch because it has not passed check %q", k)
		}
	}

	return nil
}

// MergePullRequest merges the release pull request into the target branch.
func (p *Process) MergePullRequest(ctx context.Context) error {
	prs, _, err := p.gh.PullRequests.List(ctx, p.Owner, p.Project, &github.PullRequestListOptions{
		Head: p.Owner + ":" + p.Branch,
	})
	if err != nil {
		return fmt.Errorf("unable to list pull requests: %w", err)
	}

	prID := 0
	for _, pr := range prs {
		if pr.GetHead().GetRef() == p.Branch {
			prID = pr.GetNumber()
			break
		}
	}

	if prID == 0 {
		return fmt.Errorf("cannot find pull request for branch %s", p.Branch)
	}

	m, _, err := p.gh.PullRequests.Merge(ctx, p.Owner, p.Project, prID, "Merging release branch.", &github.PullRequestOptions{})
	if err != nil {
		return fmt.Errorf("unable to merge pull request %d: %w", prID, err)
	}

	if !m.GetMerged() {
		return fmt.Errorf("failed to merge pull request %d", prID)
	}

	p.log().Info("merged pull request", zap.Int("number", prID))

	return nil
}

// TagRelease creates and pushes a tag for the newly merged release on the
// target branch.
func (p *Process) TagRelease(context.Context) error {
	err := p.wc.Checkout(&git.CheckoutOptions{
		Branch: p.TargetBranchRefName(),
	})
	if err != nil {
		return fmt.Errorf("unable to switch to %s branch: %w", p.TargetBranch, err)
	}

	err = p.wc.Pull(&git.PullOptions{
		RemoteName:    "origin",
		ReferenceName: p.TargetBranchRefName(),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("unable to pull %s: %w", p.TargetBranch, err)
	}

	headRef, err := p.repo.Head()
	if err != nil {
		return fmt.Errorf("unable to get HEAD ref of %s branch: %w", p.TargetBranch, err)
	}

	_, err = p.repo.CreateTag(p.Tag, headRef.Hash(), &git.CreateTagOptions{
		Message: "Release tag for " + p.Tag,
	})
	if err != nil {
		return fmt.Errorf("unable to tag release %s: %w", p.Tag, err)
	}

	p.ForCleanup(func() { _ = p.repo.DeleteTag(p.Tag) })

	err = p.repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []config.RefSpec{p.TagRefSpec()},
	})
	if err != nil {
		return fmt.Errorf("unable to push tags to origin: %w", err)
	}

	p.ForCleanup(func() {
		_ = p.remote.Push(&git.PushOptions{
			RemoteName: "origin",
			RefSpecs:   []config.RefSpec{config.RefSpec(":" + p.TagRef())},
		})
	})

	return nil
}

// CreateRelease creates a release on github for the release.
func (p *Process) CreateRelease(ctx context.Context) error {
	releaseName := "Release " + p.Tag
	_, _, err := p.gh.Repositories.CreateRelease(ctx, p.Owner, p.Project, &github.RepositoryRelease{
		TagName:              github.String(p.Tag),
		Name:                 github.String(releaseName),
		Body:                 github.String(p.ChangesInfo),
		Draft:                github.Bool(false),
		Prerelease:           github.Bool(false),
		GenerateReleaseNotes: github.Bool(false),
		MakeLatest:           github.String("true"),
	})
	if err != nil {
		return fmt.Errorf("failed to create release %q: %w", releaseName, err)
	}

	p.log().Info("created release", zap.String("tag", p.Tag))

	return nil
}
