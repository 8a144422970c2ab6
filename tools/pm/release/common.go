// Package release automates cutting a release of this module: a release
// branch and pull request to start, then merge, tag and GitHub release to
// finish.
package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/google/go-github/v49/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// ErrNoToken is returned when GITHUB_TOKEN is not set.
var ErrNoToken = errors.New("GITHUB_TOKEN environment variable is missing")

// Step is one stage of a release process.
type Step func(ctx context.Context) error

type Process struct {
	Config

	Logger *zap.Logger

	gh     *github.Client
	repo   *git.Repository
	remote *git.Remote
	wc     *git.Worktree

	cleanupActions []func()

	addFiles []string
}

func (p *Process) log() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// ToAdd schedules a file to be added to the release commit.
func (p *Process) ToAdd(fn string) {
	p.addFiles = append(p.addFiles, fn)
}

// ForCleanup registers an action that undoes a completed step if a later one
// fails. Actions run in reverse order of registration.
func (p *Process) ForCleanup(action func()) {
	p.cleanupActions = append(p.cleanupActions, action)
}

// Cleanup runs and forgets every registered cleanup action.
func (p *Process) Cleanup() {
	for i := len(p.cleanupActions) - 1; i >= 0; i-- {
		p.cleanupActions[i]()
	}
	p.cleanupActions = nil
}

// Run performs the steps in order. The first failure stops the process and
// runs the cleanup actions of the steps already completed.
func (p *Process) Run(ctx context.Context, steps ...Step) error {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			p.Cleanup()
			return err
		}

		if err := step(ctx); err != nil {
			p.log().Error("release failed, cancelling", zap.Error(err))
			p.Cleanup()
			return err
		}
	}

	return nil
}

func initializeProcess(ctx context.Context, cfg *Config, logger *zap.Logger) (*Process, error) {
	p := &Process{
		Config: *cfg,
		Logger: logger,
	}

	if err := p.setupGithubClient(ctx); err != nil {
		return nil, err
	}

	if err := p.setupGitRepo(); err != nil {
		return nil, err
	}

	return p, nil
}

// NewProcess prepares to start the release of version v.
func NewProcess(ctx context.Context, v string, cfg *Config, logger *zap.Logger) (*Process, error) {
	p, err := initializeProcess(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := p.SetVersion(v, time.Now()); err != nil {
		return nil, err
	}

	return p, nil
}

// NewProcessContinuation prepares to finish the release whose branch is
// checked out.
func NewProcessContinuation(ctx context.Context, cfg *Config, logger *zap.Logger) (*Process, error) {
	p, err := initializeProcess(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	headRef, err := p.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("unable to find HEAD: %w", err)
	}

	v, err := VersionFromBranch(headRef.Name())
	if err != nil {
		return nil, fmt.Errorf("you must be on the release branch to finish the process: %w", err)
	}

	if err := p.SetVersion(v, time.Now()); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Process) setupGithubClient(ctx context.Context) error {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return ErrNoToken
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	p.gh = github.NewClient(tc)

	return nil
}

func (p *Process) setupGitRepo() error {
	l, err := git.PlainOpen(".")
	if err != nil {
		return fmt.Errorf("unable to open git repository at .: %w", err)
	}

	p.repo = l

	r, err := p.repo.Remote("origin")
	if err != nil {
		return fmt.Errorf("unable to connect to remote origin: %w", err)
	}

	p.remote = r

	w, err := p.repo.Worktree()
	if err != nil {
		return fmt.Errorf("unable to examine the working copy: %w", err)
	}

	p.wc = w

	return nil
}
