package config

import (
	"fmt"
	"strings"
)

// Origin names the precedence tier that produced a resolution.
type Origin string

const (
	OriginFlag         Origin = "flag"
	OriginConfigFile   Origin = "config"
	OriginRegistration Origin = "gitmodules"
	OriginEnv          Origin = "env"
	OriginDefault      Origin = "default"
)

// Resolution is the effective repository selection for one invocation.
type Resolution struct {
	RepoURL string
	Branch  string
	Origin  Origin
}

// Provider is one tier of the precedence ladder. Lookup returns an empty URL
// when the tier has nothing to say.
type Provider struct {
	Origin Origin
	Lookup func() (url, branch string, err error)
}

// Resolver tries providers in order and stops at the first non-empty URL.
// Fields are never merged across tiers: the branch comes from the same tier
// as the URL, or falls back to DefaultBranch.
type Resolver struct {
	Providers     []Provider
	DefaultBranch string
}

// Resolve walks the ladder.
func (r *Resolver) Resolve() (Resolution, error) {
	defaultBranch := r.DefaultBranch
	if defaultBranch == "" {
		defaultBranch = DefaultBranch
	}

	for _, p := range r.Providers {
		url, branch, err := p.Lookup()
		if err != nil {
			return Resolution{}, fmt.Errorf("failed to resolve repository from %s: %w", p.Origin, err)
		}
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		branch = strings.TrimSpace(branch)
		if branch == "" {
			branch = defaultBranch
		}
		return Resolution{RepoURL: url, Branch: branch, Origin: p.Origin}, nil
	}
	return Resolution{}, fmt.Errorf("no repository URL configured")
}

// LadderInput carries the values for each tier of the standard ladder.
type LadderInput struct {
	FlagRepoURL string
	FlagBranch  string

	// ProjectRoot locates the persisted config file.
	ProjectRoot string

	// Registration returns the URL/branch recorded for the nested repository
	// in the host project's module metadata, or empty values if unregistered.
	Registration func() (url, branch string, err error)

	Settings *Settings
}

// NewLadder builds the standard five-tier resolver: command-line flags,
// persisted config file, nested repository registration, environment, and
// finally the configured default.
func NewLadder(in LadderInput) *Resolver {
	settings := in.Settings
	if settings == nil {
		settings = DefaultSettings()
	}

	registration := in.Registration
	if registration == nil {
		registration = func() (string, string, error) { return "", "", nil }
	}

	return &Resolver{
		DefaultBranch: settings.DefaultBranch,
		Providers: []Provider{
			{
				Origin: OriginFlag,
				Lookup: func() (string, string, error) {
					return in.FlagRepoURL, in.FlagBranch, nil
				},
			},
			{
				Origin: OriginConfigFile,
				Lookup: func() (string, string, error) {
					cfg, err := Load(in.ProjectRoot)
					if err != nil {
						return "", "", err
					}
					return cfg.RepoURL, cfg.Branch, nil
				},
			},
			{
				Origin: OriginRegistration,
				Lookup: registration,
			},
			{
				Origin: OriginEnv,
				Lookup: func() (string, string, error) {
					return settings.EnvRepoURL, settings.EnvBranch, nil
				},
			},
			{
				Origin: OriginDefault,
				Lookup: func() (string, string, error) {
					return settings.DefaultRepoURL, settings.DefaultBranch, nil
				},
			},
		},
	}
}
