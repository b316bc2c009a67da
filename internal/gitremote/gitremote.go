// Copyright 2026 The Julesmcp Authors
// SPDX-License-Identifier: MIT

// Package gitremote derives a Jules source resource name from a local git
// checkout, so sessions can be created from inside a repository without
// spelling out "sources/github/owner/repo" by hand.
package gitremote

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// sshRemotePattern matches scp-like remotes: git@github.com:owner/repo.git
var sshRemotePattern = regexp.MustCompile(`^(?:ssh://)?git@github\.com[:/]([^/]+)/(.+?)(?:\.git)?$`)

// SourceName resolves the origin remote of the repository at path into a
// Jules source resource name ("sources/github/owner/repo").
func SourceName(path string) (string, error) {
	owner, repo, err := parseOriginRemote(path)
	if err != nil {
		return "", err
	}
	return "sources/github/" + owner + "/" + repo, nil
}

// parseOriginRemote extracts owner and repo from the origin remote URL.
// Supports HTTPS, SSH, and scp-like formats.
func parseOriginRemote(path string) (owner, repo string, err error) {
	gitRepo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", fmt.Errorf("opening repo: %w", err)
	}

	remote, err := gitRepo.Remote("origin")
	if err != nil {
		return "", "", fmt.Errorf("no origin remote found: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", "", fmt.Errorf("origin remote has no URL")
	}

	return parseRemoteURL(urls[0])
}

// parseRemoteURL parses a GitHub remote URL into owner and repo.
func parseRemoteURL(rawURL string) (owner, repo string, err error) {
	if m := sshRemotePattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], m[2], nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parsing URL %q: %w", rawURL, err)
	}
	if parsed.Host != "github.com" {
		return "", "", fmt.Errorf("remote %q is not a GitHub URL", rawURL)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("cannot parse owner/repo from %q", rawURL)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
