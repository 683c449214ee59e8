/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

// Package release finds the newest published release of a debug adapter and the package asset to download.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	netutil "k8s.io/apimachinery/pkg/util/net"

	"github.com/microsoft/ahkdap/internal/dap"
)

const (
	DefaultAPIURL = "https://api.github.com"

	// The default timeout for a single release lookup.
	DefaultTimeout = 30 * time.Second

	maxErrorBodyLength = 4 * 1024
)

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
}

type githubRelease struct {
	TagName    string  `json:"tag_name"`
	Draft      bool    `json:"draft"`
	Prerelease bool    `json:"prerelease"`
	Assets     []Asset `json:"assets"`
}

// Source is anything that can tell which release of the adapter is the latest one.
type Source interface {
	FetchLatest(ctx context.Context) (Asset, string, error)
}

type LocatorOptions struct {
	// Repository in "owner/name" form.
	Repository string

	// The file name of the wanted asset must end with this suffix, e.g. ".vsix".
	AssetSuffix string

	// ExpectedAssetName returns the asset name to mention in the error message when no asset matches.
	// Optional.
	ExpectedAssetName func(version string) string

	// API base URL. Defaults to DefaultAPIURL.
	APIURL string

	// Optional bearer token.
	Token string

	// Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Locator queries GitHub for the latest stable release of a repository.
// It performs exactly one request per lookup and does not retry.
type Locator struct {
	opts   LocatorOptions
	client *http.Client
	log    logr.Logger
}

var _ Source = (*Locator)(nil)

func NewLocator(opts LocatorOptions, log logr.Logger) *Locator {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	opts.APIURL = strings.TrimRight(opts.APIURL, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	opts.Token = strings.TrimSpace(opts.Token)

	dialer := &net.Dialer{
		Timeout: opts.Timeout,
	}
	transport := &http.Transport{
		Proxy:               netutil.NewProxierWithNoProxyCIDR(http.ProxyFromEnvironment),
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Locator{
		opts: opts,
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		log: log.WithValues("Repository", opts.Repository),
	}
}

// FetchLatest returns the matching asset of the newest release that is neither a draft nor a prerelease
// and has at least one asset, together with the release version (the tag without a leading "v").
func (l *Locator) FetchLatest(ctx context.Context) (Asset, string, error) {
	releases, fetchErr := l.fetchReleases(ctx)
	if fetchErr != nil {
		return Asset{}, "", fmt.Errorf("%w: %w", dap.ErrReleaseLookupFailed, fetchErr)
	}

	latest, found := selectLatest(releases)
	if !found {
		return Asset{}, "", fmt.Errorf("%w: repository '%s' has no published release with assets", dap.ErrReleaseLookupFailed, l.opts.Repository)
	}

	version := strings.TrimPrefix(latest.TagName, "v")
	l.log.V(1).Info("Found latest release", "Tag", latest.TagName, "Version", version, "AssetCount", len(latest.Assets))

	for _, asset := range latest.Assets {
		if strings.HasSuffix(asset.Name, l.opts.AssetSuffix) {
			return asset, version, nil
		}
	}

	expected := "*" + l.opts.AssetSuffix
	if l.opts.ExpectedAssetName != nil {
		expected = l.opts.ExpectedAssetName(version)
	}
	return Asset{}, "", fmt.Errorf("%w: no %s asset found in release (expected %s)", dap.ErrNoMatchingAsset, l.opts.AssetSuffix, expected)
}

func (l *Locator) fetchReleases(ctx context.Context) ([]githubRelease, error) {
	url := fmt.Sprintf("%s/repos/%s/releases", l.opts.APIURL, l.opts.Repository)

	req, reqCreationErr := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if reqCreationErr != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", reqCreationErr)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if l.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+l.opts.Token)
	}

	resp, respErr := l.client.Do(req)
	if respErr != nil {
		return nil, respErr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		lr := io.LimitedReader{R: resp.Body, N: maxErrorBodyLength}
		body, _ := io.ReadAll(&lr)
		return nil, fmt.Errorf("release query '%s' failed with status code %d, Body: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var releases []githubRelease
	if decodeErr := json.NewDecoder(resp.Body).Decode(&releases); decodeErr != nil {
		return nil, fmt.Errorf("release query '%s' returned an invalid response: %w", url, decodeErr)
	}

	return releases, nil
}

// GitHub returns releases newest first.
func selectLatest(releases []githubRelease) (githubRelease, bool) {
	for _, r := range releases {
		if !r.Draft && !r.Prerelease && len(r.Assets) > 0 {
			return r, true
		}
	}
	return githubRelease{}, false
}
