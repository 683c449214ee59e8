/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

// Package install keeps a local copy of the debug adapter up to date,
// falling back to a previously installed copy when the release lookup fails.
package install

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/singleflight"

	"github.com/microsoft/ahkdap/internal/adapterpaths"
	"github.com/microsoft/ahkdap/internal/dap"
	"github.com/microsoft/ahkdap/internal/lockfile"
	"github.com/microsoft/ahkdap/internal/release"
	"github.com/microsoft/ahkdap/pkg/osutil"
)

const ensureInstalledKey = "ensure-installed"

type CacheOptions struct {
	Layout     *adapterpaths.Layout
	Source     release.Source
	Downloader Downloader

	// Defaults to DefaultVersionOrdering.
	Ordering VersionOrdering

	// How long to wait for another process that is installing the adapter.
	LockWait lockfile.WaitOptions
}

// Cache makes sure some version of the adapter is present on disk, and remembers which one.
// The version is resolved at most once per Cache instance (per process, in practice);
// concurrent callers share a single resolution.
type Cache struct {
	layout     *adapterpaths.Layout
	source     release.Source
	downloader Downloader
	ordering   VersionOrdering
	lockWait   lockfile.WaitOptions
	resolved   VersionCell
	group      singleflight.Group
	log        logr.Logger
}

func NewCache(opts CacheOptions, log logr.Logger) (*Cache, error) {
	if opts.Layout == nil || opts.Source == nil || opts.Downloader == nil {
		return nil, errors.New("installation cache requires a layout, a release source, and a downloader")
	}

	ordering := opts.Ordering
	if ordering == "" {
		ordering = DefaultVersionOrdering
	}

	return &Cache{
		layout:     opts.Layout,
		source:     opts.Source,
		downloader: opts.Downloader,
		ordering:   ordering,
		lockWait:   opts.LockWait,
		log:        log.WithValues("AdapterRoot", opts.Layout.Root),
	}, nil
}

func (c *Cache) Layout() *adapterpaths.Layout {
	return c.layout
}

// EnsureInstalled returns the version of the adapter to use.
//
// If the latest release can be looked up, it is installed (unless already present) and its version is returned.
// Installing a new version removes all other installed versions.
// If the lookup fails, the newest installed version is used instead.
// Only a successful result is remembered; a failed call may be retried.
func (c *Cache) EnsureInstalled(ctx context.Context) (string, error) {
	if version, found := c.resolved.Get(); found {
		return version, nil
	}

	result, err, _ := c.group.Do(ensureInstalledKey, func() (any, error) {
		if version, found := c.resolved.Get(); found {
			return version, nil
		}

		version, resolveErr := c.resolve(ctx)
		if resolveErr != nil {
			return "", resolveErr
		}
		return c.resolved.Set(version), nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

// InstalledVersions returns the versions present in the adapter root, oldest first.
// A missing root yields an empty list.
func (c *Cache) InstalledVersions() ([]string, error) {
	entries, readErr := os.ReadDir(c.layout.Root)
	if errors.Is(readErr, fs.ErrNotExist) {
		return nil, nil
	}
	if readErr != nil {
		return nil, fmt.Errorf("could not read adapter directory '%s': %w", c.layout.Root, readErr)
	}

	var versions []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if version, ok := c.layout.VersionFromDirName(entry.Name()); ok {
			versions = append(versions, version)
		}
	}

	c.ordering.Sort(versions)
	return versions, nil
}

func (c *Cache) resolve(ctx context.Context) (string, error) {
	asset, version, fetchErr := c.source.FetchLatest(ctx)
	if fetchErr == nil {
		if installErr := c.install(ctx, asset, version); installErr != nil {
			return "", installErr
		}
		return version, nil
	}

	if !dap.IsRecoverableReleaseError(fetchErr) {
		return "", fetchErr
	}

	c.log.Info("Could not determine the latest adapter release, looking for an installed version", "Error", fetchErr.Error())

	versions, scanErr := c.InstalledVersions()
	if scanErr != nil {
		return "", fmt.Errorf("%w: %w", dap.ErrInstallFailed, errors.Join(scanErr, fetchErr))
	}

	cached, found := c.ordering.Latest(versions)
	if !found {
		return "", fmt.Errorf("%w: %w", dap.ErrNoCachedVersion, fetchErr)
	}

	c.log.Info("Using installed adapter version", "Version", cached, "Ordering", c.ordering)
	return cached, nil
}

func (c *Cache) install(ctx context.Context, asset release.Asset, version string) error {
	if !isSafeVersion(version) {
		return fmt.Errorf("%w: release version '%s' cannot be used as a directory name", dap.ErrInstallFailed, version)
	}

	versionedDir := c.layout.VersionedDir(version)
	log := c.log.WithValues("Version", version)

	if installed, existsErr := osutil.EntryExists(versionedDir, osutil.DirTarget); existsErr != nil {
		return fmt.Errorf("%w: %w", dap.ErrInstallFailed, existsErr)
	} else if installed {
		log.V(1).Info("Latest adapter version is already installed")
		return nil
	}

	parent := filepath.Dir(c.layout.Root)
	if err := os.MkdirAll(parent, osutil.PermissionOwnerAllOthersTraverse); err != nil {
		return fmt.Errorf("%w: Failed to create adapter directory: %w", dap.ErrInstallFailed, err)
	}

	records, recordsErr := lockfile.NewRecordFile[installRecord](c.layout.LockfilePath(), installRecordMarshaller{})
	if recordsErr != nil {
		return fmt.Errorf("%w: %w", dap.ErrInstallFailed, recordsErr)
	}
	defer func() { _ = records.Close() }()

	history, readErr := records.AcquireAndRead(ctx, c.lockWait)
	if errors.Is(readErr, lockfile.ErrCorrupted) {
		log.Info("Installation history could not be read and has been reset", "Error", readErr.Error())
		history, readErr = nil, records.Acquire(ctx, c.lockWait)
	}
	if readErr != nil {
		return fmt.Errorf("%w: could not acquire the installation lock: %w", dap.ErrInstallFailed, readErr)
	}

	// Another process may have installed the version while we were waiting for the lock.
	if installed, existsErr := osutil.EntryExists(versionedDir, osutil.DirTarget); existsErr != nil {
		return fmt.Errorf("%w: %w", dap.ErrInstallFailed, existsErr)
	} else if installed {
		log.V(1).Info("Latest adapter version was installed by another process")
		return nil
	}

	staging, stagingErr := os.MkdirTemp(parent, c.layout.StagingPattern())
	if stagingErr != nil {
		return fmt.Errorf("%w: could not create staging directory: %w", dap.ErrInstallFailed, stagingErr)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	stagedDir := filepath.Join(staging, c.layout.InstallDirName(version))
	log.Info("Downloading debug adapter", "Asset", asset.Name, "URL", asset.DownloadURL)
	if downloadErr := c.downloader.Download(ctx, asset.DownloadURL, stagedDir); downloadErr != nil {
		return fmt.Errorf("%w: %w", dap.ErrInstallFailed, downloadErr)
	}

	// Older versions are not kept around.
	if removeErr := os.RemoveAll(c.layout.Root); removeErr != nil {
		log.Info("Could not remove previously installed versions", "Error", removeErr.Error())
	}
	if err := os.MkdirAll(c.layout.Root, osutil.PermissionOwnerAllOthersTraverse); err != nil {
		return fmt.Errorf("%w: Failed to create adapter directory: %w", dap.ErrInstallFailed, err)
	}
	if err := os.Rename(stagedDir, versionedDir); err != nil {
		return fmt.Errorf("%w: could not move the downloaded adapter into place: %w", dap.ErrInstallFailed, err)
	}

	history = appendInstallRecord(history, installRecord{
		Version:     version,
		Asset:       asset.Name,
		URL:         asset.DownloadURL,
		InstalledAt: time.Now().UTC(),
	})
	if writeErr := records.WriteAndRelease(history); writeErr != nil {
		log.Info("Could not update installation history", "Error", writeErr.Error())
	}

	log.Info("Debug adapter installed", "Path", versionedDir)
	return nil
}

func isSafeVersion(version string) bool {
	return version != "" &&
		version != "." &&
		version != ".." &&
		!strings.ContainsAny(version, `/\:`)
}
