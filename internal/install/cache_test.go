/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microsoft/ahkdap/internal/adapterpaths"
	"github.com/microsoft/ahkdap/internal/dap"
	"github.com/microsoft/ahkdap/internal/lockfile"
	"github.com/microsoft/ahkdap/internal/release"
	"github.com/microsoft/ahkdap/pkg/osutil"
	"github.com/microsoft/ahkdap/pkg/testutil"
)

const defaultTestTimeout = 20 * time.Second

type fakeSource struct {
	version string
	err     error
	calls   atomic.Int32
}

func (fs *fakeSource) FetchLatest(_ context.Context) (release.Asset, string, error) {
	fs.calls.Add(1)
	if fs.err != nil {
		return release.Asset{}, "", fs.err
	}
	return release.Asset{
		Name:        fmt.Sprintf("autohotkey-debug-%s.vsix", fs.version),
		DownloadURL: "https://example.invalid/" + fs.version,
	}, fs.version, nil
}

type fakeDownloader struct {
	err   error
	calls atomic.Int32
}

func (fd *fakeDownloader) Download(_ context.Context, url string, targetDir string) error {
	fd.calls.Add(1)
	if fd.err != nil {
		return fd.err
	}
	return writeAdapterFiles(targetDir, url)
}

func writeAdapterFiles(dir string, content string) error {
	for _, rel := range []string{"extension/bin/AutoHotkey.exe", "extension/ahkdbg/debugAdapter.ahk"} {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), osutil.PermissionOwnerAllOthersTraverse); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), osutil.PermissionOwnerReadWriteOthersRead); err != nil {
			return err
		}
	}
	return nil
}

func newTestCache(t *testing.T, source release.Source, downloader Downloader, ordering VersionOrdering) *Cache {
	root := filepath.Join(t.TempDir(), "autohotkey")
	layout, layoutErr := adapterpaths.NewLayout(root, "autohotkey", "extension/bin/AutoHotkey.exe", "extension/ahkdbg/debugAdapter.ahk")
	require.NoError(t, layoutErr)

	cache, cacheErr := NewCache(CacheOptions{
		Layout:     layout,
		Source:     source,
		Downloader: downloader,
		Ordering:   ordering,
	}, testutil.NewLogForTesting(t.Name()))
	require.NoError(t, cacheErr)
	return cache
}

func preinstall(t *testing.T, cache *Cache, versions ...string) {
	for _, v := range versions {
		require.NoError(t, writeAdapterFiles(cache.Layout().VersionedDir(v), "preinstalled "+v))
	}
}

func networkFailure() error {
	return fmt.Errorf("%w: dial tcp: connection refused", dap.ErrReleaseLookupFailed)
}

func TestEnsureInstalled_FreshInstall(t *testing.T) {
	t.Parallel()

	source := &fakeSource{version: "2.0.4"}
	downloader := &fakeDownloader{}
	cache := newTestCache(t, source, downloader, "")

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	version, err := cache.EnsureInstalled(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2.0.4", version)
	assert.FileExists(t, cache.Layout().ExecutablePath("2.0.4"))
	assert.FileExists(t, cache.Layout().ScriptPath("2.0.4"))
	assert.Equal(t, int32(1), downloader.calls.Load())

	// No staging directories are left behind.
	siblings, readErr := os.ReadDir(filepath.Dir(cache.Layout().Root))
	require.NoError(t, readErr)
	names := []string{}
	for _, s := range siblings {
		names = append(names, s.Name())
	}
	assert.ElementsMatch(t, []string{"autohotkey", "autohotkey.lock"}, names)

	history, historyErr := os.ReadFile(cache.Layout().LockfilePath())
	require.NoError(t, historyErr)
	assert.Contains(t, string(history), `"version":"2.0.4"`)
	assert.Contains(t, string(history), `"asset":"autohotkey-debug-2.0.4.vsix"`)
}

func TestEnsureInstalled_IsMemoized(t *testing.T) {
	t.Parallel()

	source := &fakeSource{version: "1.0.0"}
	cache := newTestCache(t, source, &fakeDownloader{}, "")

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	for i := 0; i < 3; i++ {
		version, err := cache.EnsureInstalled(ctx)
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", version)
	}

	// Even if the source would now report something else, the remembered version is used.
	source.version = "9.9.9"
	version, err := cache.EnsureInstalled(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", version)
	assert.Equal(t, int32(1), source.calls.Load())
}

func TestEnsureInstalled_ConcurrentCallersShareResolution(t *testing.T) {
	t.Parallel()

	source := &fakeSource{version: "1.5.0"}
	downloader := &fakeDownloader{}
	cache := newTestCache(t, source, downloader, "")

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	const callers = 16
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.EnsureInstalled(ctx)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "1.5.0", results[i])
	}
	assert.Equal(t, int32(1), source.calls.Load())
	assert.Equal(t, int32(1), downloader.calls.Load())
}

func TestEnsureInstalled_AlreadyInstalledSkipsDownload(t *testing.T) {
	t.Parallel()

	downloader := &fakeDownloader{}
	cache := newTestCache(t, &fakeSource{version: "1.0.0"}, downloader, "")
	preinstall(t, cache, "1.0.0", "0.9.0")

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	version, err := cache.EnsureInstalled(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", version)
	assert.Equal(t, int32(0), downloader.calls.Load())
	assert.DirExists(t, cache.Layout().VersionedDir("0.9.0"), "existing installations are left alone when nothing new is installed")
}

func TestEnsureInstalled_NewVersionReplacesOldOnes(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, &fakeSource{version: "2.0.0"}, &fakeDownloader{}, "")
	preinstall(t, cache, "1.0.0", "1.1.0")

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	version, err := cache.EnsureInstalled(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", version)

	installed, listErr := cache.InstalledVersions()
	require.NoError(t, listErr)
	assert.Equal(t, []string{"2.0.0"}, installed)
}

func TestEnsureInstalled_FallsBackToNewestInstalledVersion(t *testing.T) {
	t.Parallel()

	downloader := &fakeDownloader{}
	cache := newTestCache(t, &fakeSource{err: networkFailure()}, downloader, "")
	preinstall(t, cache, "1.0.0", "2.0.0", "1.9.9")
	require.NoError(t, os.WriteFile(filepath.Join(cache.Layout().Root, "autohotkey_3.0.0"), nil, osutil.PermissionOnlyOwnerReadWrite))
	require.NoError(t, os.MkdirAll(filepath.Join(cache.Layout().Root, "unrelated_5.0.0"), osutil.PermissionOwnerAllOthersTraverse))

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	version, err := cache.EnsureInstalled(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", version)
	assert.Equal(t, int32(0), downloader.calls.Load())
}

func TestEnsureInstalled_FallbackOnMissingAsset(t *testing.T) {
	t.Parallel()

	missingAsset := fmt.Errorf("%w: no .vsix asset found in release", dap.ErrNoMatchingAsset)
	cache := newTestCache(t, &fakeSource{err: missingAsset}, &fakeDownloader{}, "")
	preinstall(t, cache, "0.1.0")

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	version, err := cache.EnsureInstalled(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", version)
}

func TestEnsureInstalled_FallbackOrdering(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		ordering VersionOrdering
		expected string
	}{
		{VersionOrderingSemver, "10.0.0"},
		{VersionOrderingLexical, "9.0.0"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(string(tc.ordering), func(t *testing.T) {
			t.Parallel()

			cache := newTestCache(t, &fakeSource{err: networkFailure()}, &fakeDownloader{}, tc.ordering)
			preinstall(t, cache, "9.0.0", "10.0.0")

			ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
			defer cancel()

			version, err := cache.EnsureInstalled(ctx)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, version)
		})
	}
}

func TestEnsureInstalled_NoCachedVersion(t *testing.T) {
	t.Parallel()

	source := &fakeSource{err: networkFailure()}
	cache := newTestCache(t, source, &fakeDownloader{}, "")

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	_, err := cache.EnsureInstalled(ctx)
	require.ErrorIs(t, err, dap.ErrNoCachedVersion)
	assert.Contains(t, err.Error(), "Failed to fetch release and no cached version found")
	assert.Contains(t, err.Error(), "connection refused")

	// Failures are not remembered.
	_, err = cache.EnsureInstalled(ctx)
	require.Error(t, err)
	assert.Equal(t, int32(2), source.calls.Load())
}

func TestEnsureInstalled_EmptyRootHasNoCandidates(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, &fakeSource{err: networkFailure()}, &fakeDownloader{}, "")
	require.NoError(t, os.MkdirAll(filepath.Join(cache.Layout().Root, "autohotkey_"), osutil.PermissionOwnerAllOthersTraverse))

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	_, err := cache.EnsureInstalled(ctx)
	require.ErrorIs(t, err, dap.ErrNoCachedVersion)
}

func TestEnsureInstalled_UnreadableRootIsFatal(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, &fakeSource{err: networkFailure()}, &fakeDownloader{}, "")
	// A file where the root directory should be.
	require.NoError(t, os.WriteFile(cache.Layout().Root, []byte("x"), osutil.PermissionOnlyOwnerReadWrite))

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	_, err := cache.EnsureInstalled(ctx)
	require.ErrorIs(t, err, dap.ErrInstallFailed)
	assert.NotErrorIs(t, err, dap.ErrNoCachedVersion)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestEnsureInstalled_DownloadFailureIsFatal(t *testing.T) {
	t.Parallel()

	downloader := &fakeDownloader{err: errors.New("unexpected EOF")}
	cache := newTestCache(t, &fakeSource{version: "2.0.0"}, downloader, "")
	preinstall(t, cache, "1.0.0")

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	_, err := cache.EnsureInstalled(ctx)
	require.ErrorIs(t, err, dap.ErrInstallFailed)
	assert.Contains(t, err.Error(), "unexpected EOF")

	// The previous installation survives a failed download.
	assert.DirExists(t, cache.Layout().VersionedDir("1.0.0"))
	assert.NoDirExists(t, cache.Layout().VersionedDir("2.0.0"))
}

func TestEnsureInstalled_NonRecoverableSourceError(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, &fakeSource{err: errors.New("boom")}, &fakeDownloader{}, "")
	preinstall(t, cache, "1.0.0")

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	_, err := cache.EnsureInstalled(ctx)
	require.EqualError(t, err, "boom")
}

func TestEnsureInstalled_RejectsUnsafeVersion(t *testing.T) {
	t.Parallel()

	downloader := &fakeDownloader{}
	cache := newTestCache(t, &fakeSource{version: "../escape"}, downloader, "")

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	_, err := cache.EnsureInstalled(ctx)
	require.ErrorIs(t, err, dap.ErrInstallFailed)
	assert.Equal(t, int32(0), downloader.calls.Load())
}

func TestEnsureInstalled_CorruptedHistoryIsReset(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, &fakeSource{version: "1.0.0"}, &fakeDownloader{}, "")
	require.NoError(t, os.WriteFile(cache.Layout().LockfilePath(), []byte("not json\n"), osutil.PermissionOnlyOwnerReadWrite))

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	version, err := cache.EnsureInstalled(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", version)

	history, historyErr := os.ReadFile(cache.Layout().LockfilePath())
	require.NoError(t, historyErr)
	assert.NotContains(t, string(history), "not json")
	assert.Contains(t, string(history), `"version":"1.0.0"`)
}

func TestEnsureInstalled_WaitsForInstallLock(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "autohotkey")
	layout, layoutErr := adapterpaths.NewLayout(root, "autohotkey", "extension/bin/AutoHotkey.exe", "extension/ahkdbg/debugAdapter.ahk")
	require.NoError(t, layoutErr)

	downloader := &fakeDownloader{}
	cache, cacheErr := NewCache(CacheOptions{
		Layout:     layout,
		Source:     &fakeSource{version: "1.0.0"},
		Downloader: downloader,
		LockWait:   lockfile.WaitOptions{Timeout: 200 * time.Millisecond},
	}, testutil.NewLogForTesting(t.Name()))
	require.NoError(t, cacheErr)

	ctx, cancel := testutil.GetTestContext(t, defaultTestTimeout)
	defer cancel()

	// Another installer holds the lock.
	other, lockErr := lockfile.NewLockfile(layout.LockfilePath())
	require.NoError(t, lockErr)
	require.NoError(t, other.Acquire(ctx, lockfile.WaitOptions{}))

	_, err := cache.EnsureInstalled(ctx)
	require.ErrorIs(t, err, dap.ErrInstallFailed)
	require.ErrorIs(t, err, lockfile.ErrLockTimeout)
	assert.Equal(t, int32(0), downloader.calls.Load())
	assert.NoDirExists(t, layout.VersionedDir("1.0.0"))

	require.NoError(t, other.Close())

	version, err := cache.EnsureInstalled(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", version)
	assert.Equal(t, int32(1), downloader.calls.Load())
}
