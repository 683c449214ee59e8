/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

// Package lockfile serializes installations of the debug adapter across processes.
// Several debug sessions (each running its own ahkdap process) may find the adapter missing at the same time;
// the one holding the lock installs it, the others wait and then find it installed.
package lockfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	ahkio "github.com/microsoft/ahkdap/pkg/io"
	"github.com/microsoft/ahkdap/pkg/osutil"
)

const (
	// DefaultPollInterval is how often a waiting process checks whether the lock has been released.
	DefaultPollInterval = 25 * time.Millisecond

	// DefaultWaitTimeout bounds how long a process waits for another process to finish installing the adapter.
	// It has to cover a full download of the adapter package over a slow connection.
	DefaultWaitTimeout = 5 * time.Minute
)

var (
	ErrNotHeld     = errors.New("the lockfile is not held, I/O is not allowed")
	ErrNeedAbsPath = errors.New("lockfile path must be absolute")
	ErrLockTimeout = errors.New("timed out waiting for the lockfile")
)

// WaitOptions control how Acquire waits for a lock held by someone else.
// Zero values select DefaultPollInterval and DefaultWaitTimeout.
type WaitOptions struct {
	PollInterval time.Duration
	Timeout      time.Duration
}

func (wo WaitOptions) withDefaults() WaitOptions {
	if wo.PollInterval <= 0 {
		wo.PollInterval = DefaultPollInterval
	}
	if wo.Timeout <= 0 {
		wo.Timeout = DefaultWaitTimeout
	}
	return wo
}

// Lockfile is a file that is exclusively locked while held.
// Reads and writes are only allowed while the lock is held.
// A Lockfile is meant to be used by a single goroutine.
type Lockfile struct {
	path string
	file *os.File
	held bool
}

// NewLockfile returns a Lockfile for given absolute path. The file is created on first Acquire().
func NewLockfile(path string) (*Lockfile, error) {
	if path == "" || !filepath.IsAbs(path) {
		return nil, ErrNeedAbsPath
	}
	return &Lockfile{path: path}, nil
}

func (l *Lockfile) Path() string {
	return l.path
}

func (l *Lockfile) Held() bool {
	return l.held
}

// Acquire takes the lock, waiting for the current holder (if any) to release it.
// Acquiring a lock that is already held by this Lockfile does nothing.
// Returns ErrLockTimeout if the lock could not be taken within opts.Timeout.
func (l *Lockfile) Acquire(ctx context.Context, opts WaitOptions) error {
	if l.held {
		return nil
	}

	opts = opts.withDefaults()
	waitCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	pollErr := wait.PollUntilContextCancel(waitCtx, wait.Jitter(opts.PollInterval, 0.2), true /* immediate */, l.tryAcquire)
	switch {
	case pollErr == nil:
		return nil
	case ctx.Err() == nil && waitCtx.Err() != nil:
		return fmt.Errorf("%w '%s' after %s", ErrLockTimeout, l.path, opts.Timeout)
	default:
		return fmt.Errorf("could not lock '%s': %w", l.path, pollErr)
	}
}

func (l *Lockfile) tryAcquire(_ context.Context) (bool, error) {
	if l.file == nil {
		file, openErr := ahkio.OpenFile(l.path, os.O_CREATE|os.O_RDWR, osutil.PermissionOnlyOwnerReadWrite)
		if openErr != nil {
			return false, openErr
		}
		l.file = file
	}

	lockErr := lockExclusive(l.file)
	if lockErr == nil {
		l.held = true
		return true, nil
	}
	if isContended(lockErr) {
		return false, nil
	}
	return false, lockErr
}

// Release gives up the lock. The file stays open, so the lock can be acquired again.
func (l *Lockfile) Release() error {
	if l.file == nil || !l.held {
		return nil
	}

	// I/O must fail from now on, even if unlocking does not succeed.
	l.held = false
	return unlock(l.file)
}

// Close releases the lock (if held) and closes the file.
func (l *Lockfile) Close() error {
	releaseErr := l.Release()
	if l.file == nil {
		return releaseErr
	}

	closeErr := l.file.Close()
	l.file = nil
	return errors.Join(releaseErr, closeErr)
}

func (l *Lockfile) checkHeld() error {
	if l.file == nil || !l.held {
		return ErrNotHeld
	}
	return nil
}

func (l *Lockfile) Read(p []byte) (int, error) {
	if err := l.checkHeld(); err != nil {
		return 0, err
	}
	return l.file.Read(p)
}

func (l *Lockfile) Write(p []byte) (int, error) {
	if err := l.checkHeld(); err != nil {
		return 0, err
	}
	return l.file.Write(p)
}

func (l *Lockfile) Seek(offset int64, whence int) (int64, error) {
	if err := l.checkHeld(); err != nil {
		return 0, err
	}
	return l.file.Seek(offset, whence)
}

// Reset empties the file and moves the file offset to the start.
func (l *Lockfile) Reset() error {
	if err := l.checkHeld(); err != nil {
		return err
	}
	if err := l.file.Truncate(0); err != nil {
		return err
	}
	_, seekErr := l.file.Seek(0, io.SeekStart)
	return seekErr
}

var _ io.ReadWriteCloser = (*Lockfile)(nil)
var _ io.Seeker = (*Lockfile)(nil)
