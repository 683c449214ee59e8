/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package lockfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/microsoft/ahkdap/pkg/osutil"
)

var (
	ErrRecordFileNotInitialized = errors.New("record file is not initialized")

	// ErrCorrupted means the record file content could not be parsed.
	// The content is discarded when this happens, so the next read starts from an empty file.
	ErrCorrupted = errors.New("record file is corrupted")
)

type RecordMarshaller[R any] interface {
	Unmarshal(line []byte) (R, error)
	Marshal(record R) ([]byte, error)
}

// A RecordFile is a Lockfile holding one record per line.
// Records are read when the lock is acquired and written back when it is released.
type RecordFile[R any] struct {
	Lockfile
	rw RecordMarshaller[R]
}

func NewRecordFile[R any](path string, rw RecordMarshaller[R]) (*RecordFile[R], error) {
	if rw == nil {
		return nil, errors.New("RecordMarshaller cannot be nil")
	}
	lockfile, err := NewLockfile(path)
	if err != nil {
		return nil, err
	}

	return &RecordFile[R]{
		Lockfile: *lockfile,
		rw:       rw,
	}, nil
}

// AcquireAndRead acquires the lock and reads all records.
// On success the lock stays held; the caller releases it, usually with WriteAndRelease().
// If the content cannot be parsed, it is discarded, the lock is released, and an error wrapping ErrCorrupted is returned.
func (rf *RecordFile[R]) AcquireAndRead(ctx context.Context, opts WaitOptions) ([]R, error) {
	if rf == nil {
		return nil, ErrRecordFileNotInitialized
	}

	if lockErr := rf.Acquire(ctx, opts); lockErr != nil {
		return nil, lockErr
	}

	if _, seekErr := rf.Seek(0, io.SeekStart); seekErr != nil {
		return nil, errors.Join(seekErr, rf.Release())
	}

	discard := func(cause error) error {
		return errors.Join(fmt.Errorf("%w: '%s': %w", ErrCorrupted, rf.Path(), cause), rf.Reset(), rf.Release())
	}

	var records []R
	scanner := bufio.NewScanner(rf)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		record, unmarshalErr := rf.rw.Unmarshal(line)
		if unmarshalErr != nil {
			return nil, discard(unmarshalErr)
		}
		records = append(records, record)
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, discard(scanErr)
	}

	return records, nil
}

// WriteAndRelease replaces the file content with given records and releases the lock.
// The lock must be held. It is released even if writing fails; in that case the file is left empty.
func (rf *RecordFile[R]) WriteAndRelease(records []R) error {
	if rf == nil {
		return ErrRecordFileNotInitialized
	}

	if resetErr := rf.Reset(); resetErr != nil {
		return errors.Join(resetErr, rf.Release())
	}

	for _, record := range records {
		line, err := rf.rw.Marshal(record)
		if err == nil {
			_, err = rf.Write(osutil.WithNewline(line))
		}
		if err != nil {
			return errors.Join(err, rf.Reset(), rf.Release())
		}
	}

	return rf.Release()
}
