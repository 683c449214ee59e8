/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package install

import (
	"encoding/json"
	"time"

	"github.com/microsoft/ahkdap/internal/lockfile"
)

// The most recent installations are kept in the install lock file, one JSON record per line.
const maxInstallRecords = 20

type installRecord struct {
	Version     string    `json:"version"`
	Asset       string    `json:"asset"`
	URL         string    `json:"url"`
	InstalledAt time.Time `json:"time"`
}

type installRecordMarshaller struct{}

func (installRecordMarshaller) Unmarshal(line []byte) (installRecord, error) {
	var r installRecord
	err := json.Unmarshal(line, &r)
	return r, err
}

func (installRecordMarshaller) Marshal(r installRecord) ([]byte, error) {
	return json.Marshal(r)
}

var _ lockfile.RecordMarshaller[installRecord] = installRecordMarshaller{}

func appendInstallRecord(history []installRecord, r installRecord) []installRecord {
	history = append(history, r)
	if len(history) > maxInstallRecords {
		history = history[len(history)-maxInstallRecords:]
	}
	return history
}
