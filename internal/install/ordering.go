/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package install

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionOrdering decides which of the cached installations is the newest.
type VersionOrdering string

const (
	// Versions are compared as semantic versions. Versions that are not valid semantic versions
	// are only considered if none of the candidates is.
	VersionOrderingSemver VersionOrdering = "semver"

	// Versions are compared as plain strings, so "9.0.0" is newer than "10.0.0".
	VersionOrderingLexical VersionOrdering = "lexical"

	DefaultVersionOrdering = VersionOrderingSemver
)

func ParseVersionOrdering(value string) (VersionOrdering, error) {
	switch VersionOrdering(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return DefaultVersionOrdering, nil
	case VersionOrderingSemver:
		return VersionOrderingSemver, nil
	case VersionOrderingLexical:
		return VersionOrderingLexical, nil
	default:
		return "", fmt.Errorf("unknown version ordering '%s', expected '%s' or '%s'", value, VersionOrderingSemver, VersionOrderingLexical)
	}
}

// Latest returns the newest of the candidate versions, or false if there are no candidates.
func (o VersionOrdering) Latest(candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	sorted := slices.Clone(candidates)
	o.Sort(sorted)
	return sorted[len(sorted)-1], true
}

// Sort orders versions from the oldest to the newest, in place.
func (o VersionOrdering) Sort(versions []string) {
	if o != VersionOrderingSemver {
		slices.Sort(versions)
		return
	}

	parsed := make(map[string]*semver.Version, len(versions))
	for _, v := range versions {
		if sv, err := semver.NewVersion(v); err == nil {
			parsed[v] = sv
		}
	}

	slices.SortStableFunc(versions, func(a, b string) int {
		sa, aOK := parsed[a]
		sb, bOK := parsed[b]
		switch {
		case aOK && bOK:
			if c := sa.Compare(sb); c != 0 {
				return c
			}
			return strings.Compare(a, b)
		case aOK:
			return 1
		case bOK:
			return -1
		default:
			return strings.Compare(a, b)
		}
	})
}
