/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRequestKind_DefaultsToLaunch(t *testing.T) {
	t.Parallel()

	documents := []string{
		`{}`,
		`{"request": null}`,
		`{"program": "main.ahk", "stopOnEntry": true}`,
		`{"request": 42}`,
		`{"request": {"nested": "attach"}}`,
	}

	for _, doc := range documents {
		kind, err := ResolveRequestKind([]byte(doc))
		require.NoError(t, err, "document: %s", doc)
		assert.Equal(t, RequestKindLaunch, kind, "document: %s", doc)
	}
}

func TestResolveRequestKind_ExplicitValues(t *testing.T) {
	t.Parallel()

	kind, err := ResolveRequestKind([]byte(`{"request": "launch"}`))
	require.NoError(t, err)
	assert.Equal(t, RequestKindLaunch, kind)

	kind, err = ResolveRequestKind([]byte(`{"request": "attach", "processId": 1234}`))
	require.NoError(t, err)
	assert.Equal(t, RequestKindAttach, kind)
}

func TestResolveRequestKind_InvalidValue(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"Launch", "ATTACH", "", "run"} {
		_, err := ResolveRequestKind([]byte(`{"request": "` + value + `"}`))
		require.ErrorIs(t, err, ErrInvalidRequestType, "value: %q", value)
		assert.Contains(t, err.Error(), "'"+value+"'")
		assert.Contains(t, err.Error(), "'launch'")
		assert.Contains(t, err.Error(), "'attach'")
	}
}

func TestResolveRequestKind_MalformedDocument(t *testing.T) {
	t.Parallel()

	_, err := ResolveRequestKind([]byte(`{"request": "launch"`))
	require.ErrorIs(t, err, ErrConfigParse)

	_, err = ResolveRequestKind([]byte(`["launch"]`))
	require.ErrorIs(t, err, ErrConfigParse)
}

func TestParseRequestKind_Nil(t *testing.T) {
	t.Parallel()

	kind, err := ParseRequestKind(nil)
	require.NoError(t, err)
	assert.Equal(t, RequestKindLaunch, kind)
}
