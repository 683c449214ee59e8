/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	requestField     = "request"
	programField     = "program"
	cwdField         = "cwd"
	argsField        = "args"
	stopOnEntryField = "stopOnEntry"
	portField        = "port"
)

// Configuration is the validated form of an adapter configuration document.
// Fields the adapter does not know about are ignored, but they are kept in the raw document
// so that the adapter receives exactly what the user wrote.
type Configuration struct {
	// Request is nil when the "request" field is absent, null, or not a string.
	Request *string

	Program string

	// Cwd is nil when the "cwd" field is absent or null.
	Cwd *string

	Args []string

	StopOnEntry bool

	// Port is nil when the "port" field is absent or not a number.
	Port *int

	raw []byte
}

// ParseConfiguration validates a configuration document once, at the boundary.
// The document must be a well-formed JSON object.
func ParseConfiguration(document []byte) (*Configuration, error) {
	if !gjson.ValidBytes(document) {
		return nil, fmt.Errorf("%w: %s", ErrConfigParse, syntaxErrorDetail(document))
	}

	root := gjson.ParseBytes(document)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object, got %s", ErrConfigParse, root.Type.String())
	}

	config := &Configuration{
		raw: slices.Clone(document),
	}

	if request := root.Get(requestField); request.Type == gjson.String {
		config.Request = &request.Str
	}

	if program := root.Get(programField); program.Type == gjson.String {
		config.Program = program.Str
	}

	if cwd := root.Get(cwdField); cwd.Type == gjson.String {
		config.Cwd = &cwd.Str
	}

	if args := root.Get(argsField); args.IsArray() {
		for _, arg := range args.Array() {
			config.Args = append(config.Args, arg.String())
		}
	}

	config.StopOnEntry = root.Get(stopOnEntryField).Type == gjson.True

	if port := root.Get(portField); port.Type == gjson.Number {
		p := int(port.Int())
		config.Port = &p
	}

	return config, nil
}

// RequestKind determines whether the configuration describes a launch or an attach session.
func (c *Configuration) RequestKind() (RequestKind, error) {
	return ParseRequestKind(c.Request)
}

// Raw returns the configuration document as supplied, plus any fields set via With* methods.
func (c *Configuration) Raw() json.RawMessage {
	return slices.Clone(c.raw)
}

// WithPort returns a copy of the configuration with the "port" field set, preserving all other fields.
func (c *Configuration) WithPort(port int) (*Configuration, error) {
	updated, setErr := sjson.SetBytes(slices.Clone(c.raw), portField, port)
	if setErr != nil {
		return nil, fmt.Errorf("could not set '%s' in the debug configuration: %w", portField, setErr)
	}

	retval := *c
	retval.raw = updated
	retval.Port = &port
	return &retval, nil
}

// AsMap decodes the raw document into a generic map.
func (c *Configuration) AsMap() (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(c.raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	return m, nil
}

// LaunchDocument is the configuration document emitted for launch scenarios.
// Field order matches what editors show to the user.
type LaunchDocument struct {
	Request     RequestKind `json:"request"`
	Program     string      `json:"program"`
	Cwd         *string     `json:"cwd"`
	Args        []string    `json:"args"`
	StopOnEntry bool        `json:"stopOnEntry"`
	Port        *int        `json:"port,omitempty"`
}

func (ld LaunchDocument) Marshal() (json.RawMessage, error) {
	if ld.Args == nil {
		ld.Args = []string{}
	}
	return json.Marshal(ld)
}

// gjson only reports validity, encoding/json tells where the problem is.
func syntaxErrorDetail(document []byte) string {
	var decoded any
	if err := json.Unmarshal(document, &decoded); err != nil {
		return err.Error()
	}
	return "the document is not well-formed JSON"
}
