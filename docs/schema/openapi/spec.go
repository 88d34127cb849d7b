// Package openapi embeds the guild API OpenAPI document for runtime
// distribution.
package openapi

import _ "embed"

// guildAPISpec contains the OpenAPI description of the guild HTTP API.
//
//go:embed guild-api.yaml
var guildAPISpec []byte

// Spec returns a defensive copy of the embedded OpenAPI YAML.
func Spec() []byte {
	return append([]byte(nil), guildAPISpec...)
}
