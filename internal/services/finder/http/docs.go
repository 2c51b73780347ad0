package http

import _ "embed"

//go:embed openapi.json
var openAPI []byte

// OpenAPI returns the OpenAPI document describing the routes Register mounts
func OpenAPI() []byte { return openAPI }
