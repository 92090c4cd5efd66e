package app

import _ "embed"

// OpenAPISpec is served under /docs
//
//go:embed openapi.yaml
var OpenAPISpec []byte
