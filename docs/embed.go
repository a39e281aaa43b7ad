package docs

import _ "embed"

//go:embed coldmailer.openapi.yaml
var embeddedOpenAPI []byte

//go:embed swagger.html
var embeddedSwaggerHTML []byte

// OpenAPI is the OpenAPI description of the coldmailer HTTP API.
var OpenAPI = embeddedOpenAPI

// SwaggerHTML renders OpenAPI with Swagger UI.
var SwaggerHTML = embeddedSwaggerHTML
