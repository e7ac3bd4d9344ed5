// Package docs holds the generated OpenAPI document for the HTTP API.
//
// This file is the handwritten equivalent of what `swag init` would emit
// from the @-annotations on the handlers in internal/api/handlers; it is
// committed so gin-swagger has a spec to serve without a code-generation
// step at build time.
package docs

import (
	"github.com/swaggo/swag"
)

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/transactions": {
            "post": {
                "tags": ["transactions"],
                "summary": "Submit a transaction for fallback processing",
                "description": "Runs the cost/currency-ordered processor fallback chain for a single transaction, honoring idempotency by transaction_id.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.transactionRequestDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/processor.Response"}},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/api/v1/processors/status": {
            "get": {
                "tags": ["processors"],
                "summary": "List circuit-breaker status for every configured processor",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/processors/{name}/reset": {
            "post": {
                "tags": ["processors"],
                "summary": "Reset a processor's circuit breaker to CLOSED",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/v1/processors/{name}/inject-failures": {
            "post": {
                "tags": ["processors"],
                "summary": "Inject synthetic failures into a processor's breaker window",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "count", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/api/v1/stats": {
            "get": {
                "tags": ["stats"],
                "summary": "Fetch aggregate and per-processor transaction statistics",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Flexipay Fallback Engine API",
	Description:      "Cost-and-currency-aware payment processor fallback engine with circuit breaking, retry/backoff and idempotent transaction submission.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
