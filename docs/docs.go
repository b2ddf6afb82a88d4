// Package docs registers the OpenAPI description served under /swagger/.
// Regenerate with: swag init -g cmd/workshopsite/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "Renders the public workshop page. Invalid content is refused with 422 rather than served.",
                "produces": ["text/html"],
                "tags": ["site"],
                "summary": "Workshop page",
                "responses": {
                    "200": {"description": "HTML page", "schema": {"type": "string"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "422": {"description": "error.code: invalid_content", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/drafts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Renders the unpublished draft blocks (invited speakers, call for papers) for editors.",
                "produces": ["text/html"],
                "tags": ["site"],
                "summary": "Draft preview",
                "responses": {
                    "200": {"description": "HTML preview", "schema": {"type": "string"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/workshop": {
            "get": {
                "description": "Returns the published workshop content as JSON. Draft blocks are omitted and slide links are resolved.",
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "Workshop content",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/validation": {
            "get": {
                "description": "Checks author lists, paper order, schedule order and overlap, and link form. A report with issues is still a 200.",
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "Content validation report",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/links": {
            "get": {
                "description": "Returns the last known status of every outbound link. Links never checked have status_code 0.",
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "Cached link statuses",
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 50, max 200)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/links/check": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Probes every outbound link now and refreshes the cache.",
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "Run a link check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/auth/token": {
            "post": {
                "description": "Exchange the editor's email and password for a JWT that unlocks the draft preview.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Editor token",
                "parameters": [
                    {"description": "Editor credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.TokenRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "issues": {"type": "array", "items": {"$ref": "#/definitions/domain.Issue"}}
            }
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "domain.Issue": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"},
                "rule": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "workshopsite API",
	Description:      "Preview server for a workshop page: rendered page, content, validation and link status.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
