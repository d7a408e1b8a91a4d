// Package docs registers the generated OpenAPI document with the swag
// runtime so /swagger/ can serve it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}}
                }
            }
        },
        "/v1/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}}
                }
            }
        },
        "/v1/token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["token"],
                "summary": "Issue bearer token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}}
                }
            }
        },
        "/v1/token/revoke": {
            "post": {
                "produces": ["application/json"],
                "tags": ["token"],
                "summary": "Revoke current token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}}
                }
            }
        },
        "/v1/media/{type}": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Upload media",
                "parameters": [
                    {"type": "string", "name": "type", "in": "path", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "name": "metadata", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}}
                }
            }
        },
        "/v1/media/{type}/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Media information",
                "parameters": [
                    {"type": "string", "name": "type", "in": "path", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Delete media",
                "parameters": [
                    {"type": "string", "name": "type", "in": "path", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}}
                }
            }
        },
        "/v1/public/{type}/{id}": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["media"],
                "summary": "Download public media",
                "parameters": [
                    {"type": "string", "name": "type", "in": "path", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}}
                }
            }
        },
        "/v1/content/{type}/{id}": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["media"],
                "summary": "Download protected media",
                "parameters": [
                    {"type": "string", "name": "type", "in": "path", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "domain.APIEnvelope": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/domain.APIError"}
            }
        },
        "domain.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "text": {"type": "string"}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "identity-media API",
	Description:      "Tenant-partitioned media storage service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
