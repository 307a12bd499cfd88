// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

// Package docs registers the OpenAPI document served under /swagger/.
// Keep it in step with the @Router annotations in internal/api.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/recommend/{user_id}": {
            "get": {
                "description": "Returns up to neighbours_default-1 users with the most similar favorite genres",
                "produces": ["application/json"],
                "tags": ["recommend"],
                "summary": "Recommend potential friends",
                "parameters": [
                    {"type": "string", "description": "User UUID", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorDetail"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorDetail"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorDetail"}}
                }
            }
        },
        "/api/v1/recommend/{userID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["recommend"],
                "summary": "Recommend potential friends with a custom neighborhood size",
                "parameters": [
                    {"type": "string", "description": "User UUID", "name": "userID", "in": "path", "required": true},
                    {"type": "integer", "description": "Neighborhood size including the user", "name": "k", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/v1/recommend/{userID}/compatibility": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recommend"],
                "summary": "Score candidates by shared favorite genres",
                "parameters": [
                    {"type": "string", "description": "User UUID", "name": "userID", "in": "path", "required": true},
                    {"description": "Candidate user ids", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CompatibilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/v1/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/v1/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {},
                "metadata": {"$ref": "#/definitions/models.Metadata"},
                "error": {"$ref": "#/definitions/models.APIError"}
            }
        },
        "models.Metadata": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "query_time_ms": {"type": "integer"}
            }
        },
        "models.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "detail": {"type": "string"}
            }
        },
        "models.RecommendationData": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "neighbors": {"type": "array", "items": {"type": "string"}},
                "k": {"type": "integer"}
            }
        },
        "models.CompatibilityRequest": {
            "type": "object",
            "required": ["candidates"],
            "properties": {
                "candidates": {"type": "array", "minItems": 1, "maxItems": 500, "items": {"type": "string"}}
            }
        },
        "models.CompatibilityEntry": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "compatibility": {"type": "number"}
            }
        },
        "models.CompatibilityData": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "candidates": {"type": "integer"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/models.CompatibilityEntry"}}
            }
        },
        "models.HealthStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "database": {"type": "string"},
                "uptime": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Soundhub Friends API",
	Description:      "Genre-based friend recommendations for Soundhub users.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
