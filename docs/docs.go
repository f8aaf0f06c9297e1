// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with `go generate ./cmd/clinic` after changing handler annotations.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/refresh": {
            "post": {
                "tags": ["auth"], "summary": "Refresh the access token",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/refreshRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}}}
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"], "summary": "Logout", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["auth"], "summary": "Current account", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}}}
            }
        },
        "/optometrist/api/register": {
            "post": {
                "tags": ["optometrist"], "summary": "Register an optometrist",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}}}
            }
        },
        "/optometrist/api/login": {
            "post": {
                "tags": ["auth"], "summary": "Optometrist portal login",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/optometrist/api/list": {
            "get": {"tags": ["optometrist"], "summary": "List optometrists", "responses": {"200": {"description": "OK"}}}
        },
        "/optometrist/api/{id}": {
            "get": {
                "tags": ["optometrist"], "summary": "Optometrist detail",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}}
            }
        },
        "/optometrist/api/exams/create": {
            "post": {
                "tags": ["optometrist"], "summary": "Create an examination", "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}
            }
        },
        "/optometrist/api/new-examination": {
            "get": {"tags": ["optometrist"], "summary": "New examination form context", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/doctor/api/login": {
            "post": {
                "tags": ["auth"], "summary": "Doctor portal login",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/doctor/api/list": {
            "get": {"tags": ["doctor"], "summary": "List doctors", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/doctor/api/dashboard": {
            "get": {"tags": ["doctor"], "summary": "Doctor dashboard", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/doctor/api/exams/{id}/consult": {
            "post": {
                "tags": ["doctor"], "summary": "Consult and complete an examination", "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        },
        "/patient/api/register": {
            "post": {
                "tags": ["auth"], "summary": "Register a patient account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}}}
            }
        },
        "/patient/api/login": {
            "post": {
                "tags": ["auth"], "summary": "Patient portal login",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/patient/api/dashboard": {
            "get": {"tags": ["patient"], "summary": "Patient dashboard", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "loginRequest": {
            "type": "object", "required": ["phone_number", "password"],
            "properties": {"phone_number": {"type": "string"}, "password": {"type": "string"}}
        },
        "refreshRequest": {"type": "object", "required": ["refresh"], "properties": {"refresh": {"type": "string"}}},
        "registerRequest": {
            "type": "object", "required": ["name", "phone_number", "password"],
            "properties": {"name": {"type": "string"}, "phone_number": {"type": "string"}, "password": {"type": "string"}, "email": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Eye Clinic API",
	Description:      "Intake, consultation and patient history for an eye clinic.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
