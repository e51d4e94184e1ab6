// Package docs holds the OpenAPI description served at /v1/docs/swagger.json.
// Keep it in step with the handler annotations.
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
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {
            "post": {
                "summary": "Admin sign-in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "summary": "Admin sign-out",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "summary": "Signed-in admin",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Identity"}}}
            }
        },
        "/sessions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "summary": "Session history, newest first",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "limit", "type": "integer", "minimum": 1, "maximum": 50, "default": 10}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/live.HistoryRow"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "summary": "Start a session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.StartSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Session"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "A session is already active", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/sessions/active": {
            "get": {
                "summary": "Active session state",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/live.SessionState"}}}
            }
        },
        "/sessions/active/end": {
            "post": {
                "security": [{"BearerAuth": []}],
                "summary": "End the active session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.EndSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Session"}},
                    "409": {"description": "No matching active session", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/sessions/active/contacts.vcf": {
            "get": {
                "summary": "Download the active session's contacts once the goal is reached",
                "produces": ["text/vcard"],
                "responses": {
                    "200": {"description": "vCard 3.0 file"},
                    "409": {"description": "Goal not reached", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "summary": "One session",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Session"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}/participants": {
            "get": {
                "security": [{"BearerAuth": []}],
                "summary": "Participant list",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/live.ParticipantsState"}}}
            },
            "post": {
                "summary": "Register for a session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/live.ParticipantRow"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "Duplicate phone or inactive session", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}/contacts.vcf": {
            "get": {
                "security": [{"BearerAuth": []}],
                "summary": "Download a session's contacts",
                "produces": ["text/vcard"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "vCard 3.0 file"}}
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string", "enum": ["validation", "auth", "not_found", "conflict", "duplicate", "state", "internal"]}
            }
        },
        "model.LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "model.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "adminId": {"type": "string"},
                "email": {"type": "string"},
                "expiresAt": {"type": "string", "format": "date-time"}
            }
        },
        "model.Identity": {
            "type": "object",
            "properties": {"adminId": {"type": "string"}, "email": {"type": "string"}}
        },
        "model.StartSessionRequest": {
            "type": "object",
            "properties": {"requiredContacts": {"type": "integer", "minimum": 1}}
        },
        "model.EndSessionRequest": {
            "type": "object",
            "properties": {"sessionId": {"type": "string"}}
        },
        "model.RegisterRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "phone": {"type": "string"}}
        },
        "model.Session": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "startTime": {"type": "string", "format": "date-time"},
                "endTime": {"type": "string", "format": "date-time"},
                "requiredContacts": {"type": "integer"},
                "joinedContacts": {"type": "integer"},
                "isActive": {"type": "boolean"},
                "createdBy": {"type": "string"},
                "createdByEmail": {"type": "string"}
            }
        },
        "live.SessionState": {
            "type": "object",
            "properties": {
                "active": {"type": "boolean"},
                "sessionId": {"type": "string"},
                "startedAt": {"type": "string", "format": "date-time"},
                "required": {"type": "integer"},
                "joined": {"type": "integer"},
                "remaining": {"type": "integer"},
                "progressPercent": {"type": "integer"},
                "progressBar": {"type": "integer"}
            }
        },
        "live.ParticipantRow": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "joinedAt": {"type": "string", "format": "date-time"},
                "ipAddress": {"type": "string"}
            }
        },
        "live.ParticipantsState": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "count": {"type": "integer"},
                "required": {"type": "integer"},
                "phase": {"type": "string", "enum": ["inactive", "collecting", "goal_reached"]},
                "participants": {"type": "array", "items": {"$ref": "#/definitions/live.ParticipantRow"}}
            }
        },
        "live.HistoryRow": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "startTime": {"type": "string", "format": "date-time"},
                "endTime": {"type": "string", "format": "date-time"},
                "required": {"type": "integer"},
                "joined": {"type": "integer"},
                "status": {"type": "string", "enum": ["active", "ended"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Check-in API",
	Description:      "Live contact-collection sessions",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
