// Package docs registers the OpenAPI description served under /api/swagger.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new account", "consumes": ["application/json"], "produces": ["application/json"],
            "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Exchange credentials for an access token", "consumes": ["application/json"], "produces": ["application/json"],
            "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}}},
        "/users/me": {"get": {"tags": ["auth"], "summary": "Current user profile", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/tournaments": {
            "get": {"tags": ["tournaments"], "summary": "List tournaments",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "sport", "in": "query"},
                    {"type": "boolean", "name": "deleted", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["tournaments"], "summary": "Create a tournament", "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/tournaments/{tournamentID}": {
            "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
            "get": {"tags": ["tournaments"], "summary": "Tournament with its registrations and fixtures",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["tournaments"], "summary": "Edit a tournament while registration is open", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["tournaments"], "summary": "Move a tournament to the recycle bin", "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "No Content"}}}
        },
        "/tournaments/{tournamentID}/image": {
            "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
            "put": {"tags": ["tournaments"], "summary": "Upload the tournament banner", "consumes": ["multipart/form-data"], "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Storage disabled"}}}
        },
        "/tournaments/{tournamentID}/complete": {
            "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
            "post": {"tags": ["bracket"], "summary": "Declare the champion directly", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/tournaments/{tournamentID}/fixtures": {
            "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
            "get": {"tags": ["bracket"], "summary": "Fixtures of a tournament", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["bracket"], "summary": "Draw a fixture by hand", "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}}
        },
        "/tournaments/{tournamentID}/rounds": {
            "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
            "post": {"tags": ["bracket"], "summary": "Pair all active registrations into a new round", "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/tournaments/{tournamentID}/registrations": {
            "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
            "post": {"tags": ["registrations"], "summary": "Sign a team or a player up for a tournament", "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/fixtures/{fixtureID}/winner": {
            "parameters": [{"type": "integer", "name": "fixtureID", "in": "path", "required": true}],
            "patch": {"tags": ["bracket"], "summary": "Record the winner of a fixture", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/registrations": {"get": {"tags": ["registrations"], "summary": "List registrations visible to the caller", "responses": {"200": {"description": "OK"}}}},
        "/registrations/{registrationID}": {
            "parameters": [{"type": "integer", "name": "registrationID", "in": "path", "required": true}],
            "get": {"tags": ["registrations"], "summary": "Registration details", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["registrations"], "summary": "Withdraw a registration while registration is open", "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}}
        },
        "/bookings": {
            "get": {"tags": ["bookings"], "summary": "List bookings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["bookings"], "summary": "Request a custom event", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/bookings/{bookingID}/status": {
            "parameters": [{"type": "integer", "name": "bookingID", "in": "path", "required": true}],
            "patch": {"tags": ["bookings"], "summary": "Approve or reject a booking", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/bookings/{bookingID}/cancel": {
            "parameters": [{"type": "integer", "name": "bookingID", "in": "path", "required": true}],
            "post": {"tags": ["bookings"], "summary": "Cancel an own booking within 24 hours", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/jobs/applications": {
            "get": {"tags": ["jobs"], "summary": "List job applications", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["jobs"], "summary": "Apply for a staff position", "responses": {"201": {"description": "Created"}}}
        },
        "/jobs/applications/{applicationID}/status": {
            "parameters": [{"type": "integer", "name": "applicationID", "in": "path", "required": true}],
            "patch": {"tags": ["jobs"], "summary": "Move an application through hiring", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/jobs/applications/{applicationID}": {
            "parameters": [{"type": "integer", "name": "applicationID", "in": "path", "required": true}],
            "delete": {"tags": ["jobs"], "summary": "Move an application to the recycle bin", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}
        },
        "/admin/restore/{itemID}": {
            "parameters": [{"type": "integer", "name": "itemID", "in": "path", "required": true}],
            "post": {"tags": ["admin"], "summary": "Restore an item from the recycle bin", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"type": {"type": "string", "enum": ["wedding", "booking", "tournament", "sports-registration", "registration", "job"]}}}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/inquiries": {"post": {"tags": ["inquiries"], "summary": "Send a custom event inquiry", "responses": {"202": {"description": "Accepted"}}}},
        "/ws/tournaments/{tournamentID}": {
            "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
            "get": {"tags": ["bracket"], "summary": "Live bracket feed (websocket)", "responses": {"101": {"description": "Switching Protocols"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Infinity Hospitality Event API",
	Description:      "Bookings, staffing and knockout tournaments for Infinity Hospitality events.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
