// Package docs registers the portal's OpenAPI description with swag.
// Regenerate with: swag init -g cmd/portal/main.go -o internal/docs
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
        "/login": {"post": {"tags": ["auth"], "summary": "Sign in to the portal", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}},
        "/logout": {"post": {"tags": ["auth"], "summary": "Sign out", "responses": {"200": {"description": "OK"}}}},
        "/state": {"get": {"tags": ["auth"], "summary": "Current session state", "responses": {"200": {"description": "OK"}}}},
        "/signup": {"post": {"tags": ["auth"], "summary": "Create a caretaker or family-member account", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}},
        "/forgot-password": {"post": {"tags": ["auth"], "summary": "Email a password reset code", "responses": {"200": {"description": "OK"}}}},
        "/reset-password": {"post": {"tags": ["auth"], "summary": "Set a new password with an emailed code", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/dashboard": {"get": {"tags": ["portal"], "summary": "Dashboard", "responses": {"200": {"description": "OK"}, "202": {"description": "Session still loading"}}}},
        "/profile": {"patch": {"tags": ["portal"], "summary": "Update the local profile", "responses": {"200": {"description": "OK"}}}},
        "/profile/picture": {"patch": {"tags": ["portal"], "summary": "Set the profile picture", "responses": {"200": {"description": "OK"}}}},
        "/seniors": {"get": {"tags": ["seniors"], "summary": "Monitored seniors", "responses": {"200": {"description": "OK"}}}},
        "/seniors/{id}": {"get": {"tags": ["seniors"], "summary": "Senior profile", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/seniors/connect": {"post": {"tags": ["seniors"], "summary": "Ask a senior to join their collaboration", "responses": {"202": {"description": "Accepted"}}}},
        "/memories": {
            "get": {"tags": ["memories"], "summary": "Memories", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["memories"], "summary": "Create a memory", "responses": {"201": {"description": "Created"}}}
        },
        "/memories/{id}": {"delete": {"tags": ["memories"], "summary": "Delete a memory", "responses": {"204": {"description": "No Content"}, "428": {"description": "Confirmation required"}}}},
        "/reminders": {
            "get": {"tags": ["reminders"], "summary": "Reminders", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["reminders"], "summary": "Create a reminder", "responses": {"201": {"description": "Created"}}}
        },
        "/reminders/{id}": {
            "put": {"tags": ["reminders"], "summary": "Edit a reminder", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["reminders"], "summary": "Delete a reminder", "responses": {"204": {"description": "No Content"}, "428": {"description": "Confirmation required"}}}
        },
        "/invitations": {"get": {"tags": ["invitations"], "summary": "Pending invitations", "responses": {"200": {"description": "OK"}}}},
        "/invitations/stream": {"get": {"tags": ["invitations"], "summary": "Live pending invitations", "produces": ["text/event-stream"], "responses": {"200": {"description": "OK"}}}},
        "/invitations/{id}/accept": {"post": {"tags": ["invitations"], "summary": "Accept an invitation", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/invitations/{id}/decline": {"post": {"tags": ["invitations"], "summary": "Decline an invitation", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "428": {"description": "Confirmation required"}}}},
        "/health": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/health/ready": {"get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Girumdom Caretaker Portal",
	Description:      "Portal for caretakers and family members of Girumdom seniors.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
