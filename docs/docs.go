// Package docs registers the OpenAPI document served on /swagger.
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
        "/hotels/{id}/availability": {
            "get": {
                "tags": ["availability"],
                "summary": "Booked ranges of a hotel, with an optional range check",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "check_in", "in": "query", "type": "string", "format": "date-time"},
                    {"name": "check_out", "in": "query", "type": "string", "format": "date-time"},
                    {"name": "booking_type", "in": "query", "type": "string", "enum": ["nightly", "hourly"]}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "ValidationError"}, "404": {"description": "Hotel not found"}}
            }
        },
        "/hotels/{id}/reviews": {
            "get": {
                "tags": ["reviews"],
                "summary": "Reviews of a hotel, newest first",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Hotel not found"}}
            }
        },
        "/bookings": {
            "post": {
                "tags": ["bookings"],
                "summary": "Reserve a hotel for an interval",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "ValidationError"}, "409": {"description": "DatesUnavailable"}, "503": {"description": "DependencyFailure"}}
            }
        },
        "/bookings/{id}": {
            "get": {
                "tags": ["bookings"],
                "summary": "Get a booking",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "NotFoundOrIllegalState"}}
            }
        },
        "/bookings/{id}/id-proof": {
            "post": {
                "tags": ["id-proof"],
                "summary": "Upload identity proof",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "NotFoundOrIllegalState"}}
            }
        },
        "/bookings/{id}/id-proof/review": {
            "post": {
                "tags": ["id-proof"],
                "summary": "Approve or reject identity proof",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "NotFoundOrIllegalState"}}
            }
        },
        "/bookings/{id}/cancel": {
            "post": {
                "tags": ["bookings"],
                "summary": "Cancel a booking with a full refund",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "NotFoundOrIllegalState"}}
            }
        },
        "/bookings/{id}/review": {
            "post": {
                "tags": ["reviews"],
                "summary": "Review a completed stay",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"201": {"description": "Created"}, "404": {"description": "NotFoundOrIllegalState"}}
            }
        },
        "/users/bookings": {
            "get": {
                "tags": ["bookings"],
                "summary": "Guest bookings, newest first",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/owner/guests": {
            "get": {
                "tags": ["owner"],
                "summary": "Guests of the owner's hotels with stay history",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/owner/analytics/dashboard": {
            "get": {
                "tags": ["analytics"],
                "summary": "Owner dashboard",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "owner_id", "in": "query", "type": "string"},
                    {"name": "refresh", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/owner/analytics/forecast": {
            "get": {
                "tags": ["analytics"],
                "summary": "Four week booking and revenue forecast",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Homestay Booking API",
	Description:      "Hotel booking lifecycle and availability engine.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
