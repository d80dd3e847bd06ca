package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SmartEduDesk Timetable API",
        "description": "Scheduling, validation, and substitution engine for the weekly school timetable",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Admin authentication"},
        {"name": "Timetable", "description": "Master grid lifecycle and validation"},
        {"name": "Substitutions", "description": "Absence handling and slips"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate an admin",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Return the authenticated account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing or invalid token"}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Fetch the master timetable",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Clear the master timetable and all substitutions",
                "responses": {
                    "204": {"description": "Cleared"}
                }
            }
        },
        "/timetable/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate a baseline timetable from the active roster",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/import": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Import an externally generated timetable",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Malformed grid"}
                }
            }
        },
        "/timetable/slot": {
            "put": {
                "tags": ["Timetable"],
                "summary": "Edit one timetable slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/validation": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Run the constraint validator over the master timetable",
                "parameters": [
                    {"name": "ruleset", "in": "query", "type": "string", "enum": ["standard", "legacy"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutions": {
            "get": {
                "tags": ["Substitutions"],
                "summary": "List substitution slips for a date",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Substitutions"],
                "summary": "Process a single-slot absence",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProcessAbsenceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slot already covered"}
                }
            },
            "delete": {
                "tags": ["Substitutions"],
                "summary": "Delete every slip for a date",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Cleared"}
                }
            }
        },
        "/substitutions/day-absence": {
            "post": {
                "tags": ["Substitutions"],
                "summary": "Mark a teacher absent for a whole day",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DayAbsenceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutions/export": {
            "get": {
                "tags": ["Substitutions"],
                "summary": "Export the slips of a date as CSV or PDF",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/substitutions/{id}": {
            "put": {
                "tags": ["Substitutions"],
                "summary": "Override the substitute on an existing slip",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReassignRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Substitutions"],
                "summary": "Delete a substitution slip",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ImportTimetableRequest": {
            "type": "object",
            "required": ["grid"],
            "properties": {
                "grid": {"type": "object", "description": "day -> period -> teacherId -> entry"}
            }
        },
        "UpdateSlotRequest": {
            "type": "object",
            "required": ["day", "period", "teacherId"],
            "properties": {
                "day": {"type": "string", "enum": ["MON", "TUE", "WED", "THU", "FRI", "SAT"]},
                "period": {"type": "integer", "minimum": 1, "maximum": 8},
                "teacherId": {"type": "string"},
                "classId": {"type": "string"},
                "subject": {"type": "string"},
                "remove": {"type": "boolean"}
            }
        },
        "ProcessAbsenceRequest": {
            "type": "object",
            "required": ["date", "day", "period", "classId", "subject", "absentTeacherId"],
            "properties": {
                "date": {"type": "string"},
                "day": {"type": "string"},
                "period": {"type": "integer"},
                "classId": {"type": "string"},
                "subject": {"type": "string"},
                "absentTeacherId": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "DayAbsenceRequest": {
            "type": "object",
            "required": ["date", "day", "absentTeacherId"],
            "properties": {
                "date": {"type": "string"},
                "day": {"type": "string"},
                "absentTeacherId": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "ReassignRequest": {
            "type": "object",
            "required": ["substituteTeacherId"],
            "properties": {
                "substituteTeacherId": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
