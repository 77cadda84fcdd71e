package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "University Timetable API",
        "description": "Constraint-based timetable generation and catalog management.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Catalog", "description": "Courses, rooms, instructors, and semesters"},
        {"name": "Constraints", "description": "Scheduling constraint registry"},
        {"name": "Timetable", "description": "Timetable entries, statistics, and exports"},
        {"name": "Generation", "description": "Asynchronous timetable generation jobs"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unavailable"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List courses",
                "parameters": [
                    {"name": "semesterId", "in": "query", "type": "string"},
                    {"name": "programmeId", "in": "query", "type": "string"},
                    {"name": "kind", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Course list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Register a course",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get one course",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Course", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Catalog"],
                "summary": "Update a course",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Updated course"}
                }
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Delete a course",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/rooms": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List rooms",
                "responses": {
                    "200": {"description": "Room list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Register a room",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/instructors": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List instructors",
                "responses": {
                    "200": {"description": "Instructor list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Register an instructor",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/instructors/{id}/availability": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List availability windows",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Availability windows"}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Declare an availability window",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/instructors/{id}/preferences": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List course preferences",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Preferences"}
                }
            },
            "put": {
                "tags": ["Catalog"],
                "summary": "Set a course preference score",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Preference"}
                }
            }
        },
        "/semesters": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List semesters",
                "responses": {
                    "200": {"description": "Semester list"}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Register a semester",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/constraints": {
            "get": {
                "tags": ["Constraints"],
                "summary": "List constraint definitions",
                "responses": {
                    "200": {"description": "Constraint list"}
                }
            },
            "put": {
                "tags": ["Constraints"],
                "summary": "Register or update a constraint definition",
                "responses": {
                    "200": {"description": "Constraint"}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List timetable entries",
                "responses": {
                    "200": {"description": "Entries", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetable"],
                "summary": "Create a manual timetable entry",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Schedule conflict"}
                }
            }
        },
        "/timetable/semester/{semesterId}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Full timetable for a semester",
                "parameters": [{"name": "semesterId", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Entries"}
                }
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Delete every timetable entry in a semester",
                "parameters": [{"name": "semesterId", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Removal count"}
                }
            }
        },
        "/timetable/semester/{semesterId}/statistics": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Utilization statistics for a semester",
                "parameters": [{"name": "semesterId", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Statistics"}
                }
            }
        },
        "/timetable/semester/{semesterId}/export/csv": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Export a semester timetable as CSV",
                "produces": ["text/csv"],
                "parameters": [{"name": "semesterId", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "CSV payload"}
                }
            }
        },
        "/timetable/semester/{semesterId}/export/pdf": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Export a semester timetable as PDF",
                "produces": ["application/pdf"],
                "parameters": [{"name": "semesterId", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "PDF payload"}
                }
            }
        },
        "/timetable/generate": {
            "post": {
                "tags": ["Generation"],
                "summary": "Start an asynchronous timetable generation job",
                "responses": {
                    "202": {"description": "Job accepted"},
                    "404": {"description": "Semester not found"},
                    "409": {"description": "Generation already in progress"}
                }
            }
        },
        "/generation-jobs": {
            "get": {
                "tags": ["Generation"],
                "summary": "List generation jobs for a semester",
                "parameters": [
                    {"name": "semesterId", "in": "query", "type": "string", "required": true},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Job list"}
                }
            }
        },
        "/generation-jobs/{id}": {
            "get": {
                "tags": ["Generation"],
                "summary": "Get one generation job",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Job"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/generation-jobs/{id}/result": {
            "get": {
                "tags": ["Generation"],
                "summary": "Get the result of a finished generation job",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Run result"},
                    "412": {"description": "Job not finished"}
                }
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
