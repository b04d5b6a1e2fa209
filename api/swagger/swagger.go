package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "VNU Docs Hub API",
        "description": "Document and exam sharing backend relaying files to Telegram",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Universities", "description": "University reference data"},
        {"name": "Documents", "description": "Sectioned document sharing"},
        {"name": "Reviews", "description": "Lecturer review listing"},
        {"name": "Exams", "description": "Legacy flat exam sharing"}
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
                "summary": "Readiness check (pings Postgres and Redis)",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/api/universities": {
            "get": {
                "tags": ["Universities"],
                "summary": "List universities ordered by name",
                "responses": {
                    "200": {"description": "Array of universities"}
                }
            }
        },
        "/api/documents": {
            "get": {
                "tags": ["Documents"],
                "summary": "List approved documents",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "universityId", "in": "query", "type": "string", "description": "UUID or abbreviation"},
                    {"name": "searchTerm", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Paginated document listing"}
                }
            },
            "post": {
                "tags": ["Documents"],
                "summary": "Upload a document with bracket-indexed sections",
                "consumes": ["multipart/form-data"],
                "responses": {
                    "201": {"description": "Pending document created"},
                    "400": {"description": "Validation failure"},
                    "500": {"description": "Upstream failure"}
                }
            }
        },
        "/api/documents/{id}": {
            "get": {
                "tags": ["Documents"],
                "summary": "Get one approved document with nested sections and files",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Document detail"},
                    "404": {"description": "Not found or not approved"}
                }
            }
        },
        "/api/download/file/{fileId}": {
            "get": {
                "tags": ["Documents"],
                "summary": "Stream a stored document file",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "fileId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Binary stream"},
                    "404": {"description": "Unknown file"}
                }
            }
        },
        "/api/reviews": {
            "get": {
                "tags": ["Reviews"],
                "summary": "List reviews grouped by lecturer",
                "parameters": [
                    {"name": "universityId", "in": "query", "type": "string"},
                    {"name": "searchTerm", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Lecturer-grouped reviews"}
                }
            }
        },
        "/api/exams": {
            "get": {
                "tags": ["Exams"],
                "summary": "List exams, newest first",
                "responses": {
                    "200": {"description": "Array of exams"}
                }
            }
        },
        "/api/upload": {
            "post": {
                "tags": ["Exams"],
                "summary": "Upload one exam file",
                "consumes": ["multipart/form-data"],
                "responses": {
                    "201": {"description": "Exam stored"},
                    "400": {"description": "Validation failure"}
                }
            }
        },
        "/api/download/{id}": {
            "get": {
                "tags": ["Exams"],
                "summary": "Stream an exam file",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Binary stream"},
                    "404": {"description": "Unknown exam"}
                }
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
