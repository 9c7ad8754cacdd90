package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Task Recommender API",
        "description": "Explained practice-task recommendations from interest, mastery and similar students",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Recommendations", "description": "Content, collaborative and hybrid task recommendations"},
        {"name": "System", "description": "Probes and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["System"],
                "summary": "Readiness probe, pings the catalog database",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Catalog unreachable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["System"],
                "summary": "Prometheus exposition",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/system/metrics": {
            "get": {
                "tags": ["System"],
                "summary": "Engine counters as JSON",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/students/{id}/recommendations": {
            "get": {
                "tags": ["Recommendations"],
                "summary": "Recommend tasks for a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "mode", "in": "query", "type": "string", "enum": ["content", "collaborative", "hybrid"], "default": "hybrid"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RecommendationEnvelope"}},
                    "400": {"description": "Invalid id or mode", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown student", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/students/{id}/recommendations/export": {
            "get": {
                "tags": ["Recommendations"],
                "summary": "Download recommendations as CSV, Markdown or PDF",
                "produces": ["text/csv", "text/markdown", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "mode", "in": "query", "type": "string", "enum": ["content", "collaborative", "hybrid"], "default": "hybrid"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "md", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "400": {"description": "Invalid id, mode or format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown student", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Recommendation": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "section_id": {"type": "integer"},
                "description": {"type": "string"},
                "complexity": {"type": "integer"},
                "theme_id": {"type": "integer"},
                "theme_name": {"type": "string"},
                "explanation": {"type": "string", "example": "interest match, low mastery"},
                "source": {"type": "string", "enum": ["content", "collaborative"]}
            }
        },
        "RecommendationMeta": {
            "type": "object",
            "properties": {
                "mode": {"type": "string"},
                "count": {"type": "integer"},
                "cache_hit": {"type": "boolean"},
                "processing_time_ms": {"type": "integer"}
            }
        },
        "RecommendationEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Recommendation"}
                },
                "meta": {"$ref": "#/definitions/RecommendationMeta"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "UNKNOWN_STUDENT"},
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
