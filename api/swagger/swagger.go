package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EducaSaber Analytics API",
        "description": "Academic analytics aggregation and reporting engine",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Analytics", "description": "Aggregated academic analytics"},
        {"name": "Reports", "description": "Bulk student reports"}
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
        "/analytics/overview": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Aggregated academic analytics for a filter combination",
                "parameters": [
                    {"name": "schoolId", "in": "query", "type": "string"},
                    {"name": "courseId", "in": "query", "type": "string"},
                    {"name": "grade", "in": "query", "type": "string"},
                    {"name": "competencyId", "in": "query", "type": "string"},
                    {"name": "minAge", "in": "query", "type": "integer"},
                    {"name": "maxAge", "in": "query", "type": "integer"},
                    {"name": "gender", "in": "query", "type": "string"},
                    {"name": "stratum", "in": "query", "type": "string"},
                    {"name": "period", "in": "query", "type": "string", "enum": ["all", "1m", "3m", "6m", "12m"]}
                ],
                "responses": {
                    "200": {"description": "Overview inside the response envelope"},
                    "400": {"description": "Malformed filter payload"},
                    "401": {"description": "Missing or invalid token"}
                }
            }
        },
        "/analytics/students": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Per-student metrics with risk classification",
                "parameters": [
                    {"name": "schoolId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["excelente", "bueno", "mejorable", "requiere_atencion", "sin_datos"]},
                    {"name": "atRisk", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Paginated student metrics"},
                    "401": {"description": "Missing or invalid token"}
                }
            }
        },
        "/analytics/system": {
            "get": {
                "tags": ["Analytics"],
                "summary": "System instrumentation snapshot",
                "responses": {
                    "200": {"description": "Instrumentation counters"}
                }
            }
        },
        "/reports/bulk": {
            "post": {
                "tags": ["Reports"],
                "summary": "Bulk student report (pdf or csv)",
                "consumes": ["application/json"],
                "produces": ["application/pdf", "text/csv", "application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "schema": {"$ref": "#/definitions/BulkReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rendered document"},
                    "400": {"description": "Malformed filter payload"},
                    "404": {"description": "No students match the selected filters"},
                    "502": {"description": "Record store or renderer failure"}
                }
            }
        }
    },
    "definitions": {
        "BulkReportRequest": {
            "type": "object",
            "properties": {
                "schoolId": {"type": "string"},
                "courseId": {"type": "string"},
                "grade": {"type": "string"},
                "competencyId": {"type": "string"},
                "minAge": {"type": "string"},
                "maxAge": {"type": "string"},
                "gender": {"type": "string"},
                "stratum": {"type": "string"},
                "period": {"type": "string"},
                "format": {"type": "string", "enum": ["pdf", "csv"]}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"type": "object"},
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
