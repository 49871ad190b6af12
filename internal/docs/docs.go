// Package docs registers the OpenAPI description of the inventory API with swag.
// Keep it in step with the godoc annotations on the handlers.
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
        "/inventory": {
            "get": {
                "tags": ["inventory"],
                "summary": "List inventory items",
                "parameters": [
                    {"type": "string", "description": "Name contains", "name": "q", "in": "query"},
                    {"type": "string", "description": "Category", "name": "category", "in": "query"},
                    {"type": "boolean", "description": "Only items at or below reorder level", "name": "low_stock", "in": "query"},
                    {"type": "integer", "description": "Page size (max 100)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            },
            "post": {
                "tags": ["inventory"],
                "summary": "Create an inventory item",
                "parameters": [
                    {"description": "Item", "name": "item", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateItemRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.AdjustmentResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/inventory/low-stock": {
            "get": {
                "tags": ["inventory"],
                "summary": "Items at or below their reorder level",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/inventory/export": {
            "post": {
                "tags": ["exports"],
                "summary": "Upload a CSV snapshot of every item to object storage",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.ExportResult"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/inventory/{id}": {
            "get": {
                "tags": ["inventory"],
                "summary": "Get an inventory item",
                "parameters": [{"type": "string", "description": "Item ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.InventoryItem"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            },
            "put": {
                "tags": ["inventory"],
                "summary": "Update an inventory item",
                "parameters": [
                    {"type": "string", "description": "Item ID", "name": "id", "in": "path", "required": true},
                    {"description": "Changes", "name": "item", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AdjustmentResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["inventory"],
                "summary": "Delete an inventory item and its ledger",
                "parameters": [{"type": "string", "description": "Item ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/inventory/{id}/adjust": {
            "post": {
                "tags": ["inventory"],
                "summary": "Post a ledger entry against an item",
                "parameters": [
                    {"type": "string", "description": "Item ID", "name": "id", "in": "path", "required": true},
                    {"description": "Adjustment", "name": "adjustment", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.AdjustRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AdjustmentResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/inventory/{id}/consume": {
            "post": {
                "tags": ["inventory"],
                "summary": "Record usage of an item",
                "parameters": [
                    {"type": "string", "description": "Item ID", "name": "id", "in": "path", "required": true},
                    {"description": "Usage", "name": "usage", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ConsumeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AdjustmentResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/inventory/{id}/transactions": {
            "get": {
                "tags": ["inventory"],
                "summary": "Ledger history of an item, newest first",
                "parameters": [
                    {"type": "string", "description": "Item ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Page size (max 100)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/inventory/{id}/transactions/export": {
            "post": {
                "tags": ["exports"],
                "summary": "Upload an item's ledger as CSV to object storage",
                "parameters": [{"type": "string", "description": "Item ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.ExportResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/jobs": {
            "get": {
                "tags": ["jobs"],
                "summary": "Scheduled jobs with their last and next run",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/jobs/{name}/run": {
            "post": {
                "tags": ["jobs"],
                "summary": "Trigger a scheduled job now",
                "parameters": [{"type": "string", "description": "Job name", "name": "name", "in": "path", "required": true}],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "common.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "details": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "handlers.CreateItemRequest": {
            "type": "object",
            "required": ["name", "category", "quantity", "unit"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "category": {"type": "string", "enum": ["detergent", "softener", "bleach", "stain_remover", "supplies", "packaging", "other"]},
                "description": {"type": "string"},
                "quantity": {"type": "number", "minimum": 0},
                "unit": {"type": "string", "enum": ["kg", "liters", "pieces", "bottles", "boxes", "packs"]},
                "reorder_level": {"type": "number", "minimum": 0},
                "cost_per_unit": {"type": "number", "minimum": 0},
                "supplier": {"type": "string"},
                "notes": {"type": "string", "maxLength": 500}
            }
        },
        "handlers.UpdateItemRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "quantity": {"type": "number", "minimum": 0},
                "unit": {"type": "string"},
                "reorder_level": {"type": "number", "minimum": 0},
                "cost_per_unit": {"type": "number", "minimum": 0},
                "supplier": {"type": "string"},
                "notes": {"type": "string", "maxLength": 500}
            }
        },
        "handlers.AdjustRequest": {
            "type": "object",
            "required": ["transaction_type", "quantity"],
            "properties": {
                "transaction_type": {"type": "string", "enum": ["purchase", "usage", "adjustment", "damage", "return"]},
                "quantity": {"type": "number"},
                "reference_type": {"type": "string"},
                "reference_id": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "handlers.ConsumeRequest": {
            "type": "object",
            "required": ["quantity"],
            "properties": {
                "quantity": {"type": "number", "exclusiveMinimum": true, "minimum": 0},
                "reference_type": {"type": "string"},
                "reference_id": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "models.InventoryItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "name": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "quantity": {"type": "number"},
                "unit": {"type": "string"},
                "reorder_level": {"type": "number"},
                "cost_per_unit": {"type": "number"},
                "supplier": {"type": "string"},
                "is_low_stock": {"type": "boolean"},
                "stock_percentage": {"type": "number", "x-nullable": true},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "models.InventoryTransaction": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "item_id": {"type": "string", "format": "uuid"},
                "transaction_type": {"type": "string", "enum": ["purchase", "usage", "adjustment", "damage", "return", "initial"]},
                "quantity_delta": {"type": "number"},
                "reference_type": {"type": "string"},
                "reference_id": {"type": "string"},
                "notes": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "models.AdjustmentResult": {
            "type": "object",
            "properties": {
                "item": {"$ref": "#/definitions/models.InventoryItem"},
                "transaction": {"$ref": "#/definitions/models.InventoryTransaction"},
                "warnings": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.ExportResult": {
            "type": "object",
            "properties": {
                "bucket": {"type": "string"},
                "object_key": {"type": "string"},
                "rows": {"type": "integer"},
                "download_url": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Laundry Inventory API",
	Description:      "Consumable stock tracking with an append-only adjustment ledger.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
