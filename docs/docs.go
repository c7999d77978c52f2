// Package docs registers the OpenAPI document served at /swagger.
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
        "/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create a client account",
                "parameters": [
                    {"description": "Signup data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.SignupResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.SignupResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.SignupResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.LoginResponse"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Refresh access token",
                "parameters": [
                    {"description": "Refresh token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log out",
                "parameters": [
                    {"description": "Refresh token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/Meals": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meals"],
                "summary": "List meals with their feedback",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MealsResponse"}}
                }
            }
        },
        "/meals/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["meals"],
                "summary": "Create or update meals",
                "parameters": [
                    {"description": "Meals", "name": "request", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/service.MealInput"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ImportResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/Order": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Place an order",
                "parameters": [
                    {"description": "Order", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateOrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.CreateOrderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/Order/{email}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List a client's orders",
                "parameters": [
                    {"type": "string", "description": "Client email", "name": "email", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.OrdersResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/Orders/{email}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List every order",
                "parameters": [
                    {"type": "string", "description": "Caller email", "name": "email", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.OrdersResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/orders/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Change an order's status",
                "parameters": [
                    {"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true},
                    {"description": "New status", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.OrderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/orders/{id}/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Status history of an order",
                "parameters": [
                    {"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HistoryResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/orders/scan": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Look up an order from its QR code",
                "parameters": [
                    {"description": "QR code image as a data URL", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ScanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.OrderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/leavefeedback": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["feedback"],
                "summary": "Rate a meal",
                "parameters": [
                    {"description": "Feedback", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.FeedbackRequest"}}
                ],
                "responses": {
                    "200": {"description": "updated", "schema": {"$ref": "#/definitions/handler.FeedbackResponse"}},
                    "201": {"description": "created", "schema": {"$ref": "#/definitions/handler.FeedbackResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "The authenticated user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.User"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "handler.SignupRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "captchaToken": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "handler.SignupResponse": {
            "type": "object",
            "properties": {"UserCreated": {"type": "boolean"}, "message": {"type": "string"}}
        },
        "handler.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.LoginResponse": {
            "type": "object",
            "properties": {
                "UserLogged": {"type": "boolean"},
                "accessToken": {"type": "string"},
                "message": {"type": "string"},
                "refreshToken": {"type": "string"},
                "role": {"type": "string", "enum": ["client", "chef"]},
                "username": {"type": "string"}
            }
        },
        "handler.RefreshRequest": {
            "type": "object",
            "required": ["refreshToken"],
            "properties": {"refreshToken": {"type": "string"}}
        },
        "handler.TokenResponse": {
            "type": "object",
            "properties": {"accessToken": {"type": "string"}}
        },
        "handler.MealsResponse": {
            "type": "object",
            "properties": {
                "MealsList": {"type": "array", "items": {"$ref": "#/definitions/service.MealWithFeedback"}},
                "message": {"type": "string"}
            }
        },
        "handler.ImportResponse": {
            "type": "object",
            "properties": {"created": {"type": "integer"}, "message": {"type": "string"}, "updated": {"type": "integer"}}
        },
        "handler.CreateOrderRequest": {
            "type": "object",
            "required": ["mealId", "quantity"],
            "properties": {
                "client": {"type": "string"},
                "mealId": {"type": "string"},
                "mealName": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "integer", "minimum": 1},
                "time": {"type": "string", "enum": ["morning", "afternoon", "evening"]}
            }
        },
        "handler.CreateOrderResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "order": {"$ref": "#/definitions/model.Order"},
                "qrCode": {"type": "string"}
            }
        },
        "handler.OrdersResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "orders": {"type": "array", "items": {"$ref": "#/definitions/model.Order"}}
            }
        },
        "handler.OrderResponse": {
            "type": "object",
            "properties": {"order": {"$ref": "#/definitions/model.Order"}}
        },
        "handler.UpdateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "refusedReason": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "preparing", "completed", "refused"]}
            }
        },
        "handler.HistoryResponse": {
            "type": "object",
            "properties": {"events": {"type": "array", "items": {"$ref": "#/definitions/model.OrderEvent"}}}
        },
        "handler.ScanRequest": {
            "type": "object",
            "required": ["qrCode"],
            "properties": {"qrCode": {"type": "string"}}
        },
        "handler.FeedbackRequest": {
            "type": "object",
            "required": ["feedback", "mealId", "orderId"],
            "properties": {
                "client": {"type": "string"},
                "feedback": {"type": "string"},
                "mealId": {"type": "string"},
                "orderId": {"type": "string"},
                "rating": {"type": "integer"}
            }
        },
        "handler.FeedbackResponse": {
            "type": "object",
            "properties": {"feedback": {"$ref": "#/definitions/model.Feedback"}, "message": {"type": "string"}}
        },
        "model.User": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["client", "chef"]},
                "updatedAt": {"type": "string"}
            }
        },
        "model.Meal": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "available": {"type": "boolean"},
                "category": {"type": "string", "enum": ["Déjeuner", "Petit-déjeuner"]},
                "image": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "number"}
            }
        },
        "model.OrderLine": {
            "type": "object",
            "properties": {
                "meal": {"type": "string"},
                "mealDetails": {"$ref": "#/definitions/model.Meal"},
                "quantity": {"type": "integer"}
            }
        },
        "model.Order": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "client": {"type": "string"},
                "createdAt": {"type": "string"},
                "meals": {"type": "array", "items": {"$ref": "#/definitions/model.OrderLine"}},
                "qrCode": {"type": "string"},
                "refusedReason": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "preparing", "completed", "refused"]},
                "time": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "model.OrderEvent": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "changedBy": {"type": "string"},
                "createdAt": {"type": "string"},
                "orderId": {"type": "string"},
                "refusedReason": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "model.Feedback": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "date": {"type": "string"},
                "feedback": {"type": "string"},
                "meal": {"type": "string"},
                "stars": {"type": "integer"},
                "user": {"$ref": "#/definitions/model.Author"},
                "userId": {"type": "string"}
            }
        },
        "model.Author": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "service.MealInput": {
            "type": "object",
            "required": ["category", "image", "name"],
            "properties": {
                "_id": {"type": "string"},
                "available": {"type": "boolean"},
                "category": {"type": "string", "enum": ["Déjeuner", "Petit-déjeuner"]},
                "image": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "number"}
            }
        },
        "service.MealWithFeedback": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "available": {"type": "boolean"},
                "category": {"type": "string"},
                "feedbacks": {"type": "array", "items": {"$ref": "#/definitions/model.Feedback"}},
                "image": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "number"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Cafeteria API",
	Description:      "Meal catalog, ordering with QR pickup codes, kitchen workflow and feedback.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
