// Package docs registers the OpenAPI document served under /swagger.
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
		"/signup/admin": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register an admin",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.SignupRequest"
						}
					}
				]
			}
		},
		"/signup/driver": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register a driver with their vehicle",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.DriverSignupRequest"
						}
					}
				]
			}
		},
		"/signup/employee": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register an employee of a client company",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.EmployeeSignupRequest"
						}
					}
				]
			}
		},
		"/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Exchange credentials for a bearer token",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.LoginRequest"
						}
					}
				]
			}
		},
		"/users": {
			"get": {
				"tags": [
					"users"
				],
				"summary": "List users",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "admin, driver or employee",
						"name": "role",
						"in": "query",
						"required": false
					},
					{
						"type": "integer",
						"description": "Offset",
						"name": "skip",
						"in": "query",
						"required": false
					},
					{
						"type": "integer",
						"description": "Page size (max 500)",
						"name": "limit",
						"in": "query",
						"required": false
					}
				]
			}
		},
		"/users/me/location": {
			"patch": {
				"tags": [
					"users"
				],
				"summary": "Report the caller's position",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.LocationRequest"
						}
					}
				]
			}
		},
		"/stats/dashboard": {
			"get": {
				"tags": [
					"stats"
				],
				"summary": "Fleet KPIs for today (UTC)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/stats/corporate/dashboard": {
			"get": {
				"tags": [
					"stats"
				],
				"summary": "KPIs of the caller's company for the current month (UTC)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/companies": {
			"get": {
				"tags": [
					"companies"
				],
				"summary": "List client companies",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"description": "Offset",
						"name": "skip",
						"in": "query",
						"required": false
					},
					{
						"type": "integer",
						"description": "Page size (max 500)",
						"name": "limit",
						"in": "query",
						"required": false
					}
				]
			},
			"post": {
				"tags": [
					"companies"
				],
				"summary": "Register a client company",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.CompanyRequest"
						}
					}
				]
			}
		},
		"/corporate/cost-centers": {
			"get": {
				"tags": [
					"corporate"
				],
				"summary": "List the caller's company cost centers",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"description": "Offset",
						"name": "skip",
						"in": "query",
						"required": false
					},
					{
						"type": "integer",
						"description": "Page size (max 500)",
						"name": "limit",
						"in": "query",
						"required": false
					}
				]
			},
			"post": {
				"tags": [
					"corporate"
				],
				"summary": "Create a cost center in the caller's company",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "Target company",
						"name": "company_id",
						"in": "query",
						"required": true
					},
					{
						"description": "Payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.CostCenterRequest"
						}
					}
				]
			}
		},
		"/corporate/employees": {
			"get": {
				"tags": [
					"corporate"
				],
				"summary": "List the caller's company employees",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"description": "Offset",
						"name": "skip",
						"in": "query",
						"required": false
					},
					{
						"type": "integer",
						"description": "Page size (max 500)",
						"name": "limit",
						"in": "query",
						"required": false
					}
				]
			},
			"post": {
				"tags": [
					"corporate"
				],
				"summary": "Register an employee in the caller's company",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "Target company",
						"name": "company_id",
						"in": "query",
						"required": true
					},
					{
						"type": "integer",
						"description": "Cost center of the same company",
						"name": "cost_center_id",
						"in": "query",
						"required": false
					},
					{
						"description": "Payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.EmployeeRequest"
						}
					}
				]
			}
		},
		"/corporate/rides": {
			"get": {
				"tags": [
					"corporate"
				],
				"summary": "List the caller's company rides",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"description": "Offset",
						"name": "skip",
						"in": "query",
						"required": false
					},
					{
						"type": "integer",
						"description": "Page size (max 500)",
						"name": "limit",
						"in": "query",
						"required": false
					}
				]
			},
			"post": {
				"tags": [
					"corporate"
				],
				"summary": "Book a ride on a cost center of the caller's company",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.RideRequest"
						}
					}
				]
			}
		},
		"/leads": {
			"post": {
				"tags": [
					"leads"
				],
				"summary": "Capture a lead",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.LeadRequest"
						}
					}
				]
			}
		},
		"/pricing": {
			"get": {
				"tags": [
					"pricing"
				],
				"summary": "List pricing rules with their tiers",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "Offset",
						"name": "skip",
						"in": "query",
						"required": false
					},
					{
						"type": "integer",
						"description": "Page size (max 500)",
						"name": "limit",
						"in": "query",
						"required": false
					}
				]
			},
			"post": {
				"tags": [
					"pricing"
				],
				"summary": "Create a pricing rule",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.PricingRuleRequest"
						}
					}
				]
			}
		},
		"/pricing/quote": {
			"get": {
				"tags": [
					"pricing"
				],
				"summary": "Quote a trip with the default pricing rule",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "number",
						"description": "Trip distance",
						"name": "distance_km",
						"in": "query",
						"required": true
					}
				]
			}
		}
	},
	"definitions": {
		"errors.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				},
				"code": {
					"type": "string"
				}
			}
		},
		"handler.SignupRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"full_name": {
					"type": "string"
				},
				"password": {
					"type": "string",
					"minLength": 6
				}
			},
			"required": [
				"email",
				"full_name",
				"password"
			]
		},
		"handler.DriverSignupRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"full_name": {
					"type": "string"
				},
				"password": {
					"type": "string",
					"minLength": 6
				},
				"vehicle_model": {
					"type": "string"
				},
				"vehicle_plate": {
					"type": "string"
				},
				"license_number": {
					"type": "string"
				}
			},
			"required": [
				"email",
				"full_name",
				"password",
				"vehicle_model",
				"vehicle_plate",
				"license_number"
			]
		},
		"handler.EmployeeSignupRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"full_name": {
					"type": "string"
				},
				"password": {
					"type": "string",
					"minLength": 6
				},
				"company_id": {
					"type": "integer"
				},
				"cost_center_id": {
					"type": "integer"
				},
				"department": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				}
			},
			"required": [
				"email",
				"full_name",
				"password",
				"company_id"
			]
		},
		"handler.LoginRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			},
			"required": [
				"email",
				"password"
			]
		},
		"handler.LocationRequest": {
			"type": "object",
			"properties": {
				"lat": {
					"type": "number"
				},
				"lng": {
					"type": "number"
				}
			},
			"required": [
				"lat",
				"lng"
			]
		},
		"handler.CompanyRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"tax_id": {
					"type": "string"
				}
			},
			"required": [
				"name",
				"tax_id"
			]
		},
		"handler.CostCenterRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"code": {
					"type": "string"
				},
				"budget_limit": {
					"type": "number"
				},
				"is_active": {
					"type": "boolean"
				}
			},
			"required": [
				"name",
				"code"
			]
		},
		"handler.EmployeeRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"full_name": {
					"type": "string"
				},
				"password": {
					"type": "string",
					"minLength": 6
				},
				"department": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				}
			},
			"required": [
				"email",
				"full_name",
				"password"
			]
		},
		"handler.RideRequest": {
			"type": "object",
			"properties": {
				"origin_lat": {
					"type": "number"
				},
				"origin_lng": {
					"type": "number"
				},
				"origin_address": {
					"type": "string"
				},
				"dest_lat": {
					"type": "number"
				},
				"dest_lng": {
					"type": "number"
				},
				"dest_address": {
					"type": "string"
				},
				"distance_km": {
					"type": "number"
				},
				"cost_center_id": {
					"type": "integer"
				}
			},
			"required": [
				"origin_address",
				"dest_address",
				"distance_km",
				"cost_center_id"
			]
		},
		"handler.LeadRequest": {
			"type": "object",
			"properties": {
				"full_name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				}
			},
			"required": [
				"full_name",
				"email",
				"phone"
			]
		},
		"handler.PricingTierRequest": {
			"type": "object",
			"properties": {
				"min_distance_km": {
					"type": "number"
				},
				"max_distance_km": {
					"type": "number"
				},
				"fixed_price": {
					"type": "number"
				}
			}
		},
		"handler.PricingRuleRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"category": {
					"type": "string"
				},
				"is_tiered": {
					"type": "boolean"
				},
				"price_per_km_after_tiers": {
					"type": "number"
				},
				"is_active": {
					"type": "boolean"
				},
				"is_default": {
					"type": "boolean"
				},
				"tiers": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/handler.PricingTierRequest"
					}
				}
			},
			"required": [
				"name"
			]
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
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Podium API",
	Description:      "Corporate ride dispatch: identity, tenant isolation and dashboards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
