// Package docs holds the OpenAPI document served at /swagger/*. It is kept by
// hand in step with the v1 handler annotations.
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
        "/ingest": {
            "post": {
                "description": "Maps a native image record to image set content and publishes it",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "imagesets"
                ],
                "summary": "Ingest image set",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Transaction id",
                        "name": "X-Request-Id",
                        "in": "header"
                    },
                    {
                        "description": "Native image record",
                        "name": "record",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/entity.SourceRecord"
                        }
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "400": {
                        "description": "Malformed body",
                        "schema": {
                            "$ref": "#/definitions/response.Error"
                        }
                    },
                    "422": {
                        "description": "Invalid uuid, unsupported type or content cannot be mapped",
                        "schema": {
                            "$ref": "#/definitions/response.Error"
                        }
                    },
                    "500": {
                        "description": "Unable to write JSON",
                        "schema": {
                            "$ref": "#/definitions/response.Error"
                        }
                    },
                    "503": {
                        "description": "Unable to publish message",
                        "schema": {
                            "$ref": "#/definitions/response.Error"
                        }
                    }
                }
            }
        },
        "/map": {
            "post": {
                "description": "Maps a native image record to image set content without publishing it",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "imagesets"
                ],
                "summary": "Map image to image set",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Transaction id",
                        "name": "X-Request-Id",
                        "in": "header"
                    },
                    {
                        "description": "Native image record",
                        "name": "record",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/entity.SourceRecord"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/entity.Content"
                        }
                    },
                    "400": {
                        "description": "Malformed body",
                        "schema": {
                            "$ref": "#/definitions/response.Error"
                        }
                    },
                    "422": {
                        "description": "Invalid uuid, unsupported type or content cannot be mapped",
                        "schema": {
                            "$ref": "#/definitions/response.Error"
                        }
                    },
                    "500": {
                        "description": "Unable to write JSON",
                        "schema": {
                            "$ref": "#/definitions/response.Error"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "entity.Content": {
            "type": "object",
            "properties": {
                "copyright": {
                    "$ref": "#/definitions/entity.Copyright"
                },
                "description": {
                    "type": "string"
                },
                "identifiers": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/entity.Identifier"
                    }
                },
                "lastModified": {
                    "type": "string"
                },
                "mediaType": {
                    "type": "string"
                },
                "members": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/entity.Member"
                    }
                },
                "pixelHeight": {
                    "type": "integer"
                },
                "pixelWidth": {
                    "type": "integer"
                },
                "publishReference": {
                    "type": "string"
                },
                "publishedDate": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "uuid": {
                    "type": "string"
                }
            }
        },
        "entity.Copyright": {
            "type": "object",
            "properties": {
                "notice": {
                    "type": "string"
                }
            }
        },
        "entity.Identifier": {
            "type": "object",
            "properties": {
                "authority": {
                    "type": "string"
                },
                "identifierValue": {
                    "type": "string"
                }
            }
        },
        "entity.Member": {
            "type": "object",
            "properties": {
                "uuid": {
                    "type": "string"
                }
            }
        },
        "entity.SourceRecord": {
            "type": "object",
            "properties": {
                "attributes": {
                    "type": "string"
                },
                "lastModified": {
                    "type": "string"
                },
                "systemAttributes": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "usageTickets": {
                    "type": "string"
                },
                "uuid": {
                    "type": "string"
                },
                "value": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "workflowStatus": {
                    "type": "string"
                }
            }
        },
        "response.Error": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string",
                    "example": "message"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Image set mapper",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
