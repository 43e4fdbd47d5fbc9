// Package docs содержит OpenAPI-описание HTTP API.
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
        "/scans": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "scans"
                ],
                "summary": "Список сканов пользователя",
                "parameters": [
                    {
                        "type": "string",
                        "description": "UUID пользователя",
                        "name": "X-User-ID",
                        "in": "header"
                    },
                    {
                        "type": "integer",
                        "description": "Смещение",
                        "name": "skip",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Размер страницы (по умолчанию 20, максимум 100)",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.ScanListResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "description": "Распознаёт мебель на фотографии и подбирает похожие товары для каждого предмета",
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "scans"
                ],
                "summary": "Загрузка фотографии комнаты",
                "parameters": [
                    {
                        "type": "string",
                        "description": "UUID пользователя",
                        "name": "X-User-ID",
                        "in": "header"
                    },
                    {
                        "type": "file",
                        "description": "Фотография комнаты (jpeg, png, webp)",
                        "name": "image",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Скан обработан",
                        "schema": {
                            "$ref": "#/definitions/http.ScanResponse"
                        }
                    },
                    "400": {
                        "description": "Ошибка валидации",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResponse"
                        }
                    },
                    "413": {
                        "description": "Файл слишком большой",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResponse"
                        }
                    },
                    "415": {
                        "description": "Неподдерживаемый формат",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Слишком много запросов",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/scans/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "scans"
                ],
                "summary": "Получение скана",
                "parameters": [
                    {
                        "type": "string",
                        "description": "UUID пользователя",
                        "name": "X-User-ID",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "ID скана",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.ScanResponse"
                        }
                    },
                    "403": {
                        "description": "Скан принадлежит другому пользователю",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Скан не найден",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "scans"
                ],
                "summary": "Удаление скана",
                "parameters": [
                    {
                        "type": "string",
                        "description": "UUID пользователя",
                        "name": "X-User-ID",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "ID скана",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/matches": {
            "post": {
                "description": "Ранжирует товары категории по текстовому запросу, добавляя бюджетную альтернативу",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "matches"
                ],
                "summary": "Подбор товаров по категории",
                "parameters": [
                    {
                        "description": "Категория, запрос и число результатов",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/http.MatchRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.MatchResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Каталог недоступен",
                        "schema": {
                            "$ref": "#/definitions/http.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/categories": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "matches"
                ],
                "summary": "Число товаров в наличии по категориям",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.CategoryStatsResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "integer"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "http.ProductMatchResponse": {
            "type": "object",
            "properties": {
                "product_id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "brand": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "price": {
                    "type": "string"
                },
                "currency": {
                    "type": "string"
                },
                "image_url": {
                    "type": "string"
                },
                "retailer_name": {
                    "type": "string"
                },
                "retailer_url": {
                    "type": "string"
                },
                "affiliate_url": {
                    "type": "string"
                },
                "similarity_score": {
                    "type": "number"
                },
                "rank": {
                    "type": "integer"
                },
                "is_budget_alternative": {
                    "type": "boolean"
                }
            }
        },
        "http.DetectedItemResponse": {
            "type": "object",
            "properties": {
                "item_id": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "bbox_x": {
                    "type": "number"
                },
                "bbox_y": {
                    "type": "number"
                },
                "bbox_width": {
                    "type": "number"
                },
                "bbox_height": {
                    "type": "number"
                },
                "confidence": {
                    "type": "number"
                },
                "matches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/http.ProductMatchResponse"
                    }
                }
            }
        },
        "http.ScanResponse": {
            "type": "object",
            "properties": {
                "scan_id": {
                    "type": "string"
                },
                "user_id": {
                    "type": "string"
                },
                "image_key": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "item_count": {
                    "type": "integer"
                },
                "processing_time_ms": {
                    "type": "integer"
                },
                "detected_items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/http.DetectedItemResponse"
                    }
                },
                "created_at": {
                    "type": "string"
                },
                "completed_at": {
                    "type": "string"
                }
            }
        },
        "http.ScanListItemResponse": {
            "type": "object",
            "properties": {
                "scan_id": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "item_count": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string"
                }
            }
        },
        "http.ScanListResponse": {
            "type": "object",
            "properties": {
                "scans": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/http.ScanListItemResponse"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "skip": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                }
            }
        },
        "http.MatchRequest": {
            "type": "object",
            "properties": {
                "category": {
                    "type": "string"
                },
                "query": {
                    "type": "string"
                },
                "limit": {
                    "type": "integer"
                }
            }
        },
        "http.MatchResponse": {
            "type": "object",
            "properties": {
                "category": {
                    "type": "string"
                },
                "candidates": {
                    "type": "integer"
                },
                "matches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/http.ProductMatchResponse"
                    }
                }
            }
        },
        "http.CategoryStatsResponse": {
            "type": "object",
            "properties": {
                "categories": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo содержит метаданные API, подставляемые в шаблон.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Roomscan API",
	Description:      "Распознавание мебели на фотографиях комнат и подбор похожих товаров.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
