package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Orgbook API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Orgbook API",
    "version": "1.0.0"
  },
  "components": {
    "securitySchemes": {
      "BearerAuth": {
        "type": "http",
        "scheme": "bearer",
        "bearerFormat": "JWT"
      }
    }
  },
  "paths": {
    "/auth/register": {
      "post": {
        "summary": "Register a user",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email", "password", "firstName", "lastName"],
                "properties": {
                  "email": {"type": "string"},
                  "password": {"type": "string"},
                  "firstName": {"type": "string"},
                  "lastName": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "User registered"},
          "400": {"description": "Validation failed"}
        }
      }
    },
    "/auth/login": {
      "post": {
        "summary": "Login and receive a bearer token",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email", "password"],
                "properties": {
                  "email": {"type": "string"},
                  "password": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Login successful"},
          "401": {"description": "Invalid credentials"}
        }
      }
    },
    "/organizations": {
      "post": {
        "summary": "Create organization",
        "security": [{"BearerAuth": []}],
        "responses": {
          "201": {"description": "Organization created"}
        }
      },
      "get": {
        "summary": "List organizations visible to the requester",
        "security": [{"BearerAuth": []}],
        "responses": {
          "200": {"description": "Organizations"}
        }
      }
    },
    "/organizations/{id}/members": {
      "post": {
        "summary": "Add a member with a role",
        "security": [{"BearerAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {
          "201": {"description": "Member added"},
          "403": {"description": "Forbidden"}
        }
      }
    },
    "/accounts": {
      "post": {
        "summary": "Create the organization's account",
        "security": [{"BearerAuth": []}],
        "responses": {
          "201": {"description": "Account created"},
          "403": {"description": "Forbidden"}
        }
      },
      "get": {
        "summary": "List accounts visible to the requester",
        "security": [{"BearerAuth": []}],
        "responses": {
          "200": {"description": "Accounts"}
        }
      }
    },
    "/transactions": {
      "post": {
        "summary": "Record a transaction and apply its balance delta",
        "security": [{"BearerAuth": []}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["accountId", "amount", "transactionType"],
                "properties": {
                  "accountId": {"type": "string"},
                  "amount": {"type": "string"},
                  "transactionType": {"type": "string", "enum": ["DEPOSIT", "WITHDRAWAL", "PAYMENT", "INCOME"]},
                  "description": {"type": "string"},
                  "transactionDate": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Transaction recorded"},
          "422": {"description": "Insufficient funds"}
        }
      },
      "get": {
        "summary": "List transactions with filters, pagination, and summary",
        "security": [{"BearerAuth": []}],
        "parameters": [
          {"name": "accountId", "in": "query", "schema": {"type": "string"}},
          {"name": "organizationId", "in": "query", "schema": {"type": "string"}},
          {"name": "type", "in": "query", "schema": {"type": "string"}},
          {"name": "startDate", "in": "query", "schema": {"type": "string"}},
          {"name": "endDate", "in": "query", "schema": {"type": "string"}},
          {"name": "minAmount", "in": "query", "schema": {"type": "string"}},
          {"name": "maxAmount", "in": "query", "schema": {"type": "string"}},
          {"name": "page", "in": "query", "schema": {"type": "integer"}},
          {"name": "limit", "in": "query", "schema": {"type": "integer"}}
        ],
        "responses": {
          "200": {"description": "Transactions with summary"}
        }
      }
    },
    "/transactions/{id}": {
      "patch": {
        "summary": "Amend a transaction, rebalancing the account",
        "security": [{"BearerAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {
          "200": {"description": "Transaction amended"},
          "404": {"description": "Not found"},
          "422": {"description": "Insufficient funds"}
        }
      },
      "delete": {
        "summary": "Delete a transaction, reversing its balance effect",
        "security": [{"BearerAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {
          "200": {"description": "Transaction deleted"},
          "422": {"description": "Insufficient funds"}
        }
      }
    },
    "/activities": {
      "post": {
        "summary": "Create activity",
        "security": [{"BearerAuth": []}],
        "responses": {
          "201": {"description": "Activity created"}
        }
      }
    },
    "/tasks": {
      "post": {
        "summary": "Create task",
        "security": [{"BearerAuth": []}],
        "responses": {
          "201": {"description": "Task created"}
        }
      }
    }
  }
}`
