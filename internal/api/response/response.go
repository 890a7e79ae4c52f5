// Package response renders the uniform JSON envelope every endpoint uses:
// {success, data?, error?, message?}, plus pagination on list endpoints.
package response

import (
	"github.com/gin-gonic/gin"

	"github.com/sakaleshhubli/books-api/internal/search"
)

// Body is the response envelope.
type Body struct {
	Success    bool               `json:"success"`
	Data       any                `json:"data,omitempty"`
	Error      string             `json:"error,omitempty"`
	Message    string             `json:"message,omitempty"`
	Pagination *search.Pagination `json:"pagination,omitempty"`
}

// OK writes a successful response with the given status and payload.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Body{Success: true, Data: data})
}

// Message writes a successful response with a human-readable message.
func Message(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Body{Success: true, Data: data, Message: message})
}

// List writes a successful paginated response.
func List(c *gin.Context, data any, p search.Pagination) {
	c.JSON(200, Body{Success: true, Data: data, Pagination: &p})
}

// Error writes a failed response. The error string names the failure class;
// message carries detail safe to show a client.
func Error(c *gin.Context, status int, err string, message string) {
	c.JSON(status, Body{Success: false, Error: err, Message: message})
}

// ValidationFailed writes a 400 carrying every field violation at once.
func ValidationFailed(c *gin.Context, fields map[string]string) {
	c.JSON(400, Body{Success: false, Error: "Validation failed", Data: fields})
}
