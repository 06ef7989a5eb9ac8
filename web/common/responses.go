package common

import (
	"log"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Message: message}
}

type SuccessResponse struct {
	Data interface{} `json:"data"`
}

func NewSuccessResponse(data interface{}) *SuccessResponse {
	return &SuccessResponse{Data: data}
}

type Pagination struct {
	Total int64 `json:"total"`
}

type SearchResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func NewSearchResponse(data interface{}, total int64) *SearchResponse {
	return &SearchResponse{Data: data, Pagination: Pagination{Total: total}}
}

// Fail aborts with err as the message. Server errors are logged.
func Fail(c *gin.Context, status int, err error) {
	if status >= 500 {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, NewErrorResponse(err.Error()))
}
