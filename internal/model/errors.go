package model

import (
	"fmt"
	"net/http"
)

// ResponseError is a failure that carries the HTTP status the response should use.
type ResponseError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Name    string `json:"name"`
}

func NewResponseError(status int, message string) *ResponseError {
	return &ResponseError{Status: status, Message: message, Name: "ResponseError"}
}

func (e *ResponseError) Error() string {
	return e.Message
}

func (e *ResponseError) StatusCode() int {
	return e.Status
}

func (e *ResponseError) ErrorName() string {
	return e.Name
}

// CorsError reports an origin rejected by the CORS whitelist.
type CorsError struct {
	ResponseError
	Origin string `json:"origin"`
}

func NewCorsError(origin string) *CorsError {
	return &CorsError{
		ResponseError: ResponseError{
			Status:  http.StatusForbidden,
			Message: fmt.Sprintf("%s not allowed by CORS", origin),
			Name:    "CorsError",
		},
		Origin: origin,
	}
}

// ValidationFailure is one violated validation rule.
type ValidationFailure struct {
	Location string `json:"location"`
	Param    string `json:"param"`
	Msg      string `json:"msg"`
	Value    any    `json:"value,omitempty"`
}
