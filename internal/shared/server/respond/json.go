package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a success envelope with the given status. Payload keys sit
// beside "success", e.g. {"success":true,"job":{...}}.
func JSON(c *gin.Context, status int, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	if _, ok := payload["success"]; !ok {
		payload["success"] = true
	}
	c.JSON(status, payload)
}

// OK writes a 200 OK envelope.
func OK(c *gin.Context, payload gin.H) {
	JSON(c, http.StatusOK, payload)
}

// Created writes a 201 Created envelope.
func Created(c *gin.Context, payload gin.H) {
	JSON(c, http.StatusCreated, payload)
}
