package handler

import (
	"log"

	"softcart/internal/apperr"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status. Internal errors
// get logged server-side with their cause and answered with a generic
// message.
func respondError(c *gin.Context, tag string, err error) {
	if apperr.KindOf(err) == apperr.Internal {
		log.Printf("[%s] %s %s: %v", tag, c.Request.Method, c.Request.URL.Path, err)
	}
	body := gin.H{"error": apperr.Message(err)}
	for k, v := range apperr.MetaOf(err) {
		body[k] = v
	}
	c.JSON(apperr.HTTPStatus(err), body)
}
