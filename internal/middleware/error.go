package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorRenderer writes an error page for status with a message for the user.
type ErrorRenderer func(c *gin.Context, status int, message string)

// Recovery turns a panic in a handler into a logged 500 error page
func Recovery(logger *logrus.Logger, render ErrorRenderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.WithFields(logrus.Fields{
					"panic": err,
					"path":  c.Request.URL.Path,
					"stack": string(debug.Stack()),
				}).Error("panic recovered")

				if c.Writer.Written() {
					c.Abort()
					return
				}
				render(c, http.StatusInternalServerError, "Internal Server Error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
