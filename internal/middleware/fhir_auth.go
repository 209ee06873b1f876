package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireFHIRBearer статическая bearer-аутентификация FHIR фасада
// для интеграционных клиентов (внешние EHR системы).
func RequireFHIRBearer(expectedToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		var token string
		if strings.HasPrefix(strings.ToLower(header), "bearer ") {
			token = header[7:]
		}

		if token == "" || token != expectedToken {
			c.JSON(http.StatusUnauthorized, gin.H{
				"resourceType": "OperationOutcome",
				"issue": []gin.H{
					{
						"severity":    "error",
						"code":        "login",
						"diagnostics": "invalid or missing bearer token",
					},
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
