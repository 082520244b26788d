package internal

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"med-diagnosis-api/apiv1"
)

// BasicAuth returns a gin middleware that authenticates requests with
// HTTP basic auth against stored accounts. Inactive accounts are
// rejected like unknown ones.
func BasicAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="admin"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var account apiv1.Account
		err := db.Where("username = ?", username).First(&account).Error
		if err != nil || !account.IsActive || account.ComparePassword(password) != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		c.Set("account", account.Username)
		c.Next()
	}
}
