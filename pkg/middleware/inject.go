package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const DBKey = "db"

// InjectDB makes the shared gorm pool available to auth helpers that only
// see the gin context.
func InjectDB(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(DBKey, db)
		c.Next()
	}
}

// GetDB returns the injected connection, or nil when missing.
func GetDB(c *gin.Context) *gorm.DB {
	if v, ok := c.Get(DBKey); ok {
		if db, ok := v.(*gorm.DB); ok {
			return db
		}
	}
	return nil
}
