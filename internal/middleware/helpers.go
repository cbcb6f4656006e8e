// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetMerchantID gets the authenticated merchant ID from context
func GetMerchantID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ctxMerchantID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// MustGetMerchantID gets merchant ID from context or panics
func MustGetMerchantID(c *gin.Context) int64 {
	id, exists := GetMerchantID(c)
	if !exists {
		panic("merchant_id not found in context")
	}
	return id
}

func GetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxRole)
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

// MustGetJTI gets JTI from context or panics
func MustGetJTI(c *gin.Context) string {
	v, exists := c.Get(ctxJTI)
	if !exists {
		panic("jti not found in context")
	}
	jti, ok := v.(string)
	if !ok {
		panic("jti has unexpected type")
	}
	return jti
}

// IsAdmin checks if user is an admin
func IsAdmin(c *gin.Context) bool {
	role, _ := GetRole(c)
	return role == "admin"
}
