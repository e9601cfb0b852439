package handler

import (
	"github.com/facturio/facturio-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetTenantID extracts the tenant ID from the Gin context
func GetTenantID(c *gin.Context) *uuid.UUID {
	tenantIDVal, exists := c.Get("tenant_id")
	if !exists {
		return nil
	}
	tenantID, ok := tenantIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &tenantID
}

// GetUserEmail extracts the user email from the Gin context
func GetUserEmail(c *gin.Context) string {
	email, exists := c.Get("user_email")
	if !exists {
		return ""
	}
	return email.(string)
}

// requireTenant resolves the tenant ID or writes a 401. Handlers bail out
// when the second return value is false.
func requireTenant(c *gin.Context) (uuid.UUID, bool) {
	tenantID := GetTenantID(c)
	if tenantID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *tenantID, true
}

// parseIDParam parses a UUID path parameter or writes a 400
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name+" parameter")
		return uuid.Nil, false
	}
	return id, true
}
