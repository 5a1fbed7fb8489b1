package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/supplynet/backend/internal/domain/shared"
	"github.com/supplynet/backend/internal/domain/supplychain"
	"github.com/supplynet/backend/internal/infrastructure/logger"
)

// RequireAccess admits only callers that are authenticated and active. It
// runs before any handler touches data, and a denial carries no data.
func RequireAccess() gin.HandlerFunc {
	return gate(supplychain.Authorize)
}

// RequireStaff is the console gate: RequireAccess plus the staff flag. When
// staffOnly is false it behaves like RequireAccess.
func RequireStaff(staffOnly bool) gin.HandlerFunc {
	if !staffOnly {
		return RequireAccess()
	}
	return gate(supplychain.AuthorizeStaff)
}

func gate(authorize func(supplychain.CallerContext) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := GetCaller(c)
		if err := authorize(caller); err != nil {
			logger.L(c.Request.Context()).Info("access denied",
				zap.String("path", c.Request.URL.Path),
				zap.Bool("authenticated", caller.Authenticated),
				zap.Bool("active", caller.Active),
				zap.Error(err),
			)
			var de *shared.DomainError
			if errors.As(err, &de) {
				abortWithError(c, de.Code, de.Message)
				return
			}
			abortWithError(c, shared.CodeForbidden, "Access to this resource is forbidden")
			return
		}
		c.Next()
	}
}
