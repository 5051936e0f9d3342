package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/revision-tracker-bot/internal/delivery/http/response"
)

// OwnerHeader carries the id of the owner every request acts for.
const OwnerHeader = "X-Owner-ID"

const ownerKey = "owner_id"

// RequireOwner rejects requests without a positive numeric owner id.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(OwnerHeader))
		if raw == "" {
			response.RespondError(c, http.StatusUnauthorized, "missing_owner", errors.New(OwnerHeader+" header is required"))
			return
		}

		ownerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ownerID <= 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_owner", errors.New(OwnerHeader+" must be a positive integer"))
			return
		}

		c.Set(ownerKey, ownerID)
		c.Next()
	}
}

// OwnerID returns the owner stored by RequireOwner.
func OwnerID(c *gin.Context) int64 {
	return c.GetInt64(ownerKey)
}
