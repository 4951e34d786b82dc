package middleware

import (
	"context"
	"net/http"
	"strings"

	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConsumerKey is the gin context key holding the authenticated consumer.
const ConsumerKey = "consumer"

// ConsumerEmailHeader carries the identity established by the gateway in
// front of this service.
const ConsumerEmailHeader = "X-Consumer-Email"

// ConsumerResolver looks up a consumer by email.
type ConsumerResolver interface {
	FindByEmail(ctx context.Context, email string) (*common.Consumer, error)
}

// ConsumerIdentity resolves the consumer named by the identity header and
// stores it on the request context. Requests without a known consumer are
// rejected before any handler runs.
func ConsumerIdentity(resolver ConsumerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.GetHeader(ConsumerEmailHeader))
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.ErrorResponse{
				Code:    common.ErrCodeUnauthorized,
				Message: "missing " + ConsumerEmailHeader + " header",
			})
			return
		}

		consumer, err := resolver.FindByEmail(c.Request.Context(), email)
		if err != nil {
			common.LogError("consumer lookup failed",
				zap.String("email", email), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, common.ErrorResponse{
				Code:    common.ErrCodeInternalError,
				Message: "failed to resolve consumer",
			})
			return
		}
		if consumer == nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
				Code:    common.ErrCodeInvalidConsumer,
				Message: "consumer does not exist",
			})
			return
		}

		c.Set(ConsumerKey, consumer)
		c.Next()
	}
}

// ConsumerFromContext returns the consumer stored by ConsumerIdentity.
func ConsumerFromContext(c *gin.Context) (*common.Consumer, bool) {
	v, exists := c.Get(ConsumerKey)
	if !exists {
		return nil, false
	}
	consumer, ok := v.(*common.Consumer)
	return consumer, ok
}
