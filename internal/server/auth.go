package server

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/quoteflow-app/quoteflow/internal/common"
)

const ctxOwnerID = "ownerID"

// ValidateToken parses and verifies a bearer token issued by the hosted auth
// provider and returns the owner ID from its subject claim.
func ValidateToken(tokenString, secret string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, fmt.Errorf("token missing subject")
	}
	ownerID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("subject is not a valid owner id")
	}
	return ownerID, nil
}

// AuthMiddleware requires a valid bearer token and attaches the owner ID to
// the request context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.AbortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.AbortUnauthorized(c, "invalid authorization format, use 'Bearer <token>'")
			return
		}

		ownerID, err := ValidateToken(parts[1], secret)
		if err != nil {
			common.AbortUnauthorized(c, "invalid token")
			return
		}

		c.Set(ctxOwnerID, ownerID)
		c.Next()
	}
}

// ownerFrom returns the authenticated owner ID set by AuthMiddleware.
func ownerFrom(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxOwnerID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
