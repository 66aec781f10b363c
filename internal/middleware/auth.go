package middleware

import (
	"net/http"
	"strings"

	"tesoreria/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey    = "claims"
	CompanyIDKey = "company_id"
	UserIDKey    = "user_id"
)

// JWTClaims are the claims this service reads from access tokens issued
// elsewhere. Every ledger row is scoped by CompanyID.
type JWTClaims struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route and stores the
// caller identity in the Gin context.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierror.WithCodigo(apierror.CodigoAutenticacion, "Autenticacion requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierror.WithCodigo(apierror.CodigoAutenticacion, "Token invalido o expirado"))
			return
		}

		companyID, errCompany := uuid.Parse(claims.CompanyID)
		userID, errUser := uuid.Parse(claims.UserID)
		if errCompany != nil || errUser != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierror.WithCodigo(apierror.CodigoAutenticacion, "El token no identifica empresa y usuario"))
			return
		}

		c.Set(ClaimsKey, claims)
		SetIdentidad(c, companyID, userID)
		c.Next()
	}
}

// SetIdentidad stores the tenant and actor for the rest of the chain.
func SetIdentidad(c *gin.Context, companyID, userID uuid.UUID) {
	c.Set(CompanyIDKey, companyID)
	c.Set(UserIDKey, userID)
}

// Identidad returns the tenant and actor stored by JWTAuth. ok is false when
// the route was not behind JWTAuth.
func Identidad(c *gin.Context) (companyID, userID uuid.UUID, ok bool) {
	cv, okCompany := c.Get(CompanyIDKey)
	uv, okUser := c.Get(UserIDKey)
	if !okCompany || !okUser {
		return uuid.Nil, uuid.Nil, false
	}
	companyID, okCompany = cv.(uuid.UUID)
	userID, okUser = uv.(uuid.UUID)
	return companyID, userID, okCompany && okUser
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}
