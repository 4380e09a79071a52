package middleware

import (
	"strings"

	"healthquery-backend/internal/apperror"
	"healthquery-backend/internal/models"
	"healthquery-backend/internal/session"

	"github.com/gin-gonic/gin"
)

// Decision is the outcome of a guard: allowed, or denied with an error.
type Decision struct {
	Allowed bool
	Err     *apperror.Error
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(err *apperror.Error) Decision {
	return Decision{Err: err}
}

// GuardFunc inspects a request without side effects.
type GuardFunc func(c *gin.Context) Decision

// Guard runs guards in order and aborts the request on the first denial.
func Guard(guards ...GuardFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, g := range guards {
			if d := g(c); !d.Allowed {
				AbortWithError(c, d.Err)
				return
			}
		}
		c.Next()
	}
}

// AbortWithError stops the chain and writes the uniform error body.
func AbortWithError(c *gin.Context, err *apperror.Error) {
	c.AbortWithStatusJSON(err.Status, gin.H{"error": err.Title, "message": err.Message})
}

// LoginRequired denies requests without a logged-in user.
func LoginRequired(c *gin.Context) Decision {
	if _, ok := session.CurrentUser(c); !ok {
		return Deny(apperror.Unauthorized("Authentication required"))
	}
	return Allow()
}

// JSONRequired denies requests whose body is not declared as JSON.
func JSONRequired(c *gin.Context) Decision {
	ct := c.ContentType()
	if ct == "application/json" || (strings.HasPrefix(ct, "application/") && strings.HasSuffix(ct, "+json")) {
		return Allow()
	}
	return Deny(apperror.UnsupportedMediaType("Content-Type must be application/json"))
}

// RequireRole denies users that do not hold role.
func RequireRole(role models.Role, label string) GuardFunc {
	return func(c *gin.Context) Decision {
		u, ok := session.CurrentUser(c)
		if !ok {
			return Deny(apperror.Unauthorized("Authentication required"))
		}
		if u.Role != role {
			return Deny(apperror.Forbidden("Access denied. " + label + " role required."))
		}
		return Allow()
	}
}

var (
	PatientRequired   = RequireRole(models.RolePatient, "Patient")
	ClinicianRequired = RequireRole(models.RoleClinician, "Clinician")
	AdminRequired     = RequireRole(models.RoleAdmin, "Admin")
)
