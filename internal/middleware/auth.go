package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/shinyyama/student-realestate/internal/reqctx"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthMiddleware admits requests bearing a Firebase ID token whose email is a registered admin.
type AuthMiddleware struct {
	verifier TokenVerifier
	admins   AdminChecker
	log      *zap.Logger
}

func NewAuthMiddleware(ctx context.Context, projectID string, opts []option.ClientOption, admins AdminChecker, log *zap.Logger) (*AuthMiddleware, error) {
	if projectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is not set")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return NewAuthMiddlewareWithVerifier(client, admins, log), nil
}

func NewAuthMiddlewareWithVerifier(verifier TokenVerifier, admins AdminChecker, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, admins: admins, log: log}
}

func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		authz := c.Request().Header.Get(echo.HeaderAuthorization)
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, envelope{Message: "Unauthorized"})
		}
		token, err := m.verifier.VerifyIDToken(ctx, strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, envelope{Message: "Invalid token"})
		}

		email, _ := token.Claims["email"].(string)
		ok, err := m.admins.IsAdmin(ctx, email)
		if err != nil {
			m.log.Error("admin lookup failed", zap.String("rid", reqctx.RID(ctx)), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, envelope{Message: "Internal server error"})
		}
		if !ok {
			return c.JSON(http.StatusForbidden, envelope{Message: "Admin access required"})
		}

		c.Set("uid", token.UID)
		c.Set("email", email)
		c.SetRequest(c.Request().WithContext(reqctx.WithEmail(ctx, email)))
		return next(c)
	}
}
