package middleware

import (
	"context"

	"github.com/ecisterna/DT-Virtual-Amateur/internal/queue"
	"github.com/ecisterna/DT-Virtual-Amateur/internal/setup"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type AppUser struct {
	UserID      int64
	Role        string
	Permissions []string
}

// ReportArchive stores report bodies for asynchronous ingestion.
type ReportArchive interface {
	PutReport(ctx context.Context, text string) (string, string, error)
}

type App struct {
	Scout   *setup.App
	Queue   queue.Publisher
	Reports ReportArchive
	// Key resolves the verification key of a bearer token.
	Key            jwt.Keyfunc
	MasterAPIKey   string
	MasterUserID   int64
	MasterUserRole string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

// AppContextMiddleware exposes app to every handler through AppContext.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
