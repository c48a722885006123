// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-reservation/internal/handler"
	"github.com/iliyamo/concert-reservation/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account endpoints.  Register, login,
// refresh and logout live under /v1/auth and need no session; /v1/me
// and /v1/auth/logout-all require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/auth/logout-all", a.LogoutAll)
}

// RegisterUser registers the customer-facing reservation endpoints.
// Both roles may browse and book; the acting user is always the
// authenticated token's username.
func RegisterUser(e *echo.Echo, h *handler.UserHandler, jwtSecret string) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "CUSTOMER"),
	)
	g.GET("/concerts", h.ListConcerts)
	g.GET("/my-concerts", h.MyConcerts)
	g.POST("/reserve", h.Reserve)
	g.POST("/cancel", h.Cancel)
}

// RegisterAdmin registers catalog management, ledger history and the
// totals report under /v1/admin, gated behind the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.GET("/concerts", h.ListConcerts)
	g.POST("/concerts", h.CreateConcert)
	g.DELETE("/concerts/:id", h.DeleteConcert)
	g.GET("/history", h.History)
	g.DELETE("/history/:id", h.UndoAction)
	g.GET("/totals", h.Totals)
}
