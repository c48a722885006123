package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-reservation/internal/model"
	"github.com/iliyamo/concert-reservation/internal/repository"
	"github.com/iliyamo/concert-reservation/internal/service"
)

// AdminHandler serves the administrative endpoints: catalog management,
// the full reservation history and the aggregate totals report.  Routes
// using it are gated behind the ADMIN role by middleware.
type AdminHandler struct {
	Catalog  *service.Catalog
	Reporter *service.Reporter
	Booking  *service.Booking
	Actions  service.ActionStore
}

// NewAdminHandler constructs an AdminHandler.  All dependencies must be
// non-nil.
func NewAdminHandler(catalog *service.Catalog, reporter *service.Reporter, booking *service.Booking, actions service.ActionStore) *AdminHandler {
	if catalog == nil || reporter == nil || booking == nil || actions == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Catalog: catalog, Reporter: reporter, Booking: booking, Actions: actions}
}

type createConcertReq struct {
	Name     string `json:"name"`
	Detail   string `json:"detail"`
	Capacity int    `json:"capacity"`
}

// ListConcerts handles GET /v1/admin/concerts and returns the plain
// catalog without per-user derived state.
func (h *AdminHandler) ListConcerts(c echo.Context) error {
	concerts, err := h.Catalog.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unexpected error occurred"})
	}
	items := make([]echo.Map, 0, len(concerts))
	for _, concert := range concerts {
		items = append(items, echo.Map{
			"id":         concert.ID,
			"name":       concert.Name,
			"detail":     concert.Detail,
			"capacity":   concert.Capacity,
			"created_at": concert.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateConcert handles POST /v1/admin/concerts.  Validation failures
// answer 400 with the offending field, duplicate names answer 409.
func (h *AdminHandler) CreateConcert(c echo.Context) error {
	var body createConcertReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	concert, err := h.Catalog.Create(c.Request().Context(), body.Name, body.Detail, body.Capacity)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Msg})
		case errors.Is(err, repository.ErrConcertExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Concert already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unexpected error occurred"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Concert saved successfully.",
		"id":      concert.ID,
	})
}

// DeleteConcert handles DELETE /v1/admin/concerts/:id.  The delete is
// idempotent: a missing id answers 200 with deleted=0.  Ledger rows
// referencing the concert survive with their back-reference cleared.
func (h *AdminHandler) DeleteConcert(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concert id"})
	}
	affected, err := h.Catalog.Delete(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unexpected error occurred"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": affected})
}

// History handles GET /v1/admin/history and returns the ledger
// newest-first, each row enriched with the concert name.  Rows whose
// concert was deleted keep a null concert_name.  Optional query
// parameters narrow the projection: ?username= to one user's rows,
// ?concert_id= to one concert's rows.
func (h *AdminHandler) History(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		entries []model.HistoryEntry
		err     error
	)
	switch {
	case c.QueryParam("username") != "":
		entries, err = h.Actions.ListByUser(ctx, c.QueryParam("username"))
	case c.QueryParam("concert_id") != "":
		id, perr := strconv.ParseUint(c.QueryParam("concert_id"), 10, 64)
		if perr != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concert id"})
		}
		entries, err = h.Actions.ListByConcert(ctx, id)
	default:
		entries, err = h.Actions.ListAll(ctx)
	}
	if err != nil {
		log.Printf("handler: history: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unexpected error occurred"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": entries})
}

// UndoAction handles DELETE /v1/admin/history/:id, the cancel-undo
// escape hatch.  It removes a single ledger row and is idempotent.
func (h *AdminHandler) UndoAction(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid action id"})
	}
	affected, err := h.Booking.UndoAction(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unexpected error occurred"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": affected})
}

// Totals handles GET /v1/admin/totals.  The reserve/cancel figures are
// raw ledger counts; empty data reports zeroes.
func (h *AdminHandler) Totals(c echo.Context) error {
	totals, err := h.Reporter.Totals(c.Request().Context())
	if err != nil {
		log.Printf("handler: totals: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unexpected error occurred"})
	}
	return c.JSON(http.StatusOK, totals)
}
