package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-reservation/internal/queue"
	"github.com/iliyamo/concert-reservation/internal/repository"
	"github.com/iliyamo/concert-reservation/internal/service"
)

// UserHandler serves the customer-facing reservation endpoints.  All
// methods assume JWT authentication has already run; the acting user is
// the verified token's username.  Writes go through the booking
// coordinator, reads through the derived-state resolver.
type UserHandler struct {
	Booking  *service.Booking
	Resolver *service.Resolver
	Concerts service.ConcertStore // name lookups for published events
}

// NewUserHandler constructs a UserHandler.  All dependencies must be
// non-nil.
func NewUserHandler(booking *service.Booking, resolver *service.Resolver, concerts service.ConcertStore) *UserHandler {
	if booking == nil || resolver == nil || concerts == nil {
		panic("nil dependency passed to NewUserHandler")
	}
	return &UserHandler{Booking: booking, Resolver: resolver, Concerts: concerts}
}

type reserveReq struct {
	ConcertID uint64 `json:"concert_id"`
}

// ListConcerts handles GET /v1/concerts.  It returns every concert with
// is_reserved computed for the acting user.
func (h *UserHandler) ListConcerts(c echo.Context) error {
	username, err := getUsername(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	views, err := h.Resolver.ConcertViews(c.Request().Context(), username)
	if err != nil {
		log.Printf("handler: list concerts: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load concerts"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views})
}

// MyConcerts handles GET /v1/my-concerts.  It returns only the concerts
// the acting user currently holds an active reservation for; a concert
// whose latest action is CANCEL does not appear.
func (h *UserHandler) MyConcerts(c echo.Context) error {
	username, err := getUsername(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	views, err := h.Resolver.MyConcerts(c.Request().Context(), username)
	if err != nil {
		log.Printf("handler: my concerts: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load concerts"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views})
}

// Reserve handles POST /v1/reserve.  It appends a RESERVE action for
// the acting user.  Responds 404 when the concert does not exist and
// 409 when the user already holds the reservation or the concert is
// full.
func (h *UserHandler) Reserve(c echo.Context) error {
	username, err := getUsername(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body reserveReq
	if err := c.Bind(&body); err != nil || body.ConcertID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "concert_id is required"})
	}
	action, err := h.Booking.Reserve(c.Request().Context(), username, body.ConcertID)
	if err != nil {
		return h.bookingError(c, err)
	}
	h.publish(c, action.ID, body.ConcertID, username, string(action.Kind), action.CreatedAt)
	return c.JSON(http.StatusCreated, echo.Map{"message": "reserve successfully."})
}

// Cancel handles POST /v1/cancel.  It appends a CANCEL action for the
// acting user.  Responds 409 when there is no active reservation to
// cancel.
func (h *UserHandler) Cancel(c echo.Context) error {
	username, err := getUsername(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body reserveReq
	if err := c.Bind(&body); err != nil || body.ConcertID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "concert_id is required"})
	}
	action, err := h.Booking.Cancel(c.Request().Context(), username, body.ConcertID)
	if err != nil {
		return h.bookingError(c, err)
	}
	h.publish(c, action.ID, body.ConcertID, username, string(action.Kind), action.CreatedAt)
	return c.JSON(http.StatusOK, echo.Map{"message": "cancel successfully."})
}

// bookingError maps coordinator errors to HTTP responses.  Business
// conflicts keep their exact messages; anything unexpected has already
// been logged by the service and surfaces as a generic 500.
func (h *UserHandler) bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrAlreadyReserved):
		return c.JSON(http.StatusConflict, echo.Map{"error": "Concert already reserved"})
	case errors.Is(err, service.ErrConcertFull):
		return c.JSON(http.StatusConflict, echo.Map{"error": "Concert is full"})
	case errors.Is(err, service.ErrReservationNotFound):
		return c.JSON(http.StatusConflict, echo.Map{"error": "Reservation not found"})
	case errors.Is(err, repository.ErrConcertNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Concert not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unexpected error occurred"})
	}
}

// publish emits a reservation.recorded event in the background.  The
// broker is best-effort; a failed publish never fails the request.
func (h *UserHandler) publish(c echo.Context, actionID, concertID uint64, username, kind string, recordedAt time.Time) {
	name := ""
	if concert, err := h.Concerts.GetByID(c.Request().Context(), concertID); err == nil {
		name = concert.Name
	}
	ev := queue.ReservationRecordedEvent{
		ActionID:    actionID,
		ConcertID:   concertID,
		ConcertName: name,
		Username:    username,
		Action:      kind,
		RecordedAt:  recordedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue.PublishReservationRecorded(ctx, ev)
	}()
}
