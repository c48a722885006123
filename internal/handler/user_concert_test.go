package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/concert-reservation/internal/model"
	"github.com/iliyamo/concert-reservation/internal/repository"
	"github.com/iliyamo/concert-reservation/internal/service"
)

// Minimal in-memory stores.  Only the paths the handlers hit are
// implemented; the service layer has its own exhaustive fakes.

type stubConcerts struct {
	concerts []model.Concert
}

func (s *stubConcerts) List(context.Context) ([]model.Concert, error) { return s.concerts, nil }
func (s *stubConcerts) GetByID(_ context.Context, id uint64) (model.Concert, error) {
	for _, c := range s.concerts {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Concert{}, repository.ErrConcertNotFound
}
func (s *stubConcerts) Create(_ context.Context, c *model.Concert) error {
	for _, have := range s.concerts {
		if have.Name == c.Name {
			return repository.ErrConcertExists
		}
	}
	c.ID = uint64(len(s.concerts) + 1)
	s.concerts = append(s.concerts, *c)
	return nil
}
func (s *stubConcerts) Delete(_ context.Context, id uint64) (int64, error) {
	for i, c := range s.concerts {
		if c.ID == id {
			s.concerts = append(s.concerts[:i], s.concerts[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}
func (s *stubConcerts) SumCapacity(context.Context) (int64, error) {
	var sum int64
	for _, c := range s.concerts {
		sum += int64(c.Capacity)
	}
	return sum, nil
}

type stubActions struct {
	nextID uint64
	rows   []model.ReservationAction
	err    error // when set, read projections fail with it
}

func (s *stubActions) Append(_ context.Context, a *model.ReservationAction) error {
	s.nextID++
	a.ID = s.nextID
	s.rows = append(s.rows, *a)
	return nil
}
func (s *stubActions) DeleteByID(context.Context, uint64) (int64, error) { return 0, nil }
func (s *stubActions) ListAll(context.Context) ([]model.HistoryEntry, error) {
	return nil, s.err
}
func (s *stubActions) ListByUser(context.Context, string) ([]model.HistoryEntry, error) {
	return nil, nil
}
func (s *stubActions) ListByConcert(context.Context, uint64) ([]model.HistoryEntry, error) {
	return nil, nil
}
func (s *stubActions) LatestKindByUser(_ context.Context, username string) (map[uint64]model.ActionKind, error) {
	if s.err != nil {
		return nil, s.err
	}
	latest := make(map[uint64]model.ActionKind)
	for _, r := range s.rows {
		if r.Username == username && r.ConcertID != nil {
			latest[*r.ConcertID] = r.Kind
		}
	}
	return latest, nil
}
func (s *stubActions) LatestFor(_ context.Context, username string, concertID uint64) (model.ActionKind, bool, error) {
	for i := len(s.rows) - 1; i >= 0; i-- {
		r := s.rows[i]
		if r.Username == username && r.ConcertID != nil && *r.ConcertID == concertID {
			return r.Kind, true, nil
		}
	}
	return "", false, nil
}
func (s *stubActions) CountByKind(_ context.Context, kind model.ActionKind) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	var n int64
	for _, r := range s.rows {
		if r.Kind == kind {
			n++
		}
	}
	return n, nil
}
func (s *stubActions) CountActiveByConcert(context.Context, uint64) (int64, error) {
	return 0, nil
}

func newUserFixture(t *testing.T) (*UserHandler, *stubActions) {
	t.Helper()
	cs := &stubConcerts{concerts: []model.Concert{
		{ID: 1, Name: "Aurora Live", Detail: "open air", Capacity: 100},
	}}
	as := &stubActions{}
	booking := service.NewBooking(cs, as, false)
	resolver := service.NewResolver(cs, as)
	return NewUserHandler(booking, resolver, cs), as
}

// request builds an authenticated echo context the way the JWT
// middleware would.
func request(method, path, body, username string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if username != "" {
		c.Set("username", username)
		c.Set("user_id", uint64(1))
		c.Set("role", "CUSTOMER")
	}
	return c, rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func TestReserveCreated(t *testing.T) {
	h, as := newUserFixture(t)
	c, rec := request(http.MethodPost, "/v1/reserve", `{"concert_id":1}`, "alice")

	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"reserve successfully."}`, rec.Body.String())
	require.Len(t, as.rows, 1)
	assert.Equal(t, model.ActionReserve, as.rows[0].Kind)
}

func TestReserveDuplicateConflict(t *testing.T) {
	h, _ := newUserFixture(t)

	c, _ := request(http.MethodPost, "/v1/reserve", `{"concert_id":1}`, "alice")
	require.NoError(t, h.Reserve(c))

	c, rec := request(http.MethodPost, "/v1/reserve", `{"concert_id":1}`, "alice")
	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Concert already reserved", errorBody(t, rec))
}

func TestReserveUnknownConcertNotFound(t *testing.T) {
	h, _ := newUserFixture(t)
	c, rec := request(http.MethodPost, "/v1/reserve", `{"concert_id":42}`, "alice")

	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Concert not found", errorBody(t, rec))
}

func TestReserveMissingBody(t *testing.T) {
	h, _ := newUserFixture(t)
	c, rec := request(http.MethodPost, "/v1/reserve", `{}`, "alice")

	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReserveUnauthenticated(t *testing.T) {
	h, _ := newUserFixture(t)
	c, rec := request(http.MethodPost, "/v1/reserve", `{"concert_id":1}`, "")

	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCancelWithoutReservationConflict(t *testing.T) {
	h, _ := newUserFixture(t)
	c, rec := request(http.MethodPost, "/v1/cancel", `{"concert_id":1}`, "alice")

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Reservation not found", errorBody(t, rec))
}

func TestCancelAfterReserve(t *testing.T) {
	h, as := newUserFixture(t)

	c, _ := request(http.MethodPost, "/v1/reserve", `{"concert_id":1}`, "alice")
	require.NoError(t, h.Reserve(c))

	c, rec := request(http.MethodPost, "/v1/cancel", `{"concert_id":1}`, "alice")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"cancel successfully."}`, rec.Body.String())

	// the ledger grew instead of losing the reserve row
	require.Len(t, as.rows, 2)
	assert.Equal(t, model.ActionCancel, as.rows[1].Kind)
}

func TestListConcertsStorageFailureLogsCause(t *testing.T) {
	cs := &stubConcerts{concerts: []model.Concert{
		{ID: 1, Name: "Aurora Live", Detail: "open air", Capacity: 100},
	}}
	as := &stubActions{err: errors.New("ledger query timed out")}
	h := NewUserHandler(service.NewBooking(cs, as, false), service.NewResolver(cs, as), cs)

	var logged bytes.Buffer
	log.SetOutput(&logged)
	defer log.SetOutput(os.Stderr)

	c, rec := request(http.MethodGet, "/v1/concerts", "", "alice")
	require.NoError(t, h.ListConcerts(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logged.String(), "ledger query timed out")
}

func TestListConcertsMarksReserved(t *testing.T) {
	h, _ := newUserFixture(t)

	c, _ := request(http.MethodPost, "/v1/reserve", `{"concert_id":1}`, "alice")
	require.NoError(t, h.Reserve(c))

	c, rec := request(http.MethodGet, "/v1/concerts", "", "alice")
	require.NoError(t, h.ListConcerts(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []model.ConcertView `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.True(t, body.Items[0].IsReserved)

	// another user sees the same catalog unreserved
	c, rec = request(http.MethodGet, "/v1/concerts", "", "bob")
	require.NoError(t, h.ListConcerts(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.False(t, body.Items[0].IsReserved)
}
