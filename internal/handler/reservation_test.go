package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
	"github.com/iliyamo/meeting-room-reservation/internal/queue"
	"github.com/iliyamo/meeting-room-reservation/internal/repository"
)

type testEnv struct {
	e      *echo.Echo
	store  *repository.MemoryStore
	rooms  *RoomHandler
	res    *ReservationHandler
	teams  *TeamHandler
	roomID uint64
	teamID uint64
	events chan queue.ReservationCreatedEvent
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		e:      echo.New(),
		store:  repository.NewMemoryStore(),
		events: make(chan queue.ReservationCreatedEvent, 8),
	}
	env.e.Validator = NewRequestValidator()

	// Publishing happens off the request goroutine, so captured events
	// go through a channel.
	capture := func(ctx context.Context, ev queue.ReservationCreatedEvent) error {
		env.events <- ev
		return nil
	}
	env.rooms = NewRoomHandler(env.store.Rooms())
	env.teams = NewTeamHandler(env.store.Teams())
	env.res = NewReservationHandler(env.store.Reservations(), env.store.Rooms(), env.store.Teams(), capture)

	room := &model.Room{RoomNumber: 101, IsActive: true}
	require.NoError(t, env.store.Rooms().Create(context.Background(), room))
	env.roomID = room.ID

	team := &model.Team{Name: "backend", MemberIDs: []uint64{1, 2}}
	require.NoError(t, env.store.Teams().Create(context.Background(), team))
	env.teamID = team.ID
	return env
}

func (env *testEnv) request(method, target, body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
		c.Set("role", model.RoleMember)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createBody(roomID, teamID uint64, start, end string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"room_id":    roomID,
		"team_id":    teamID,
		"start_time": start,
		"end_time":   end,
	})
	return string(b)
}

func TestCreateReservationEchoesNormalizedTimes(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.request(http.MethodPost, "/v1/reservations",
		createBody(env.roomID, env.teamID, "2026-09-01 09:00:00", "2026-09-01 10:00:00"), 7)
	require.NoError(t, env.res.CreateReservation(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "2026-09-01T09:00:00Z", body["start_time"])
	assert.Equal(t, "2026-09-01T10:00:00Z", body["end_time"])
	assert.EqualValues(t, 7, body["user_id"])

	start, err := time.Parse(time.RFC3339, body["start_time"].(string))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, start.Location())

	select {
	case ev := <-env.events:
		assert.EqualValues(t, 101, ev.RoomNumber)
		assert.Equal(t, body["start_time"], ev.StartsAt)
	case <-time.After(2 * time.Second):
		t.Fatal("no reservation.created event captured")
	}
}

func TestCreateReservationConflict(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.request(http.MethodPost, "/v1/reservations",
		createBody(env.roomID, env.teamID, "2026-09-01 09:00:00", "2026-09-01 10:00:00"), 7)
	require.NoError(t, env.res.CreateReservation(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Overlapping window on the same room is rejected.
	c, rec = env.request(http.MethodPost, "/v1/reservations",
		createBody(env.roomID, env.teamID, "2026-09-01 09:30:00", "2026-09-01 10:30:00"), 8)
	require.NoError(t, env.res.CreateReservation(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "The meeting room is already reserved for this time.",
		decodeBody(t, rec)["error"])

	// Touching windows share only the boundary instant and both fit.
	c, rec = env.request(http.MethodPost, "/v1/reservations",
		createBody(env.roomID, env.teamID, "2026-09-01 10:00:00", "2026-09-01 11:00:00"), 8)
	require.NoError(t, env.res.CreateReservation(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateReservationInvalidInterval(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ name, start, end string }{
		{"backwards", "2026-09-01 10:00:00", "2026-09-01 09:00:00"},
		{"empty", "2026-09-01 09:00:00", "2026-09-01 09:00:00"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := env.request(http.MethodPost, "/v1/reservations",
				createBody(env.roomID, env.teamID, tc.start, tc.end), 7)
			require.NoError(t, env.res.CreateReservation(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateReservationMalformedTime(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.request(http.MethodPost, "/v1/reservations",
		createBody(env.roomID, env.teamID, "next tuesday", "2026-09-01 10:00:00"), 7)
	require.NoError(t, env.res.CreateReservation(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t,
		"Invalid time format. Please provide time in the format 'YYYY-MM-DD HH:MM:SS'.",
		decodeBody(t, rec)["error"])
}

func TestCreateReservationUnknownRoomAndTeam(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.request(http.MethodPost, "/v1/reservations",
		createBody(9999, env.teamID, "2026-09-01 09:00:00", "2026-09-01 10:00:00"), 7)
	require.NoError(t, env.res.CreateReservation(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Meeting Room not found.", decodeBody(t, rec)["error"])

	c, rec = env.request(http.MethodPost, "/v1/reservations",
		createBody(env.roomID, 9999, "2026-09-01 09:00:00", "2026-09-01 10:00:00"), 7)
	require.NoError(t, env.res.CreateReservation(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Team not found.", decodeBody(t, rec)["error"])
}

func TestDeleteReservationTwice(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.request(http.MethodPost, "/v1/reservations",
		createBody(env.roomID, env.teamID, "2026-09-01 09:00:00", "2026-09-01 10:00:00"), 7)
	require.NoError(t, env.res.CreateReservation(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := strconv.FormatUint(uint64(decodeBody(t, rec)["id"].(float64)), 10)

	c, rec = env.request(http.MethodDelete, "/v1/reservations/"+id, "", 7)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, env.res.DeleteReservation(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = env.request(http.MethodDelete, "/v1/reservations/"+id, "", 7)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, env.res.DeleteReservation(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Reservation not found.", decodeBody(t, rec)["error"])
}

func TestListMyReservationsNewestFirst(t *testing.T) {
	env := newTestEnv(t)

	for i, window := range [][2]string{
		{"2026-09-01 09:00:00", "2026-09-01 10:00:00"},
		{"2026-09-01 11:00:00", "2026-09-01 12:00:00"},
	} {
		c, rec := env.request(http.MethodPost, "/v1/reservations",
			createBody(env.roomID, env.teamID, window[0], window[1]), 7)
		require.NoError(t, env.res.CreateReservation(c), "reservation %d", i)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	c, rec := env.request(http.MethodGet, "/v1/reservations", "", 7)
	require.NoError(t, env.res.ListMyReservations(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Items []reservationResp `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Items, 2)
	assert.Greater(t, out.Items[0].ID, out.Items[1].ID)
}
