package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/meeting-room-reservation/internal/availability"
)

func availabilityEnv(t *testing.T) (*testEnv, *AvailabilityHandler) {
	t.Helper()
	env := newTestEnv(t)
	engine := availability.NewEngine(env.store.Rooms(), env.store.Reservations())
	return env, NewAvailabilityHandler(engine)
}

func TestRoomStatusMissingTimeParam(t *testing.T) {
	env, h := availabilityEnv(t)

	c, rec := env.request(http.MethodGet, "/v1/rooms/availability", "", 7)
	require.NoError(t, h.RoomStatus(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide the 'time' parameter in the query string.",
		decodeBody(t, rec)["error"])
}

func TestRoomStatusMalformedTime(t *testing.T) {
	env, h := availabilityEnv(t)

	target := "/v1/rooms/availability?time=" + url.QueryEscape("09/01/2026 9am")
	c, rec := env.request(http.MethodGet, target, "", 7)
	require.NoError(t, h.RoomStatus(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t,
		"Invalid time format. Please provide time in the format 'YYYY-MM-DD HH:MM:SS'.",
		decodeBody(t, rec)["error"])
}

func TestRoomStatusSnapshot(t *testing.T) {
	env, h := availabilityEnv(t)

	c, rec := env.request(http.MethodPost, "/v1/reservations",
		createBody(env.roomID, env.teamID, "2026-09-01 09:00:00", "2026-09-01 10:00:00"), 7)
	require.NoError(t, env.res.CreateReservation(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	query := func(ts string) map[string]string {
		target := "/v1/rooms/availability?time=" + url.QueryEscape(ts)
		c, rec := env.request(http.MethodGet, target, "", 7)
		require.NoError(t, h.RoomStatus(c))
		require.Equal(t, http.StatusOK, rec.Code)
		var out map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	assert.Equal(t, map[string]string{"101": "Occupied"}, query("2026-09-01 09:30:00"))
	// The start instant is covered, the end instant is not.
	assert.Equal(t, map[string]string{"101": "Occupied"}, query("2026-09-01 09:00:00"))
	assert.Equal(t, map[string]string{"101": "Empty"}, query("2026-09-01 10:00:00"))
	assert.Equal(t, map[string]string{"101": "Empty"}, query("2026-09-01 08:59:59"))
}
