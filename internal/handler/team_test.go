package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetTeam(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.request(http.MethodPost, "/v1/teams",
		`{"name":"platform","member_ids":[3,4]}`, 1)
	require.NoError(t, env.teams.CreateTeam(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created teamResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "platform", created.Name)
	assert.Equal(t, []uint64{3, 4}, created.MemberIDs)

	c, rec = env.request(http.MethodGet, "/v1/teams/2", "", 1)
	c.SetParamNames("id")
	c.SetParamValues("2")
	require.NoError(t, env.teams.GetTeam(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got teamResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
}

func TestCreateTeamRequiresName(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.request(http.MethodPost, "/v1/teams", `{"member_ids":[1]}`, 1)
	require.NoError(t, env.teams.CreateTeam(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTeamNotFound(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.request(http.MethodGet, "/v1/teams/77", "", 1)
	c.SetParamNames("id")
	c.SetParamValues("77")
	require.NoError(t, env.teams.GetTeam(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Team not found.", decodeBody(t, rec)["error"])
}
