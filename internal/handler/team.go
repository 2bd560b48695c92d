package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
	"github.com/iliyamo/meeting-room-reservation/internal/repository"
)

// TeamHandler exposes team creation and lookup.  Teams are the owning
// side of reservations; membership management beyond creation is out of
// scope.
type TeamHandler struct {
	Teams repository.TeamStore
}

// NewTeamHandler constructs a TeamHandler.
func NewTeamHandler(teams repository.TeamStore) *TeamHandler {
	if teams == nil {
		panic("nil store passed to NewTeamHandler")
	}
	return &TeamHandler{Teams: teams}
}

type createTeamReq struct {
	Name      string   `json:"name" validate:"required,min=1,max=100"`
	MemberIDs []uint64 `json:"member_ids"`
}

type teamResp struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	MemberIDs []uint64  `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}

func toTeamResp(t *model.Team) teamResp {
	members := t.MemberIDs
	if members == nil {
		members = []uint64{}
	}
	return teamResp{ID: t.ID, Name: t.Name, MemberIDs: members, CreatedAt: t.CreatedAt}
}

// CreateTeam handles POST /v1/teams.
func (h *TeamHandler) CreateTeam(c echo.Context) error {
	var req createTeamReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	team := &model.Team{Name: req.Name, MemberIDs: req.MemberIDs}
	if err := h.Teams.Create(c.Request().Context(), team); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create team failed"})
	}
	return c.JSON(http.StatusCreated, toTeamResp(team))
}

// GetTeam handles GET /v1/teams/:id.
func (h *TeamHandler) GetTeam(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid team id"})
	}
	team, err := h.Teams.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Team not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load team failed"})
	}
	return c.JSON(http.StatusOK, toTeamResp(team))
}
