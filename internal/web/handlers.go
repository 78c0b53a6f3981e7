package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/mantenix/internal/aggregate"
	"github.com/julianstephens/mantenix/internal/api"
	"github.com/julianstephens/mantenix/internal/constants"
	apperrors "github.com/julianstephens/mantenix/internal/errors"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/session"
)

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var httpErr *api.HTTPError
	switch {
	case errors.Is(err, session.ErrTaskNotFound):
		return http.StatusNotFound
	case apperrors.KindOf(err) == apperrors.KindValidation:
		return http.StatusBadRequest
	case errors.As(err, &httpErr), apperrors.KindOf(err) == apperrors.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func boolQuery(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

// filterFromQuery starts from the persisted origin and person choice and
// overrides whatever the query names.
func (s *Server) filterFromQuery(c *gin.Context) aggregate.Filter {
	f := s.sess.DefaultFilter()
	if v, ok := c.GetQuery("origin"); ok {
		f.Origin = v
	}
	if v, ok := c.GetQuery("person"); ok {
		f.Person = v
	}
	f.Status = c.Query("status")
	f.Priority = c.Query("priority")
	f.Search = c.Query("q")
	f.GroupID = c.Query("group")
	f.OnlyOverdue = boolQuery(c, "overdue")
	f.OnlyToday = boolQuery(c, "today")
	return f
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleView(c *gin.Context) {
	view, err := s.sess.View(s.filterFromQuery(c))
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	ok(c, view)
}

func (s *Server) handlePeople(c *gin.Context) {
	view, err := s.sess.View(aggregate.Filter{GroupID: c.Query("group")})
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view.People,
		"summary": view.Summary,
	})
}

func (s *Server) handleGroups(c *gin.Context) {
	view, err := s.sess.View(aggregate.Filter{})
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, view.Groups)
}

func (s *Server) handleRefresh(c *gin.Context) {
	err := s.sess.Refresh(c.Request.Context())
	view, viewErr := s.sess.View(s.sess.DefaultFilter())
	if viewErr != nil {
		fail(c, http.StatusInternalServerError, viewErr)
		return
	}
	resp := gin.H{"success": err == nil, "data": view.Counts}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) handleStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	origin := models.Origin(c.Param("origin"))
	if !origin.IsValid() {
		fail(c, http.StatusBadRequest, apperrors.Validation("change status", "unknown origin %q", origin))
		return
	}
	id := models.ID(c.Param("id"))
	status := models.Status(req.Status)

	if err := s.sess.ChangeStatus(c.Request.Context(), origin, id, status); err != nil {
		fail(c, statusFor(err), err)
		return
	}

	task, err := s.sess.Task(origin, id)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": constants.MsgTaskUpdated,
		"data":    task,
	})
}

func (s *Server) handleGetPreferences(c *gin.Context) {
	ok(c, s.sess.Preferences())
}

func (s *Server) handlePutPreferences(c *gin.Context) {
	var in models.Preferences
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	prefs, err := s.sess.Update(func(p *models.Preferences) {
		*p = in
	})
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	ok(c, prefs)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleNotes(c *gin.Context) {
	var in notesRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := s.sess.SetNotes(in.Notes); err != nil {
		fail(c, statusFor(err), err)
		return
	}
	ok(c, gin.H{"notes": s.sess.Preferences().Notes})
}

func (s *Server) handlePin(c *gin.Context) {
	if err := s.sess.Pin(c.Param("name")); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	ok(c, s.sess.Preferences().PinnedPeople)
}

func (s *Server) handleUnpin(c *gin.Context) {
	if err := s.sess.Unpin(c.Param("name")); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	ok(c, s.sess.Preferences().PinnedPeople)
}
