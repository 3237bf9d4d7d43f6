package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MyelinBots/vitals-go/internal/db/repositories/user"
	"github.com/MyelinBots/vitals-go/internal/services/auth"
	"github.com/MyelinBots/vitals-go/internal/services/context_manager"
	"github.com/MyelinBots/vitals-go/internal/services/profile"
	"github.com/gin-gonic/gin"
)

/*
ACCOUNTS
*/

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (s *Server) register(c *gin.Context) {
	var in auth.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		respondBadRequest(c)
		return
	}

	u, err := s.auth.Register(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (s *Server) login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBind(&in); err != nil {
		respondBadRequest(c)
		return
	}

	sess, err := s.auth.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sess.Token, int(s.sessions.TTL().Seconds()), "/", "", s.cfg.AuthConfig.CookieSecure, true)
	c.JSON(http.StatusOK, sess)
}

func (s *Server) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", s.cfg.AuthConfig.CookieSecure, true)
	c.Status(http.StatusNoContent)
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) updateGoals(c *gin.Context) {
	var in profile.GoalsInput
	if err := c.ShouldBind(&in); err != nil {
		respondBadRequest(c)
		return
	}

	u, err := s.profile.UpdateGoals(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

/*
MEASUREMENTS
*/

func (s *Server) submitMeasurement(c *gin.Context) {
	var in profile.MeasurementInput
	if err := c.ShouldBind(&in); err != nil {
		respondBadRequest(c)
		return
	}

	record, err := s.profile.SubmitMeasurement(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (s *Server) listMeasurements(c *gin.Context) {
	list, err := s.profile.Measurements(c.Request.Context(), currentUser(c).ID, queryLimit(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"measurements": list})
}

/*
FOODS
*/

type searchRequest struct {
	Name string `form:"name" json:"name"`
}

func (s *Server) searchFood(c *gin.Context) {
	var in searchRequest
	if err := c.ShouldBind(&in); err != nil {
		respondBadRequest(c)
		return
	}

	info, err := s.food.Lookup(c.Request.Context(), currentUser(c).ID, in.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) recentFoods(c *gin.Context) {
	foods, err := s.food.RecentFoods(c.Request.Context(), currentUser(c).ID, queryLimit(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

/*
CONSUMPTIONS
*/

type consumptionRequest struct {
	FoodItemID uint   `form:"food_item_id" json:"food_item_id" binding:"required"`
	Portion    string `form:"portion" json:"portion"`
}

func (s *Server) logConsumption(c *gin.Context) {
	var in consumptionRequest
	if err := c.ShouldBind(&in); err != nil {
		respondBadRequest(c)
		return
	}

	entry, err := s.ledger.LogConsumption(c.Request.Context(), currentUser(c).ID, in.FoodItemID, in.Portion)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) listConsumptions(c *gin.Context) {
	list, err := s.ledger.History(c.Request.Context(), currentUser(c).ID, queryLimit(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consumptions": list})
}

func (s *Server) deleteConsumption(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c)
		return
	}

	if err := s.ledger.DeleteConsumption(c.Request.Context(), currentUser(c).ID, uint(id)); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

/*
DASHBOARD
*/

func (s *Server) dashboard(c *gin.Context) {
	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(auth.BirthDateLayout, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	summary, err := s.profile.Dashboard(c.Request.Context(), currentUser(c).ID, day)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// currentUser is set by RequireSession.
func currentUser(c *gin.Context) *user.User {
	return context_manager.GetUserFromContext(c.Request.Context())
}

const maxListLimit = 100

// queryLimit returns 0 (the service default) for a missing or bad ?limit and
// caps larger values at maxListLimit.
func queryLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n < 0 {
		return 0
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}
