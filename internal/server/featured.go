package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceylonworkforce/jobboard/internal/featured"
)

type featuredRequest struct {
	JobID        string   `json:"jobId"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	JobType      string   `json:"jobType"`
	Description  string   `json:"description"`
	Skills       []string `json:"skills"`
	DurationDays int      `json:"durationDays"`
}

type daysRequest struct {
	Days int `json:"days"`
}

// handleActiveFeatured is the public carousel feed
func (s *Server) handleActiveFeatured(c *gin.Context) {
	views, err := s.svc.Featured.Active(c.Request.Context())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": views, "count": len(views)})
}

func (s *Server) handleFeaturedView(c *gin.Context) {
	view, err := s.svc.Featured.RecordView(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleFeaturedClick(c *gin.Context) {
	view, err := s.svc.Featured.RecordClick(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// handleListFeatured accepts ?search=&status=&sortBy=&order=
func (s *Server) handleListFeatured(c *gin.Context) {
	q, err := featured.ParseQuery(c.Query("search"), c.Query("status"), c.Query("sortBy"), c.Query("order"))
	if err != nil {
		s.abort(c, err)
		return
	}
	views, err := s.svc.Featured.List(c.Request.Context(), q)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": views, "count": len(views)})
}

func (s *Server) handleCreateFeatured(c *gin.Context) {
	var req featuredRequest
	if !s.bind(c, &req) {
		return
	}
	if req.DurationDays == 0 {
		req.DurationDays = s.featureDays
	}
	view, err := s.svc.Featured.Create(c.Request.Context(), featured.CreateInput{
		JobID:        req.JobID,
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		JobType:      req.JobType,
		Description:  req.Description,
		Skills:       req.Skills,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (s *Server) handleFeatureJob(c *gin.Context) {
	var req daysRequest
	if c.Request.ContentLength != 0 && !s.bind(c, &req) {
		return
	}
	if req.Days == 0 {
		req.Days = s.featureDays
	}
	view, err := s.svc.Featured.FeatureJob(c.Request.Context(), c.Param("id"), req.Days)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (s *Server) handleGetFeatured(c *gin.Context) {
	view, err := s.svc.Featured.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleExtendFeatured(c *gin.Context) {
	var req daysRequest
	if !s.bind(c, &req) {
		return
	}
	view, err := s.svc.Featured.Extend(c.Request.Context(), c.Param("id"), req.Days)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleRemoveFeatured(c *gin.Context) {
	if err := s.svc.Featured.Remove(c.Request.Context(), c.Param("id")); err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
