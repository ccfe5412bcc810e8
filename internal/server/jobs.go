package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceylonworkforce/jobboard/internal/jobs"
	"github.com/ceylonworkforce/jobboard/internal/models"
)

type jobRequest struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	JobType     string   `json:"jobType"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Salary      string   `json:"salary"`
}

// handleBrowseJobs lists jobs; ?employerId= narrows to one employer
func (s *Server) handleBrowseJobs(c *gin.Context) {
	list, err := s.svc.Jobs.Browse(c.Request.Context(), jobs.BrowseQuery{
		Search:     c.Query("search"),
		JobType:    models.JobType(c.Query("jobType")),
		EmployerID: c.Query("employerId"),
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": list, "count": len(list)})
}

func (s *Server) handlePostJob(c *gin.Context) {
	employerID, err := callerID(c)
	if err != nil {
		s.abort(c, err)
		return
	}
	var req jobRequest
	if !s.bind(c, &req) {
		return
	}
	job, err := s.svc.Jobs.Post(c.Request.Context(), jobs.PostInput{
		EmployerID:  employerID,
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		JobType:     models.JobType(req.JobType),
		Description: req.Description,
		Skills:      req.Skills,
		Salary:      req.Salary,
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (s *Server) handleGetJob(c *gin.Context) {
	job, err := s.svc.Jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) handleDeleteJob(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		s.abort(c, err)
		return
	}
	if err := s.svc.Jobs.Delete(c.Request.Context(), c.Param("id"), actorID); err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAdminDeleteJob(c *gin.Context) {
	if err := s.svc.Jobs.Delete(c.Request.Context(), c.Param("id"), ""); err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
