package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceylonworkforce/jobboard/internal/models"
	"github.com/ceylonworkforce/jobboard/internal/moderation"
)

type reportRequest struct {
	TargetType models.ReportTarget `json:"targetType"`
	TargetID   string              `json:"targetId"`
	Reason     string              `json:"reason"`
}

type noteRequest struct {
	Note string `json:"note"`
}

func (s *Server) handleSubmitReport(c *gin.Context) {
	reporterID, err := callerID(c)
	if err != nil {
		s.abort(c, err)
		return
	}
	var req reportRequest
	if !s.bind(c, &req) {
		return
	}
	report, err := s.svc.Moderation.Submit(c.Request.Context(), moderation.SubmitInput{
		ReporterID: reporterID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (s *Server) handleListReports(c *gin.Context) {
	reports, err := s.svc.Moderation.List(c.Request.Context(), models.ReportStatus(c.Query("status")))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

func (s *Server) handleResolveReport(c *gin.Context) {
	s.closeReport(c, s.svc.Moderation.Resolve)
}

func (s *Server) handleDismissReport(c *gin.Context) {
	s.closeReport(c, s.svc.Moderation.Dismiss)
}

func (s *Server) closeReport(c *gin.Context, transition func(ctx context.Context, id, note string) (*models.Report, error)) {
	var req noteRequest
	if c.Request.ContentLength != 0 && !s.bind(c, &req) {
		return
	}
	report, err := transition(c.Request.Context(), c.Param("id"), req.Note)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleDashboard(c *gin.Context) {
	d, err := s.svc.Moderation.Dashboard(c.Request.Context())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
