package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceylonworkforce/jobboard/internal/accounts"
	"github.com/ceylonworkforce/jobboard/internal/models"
)

type registerRequest struct {
	AuthID      string              `json:"authId"`
	Email       string              `json:"email"`
	DisplayName string              `json:"displayName"`
	Provider    models.AuthProvider `json:"provider"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if !s.bind(c, &req) {
		return
	}
	user, created, err := s.svc.Accounts.Register(c.Request.Context(), accounts.RegisterInput{
		AuthID:      req.AuthID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Provider:    req.Provider,
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	c.JSON(code, user)
}

func (s *Server) handleGetUser(c *gin.Context) {
	user, err := s.svc.Accounts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type paymentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (s *Server) handleRecordPayment(c *gin.Context) {
	var req paymentRequest
	if !s.bind(c, &req) {
		return
	}
	payment, err := s.svc.Accounts.RecordPayment(c.Request.Context(), c.Param("id"), req.Amount, req.Currency)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (s *Server) handleListPayments(c *gin.Context) {
	payments, err := s.svc.Accounts.Payments(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments, "count": len(payments)})
}

type roleRequest struct {
	Role models.Role `json:"role"`
}

func (s *Server) handleSelectRole(c *gin.Context) {
	var req roleRequest
	if !s.bind(c, &req) {
		return
	}
	user, err := s.svc.Accounts.SelectRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) handleGetProfile(c *gin.Context) {
	profile, err := s.svc.Accounts.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type profileRequest struct {
	Headline  string   `json:"headline"`
	Skills    []string `json:"skills"`
	Location  string   `json:"location"`
	ResumeURL string   `json:"resumeUrl"`
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req profileRequest
	if !s.bind(c, &req) {
		return
	}
	profile, err := s.svc.Accounts.UpdateProfile(c.Request.Context(), c.Param("id"), accounts.ProfileInput{
		Headline:  req.Headline,
		Skills:    req.Skills,
		Location:  req.Location,
		ResumeURL: req.ResumeURL,
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.svc.Accounts.List(c.Request.Context())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

type suspendRequest struct {
	Suspended *bool `json:"suspended"`
}

// handleSuspendUser suspends by default; {"suspended": false} lifts it
func (s *Server) handleSuspendUser(c *gin.Context) {
	var req suspendRequest
	if c.Request.ContentLength != 0 && !s.bind(c, &req) {
		return
	}
	suspended := req.Suspended == nil || *req.Suspended
	user, err := s.svc.Accounts.SetSuspended(c.Request.Context(), c.Param("id"), suspended)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
