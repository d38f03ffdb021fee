// README: Booking handlers (extract, validate, quota lookup).
package handlers

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chatbook/internal/http/middleware"
	"chatbook/internal/modules/booking"
	"chatbook/internal/modules/llmusage"
)

const maxMessageRunes = 2000

type BookingHandler struct {
	engine  *booking.Engine
	usage   *llmusage.Service
	timeout time.Duration
}

// NewBookingHandler bounds each extraction by timeout; usage may be nil.
func NewBookingHandler(engine *booking.Engine, usage *llmusage.Service, timeout time.Duration) *BookingHandler {
	return &BookingHandler{engine: engine, usage: usage, timeout: timeout}
}

type extractReq struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
}

type extractResp struct {
	Booking    booking.Record `json:"booking"`
	Validation booking.Report `json:"validation"`
}

type validateReq struct {
	Booking *booking.Record `json:"booking"`
}

// Extract handles POST /api/v1/booking/extract.
func (h *BookingHandler) Extract(c *gin.Context) {
	var req extractReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.Text == "" {
		writeError(c, http.StatusBadRequest, "missing text")
		return
	}
	if utf8.RuneCountInString(req.Text) > maxMessageRunes {
		writeError(c, http.StatusBadRequest, "text too long")
		return
	}
	subject := req.SessionID
	if subject == "" {
		subject = c.ClientIP()
	} else if !isValidID(subject) {
		writeError(c, http.StatusBadRequest, "invalid session_id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	ctx = llmusage.WithSubject(ctx, subject)

	rec := h.engine.Extract(ctx, req.Text)
	report := h.engine.Validate(rec)
	middleware.Logger(c).Debug("booking extracted",
		zap.String("status", string(rec.Status)),
		zap.Float64("confidence", rec.Confidence),
		zap.Int("missing", len(rec.MissingFields)))

	writeJSON(c, http.StatusOK, extractResp{Booking: rec, Validation: report})
}

// Validate handles POST /api/v1/booking/validate.
func (h *BookingHandler) Validate(c *gin.Context) {
	var req validateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Booking == nil {
		writeError(c, http.StatusBadRequest, "missing booking")
		return
	}
	writeJSON(c, http.StatusOK, h.engine.Validate(*req.Booking))
}

// Usage handles GET /api/v1/booking/usage/:subject.
func (h *BookingHandler) Usage(c *gin.Context) {
	subject := c.Param("subject")
	if !isValidID(subject) && net.ParseIP(subject) == nil {
		writeError(c, http.StatusBadRequest, "invalid subject")
		return
	}
	if !h.usage.Enabled() {
		writeJSON(c, http.StatusOK, gin.H{"subject": subject, "limited": false})
		return
	}

	remaining, err := h.usage.Remaining(c.Request.Context(), subject)
	if err != nil {
		middleware.Logger(c).Error("usage lookup failed", zap.Error(err))
		writeError(c, http.StatusServiceUnavailable, "usage store unavailable")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"subject":   subject,
		"limited":   true,
		"quota":     h.usage.Quota(),
		"remaining": remaining,
	})
}
