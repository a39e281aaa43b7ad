package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mutter0815/ColdMailer/internal/campaign"
	"github.com/Mutter0815/ColdMailer/internal/store"
	"github.com/Mutter0815/ColdMailer/pkg/logx"
)

type runnerAPI interface {
	Start(req campaign.Request) (campaign.Ack, error)
	Snapshot() campaign.State
	Details() []campaign.EmailOutcome
}

type templateAPI interface {
	ListTemplates(ctx context.Context) ([]store.Template, error)
	UpdateTemplate(ctx context.Context, typ, subject, body string) (store.Template, error)
}

type prober interface {
	Probe(ctx context.Context) error
}

type Handlers struct {
	Runner    runnerAPI
	Templates templateAPI
	Mail      prober

	// PrecheckAuth probes mail credentials before accepting a batch.
	PrecheckAuth bool
}

func NewHandlers(r *campaign.Runner, st *store.Store, mail prober, precheck bool) *Handlers {
	return &Handlers{Runner: r, Templates: st, Mail: mail, PrecheckAuth: precheck}
}

type emailStatusResp struct {
	campaign.State
	FailedEmails     []campaign.EmailOutcome `json:"failedEmails"`
	SuccessfulEmails []campaign.EmailOutcome `json:"successfulEmails"`
}

type updateTemplateReq struct {
	Subject  string `json:"subject"  binding:"required"`
	Template string `json:"template" binding:"required"`
}

func (h *Handlers) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *Handlers) SendEmails(c *gin.Context) {
	var req campaign.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. " + err.Error()})
		return
	}

	if h.PrecheckAuth {
		if err := h.probe(c.Request.Context()); err != nil {
			logx.L().Errorw("send_precheck_auth_error", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Email authentication failed",
				"details": err.Error(),
			})
			return
		}
	}

	ack, err := h.Runner.Start(req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, ack)
	case errors.Is(err, campaign.ErrCampaignInProgress):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "A batch is already in progress."})
	case errors.Is(err, campaign.ErrInvalidRequest), errors.Is(err, campaign.ErrSchedulingInfeasible):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logx.L().Errorw("campaign_start_error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start campaign"})
	}
}

func (h *Handlers) SentCount(c *gin.Context) {
	c.JSON(http.StatusOK, h.Runner.Snapshot())
}

func (h *Handlers) EmailStatus(c *gin.Context) {
	resp := emailStatusResp{
		State:            h.Runner.Snapshot(),
		FailedEmails:     []campaign.EmailOutcome{},
		SuccessfulEmails: []campaign.EmailOutcome{},
	}
	for _, o := range h.Runner.Details() {
		if o.Status == campaign.StatusError {
			resp.FailedEmails = append(resp.FailedEmails, o)
		} else {
			resp.SuccessfulEmails = append(resp.SuccessfulEmails, o)
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) probe(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, 15*time.Second)
	defer cancel()
	return h.Mail.Probe(ctx)
}

func (h *Handlers) TestAuth(c *gin.Context) {
	if err := h.probe(c.Request.Context()); err != nil {
		logx.L().Warnw("test_auth_failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Authentication failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email credentials are valid"})
}

func (h *Handlers) ListTemplates(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Templates.ListTemplates(ctx)
	if err != nil {
		logx.L().Errorw("list_templates_error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch templates"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) UpdateTemplate(c *gin.Context) {
	typ := c.Param("type")
	var req updateTemplateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Subject and template are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	t, err := h.Templates.UpdateTemplate(ctx, typ, req.Subject, req.Template)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Template not found"})
		return
	}
	if err != nil {
		logx.L().Errorw("update_template_error", "type", typ, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save template"})
		return
	}
	logx.L().Infow("template_updated", "type", typ)
	c.JSON(http.StatusOK, t)
}
