package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quotedesk/quotedesk-backend/internal/data/repos"
	"github.com/quotedesk/quotedesk-backend/internal/data/repos/quotes"
	"github.com/quotedesk/quotedesk-backend/internal/http/response"
	"github.com/quotedesk/quotedesk-backend/internal/modules/estimation"
	"github.com/quotedesk/quotedesk-backend/internal/platform/apierr"
	"github.com/quotedesk/quotedesk-backend/internal/platform/ctxutil"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
	"github.com/quotedesk/quotedesk-backend/internal/realtime/bus"
)

type QuoteHandler struct {
	log      *logger.Logger
	deps     estimation.Deps
	quotes   repos.QuoteRepo
	versions repos.QuoteVersionRepo
	bus      bus.Bus
}

func NewQuoteHandler(log *logger.Logger, deps estimation.Deps, quoteRepo repos.QuoteRepo, versionRepo repos.QuoteVersionRepo, eventBus bus.Bus) *QuoteHandler {
	return &QuoteHandler{
		log:      log.With("handler", "QuoteHandler"),
		deps:     deps,
		quotes:   quoteRepo,
		versions: versionRepo,
		bus:      eventBus,
	}
}

type reestimateRequest struct {
	Engine         string `json:"engine"`
	NotesLimit     int    `json:"notes_limit"`
	ForceKeySource string `json:"force_key_source"`
	Source         string `json:"source"`
	Reason         string `json:"reason"`
}

func (h *QuoteHandler) Reestimate(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.TenantID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	quoteID, err := uuid.Parse(c.Param("quoteID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("invalid quote id"))
		return
	}

	var req reestimateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
			return
		}
	}

	out, err := estimation.Reestimate(c.Request.Context(), h.deps, estimation.Input{
		TenantID:       rd.TenantID,
		QuoteID:        quoteID,
		ActorID:        rd.ActorID,
		ActorName:      rd.ActorName,
		Engine:         req.Engine,
		NotesLimit:     req.NotesLimit,
		ForceKeySource: req.ForceKeySource,
		Source:         req.Source,
		Reason:         req.Reason,
	})
	if err != nil {
		h.log.Error("reestimate failed", "error", err, "quote_id", quoteID.String())
		response.RespondError(c, apierr.Status(err), apierr.Code(err), err)
		return
	}

	if h.bus != nil {
		if err := h.bus.Publish(c.Request.Context(), bus.VersionCreated{
			TenantID:      rd.TenantID,
			QuoteID:       quoteID,
			VersionID:     out.VersionID,
			VersionNumber: out.VersionNumber,
		}); err != nil {
			h.log.Warn("version event publish failed", "error", err, "quote_id", quoteID.String())
		}
	}

	response.RespondOK(c, out)
}

func (h *QuoteHandler) GetQuote(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.TenantID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	quoteID, err := uuid.Parse(c.Param("quoteID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("invalid quote id"))
		return
	}

	quote, err := h.quotes.GetByID(c.Request.Context(), nil, rd.TenantID, quoteID)
	if err != nil {
		if errors.Is(err, quotes.ErrQuoteNotFound) {
			response.RespondError(c, http.StatusNotFound, apierr.CodeQuoteNotFound, err)
			return
		}
		h.log.Error("get quote failed", "error", err, "quote_id", quoteID.String())
		response.RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, err)
		return
	}

	response.RespondOK(c, gin.H{"quote": quote})
}

func (h *QuoteHandler) ListVersions(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.TenantID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	quoteID, err := uuid.Parse(c.Param("quoteID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("invalid quote id"))
		return
	}

	versions, err := h.versions.GetByQuoteID(c.Request.Context(), nil, rd.TenantID, quoteID)
	if err != nil {
		h.log.Error("list versions failed", "error", err, "quote_id", quoteID.String())
		response.RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, err)
		return
	}

	response.RespondOK(c, gin.H{"versions": versions})
}
