// Package handler exposes the claims workflow over HTTP. Handlers decode and
// validate request DTOs, delegate to the service, and write uniform JSON.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"byggekrav/internal/claims/models"
	"byggekrav/internal/claims/service"
	id "byggekrav/pkg/domain"
	dErrors "byggekrav/pkg/domain-errors"
	"byggekrav/pkg/platform/httputil"
	"byggekrav/pkg/requestcontext"
)

// Service is the claims operations the handler needs.
type Service interface {
	Submit(ctx context.Context, in service.SubmitInput) (*models.Claim, error)
	Get(ctx context.Context, claimID id.ClaimID) (*models.ClaimView, error)
	RecordNotice(ctx context.Context, claimID id.ClaimID, in service.NoticeInput) (*models.Notice, error)
	Alerts(ctx context.Context, claimID id.ClaimID) (*service.ClaimAlerts, error)
	Respond(ctx context.Context, claimID id.ClaimID, in service.RespondInput) (*models.Response, error)
	ComposeDraft(ctx context.Context, claimID id.ClaimID, in service.RespondInput) (*models.Response, error)
	EvaluatePreclusion(ctx context.Context, in service.EvaluateInput) (*service.EvaluateResult, error)
}

// Handler wires claims endpoints to the claims service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a claims handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the claims endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/claims", h.HandleSubmit)
	r.Get("/claims/{claimID}", h.HandleGet)
	r.Post("/claims/{claimID}/notices", h.HandleRecordNotice)
	r.Get("/claims/{claimID}/alerts", h.HandleAlerts)
	r.Post("/claims/{claimID}/responses/{track}", h.HandleRespond)
	r.Post("/claims/{claimID}/drafts/{track}", h.HandleDraft)
	r.Post("/evaluate/preclusion", h.HandleEvaluate)
}

// claimIDFromURL parses the claimID path parameter.
func claimIDFromURL(r *http.Request) (id.ClaimID, error) {
	claimID, err := id.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		return id.ClaimID{}, dErrors.New(dErrors.CodeInvalidInput, "claimID must be a valid UUID")
	}
	return claimID, nil
}

// trackFromURL parses the track path parameter.
func trackFromURL(r *http.Request) (models.Track, error) {
	track := models.Track(chi.URLParam(r, "track"))
	if !models.ValidTracks[track] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "track must be one of vederlag, frist, forsering")
	}
	return track, nil
}

// HandleSubmit handles POST /claims.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	claim, err := h.service.Submit(ctx, req.Parsed())
	if err != nil {
		h.logger.ErrorContext(ctx, "claim submission failed",
			"request_id", requestID,
			"reference", req.Reference,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromClaim(claim))
}

// HandleGet handles GET /claims/{claimID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claimID, err := claimIDFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.service.Get(ctx, claimID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromView(view))
}

// HandleRecordNotice handles POST /claims/{claimID}/notices.
func (h *Handler) HandleRecordNotice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	claimID, err := claimIDFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[NoticeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	notice, err := h.service.RecordNotice(ctx, claimID, req.Parsed())
	if err != nil {
		h.logger.ErrorContext(ctx, "notice recording failed",
			"request_id", requestID,
			"claim_id", claimID.String(),
			"notice_type", req.Type,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, NoticeResponse{
		Type:   string(notice.Type),
		SentAt: notice.SentAt.Format(dateLayout),
		Note:   notice.Note,
	})
}

// HandleAlerts handles GET /claims/{claimID}/alerts.
func (h *Handler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claimID, err := claimIDFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	alerts, err := h.service.Alerts(ctx, claimID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, alerts)
}

// HandleRespond handles POST /claims/{claimID}/responses/{track}.
func (h *Handler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	h.handleCompose(w, r, h.service.Respond, http.StatusCreated)
}

// HandleDraft handles POST /claims/{claimID}/drafts/{track}: same input as a
// response, but nothing is persisted.
func (h *Handler) HandleDraft(w http.ResponseWriter, r *http.Request) {
	h.handleCompose(w, r, h.service.ComposeDraft, http.StatusOK)
}

func (h *Handler) handleCompose(w http.ResponseWriter, r *http.Request,
	op func(context.Context, id.ClaimID, service.RespondInput) (*models.Response, error), status int) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	claimID, err := claimIDFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	track, err := trackFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[RespondRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resp, err := op(ctx, claimID, req.Parsed(track))
	if err != nil {
		h.logger.ErrorContext(ctx, "response composition failed",
			"request_id", requestID,
			"claim_id", claimID.String(),
			"track", track,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, status, FromResponse(resp))
}

// HandleEvaluate handles POST /evaluate/preclusion.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	result, err := h.service.EvaluatePreclusion(ctx, req.Parsed())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
