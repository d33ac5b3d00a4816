package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	id "byggekrav/pkg/domain"
	dErrors "byggekrav/pkg/domain-errors"
	"byggekrav/pkg/platform/httputil"
	"byggekrav/pkg/requestcontext"
)

// Handler exposes the token endpoint. It is mounted outside the
// RequireAuth chain; everything else requires the token it issues.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the auth endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/token", h.HandleToken)
}

// TokenRequest is the HTTP request body for POST /auth/token.
type TokenRequest struct {
	PartyID string `json:"party_id"`
	APIKey  string `json:"api_key"`

	parsedPartyID id.PartyID
}

func (r *TokenRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	partyID, err := id.ParsePartyID(strings.TrimSpace(r.PartyID))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "party_id must be a valid UUID")
	}
	r.parsedPartyID = partyID
	if r.APIKey == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "api_key is required")
	}
	return nil
}

// TokenResponse is the wire shape of an issued token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// HandleToken handles POST /auth/token.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[TokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.IssueToken(ctx, req.parsedPartyID, req.APIKey)
	if err != nil {
		h.logger.WarnContext(ctx, "token issuance failed",
			"request_id", requestID,
			"party_id", req.PartyID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   result.ExpiresIn,
	})
}
