package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"byggekrav/internal/auth/secrets"
	jwttoken "byggekrav/internal/jwt_token"
	id "byggekrav/pkg/domain"
	dErrors "byggekrav/pkg/domain-errors"
	"byggekrav/pkg/platform/sentinel"
	"byggekrav/pkg/requestcontext"
)

// tokenTTL bounds how long an access token is accepted.
const tokenTTL = time.Hour

// Service verifies API keys and issues access tokens.
type Service struct {
	store  CredentialStore
	tokens *jwttoken.JWTService
	logger *slog.Logger
}

func NewService(store CredentialStore, tokens *jwttoken.JWTService, logger *slog.Logger) *Service {
	return &Service{store: store, tokens: tokens, logger: logger}
}

// Onboard registers a party member and returns the generated API key. The
// key is shown once; only its hash survives.
func (s *Service) Onboard(ctx context.Context, partyID id.PartyID, role string) (string, error) {
	if role != jwttoken.RoleTotalentreprenor && role != jwttoken.RoleByggherre {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role must be totalentreprenor or byggherre")
	}

	apiKey, err := secrets.Generate()
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "failed to generate api key", err)
	}
	hash, err := secrets.Hash(apiKey)
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "failed to hash api key", err)
	}
	cred := &Credential{
		PartyID:    partyID,
		Role:       role,
		APIKeyHash: hash,
		CreatedAt:  requestcontext.Now(ctx),
	}
	if err := s.store.Put(ctx, cred); err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "failed to store credential", err)
	}
	s.logger.InfoContext(ctx, "party onboarded", "party_id", partyID.String(), "role", role)
	return apiKey, nil
}

// IssueToken exchanges a party API key for a signed access token. Lookup and
// verification failures collapse into one unauthorized error so callers
// cannot probe which party IDs exist.
func (s *Service) IssueToken(ctx context.Context, partyID id.PartyID, apiKey string) (*TokenResult, error) {
	cred, err := s.store.Get(ctx, partyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid party credentials")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load credential", err)
	}
	if err := secrets.Verify(apiKey, cred.APIKeyHash); err != nil {
		s.logger.WarnContext(ctx, "api key verification failed", "party_id", partyID.String())
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid party credentials")
	}

	token, err := s.tokens.GenerateAccessToken(uuid.UUID(cred.PartyID), cred.Role, tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to sign token", err)
	}
	return &TokenResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(tokenTTL.Seconds()),
	}, nil
}
