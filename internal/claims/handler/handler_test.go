package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"byggekrav/internal/claims/models"
	"byggekrav/internal/claims/service"
	"byggekrav/internal/preclusion"
	id "byggekrav/pkg/domain"
	dErrors "byggekrav/pkg/domain-errors"
)

type fakeService struct {
	submit       func(ctx context.Context, in service.SubmitInput) (*models.Claim, error)
	get          func(ctx context.Context, claimID id.ClaimID) (*models.ClaimView, error)
	recordNotice func(ctx context.Context, claimID id.ClaimID, in service.NoticeInput) (*models.Notice, error)
	alerts       func(ctx context.Context, claimID id.ClaimID) (*service.ClaimAlerts, error)
	respond      func(ctx context.Context, claimID id.ClaimID, in service.RespondInput) (*models.Response, error)
	composeDraft func(ctx context.Context, claimID id.ClaimID, in service.RespondInput) (*models.Response, error)
	evaluate     func(ctx context.Context, in service.EvaluateInput) (*service.EvaluateResult, error)
}

func (f *fakeService) Submit(ctx context.Context, in service.SubmitInput) (*models.Claim, error) {
	return f.submit(ctx, in)
}

func (f *fakeService) Get(ctx context.Context, claimID id.ClaimID) (*models.ClaimView, error) {
	return f.get(ctx, claimID)
}

func (f *fakeService) RecordNotice(ctx context.Context, claimID id.ClaimID, in service.NoticeInput) (*models.Notice, error) {
	return f.recordNotice(ctx, claimID, in)
}

func (f *fakeService) Alerts(ctx context.Context, claimID id.ClaimID) (*service.ClaimAlerts, error) {
	return f.alerts(ctx, claimID)
}

func (f *fakeService) Respond(ctx context.Context, claimID id.ClaimID, in service.RespondInput) (*models.Response, error) {
	return f.respond(ctx, claimID, in)
}

func (f *fakeService) ComposeDraft(ctx context.Context, claimID id.ClaimID, in service.RespondInput) (*models.Response, error) {
	return f.composeDraft(ctx, claimID, in)
}

func (f *fakeService) EvaluatePreclusion(ctx context.Context, in service.EvaluateInput) (*service.EvaluateResult, error) {
	return f.evaluate(ctx, in)
}

func newRouter(svc Service) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Error
}

const submitBody = `{
	"project_id": "7f9c24e5-2e13-44d8-9c0f-6c600462ba13",
	"contractor_id": "0c36e307-6aba-4f9e-a446-72c149f5e366",
	"client_id": "3e6e2bd4-8a5e-4b0e-9c0a-1af2f8c9e771",
	"reference": "KOE-12",
	"title": "Endret fundamentering",
	"category": "SVIKT",
	"method": "REGNINGSARBEID",
	"claimed_amount": 250000,
	"claimed_days": 10,
	"discovered_at": "2026-02-09"
}`

func TestHandleSubmit(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		var got service.SubmitInput
		svc := &fakeService{
			submit: func(_ context.Context, in service.SubmitInput) (*models.Claim, error) {
				got = in
				return &models.Claim{
					ID:           id.NewClaimID(),
					ProjectID:    in.ProjectID,
					Contractor:   in.Contractor,
					Client:       in.Client,
					Reference:    in.Reference,
					Category:     in.Category,
					Method:       in.Method,
					DiscoveredAt: in.DiscoveredAt,
					Status:       models.StatusOpen,
					Version:      1,
				}, nil
			},
		}
		w := doJSON(t, newRouter(svc), http.MethodPost, "/claims", submitBody)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "KOE-12", got.Reference)
		assert.Equal(t, preclusion.CategorySvikt, got.Category)
		assert.Equal(t, time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), got.DiscoveredAt)

		var resp ClaimResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "open", resp.Status)
		assert.Equal(t, "2026-02-09", resp.DiscoveredAt)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := doJSON(t, newRouter(&fakeService{}), http.MethodPost, "/claims", "{")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", errorCode(t, w))
	})

	t.Run("invalid category", func(t *testing.T) {
		body := strings.Replace(submitBody, `"SVIKT"`, `"UKJENT"`, 1)
		w := doJSON(t, newRouter(&fakeService{}), http.MethodPost, "/claims", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_input", errorCode(t, w))
	})

	t.Run("service conflict maps to 409", func(t *testing.T) {
		svc := &fakeService{
			submit: func(context.Context, service.SubmitInput) (*models.Claim, error) {
				return nil, dErrors.New(dErrors.CodeConflict, "claim reference already in use within the project")
			},
		}
		w := doJSON(t, newRouter(svc), http.MethodPost, "/claims", submitBody)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "conflict", errorCode(t, w))
	})
}

func TestHandleGet(t *testing.T) {
	claimID := id.NewClaimID()

	t.Run("ok", func(t *testing.T) {
		svc := &fakeService{
			get: func(_ context.Context, got id.ClaimID) (*models.ClaimView, error) {
				assert.Equal(t, claimID, got)
				return &models.ClaimView{
					Claim: models.Claim{ID: claimID, Status: models.StatusOpen, Version: 1},
				}, nil
			},
		}
		w := doJSON(t, newRouter(svc), http.MethodGet, "/claims/"+claimID.String(), "")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp ClaimViewResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, claimID.String(), resp.Claim.ID)
		assert.NotNil(t, resp.Notices)
		assert.NotNil(t, resp.Responses)
	})

	t.Run("invalid uuid", func(t *testing.T) {
		w := doJSON(t, newRouter(&fakeService{}), http.MethodGet, "/claims/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeService{
			get: func(context.Context, id.ClaimID) (*models.ClaimView, error) {
				return nil, dErrors.New(dErrors.CodeNotFound, "claim not found")
			},
		}
		w := doJSON(t, newRouter(svc), http.MethodGet, "/claims/"+claimID.String(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleRecordNotice(t *testing.T) {
	claimID := id.NewClaimID()

	t.Run("created", func(t *testing.T) {
		svc := &fakeService{
			recordNotice: func(_ context.Context, _ id.ClaimID, in service.NoticeInput) (*models.Notice, error) {
				return &models.Notice{Type: in.Type, SentAt: in.SentAt, Note: in.Note}, nil
			},
		}
		body := `{"type": "noytralt_varsel", "sent_at": "2026-02-11", "note": "Varsel sendt per brev"}`
		w := doJSON(t, newRouter(svc), http.MethodPost, "/claims/"+claimID.String()+"/notices", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp NoticeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "noytralt_varsel", resp.Type)
		assert.Equal(t, "2026-02-11", resp.SentAt)
	})

	t.Run("invalid type", func(t *testing.T) {
		body := `{"type": "brev", "sent_at": "2026-02-11"}`
		w := doJSON(t, newRouter(&fakeService{}), http.MethodPost, "/claims/"+claimID.String()+"/notices", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid date", func(t *testing.T) {
		body := `{"type": "noytralt_varsel", "sent_at": "11.02.2026"}`
		w := doJSON(t, newRouter(&fakeService{}), http.MethodPost, "/claims/"+claimID.String()+"/notices", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleAlerts(t *testing.T) {
	claimID := id.NewClaimID()
	svc := &fakeService{
		alerts: func(context.Context, id.ClaimID) (*service.ClaimAlerts, error) {
			return &service.ClaimAlerts{
				ClaimID: claimID,
				Notice:  preclusion.Result{Status: preclusion.StatusWarning, DaysElapsed: 5},
				Alerts:  []preclusion.Alert{{Severity: preclusion.SeverityWarning, Title: "Varsle nå"}},
			}, nil
		},
	}
	w := doJSON(t, newRouter(svc), http.MethodGet, "/claims/"+claimID.String()+"/alerts", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Notice preclusion.Result `json:"notice"`
		Alerts []preclusion.Alert `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, preclusion.StatusWarning, resp.Notice.Status)
	require.Len(t, resp.Alerts, 1)
}

const respondBody = `{
	"compensation": {
		"method": "REGNINGSARBEID",
		"accepts_method": true,
		"main_claim": {"claimed": 250000, "verdict": "delvis", "approved": 150000, "notified_in_time": true}
	}
}`

func TestHandleRespond(t *testing.T) {
	claimID := id.NewClaimID()

	t.Run("created", func(t *testing.T) {
		svc := &fakeService{
			respond: func(_ context.Context, _ id.ClaimID, in service.RespondInput) (*models.Response, error) {
				require.Equal(t, models.TrackVederlag, in.Track)
				require.NotNil(t, in.Compensation)
				return &models.Response{
					Track:         in.Track,
					Justification: "Byggherren aksepterer at vederlaget beregnes etter regningsarbeid.",
					ApprovedTotal: 150000,
				}, nil
			},
		}
		w := doJSON(t, newRouter(svc), http.MethodPost, "/claims/"+claimID.String()+"/responses/vederlag", respondBody)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp TrackResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "vederlag", resp.Track)
		assert.InDelta(t, 150000, resp.ApprovedTotal, 0.001)
	})

	t.Run("invalid track", func(t *testing.T) {
		w := doJSON(t, newRouter(&fakeService{}), http.MethodPost, "/claims/"+claimID.String()+"/responses/oppgjor", respondBody)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("two decision records", func(t *testing.T) {
		body := `{"compensation": {"method": "REGNINGSARBEID", "accepts_method": true}, "deadline": {"conditions_met": true}}`
		w := doJSON(t, newRouter(&fakeService{}), http.MethodPost, "/claims/"+claimID.String()+"/responses/vederlag", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid verdict", func(t *testing.T) {
		body := strings.Replace(respondBody, `"delvis"`, `"kanskje"`, 1)
		w := doJSON(t, newRouter(&fakeService{}), http.MethodPost, "/claims/"+claimID.String()+"/responses/vederlag", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleDraft(t *testing.T) {
	claimID := id.NewClaimID()
	svc := &fakeService{
		composeDraft: func(_ context.Context, _ id.ClaimID, in service.RespondInput) (*models.Response, error) {
			return &models.Response{Track: in.Track, Justification: "utkast"}, nil
		},
	}
	w := doJSON(t, newRouter(svc), http.MethodPost, "/claims/"+claimID.String()+"/drafts/vederlag", respondBody)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleEvaluate(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := &fakeService{
			evaluate: func(_ context.Context, in service.EvaluateInput) (*service.EvaluateResult, error) {
				assert.Equal(t, preclusion.CategorySvikt, in.Category)
				require.NotNil(t, in.NotifiedAt)
				return &service.EvaluateResult{
					Notice: preclusion.Result{Status: preclusion.StatusOK, DaysElapsed: 2},
				}, nil
			},
		}
		body := `{"category": "SVIKT", "discovered_at": "2026-02-09", "notified_at": "2026-02-11"}`
		w := doJSON(t, newRouter(svc), http.MethodPost, "/evaluate/preclusion", body)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp service.EvaluateResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, preclusion.StatusOK, resp.Notice.Status)
	})

	t.Run("missing discovery date", func(t *testing.T) {
		body := `{"category": "SVIKT"}`
		w := doJSON(t, newRouter(&fakeService{}), http.MethodPost, "/evaluate/preclusion", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
