package handler

import (
	"time"

	"byggekrav/internal/claims/models"
)

// ClaimResponse is the wire shape of one claim row.
type ClaimResponse struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	ContractorID  string    `json:"contractor_id"`
	ClientID      string    `json:"client_id"`
	Reference     string    `json:"reference"`
	Title         string    `json:"title,omitempty"`
	Category      string    `json:"category"`
	RuleType      string    `json:"rule_type,omitempty"`
	Method        string    `json:"method"`
	ClaimedAmount float64   `json:"claimed_amount"`
	ClaimedDays   int       `json:"claimed_days"`
	DiscoveredAt  string    `json:"discovered_at"`
	Status        string    `json:"status"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NoticeResponse is the wire shape of one recorded notice.
type NoticeResponse struct {
	Type   string `json:"type"`
	SentAt string `json:"sent_at"`
	Note   string `json:"note,omitempty"`
}

// TrackResponse is the wire shape of one issued (or drafted) response.
type TrackResponse struct {
	Track         string    `json:"track"`
	Justification string    `json:"justification"`
	ApprovedTotal float64   `json:"approved_total"`
	ApprovedDays  int       `json:"approved_days"`
	IssuedAt      time.Time `json:"issued_at"`
}

// ClaimViewResponse is the full projection returned by GET /claims/{claimID}.
type ClaimViewResponse struct {
	Claim     ClaimResponse    `json:"claim"`
	Notices   []NoticeResponse `json:"notices"`
	Responses []TrackResponse  `json:"responses"`
}

// FromClaim maps a claim row to its wire shape.
func FromClaim(c *models.Claim) ClaimResponse {
	return ClaimResponse{
		ID:            c.ID.String(),
		ProjectID:     c.ProjectID.String(),
		ContractorID:  c.Contractor.String(),
		ClientID:      c.Client.String(),
		Reference:     c.Reference,
		Title:         c.Title,
		Category:      string(c.Category),
		RuleType:      string(c.RuleType),
		Method:        string(c.Method),
		ClaimedAmount: c.ClaimedAmount,
		ClaimedDays:   c.ClaimedDays,
		DiscoveredAt:  c.DiscoveredAt.Format(dateLayout),
		Status:        string(c.Status),
		Version:       c.Version,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// FromView maps the projection to its wire shape. Slices are always present
// in the JSON, empty rather than null.
func FromView(v *models.ClaimView) ClaimViewResponse {
	out := ClaimViewResponse{
		Claim:     FromClaim(&v.Claim),
		Notices:   make([]NoticeResponse, 0, len(v.Notices)),
		Responses: make([]TrackResponse, 0, len(v.Responses)),
	}
	for _, n := range v.Notices {
		out.Notices = append(out.Notices, NoticeResponse{
			Type:   string(n.Type),
			SentAt: n.SentAt.Format(dateLayout),
			Note:   n.Note,
		})
	}
	for _, r := range v.Responses {
		out.Responses = append(out.Responses, FromResponse(&r))
	}
	return out
}

// FromResponse maps one issued response to its wire shape.
func FromResponse(r *models.Response) TrackResponse {
	return TrackResponse{
		Track:         string(r.Track),
		Justification: r.Justification,
		ApprovedTotal: r.ApprovedTotal,
		ApprovedDays:  r.ApprovedDays,
		IssuedAt:      r.IssuedAt,
	}
}
