package associates

import (
	"time"

	"github.com/memberhub/memberhub/internal/domain/models"
)

// memberView is the response shape for associate-member profiles. The secret
// hash and internal credential linkage never leave the server.
type memberView struct {
	ID             string     `json:"id"`
	OrgName        string     `json:"org_name"`
	LoginID        string     `json:"login_id"`
	OrgEmail       string     `json:"org_email"`
	ApprovalStatus string     `json:"approval_status"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func sanitized(m models.AssociateMember) memberView {
	return memberView{
		ID:             m.ID.Hex(),
		OrgName:        m.OrgName,
		LoginID:        m.LoginID,
		OrgEmail:       m.OrgEmail,
		ApprovalStatus: m.ApprovalStatus,
		ApprovedAt:     m.ApprovedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
