package domain

import (
	"context"
	"time"
)

// SpeakerProposal is an application from a prospective speaker, reviewed by an admin.
// swagger:model SpeakerProposal
type SpeakerProposal struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	SocialLinks map[string]string `json:"socialLinks"`
	Bio         string            `json:"bio"`
	CreatedAt   time.Time         `json:"createdAt"`
	IsRead      bool              `json:"isRead"`
}

// Social platforms accepted on a proposal.
var ProposalPlatforms = []string{"linkedin", "instagram", "twitter", "facebook"}

// ProposalInput is the data accepted by ProposalService.AddSpeakerProposal.
type ProposalInput struct {
	Name        string
	Email       string
	SocialLinks map[string]string
	Bio         string
}

// ProposalService handles the public speaker application flow.
type ProposalService interface {
	AddSpeakerProposal(ctx context.Context, in *ProposalInput) (*SpeakerProposal, error)
	// MarkProposalAsRead returns ErrNotFound for an unknown id.
	MarkProposalAsRead(ctx context.Context, id string) error
	ListSpeakerProposals(ctx context.Context) ([]*SpeakerProposal, error)
}
