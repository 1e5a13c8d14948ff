package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"slices"
	"strings"
	"time"

	"eventnexus/internal/domain"
	"eventnexus/internal/store"

	"github.com/google/uuid"
)

// MinProposalBioLength is the shortest accepted speaker bio.
const MinProposalBioLength = 50

type proposalService struct {
	proposals      *store.Collection[domain.SpeakerProposal]
	notifications  domain.NotificationService
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewProposalService creates the ProposalService backed by the "speakerProposals" key.
func NewProposalService(adapter *store.Adapter, notifications domain.NotificationService, emailService domain.EmailService, logger *slog.Logger, timeout time.Duration) domain.ProposalService {
	if logger == nil {
		logger = slog.Default()
	}
	return &proposalService{
		proposals:      store.NewCollection[domain.SpeakerProposal](adapter, domain.KeySpeakerProposals),
		notifications:  notifications,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// ValidateProposal checks a proposal the way the public application form does.
func ValidateProposal(in *domain.ProposalInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		fields["email"] = "a valid email is required"
	}
	if len(strings.TrimSpace(in.Bio)) < MinProposalBioLength {
		fields["bio"] = fmt.Sprintf("bio must be at least %d characters", MinProposalBioLength)
	}
	for platform, link := range in.SocialLinks {
		if link == "" {
			continue
		}
		if !slices.Contains(domain.ProposalPlatforms, platform) {
			fields["socialLinks."+platform] = "unsupported platform"
			continue
		}
		if u, err := url.Parse(link); err != nil || u.Scheme == "" || u.Host == "" {
			fields["socialLinks."+platform] = "must be a full URL"
		}
	}
	return domain.NewValidationError(fields)
}

func (s *proposalService) AddSpeakerProposal(ctx context.Context, in *domain.ProposalInput) (*domain.SpeakerProposal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := ValidateProposal(in); err != nil {
		return nil, err
	}
	links := map[string]string{}
	for k, v := range in.SocialLinks {
		if v != "" {
			links[k] = v
		}
	}
	p := domain.SpeakerProposal{
		ID:          "proposal-" + uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		SocialLinks: links,
		Bio:         strings.TrimSpace(in.Bio),
		CreatedAt:   s.now().UTC(),
	}
	_, err := s.proposals.Update(ctx, func(items []domain.SpeakerProposal) ([]domain.SpeakerProposal, error) {
		return append(items, p), nil
	})
	if err != nil {
		return nil, fmt.Errorf("add speaker proposal: %w", err)
	}

	if _, err := s.notifications.Add(ctx, &domain.NotificationInput{
		Title:   "New Speaker Proposal",
		Message: fmt.Sprintf("%s has submitted a speaker proposal", p.Name),
		Type:    domain.NotificationProposal,
		Link:    "/admin?tab=speakers",
	}); err != nil {
		s.logger.WarnContext(ctx, "notify speaker proposal", "proposal_id", p.ID, "error", err)
	}
	if s.emailService != nil {
		if err := s.emailService.SendProposalReceived(ctx, &domain.ProposalReceivedEmailData{Email: p.Email, Name: p.Name}); err != nil {
			s.logger.WarnContext(ctx, "send proposal confirmation", "proposal_id", p.ID, "error", err)
		}
	}
	return &p, nil
}

func (s *proposalService) MarkProposalAsRead(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, err := s.proposals.Update(ctx, func(items []domain.SpeakerProposal) ([]domain.SpeakerProposal, error) {
		i := slices.IndexFunc(items, func(p domain.SpeakerProposal) bool { return p.ID == id })
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		items[i].IsRead = true
		return items, nil
	})
	return err
}

func (s *proposalService) ListSpeakerProposals(ctx context.Context) ([]*domain.SpeakerProposal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	items, err := s.proposals.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("list speaker proposals: %w", err)
	}
	out := make([]*domain.SpeakerProposal, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out, nil
}
