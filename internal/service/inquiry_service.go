package service

import (
	"context"
	"time"

	"jerseylab-api/internal/model"
	"jerseylab-api/internal/notify"
	"jerseylab-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// inquiryService implements InquiryService.
type inquiryService struct {
	inquiryRepo repository.InquiryRepository
	dispatcher  notify.Dispatcher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewInquiryService creates a new teamwear inquiry service.
func NewInquiryService(inquiryRepo repository.InquiryRepository, dispatcher notify.Dispatcher, logger zerolog.Logger) InquiryService {
	return &inquiryService{
		inquiryRepo: inquiryRepo,
		dispatcher:  dispatcher,
		logger:      logger.With().Str("service", "inquiry").Logger(),
		now:         time.Now,
	}
}

// Create validates and persists a new inquiry, then notifies admins.
func (s *inquiryService) Create(ctx context.Context, inquiry *model.TeamwearInquiry) (*model.TeamwearInquiry, error) {
	if inquiry.FirstName == "" || inquiry.LastName == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "First and last name are required")
	}
	if inquiry.Email == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Email is required")
	}
	if inquiry.Description == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Description is required")
	}
	if len(inquiry.DesignFiles) > model.MaxDesignFiles {
		return nil, model.NewDomainError(model.ErrCodeValidation, "At most 5 design files are allowed")
	}

	inquiry.ID = uuid.New()
	inquiry.Status = model.InquiryPending
	now := s.now()
	inquiry.CreatedAt = now
	inquiry.UpdatedAt = now

	if err := s.inquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("inquiry_id", inquiry.ID.String()).
		Str("email", inquiry.Email).
		Msg("teamwear inquiry created")

	s.dispatcher.InquiryReceived(inquiry)

	return inquiry, nil
}

// List returns all inquiries, newest first.
func (s *inquiryService) List(ctx context.Context) ([]model.TeamwearInquiry, error) {
	return s.inquiryRepo.List(ctx)
}

// Update applies an admin edit to an inquiry.
func (s *inquiryService) Update(ctx context.Context, id uuid.UUID, upd model.InquiryUpdate) (*model.TeamwearInquiry, error) {
	if !model.ValidInquiryStatus(upd.Status) {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Invalid inquiry status")
	}

	inquiry, err := s.inquiryRepo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if inquiry == nil {
		return nil, model.ErrInquiryNotFound
	}

	s.logger.Info().
		Str("inquiry_id", id.String()).
		Str("status", string(upd.Status)).
		Msg("inquiry updated")
	return inquiry, nil
}
