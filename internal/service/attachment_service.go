package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/deskhub/helpdesk/internal/domain"
	"github.com/deskhub/helpdesk/internal/policy"
	"github.com/deskhub/helpdesk/internal/repository"
	"github.com/deskhub/helpdesk/internal/storage"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

// MaxAttachmentBytes caps uploaded payload size.
const MaxAttachmentBytes = 10 << 20

// AttachmentService manages ticket file uploads. Rows reference opaque
// store paths; only the uploader may delete.
type AttachmentService struct {
	attachments repository.AttachmentRepository
	tickets     *TicketService
	files       storage.FileStore
	logger      *zap.Logger
}

// NewAttachmentService creates the service.
func NewAttachmentService(
	attachments repository.AttachmentRepository,
	tickets *TicketService,
	files storage.FileStore,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachments: attachments,
		tickets:     tickets,
		files:       files,
		logger:      logger,
	}
}

// Upload stores the payload and records it against the ticket.
func (s *AttachmentService) Upload(ctx context.Context, p policy.Principal, ticketID, fileName, contentType string, data []byte) (*domain.Attachment, error) {
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("file is empty", nil)
	}
	if len(data) > MaxAttachmentBytes {
		return nil, apperrors.NewValidationError("file too large", map[string]any{"max_bytes": MaxAttachmentBytes})
	}

	ticket, resource, err := s.tickets.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if d := policy.Evaluate(p, policy.ActionAttachTicket, resource); !d.Allowed {
		return nil, policyError(d, "ticket")
	}

	path, err := s.files.Save(fileName, data)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}

	attachment := &domain.Attachment{
		TicketID:    ticket.ID,
		UploadedBy:  p.UserID,
		FileName:    fileName,
		FilePath:    path,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		if removeErr := s.files.Remove(path); removeErr != nil {
			s.logger.Warn("orphan attachment file", zap.String("path", path), zap.Error(removeErr))
		}
		return nil, apperrors.MapError(err)
	}
	return attachment, nil
}

// List returns a ticket's attachments.
func (s *AttachmentService) List(ctx context.Context, p policy.Principal, ticketID string) ([]domain.Attachment, error) {
	_, resource, err := s.tickets.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if d := policy.Evaluate(p, policy.ActionViewTicket, resource); !d.Allowed {
		return nil, policyError(d, "ticket")
	}

	attachments, err := s.attachments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachments, nil
}

// Download returns the attachment record and its payload.
func (s *AttachmentService) Download(ctx context.Context, p policy.Principal, id string) (*domain.Attachment, []byte, error) {
	attachment, err := s.load(ctx, p, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.files.Open(attachment.FilePath)
	if err != nil {
		return nil, nil, apperrors.NewStorageUnavailable(err)
	}
	return attachment, data, nil
}

// Delete removes an attachment. Uploader only.
func (s *AttachmentService) Delete(ctx context.Context, p policy.Principal, id string) error {
	attachment, err := s.load(ctx, p, id)
	if err != nil {
		return err
	}
	if attachment.UploadedBy != p.UserID {
		return apperrors.NewForbidden("only the uploader may delete an attachment")
	}

	if err := s.attachments.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.files.Remove(attachment.FilePath); err != nil {
		s.logger.Warn("attachment file removal failed", zap.String("path", attachment.FilePath), zap.Error(err))
	}
	return nil
}

func (s *AttachmentService) load(ctx context.Context, p policy.Principal, id string) (*domain.Attachment, error) {
	attachment, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("attachment", nil)
		}
		return nil, apperrors.MapError(err)
	}

	_, resource, err := s.tickets.loadTicket(ctx, attachment.TicketID)
	if err != nil {
		return nil, err
	}
	if d := policy.Evaluate(p, policy.ActionViewTicket, resource); !d.Allowed {
		return nil, policyError(d, "attachment")
	}
	return attachment, nil
}
