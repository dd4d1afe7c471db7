package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskhub/helpdesk/internal/api/dto"
	"github.com/deskhub/helpdesk/internal/service"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

// AttachmentsHandler serves ticket file uploads.
type AttachmentsHandler struct {
	attachments *service.AttachmentService
}

// NewAttachmentsHandler constructs handler.
func NewAttachmentsHandler(attachments *service.AttachmentService) *AttachmentsHandler {
	return &AttachmentsHandler{attachments: attachments}
}

// Upload POST /tickets/:id/attachments. Multipart form with a "file"
// field.
func (h *AttachmentsHandler) Upload(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file field required", nil)
	}
	if fileHeader.Size > service.MaxAttachmentBytes {
		return apperrors.NewValidationError("file too large", map[string]any{"max_bytes": service.MaxAttachmentBytes})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable file", nil)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxAttachmentBytes+1))
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	attachment, err := h.attachments.Upload(c.Context(), principal, c.Params("id"),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": dto.AttachmentFromDomain(attachment)})
}

// List GET /tickets/:id/attachments.
func (h *AttachmentsHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	attachments, err := h.attachments.List(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		items = append(items, dto.AttachmentFromDomain(&attachments[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// Download GET /tickets/:id/attachments/:attachmentID/download.
func (h *AttachmentsHandler) Download(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	attachment, data, err := h.attachments.Download(c.Context(), principal, c.Params("attachmentID"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+attachment.FileName+`"`)
	if attachment.ContentType != "" {
		c.Set(fiber.HeaderContentType, attachment.ContentType)
	}
	return c.Send(data)
}

// Delete DELETE /tickets/:id/attachments/:attachmentID.
func (h *AttachmentsHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.attachments.Delete(c.Context(), principal, c.Params("attachmentID")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
