package businessflow

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/raf-advanced/maintenance-api/app/dto"
	"github.com/raf-advanced/maintenance-api/app/services"
	"github.com/raf-advanced/maintenance-api/config"
	"github.com/raf-advanced/maintenance-api/models"
	"github.com/raf-advanced/maintenance-api/repository"
)

// ContactMessageFlow defines operations for the public contact form
type ContactMessageFlow interface {
	CreateMessage(ctx context.Context, req *dto.CreateContactMessageRequest, metadata *ClientMetadata) (*dto.CreateContactMessageResponse, error)
	ListMessages(ctx context.Context, req *dto.ListContactMessagesRequest) (*dto.ListContactMessagesResponse, error)
}

// ContactMessageFlowImpl implements ContactMessageFlow
type ContactMessageFlowImpl struct {
	messageRepo repository.ContactMessageRepository
	emailSvc    services.EmailService
	maintCfg    config.MaintenanceConfig
}

func NewContactMessageFlow(messageRepo repository.ContactMessageRepository, emailSvc services.EmailService, maintCfg config.MaintenanceConfig) ContactMessageFlow {
	return &ContactMessageFlowImpl{messageRepo: messageRepo, emailSvc: emailSvc, maintCfg: maintCfg}
}

// CreateMessage stores a contact form submission
func (f *ContactMessageFlowImpl) CreateMessage(ctx context.Context, req *dto.CreateContactMessageRequest, metadata *ClientMetadata) (*dto.CreateContactMessageResponse, error) {
	if isBlank(req.Name) || isBlank(req.PhoneNumber) || isBlank(req.Content) {
		return nil, ErrAllFieldsRequired
	}

	row := models.ContactMessage{
		Name:        strings.TrimSpace(req.Name),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Email:       strings.TrimSpace(req.Email),
		Content:     req.Content,
	}

	saveCtx, cancel := context.WithTimeout(ctx, f.maintCfg.StoreTimeout)
	defer cancel()
	if err := f.messageRepo.Save(saveCtx, &row); err != nil {
		return nil, NewBusinessError(CodePersistenceFailed, "Failed to store contact message", err)
	}

	// Nudge the operations mailbox (best-effort; the message is already stored)
	if f.emailSvc != nil && f.maintCfg.RecipientEmail != "" {
		msg := buildContactMessageEmail(&row)
		msg.To = []string{f.maintCfg.RecipientEmail}
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = f.emailSvc.SendEmail(sendCtx, msg)
		}()
	}

	return &dto.CreateContactMessageResponse{
		Message:   "Message received successfully",
		UUID:      row.UUID.String(),
		CreatedAt: row.CreatedAt.Format(time.RFC3339),
	}, nil
}

func buildContactMessageEmail(m *models.ContactMessage) services.EmailMessage {
	text := fmt.Sprintf("الاسم: %s\nرقم الهاتف: %s\nالبريد الإلكتروني: %s\n\n%s\n",
		m.Name, m.PhoneNumber, m.Email, m.Content)
	return services.EmailMessage{
		Subject:  fmt.Sprintf("رسالة جديدة من الموقع - %s", m.Name),
		TextBody: text,
		HTMLBody: fmt.Sprintf(`<div style="direction: rtl; font-family: Arial, sans-serif;"><pre style="font-family: inherit; white-space: pre-wrap;">%s</pre></div>`, html.EscapeString(text)),
	}
}

// ListMessages returns a page of contact messages for the admin surface
func (f *ContactMessageFlowImpl) ListMessages(ctx context.Context, req *dto.ListContactMessagesRequest) (*dto.ListContactMessagesResponse, error) {
	filter := models.ContactMessageFilter{}
	if req.PhoneNumber != nil {
		trim := strings.TrimSpace(*req.PhoneNumber)
		if trim != "" {
			filter.PhoneNumber = &trim
		}
	}
	if req.StartDate != nil {
		filter.CreatedAfter = req.StartDate
	}
	if req.EndDate != nil {
		filter.CreatedBefore = req.EndDate
	}
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return nil, ErrStartDateAfterEndDate
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	offset := int((page - 1) * pageSize)

	queryCtx, cancel := context.WithTimeout(ctx, f.maintCfg.StoreTimeout)
	defer cancel()

	total, err := f.messageRepo.Count(queryCtx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_MESSAGES_FAILED", "Failed to count contact messages", err)
	}

	rows, err := f.messageRepo.ByFilter(queryCtx, filter, "id DESC", int(pageSize), offset)
	if err != nil {
		return nil, NewBusinessError("LIST_MESSAGES_FAILED", "Failed to list contact messages", err)
	}

	items := make([]dto.ContactMessageItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, ToContactMessageItem(*r))
	}

	return &dto.ListContactMessagesResponse{
		Message: "Contact messages retrieved successfully",
		Total:   total,
		Items:   items,
	}, nil
}
