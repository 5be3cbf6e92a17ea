package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/infinity-hospitality/event-system/utils"
)

type InquiryInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type InquiryService interface {
	Submit(ctx context.Context, input InquiryInput) error
}

type inquiryService struct {
	notifier NotificationDispatcher
}

func NewInquiryService(notifier NotificationDispatcher) InquiryService {
	return &inquiryService{notifier: notifier}
}

// Submit accepts a custom inquiry. Nothing is stored; the inquiry only goes out by mail.
func (s *inquiryService) Submit(ctx context.Context, input InquiryInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Message = strings.TrimSpace(input.Message)

	switch {
	case input.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidationFailed)
	case !utils.IsValidEmail(input.Email):
		return fmt.Errorf("%w: invalid email address", ErrValidationFailed)
	case input.Subject == "" || input.Message == "":
		return fmt.Errorf("%w: subject and message are required", ErrValidationFailed)
	// попадают в заголовки письма
	case strings.ContainsAny(input.Name+input.Subject+input.Phone, "\r\n"):
		return fmt.Errorf("%w: name, phone and subject must be a single line", ErrValidationFailed)
	}

	s.notifier.Publish(InquiryReceived{Inquiry: input})
	return nil
}
