package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/visittracker/internal/common"
	"github.com/dmitrijs2005/visittracker/internal/logging"
)

const (
	smsBrand     = "PROFIRE-ЮГ"
	smsMaxRunes  = 160
	taskMaxRunes = 100
	StatusQueued = "queued"
)

// Notification is one SMS accepted for delivery.
type Notification struct {
	Phone   string `json:"phone"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NotifyService tells technicians about new tasks. Delivery itself is not
// wired to an SMS gateway yet: messages are logged and reported as queued.
type NotifyService struct {
	log logging.Logger
}

func NewNotifyService(log logging.Logger) *NotifyService {
	return &NotifyService{log: log.With("module", "notify")}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// TaskMessage builds the SMS text for a new task on an object.
func TaskMessage(objectName, taskDescription string) string {
	text := fmt.Sprintf("%s: Новая задача на объекте '%s'. %s", smsBrand, objectName, truncateRunes(taskDescription, taskMaxRunes))
	return truncateRunes(text, smsMaxRunes)
}

// Notify queues one message per non-blank phone number.
func (s *NotifyService) Notify(ctx context.Context, phones []string, objectName, taskDescription string) ([]Notification, error) {
	if len(phones) == 0 {
		return nil, fmt.Errorf("%w: no phone numbers provided", common.ErrInvalidPayload)
	}

	text := TaskMessage(objectName, taskDescription)
	out := make([]Notification, 0, len(phones))
	for _, phone := range phones {
		if strings.TrimSpace(phone) == "" {
			continue
		}
		out = append(out, Notification{Phone: phone, Status: StatusQueued, Message: text})
		s.log.Info(ctx, "sms queued", "phone", phone, "object", objectName)
	}
	return out, nil
}
