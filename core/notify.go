package core

import "context"

// Default push notification contents, used when a push carries no usable payload.
const (
	DefaultNotificationTitle = "AD Rodovia"
	DefaultNotificationBody  = "Você tem uma nova notificação."

	// NotificationClickURL is where a clicked notification leads.
	NotificationClickURL = "/secretaria"
)

type (
	Notification struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		URL   string `json:"url,omitempty"`
	}

	// NotificationService is any service that can display notifications to the staff.
	NotificationService interface {
		Notify(ctx context.Context, n Notification) error
	}
)
