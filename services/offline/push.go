package offline

import (
	"encoding/json"
	"strings"

	"github.com/adrodovia/portal/core"
)

// DecodePush reads a push payload. Missing, blank or malformed payloads fall back to the default contents.
// Clicking the notification always leads to the secretariat page.
func DecodePush(payload []byte) core.Notification {
	n := core.Notification{
		Title: core.DefaultNotificationTitle,
		Body:  core.DefaultNotificationBody,
		URL:   core.NotificationClickURL,
	}
	var data struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if len(payload) == 0 || json.Unmarshal(payload, &data) != nil {
		return n
	}
	if t := strings.TrimSpace(data.Title); t != "" {
		n.Title = t
	}
	if b := strings.TrimSpace(data.Body); b != "" {
		n.Body = b
	}
	return n
}
