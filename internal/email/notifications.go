package email

import (
	"linkhub/internal/config"
	"linkhub/internal/models"
)

// Notifier sends email notifications for logged support requests.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
	}
}

// NotifyContactRequest tells the support inbox about a new contact request.
func (n *Notifier) NotifyContactRequest(req *models.ContactRequest, from *models.PublicUser) {
	if !n.service.IsEnabled() {
		return
	}

	subject, htmlBody, textBody := n.templates.ContactRequestReceived(req, from)
	n.service.SendAsync([]string{n.cfg.SupportEmail}, subject, htmlBody, textBody)
}

// NotifyRemovalRequest tells the support inbox about a new data removal request.
func (n *Notifier) NotifyRemovalRequest(req *models.RemovalRequest, from *models.PublicUser) {
	if !n.service.IsEnabled() {
		return
	}

	subject, htmlBody, textBody := n.templates.RemovalRequestReceived(req, from)
	n.service.SendAsync([]string{n.cfg.SupportEmail}, subject, htmlBody, textBody)
}
