package services

import (
	"log"
	"regexp"
	"time"

	"mercado/internal/models"
	"mercado/internal/repositories"
)

// MailSender delivers email notifications. Delivery is fire-and-forget; the
// error is only useful for logging.
type MailSender interface {
	SendEmail(to, subject, body string) error
}

// SmsSender delivers SMS notifications. Delivery is fire-and-forget.
type SmsSender interface {
	SendSms(number, body string) error
}

// notifyThrottle is the minimum elapsed time before a given user may be
// re-notified, regardless of which product or category triggers the alert.
const notifyThrottle = 3 * time.Hour

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsUUIDShaped reports whether a term looks like a UUID identifier rather
// than a slug.
func IsUUIDShaped(term string) bool {
	return uuidPattern.MatchString(term)
}

// dispatchAlerts emails (and, when a phone is set, texts) each recipient
// whose last-notified timestamp is older than the throttle window, stamping
// the timestamp after a successful email. Failures are logged and skipped;
// the fan-out is best-effort and never fails its caller.
func dispatchAlerts(recipients []models.User, subject, message string, mail MailSender, sms SmsSender, userRepo repositories.UserRepository) {
	now := time.Now()
	for _, user := range recipients {
		if now.Sub(user.LastNotified) < notifyThrottle {
			continue
		}
		if err := mail.SendEmail(user.Email, subject, message); err != nil {
			log.Printf("Warning: failed to email %s: %v", user.Email, err)
			continue
		}
		if user.Phone != "" {
			if err := sms.SendSms(user.Phone, message); err != nil {
				log.Printf("Warning: failed to send SMS to %s: %v", user.Phone, err)
			}
		}
		if err := userRepo.UpdateLastNotified(user.ID, now); err != nil {
			log.Printf("Warning: failed to stamp last-notified for user %s: %v", user.ID, err)
		}
	}
}
