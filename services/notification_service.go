package services

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"github.com/pitchside/matchday/config"
	"github.com/pitchside/matchday/models"
)

// Notifier is the engine's hook into notification delivery. Delivery itself
// is an external collaborator concern; the result service only triggers it.
type Notifier interface {
	MatchUpdated(ctx context.Context, tournament *models.Tournament, match *models.Match, teams []*models.Team)
}

type emailNotifier struct {
	cfg *config.Config
}

// NewEmailNotifier sends one update email per participating team's captain.
// With no SMTP host configured it degrades to logging only.
func NewEmailNotifier(cfg *config.Config) Notifier {
	return &emailNotifier{cfg: cfg}
}

func (n *emailNotifier) MatchUpdated(ctx context.Context, tournament *models.Tournament, match *models.Match, teams []*models.Team) {
	subject := fmt.Sprintf("[%s] %s updated", tournament.Name, match.RoundName)
	body := fmt.Sprintf("Match %d in %s has been updated (status: %s).",
		match.MatchNumber, match.RoundName, match.Status)

	for _, team := range teams {
		if team == nil || team.CaptainEmail == nil || *team.CaptainEmail == "" {
			continue
		}
		if n.cfg.SMTPHost == "" {
			log.Printf("notifier: smtp not configured, skipping mail to %s (%s)", *team.CaptainEmail, subject)
			continue
		}
		if err := n.send(*team.CaptainEmail, subject, body); err != nil {
			// Notification failures never fail the result report.
			log.Printf("notifier: sending to %s: %v", *team.CaptainEmail, err)
		}
	}
}

func (n *emailNotifier) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.SMTPHost, n.cfg.SMTPPort)
	msg := []byte("To: " + to + "\r\n" +
		"From: " + n.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	var auth smtp.Auth
	if n.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", n.cfg.SMTPUser, n.cfg.SMTPPass, n.cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, n.cfg.SMTPFrom, []string{to}, msg)
}
