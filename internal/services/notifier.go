package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nyahub/nya-api/config"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/pkg/logger"
	"github.com/nyahub/nya-api/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MailSender is the outbound mail dependency of the notifier.
type MailSender interface {
	Enabled() bool
	Send(to, subject, htmlBody string) error
}

// EmailNotifier sends the platform's transactional emails. Every method is
// best-effort: failures are logged and counted, never returned, so a broken
// SMTP relay cannot fail a request.
type EmailNotifier struct {
	mailer          MailSender
	users           repository.UserDataSource
	mentorTemplates *MentorEmailTemplateService
	globalTemplates *GlobalEmailTemplateService
	config          *config.Config
}

// NewEmailNotifier creates a new email notifier.
func NewEmailNotifier(
	mailer MailSender,
	users repository.UserDataSource,
	mentorTemplates *MentorEmailTemplateService,
	globalTemplates *GlobalEmailTemplateService,
	cfg *config.Config,
) *EmailNotifier {
	return &EmailNotifier{
		mailer:          mailer,
		users:           users,
		mentorTemplates: mentorTemplates,
		globalTemplates: globalTemplates,
		config:          cfg,
	}
}

func (n *EmailNotifier) baseURL() string {
	if n.config.Server.FrontendOrigin != "" {
		return n.config.Server.FrontendOrigin
	}
	return "http://localhost:8000"
}

// RequestCreated notifies the recipient of a new team request.
func (n *EmailNotifier) RequestCreated(ctx context.Context, from, to *models.User, message string) {
	if to.Email == "" {
		return
	}
	base := n.baseURL()
	body, err := n.globalTemplates.RenderWithContext(ctx, "request_created", map[string]string{
		"recipient_name": displayName(to.Name, "there"),
		"sender_name":    displayName(from.Name, "A NYA member"),
		"message":        message,
		"cta_url":        base + "/requests",
		"profile_url":    base + "/profile?user_id=" + from.ID.Hex(),
	})
	if err != nil {
		n.fail("request_created", err)
		return
	}
	subject := fmt.Sprintf("%s sent you a team request", displayName(from.Name, "A NYA member"))
	n.send("request_created", to.Email, subject, body)
}

// RequestAccepted notifies the sender that their team request was accepted.
func (n *EmailNotifier) RequestAccepted(ctx context.Context, req *models.Request) {
	sender, accepter := n.resolvePair(ctx, req.FromUserID, req.ToUserID)
	if sender == nil || sender.Email == "" {
		return
	}
	accepterName := ""
	if accepter != nil {
		accepterName = accepter.Name
	}
	body, err := n.globalTemplates.RenderWithContext(ctx, "request_accepted", map[string]string{
		"recipient_name": displayName(sender.Name, "there"),
		"accepter_name":  displayName(accepterName, "A NYA member"),
		"cta_url":        n.baseURL() + "/requests",
	})
	if err != nil {
		n.fail("request_accepted", err)
		return
	}
	subject := fmt.Sprintf("%s accepted your request", displayName(accepterName, "A NYA member"))
	n.send("request_accepted", sender.Email, subject, body)
}

// MentorRequestCreated notifies a mentor of a new mentorship request using
// the mentor's own template override when one exists.
func (n *EmailNotifier) MentorRequestCreated(ctx context.Context, from, to *models.User, message string) {
	if to.Email == "" {
		return
	}
	body, err := n.mentorTemplates.RenderWithContext(ctx, to.ID, "mentor_request_created", map[string]string{
		"recipient_name": displayName(to.Name, "Mentor"),
		"sender_name":    displayName(from.Name, "A NYA student"),
		"message":        message,
		"cta_url":        n.baseURL() + "/mentor/dashboard",
	})
	if err != nil {
		n.fail("mentor_request_created", err)
		return
	}
	subject := fmt.Sprintf("%s requested mentorship", displayName(from.Name, "A student"))
	n.send("mentor_request_created", to.Email, subject, body)
}

// MentorRequestAccepted notifies the student that a mentor accepted.
func (n *EmailNotifier) MentorRequestAccepted(ctx context.Context, req *models.Request) {
	student, mentor := n.resolvePair(ctx, req.FromUserID, req.ToUserID)
	if student == nil || student.Email == "" {
		return
	}
	mentorName := ""
	if mentor != nil {
		mentorName = mentor.Name
	}
	body, err := n.mentorTemplates.RenderWithContext(ctx, req.ToUserID, "mentor_request_accepted", map[string]string{
		"recipient_name": displayName(student.Name, "there"),
		"mentor_name":    displayName(mentorName, "A NYA mentor"),
		"cta_url":        n.baseURL() + "/requests",
	})
	if err != nil {
		n.fail("mentor_request_accepted", err)
		return
	}
	subject := fmt.Sprintf("%s accepted your mentorship request", displayName(mentorName, "A mentor"))
	n.send("mentor_request_accepted", student.Email, subject, body)
}

// MentorApplicationCreated tells every admin about a new mentor application.
func (n *EmailNotifier) MentorApplicationCreated(ctx context.Context, applicant *models.User, profile *models.MentorProfile) {
	if applicant == nil || applicant.Email == "" {
		return
	}
	recipients := n.adminRecipients(ctx)
	if len(recipients) == 0 {
		return
	}
	meta, _ := findTemplate(adminTemplates, "mentor_application_created")
	template, err := readDefaultTemplate(meta.File)
	if err != nil {
		n.fail("mentor_application_created", err)
		return
	}
	subject := fmt.Sprintf("New mentor application from %s", displayName(applicant.Name, "a student"))
	for _, recipient := range recipients {
		body := renderTemplate(template, map[string]string{
			"recipient_name":   displayName(recipient.Name, "Admin"),
			"applicant_name":   displayName(applicant.Name, "A student"),
			"applicant_email":  applicant.Email,
			"domain":           profile.Domain,
			"experience_years": strconv.Itoa(profile.ExperienceYears),
			"expertise":        strings.Join(profile.Expertise, ", "),
			"availability":     profile.Availability,
			"bio":              profile.Bio,
			"links":            strings.Join(profile.Links, ", "),
			"cta_url":          n.baseURL() + "/admin/mentors",
		})
		n.send("mentor_application_created", recipient.Email, subject, body)
	}
}

// MentorApplicationApproved congratulates an approved mentor.
func (n *EmailNotifier) MentorApplicationApproved(ctx context.Context, user *models.User) {
	if user == nil || user.Email == "" {
		return
	}
	meta, _ := findTemplate(adminTemplates, "mentor_application_approved")
	template, err := readDefaultTemplate(meta.File)
	if err != nil {
		n.fail("mentor_application_approved", err)
		return
	}
	body := renderTemplate(template, map[string]string{
		"recipient_name": displayName(user.Name, "there"),
		"cta_url":        n.baseURL() + "/mentor/dashboard",
	})
	n.send("mentor_application_approved", user.Email, "Your mentor application was approved", body)
}

// adminRecipients merges the configured admin addresses with non-blocked
// ADMIN accounts, deduplicated by lowercased email.
func (n *EmailNotifier) adminRecipients(ctx context.Context) []recipient {
	seen := make(map[string]recipient)
	for _, email := range n.config.Session.AdminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			seen[email] = recipient{Email: email, Name: "Admin"}
		}
	}
	admins, err := n.users.FindAdmins(ctx)
	if err != nil {
		logger.Warn("Failed to load admin recipients", zap.Error(err))
	}
	for _, admin := range admins {
		email := strings.ToLower(strings.TrimSpace(admin.Email))
		if email == "" {
			continue
		}
		seen[email] = recipient{Email: email, Name: displayName(admin.Name, "Admin")}
	}
	recipients := make([]recipient, 0, len(seen))
	for _, r := range seen {
		recipients = append(recipients, r)
	}
	return recipients
}

type recipient struct {
	Email string
	Name  string
}

func (n *EmailNotifier) resolvePair(ctx context.Context, fromID, toID primitive.ObjectID) (*models.User, *models.User) {
	from, err := n.users.FindByID(ctx, fromID)
	if err != nil {
		from = nil
	}
	to, err := n.users.FindByID(ctx, toID)
	if err != nil {
		to = nil
	}
	return from, to
}

func (n *EmailNotifier) send(template, to, subject, body string) {
	if !n.mailer.Enabled() {
		return
	}
	if err := n.mailer.Send(to, subject, body); err != nil {
		n.fail(template, err)
		return
	}
	metrics.EmailsSent.WithLabelValues(template, "sent").Inc()
}

func (n *EmailNotifier) fail(template string, err error) {
	metrics.EmailsSent.WithLabelValues(template, "failed").Inc()
	logger.Warn("Failed to send notification email",
		zap.String("template", template),
		zap.Error(err))
}

func displayName(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}
