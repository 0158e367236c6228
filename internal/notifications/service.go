package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/gomail.v2"

	"github.com/socialpulse/pulse-analytics/internal/config"
	"github.com/socialpulse/pulse-analytics/internal/models"
)

const (
	topTopicsShown = 5
	topItemsShown  = 5
	emailItemsMax  = 10
	excerptLength  = 200
)

var sentimentOrder = []string{"positive", "neutral", "negative"}

// Service delivers digests and viral alerts to Teams and email
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message card
type TeamsMessage struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	ThemeColor string         `json:"themeColor,omitempty"`
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	Sections   []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle    string      `json:"activityTitle,omitempty"`
	ActivitySubtitle string      `json:"activitySubtitle,omitempty"`
	ActivityText     string      `json:"activityText,omitempty"`
	Facts            []TeamsFact `json:"facts,omitempty"`
	Markdown         bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// Enabled reports whether any delivery channel is configured
func (s *Service) Enabled() bool {
	return s.config.TeamsWebhookURL != "" || s.config.NotificationEmail != ""
}

// SendReport sends a digest via configured notification channels
func (s *Service) SendReport(report *models.Report) error {
	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.postToTeams(s.buildTeamsMessage(report)); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Successfully sent digest to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(report); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent digest via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// SendAlert posts an immediate alert card to Teams. Email is reserved for digests.
func (s *Service) SendAlert(alert *models.Alert) error {
	if s.config.TeamsWebhookURL == "" {
		logrus.Infof("No alert channel configured, dropping %s alert: %s", alert.Type, alert.Title)
		return nil
	}

	if err := s.postToTeams(s.buildAlertMessage(alert)); err != nil {
		return fmt.Errorf("failed to send %s alert: %w", alert.Type, err)
	}

	logrus.Infof("Sent %s alert: %s", alert.Type, alert.Title)
	return nil
}

func (s *Service) postToTeams(message *TeamsMessage) error {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildTeamsMessage(report *models.Report) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Social Pulse Digest - %s", titleCase(report.Period)),
		Text:    fmt.Sprintf("Analyzed %d items over the last %s", report.TotalItems, report.Period),
	}

	facts := []TeamsFact{
		{Name: "Total Items", Value: fmt.Sprintf("%d", report.TotalItems)},
		{Name: "Generated", Value: report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")},
	}
	if summary, ok := report.Summary["sentiment"].(map[string]int); ok {
		for _, sentiment := range sentimentOrder {
			facts = append(facts, TeamsFact{
				Name:  fmt.Sprintf("%s Items", titleCase(sentiment)),
				Value: fmt.Sprintf("%d", summary[sentiment]),
			})
		}
	}
	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Summary",
		Facts:         facts,
		Markdown:      true,
	})

	if len(report.TopTopics) > 0 {
		var lines []string
		for i, topic := range report.TopTopics {
			if i == topTopicsShown {
				break
			}
			lines = append(lines, topicLine(topic))
		}
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Trending Topics",
			ActivityText:  strings.Join(lines, "\n\n"),
			Markdown:      true,
		})
	}

	if len(report.Insights) > 0 {
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Insights",
			ActivityText:  "- " + strings.Join(report.Insights, "\n- "),
			Markdown:      true,
		})
	}

	if len(report.TopItems) > 0 {
		var lines []string
		for i, item := range report.TopItems {
			if i == topItemsShown {
				break
			}
			lines = append(lines, fmt.Sprintf("**[%s](%s)** - %s (%s)",
				item.Title, item.URL, item.Community, item.CreatedAt.Format("Jan 2")))
		}
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Most Viral Items",
			ActivityText:  strings.Join(lines, "\n\n"),
			Markdown:      true,
		})
	}

	return message
}

func (s *Service) buildAlertMessage(alert *models.Alert) *TeamsMessage {
	message := &TeamsMessage{
		Type:       "MessageCard",
		Context:    "https://schema.org/extensions",
		ThemeColor: "d13438",
		Title:      alert.Title,
		Text:       alert.Message,
	}

	if item := alert.Item; item != nil {
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle:    fmt.Sprintf("[%s](%s)", item.Title, item.URL),
			ActivitySubtitle: fmt.Sprintf("%s | %s", item.Platform, item.Community),
			Facts: []TeamsFact{
				{Name: "Virality", Value: fmt.Sprintf("%.2f", item.Derived.ViralityScore)},
				{Name: "Velocity", Value: fmt.Sprintf("%.1f/hour", item.Derived.EngagementVelocity)},
				{Name: "Score", Value: fmt.Sprintf("%d", item.Score)},
				{Name: "Comments", Value: fmt.Sprintf("%d", item.CommentCount)},
			},
			Markdown: true,
		})
	}

	return message
}

func topicLine(topic models.TrendingTopic) string {
	return fmt.Sprintf("**%s** - %d reddit / %d news (%s)",
		topic.Keyword, topic.RedditMentions, topic.NewsMentions, topic.Momentum)
}

func (s *Service) sendEmail(report *models.Report) error {
	subject := fmt.Sprintf("Social Pulse Digest - %s (%d items)",
		titleCase(report.Period), report.TotalItems)

	htmlBody, err := s.buildEmailHTML(report)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	textBody := s.buildEmailText(report)

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const emailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Social Pulse Digest</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #3b2f8f; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .item { border-left: 4px solid #3b2f8f; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .item-title { font-weight: bold; margin-bottom: 5px; }
        .item-meta { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Social Pulse Digest</h1>
        <p>{{.Period | title}} digest generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM MST"}}</p>
    </div>

    <div class="summary">
        <h2>Summary</h2>
        <p><strong>Total Items:</strong> {{.TotalItems}}</p>
        {{with .Summary.sentiment}}
            {{range $sentiment, $count := .}}
                <p><strong>{{$sentiment | title}} Items:</strong> {{$count}}</p>
            {{end}}
        {{end}}
    </div>

    {{if .TopTopics}}
    <h2>Trending Topics</h2>
    <ul>
    {{range .TopTopics}}
        <li><strong>{{.Keyword}}</strong> - {{.RedditMentions}} reddit / {{.NewsMentions}} news ({{.Momentum}})</li>
    {{end}}
    </ul>
    {{end}}

    {{if .Insights}}
    <h2>Insights</h2>
    <ul>{{range .Insights}}<li>{{.}}</li>{{end}}</ul>
    {{end}}

    {{if .TopItems}}
    <h2>Most Viral Items</h2>
    {{range $index, $item := .TopItems}}
        {{if lt $index 10}}
        <div class="item">
            <div class="item-title">
                <a href="{{$item.URL}}" target="_blank">{{$item.Title}}</a>
            </div>
            <div class="item-meta">
                {{$item.Platform}} | {{$item.Community}} | {{$item.CreatedAt.Format "Jan 2, 2006"}} | Virality: {{printf "%.2f" $item.Derived.ViralityScore}}
            </div>
            {{if $item.Body}}
            <p>{{$item.Body | truncate 200}}</p>
            {{end}}
        </div>
        {{end}}
    {{end}}
    {{end}}

    <hr>
    <p><small>This digest was generated automatically by Social Pulse Analytics.</small></p>
</body>
</html>
`

func (s *Service) buildEmailHTML(report *models.Report) (string, error) {
	t := template.New("email").Funcs(template.FuncMap{
		"title":    titleCase,
		"truncate": truncate,
	})

	t, err := t.Parse(emailTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, report); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Service) buildEmailText(report *models.Report) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("Social Pulse Digest - %s\n", titleCase(report.Period)))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("SUMMARY\n")
	text.WriteString("=======\n")
	text.WriteString(fmt.Sprintf("Total Items: %d\n", report.TotalItems))

	if summary, ok := report.Summary["sentiment"].(map[string]int); ok {
		for _, sentiment := range sentimentOrder {
			text.WriteString(fmt.Sprintf("%s Items: %d\n", titleCase(sentiment), summary[sentiment]))
		}
	}

	if len(report.TopTopics) > 0 {
		text.WriteString("\nTRENDING TOPICS\n")
		text.WriteString("===============\n")
		for i, topic := range report.TopTopics {
			text.WriteString(fmt.Sprintf("%d. %s - %d reddit / %d news (%s)\n",
				i+1, topic.Keyword, topic.RedditMentions, topic.NewsMentions, topic.Momentum))
		}
	}

	if len(report.Insights) > 0 {
		text.WriteString("\nINSIGHTS\n")
		text.WriteString("========\n")
		for _, insight := range report.Insights {
			text.WriteString(fmt.Sprintf("- %s\n", insight))
		}
	}

	if len(report.TopItems) > 0 {
		text.WriteString("\nMOST VIRAL ITEMS\n")
		text.WriteString("================\n")

		for i, item := range report.TopItems {
			if i == emailItemsMax {
				break
			}
			text.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, item.Title))
			text.WriteString(fmt.Sprintf("   Platform: %s | Community: %s | Date: %s\n",
				item.Platform, item.Community, item.CreatedAt.Format("Jan 2, 2006")))
			text.WriteString(fmt.Sprintf("   URL: %s\n", item.URL))
			if item.Body != "" {
				text.WriteString(fmt.Sprintf("   Content: %s\n", truncate(excerptLength, item.Body)))
			}
		}
	}

	text.WriteString("\n---\nThis digest was generated automatically by Social Pulse Analytics.\n")

	return text.String()
}

// titleCase uses a fresh Caser per call, Casers are not safe for concurrent use
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// truncate shortens s to length runes. The argument order suits template pipelines.
func truncate(length int, s string) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length]) + "..."
}
