package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/campusdesk/swo-feedback/config"
	"github.com/campusdesk/swo-feedback/logger"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
)

// emailSender is the part of the Resend client used here.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// EmailService mails report summaries through Resend.
type EmailService struct {
	config  *config.EmailConfig
	sender  emailSender
	metrics *EmailMetrics
	tmpl    *template.Template
}

func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return NewEmailServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewEmailServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) *EmailService {
	logger.GetLogger().Infow("Initializing email service",
		"from", cfg.FromAddress, "apikey", logger.MaskSensitiveString(cfg.ResendAPIKey, 3, 2))

	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "swo_email_send_duration_seconds",
			Help:    "Time taken to send emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swo_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swo_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}
	reg.MustRegister(metrics.sendLatency, metrics.errorCount, metrics.sentCount)

	return &EmailService{
		config:  cfg,
		sender:  resend.NewClient(cfg.ResendAPIKey).Emails,
		metrics: metrics,
		tmpl:    template.Must(template.New("report").Funcs(reportFuncs).Parse(reportEmailTemplate)),
	}
}

// SendReport mails the report summary to one recipient with the CSV export attached.
func (s *EmailService) SendReport(ctx context.Context, to string, rep types.FormReport, csvName string, csvData []byte) error {
	start := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(start).Seconds())
	}()

	var html bytes.Buffer
	if err := s.tmpl.Execute(&html, rep); err != nil {
		s.metrics.errorCount.Inc()
		return fmt.Errorf("failed to execute template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      []string{to},
		Subject: fmt.Sprintf("Feedback report: %s", rep.Title),
		Html:    html.String(),
		Tags:    []resend.Tag{{Name: "form_type", Value: string(rep.FormType)}},
	}
	if len(csvData) > 0 {
		params.Attachments = []*resend.Attachment{{Content: csvData, Filename: csvName}}
	}

	if _, err := s.sender.SendWithContext(ctx, params); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send report email",
			"error", err,
			"to", logger.MaskEmail(to),
			"formId", rep.FormID)
		return fmt.Errorf("email send failed: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Report email sent", "to", logger.MaskEmail(to), "formId", rep.FormID)
	return nil
}

var reportFuncs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("02 Jan 2006 15:04 MST") },
}

const reportEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: sans-serif; color: #333333; margin: 0; padding: 20px; }
        table { border-collapse: collapse; width: 100%; max-width: 720px; }
        th, td { border: 1px solid #dddddd; padding: 6px 10px; text-align: left; }
        th { background-color: #f2f2f2; }
        h2 { margin-top: 28px; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <p>{{.ResponseCount}} submitted responses. Overall average rating: <strong>{{.OverallAverage.StringFixed 2}}</strong>.</p>
    {{range .Areas}}
    <h2>{{.AreaName}}</h2>
    <table>
        <tr><th>Question</th><th>Answers</th><th>Result</th></tr>
        {{range .Questions}}
        <tr>
            <td>{{.QuestionText}}</td>
            <td>{{.AnswerCount}}</td>
            <td>{{if eq .QuestionType "rating"}}avg {{.Average.StringFixed 2}}{{else if eq .QuestionType "yes_no"}}{{.YesCount}} yes / {{.NoCount}} no{{else}}{{len .TextAnswers}} comments{{end}}</td>
        </tr>
        {{end}}
    </table>
    {{end}}
    <p style="color:#777777;font-size:12px">Generated {{date .GeneratedAt}}. The full export is attached as CSV.</p>
</body>
</html>`
