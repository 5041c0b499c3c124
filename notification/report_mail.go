package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"store-monitor/config"
	"store-monitor/model"
	"store-monitor/pkg/logger"

	"go.uber.org/zap"
)

// ReportMailData holds data for the report lifecycle email template
type ReportMailData struct {
	ReportID    string
	StatusText  string
	Color       string
	TotalStores int
	Error       string
	DateTime    string
}

const reportMailTemplate = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; background-color: #f6f9fc; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;">
	<div style="max-width: 600px; margin: 20px auto; background-color: #ffffff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 6px rgba(0,0,0,0.05);">
		<div style="background-color: {{.Color}}; padding: 30px 40px; text-align: center;">
			<h1 style="margin: 0; color: #ffffff; font-size: 24px; font-weight: 700; letter-spacing: 0.5px;">{{.StatusText}}</h1>
			<p style="margin: 10px 0 0; color: rgba(255,255,255,0.9); font-size: 14px;">{{.DateTime}}</p>
		</div>
		<div style="padding: 30px 40px;">
			<div style="font-size: 16px; color: #1e293b; margin-bottom: 10px;">Report <strong>{{.ReportID}}</strong></div>
			{{if .Error}}
			<div style="font-size: 14px; color: #dc2626;">{{.Error}}</div>
			{{else}}
			<div style="font-size: 14px; color: #64748b;">{{.TotalStores}} stores covered. Download it from the get_report endpoint.</div>
			{{end}}
		</div>
	</div>
</body>
</html>
`

// RenderReportMail renders the report lifecycle email body
func RenderReportMail(data ReportMailData) (string, error) {
	tmpl, err := template.New("report").Parse(reportMailTemplate)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NotifyReportFinished mails the configured recipient when a report reaches
// a terminal state. A missing recipient disables notification silently.
func NotifyReportFinished(job model.ReportJob) {
	to := config.GlobalConfig.Notification.Email
	if to == "" {
		return
	}

	data := ReportMailData{
		ReportID:    job.ID,
		TotalStores: job.TotalStores,
		Error:       job.Error,
		DateTime:    time.Now().Format("2006-01-02 15:04:05 MST"),
	}
	subject := fmt.Sprintf("Store report %s completed", job.ID)
	data.StatusText = "Report Complete"
	data.Color = "#10b981"
	if job.Status == model.ReportError {
		subject = fmt.Sprintf("Store report %s failed", job.ID)
		data.StatusText = "Report Failed"
		data.Color = "#ef4444"
	}

	html, err := RenderReportMail(data)
	if err != nil {
		logger.Error("failed to render report email", zap.Error(err))
		return
	}
	if err := SendEmail([]string{to}, subject, html); err != nil {
		logger.Error("failed to send report email", zap.Error(err))
	}
}
