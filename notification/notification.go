package notification

import (
	"fmt"
	"os"
	"time"

	"store-monitor/config"
	"store-monitor/pkg/logger"

	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"
)

// SendEmail sends an email using Resend with retry logic
func SendEmail(to []string, subject, htmlContent string) error {
	apiKey := config.GlobalConfig.Notification.ResendAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("RESEND_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY is not set")
	}

	client := resend.NewClient(apiKey)

	fromEmail := config.GlobalConfig.Notification.FromEmail
	if fromEmail == "" {
		fromEmail = "onboarding@resend.dev"
	}
	fromName := config.GlobalConfig.Notification.FromName
	if fromName == "" {
		fromName = "Store Monitor"
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", fromName, fromEmail),
		To:      to,
		Subject: subject,
		Html:    htmlContent,
	}

	// Retry logic: 3 attempts with exponential backoff
	var err error
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		resp, sendErr := client.Emails.Send(params)
		if sendErr == nil {
			logger.Info("notification email sent",
				zap.Strings("to", to), zap.String("id", resp.Id))
			return nil
		}
		err = sendErr
		logger.Warn("failed to send email",
			zap.Int("attempt", i+1), zap.Int("max", maxRetries), zap.Error(err))
		if i < maxRetries-1 {
			time.Sleep(time.Duration(2*(i+1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, err)
}
