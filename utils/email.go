// utils/email.go
package utils

import (
	"fmt"
	"go-storefront/models"
	"os"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		panic("POSTMARK_API_TOKEN is not set in environment variables")
	}
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendVerificationEmail sends an email verification link to the user
func (es *EmailService) SendVerificationEmail(toEmail, token string) error {
	subject := "Verify Your Email"
	verificationLink := fmt.Sprintf("%s/verify-email?token=%s", os.Getenv("FRONTEND_URL"), token)
	htmlContent := fmt.Sprintf(
		"<strong>Please verify your email by clicking on the following link:</strong> <a href=\"%s\">Verify Email</a>",
		verificationLink,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendOrderConfirmationEmail sends an order confirmation email covering all
// rows created by one checkout.
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order (ID: %s, %d item(s)) has been placed successfully.<br><br>Total Amount: <strong>%.2f</strong><br>Payment: <strong>%s</strong><br><br>Thank you for shopping with us!",
		orders[0].OrderID,
		len(orders),
		orders[0].TotalAmt,
		orders[0].PaymentStatus,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}
