package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"lescombis/internal/models"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName string, debug bool) (*EmailService, error) {
	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendRappelCotisation sends a late dues reminder to one member
func (s *EmailService) SendRappelCotisation(ctx context.Context, retard models.MembreEnRetard) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): rappel cotisation to %s", retard.NomComplet)
		return nil
	}
	if retard.Email == "" {
		return nil
	}

	mois := fmt.Sprintf("%d mois", retard.MoisEnRetard)
	if retard.MoisEnRetard == 1 {
		mois = "1 mois"
	}

	subject := "Rappel de cotisation - LES COMBIS"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #1d4ed8; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.amount { font-size: 18px; font-weight: bold; color: #b91c1c; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Rappel de cotisation</h1>
		</div>
		<div class="content">
			<p>Bonjour %s,</p>
			<p>Votre cotisation est en retard de <strong>%s</strong>.</p>
			<p>Montant total dû : <span class="amount">%d FCFA</span></p>
			<p>Merci de régulariser votre situation auprès du trésorier.</p>
		</div>
		<div class="footer">
			<p>Ceci est un message automatique de l'association LES COMBIS. Merci de ne pas répondre.</p>
		</div>
	</div>
</body>
</html>
`, retard.NomComplet, mois, retard.MontantDu)

	textBody := fmt.Sprintf(`Bonjour %s,

Votre cotisation est en retard de %s.
Montant total dû : %d FCFA

Merci de régulariser votre situation auprès du trésorier.

---
Ceci est un message automatique de l'association LES COMBIS. Merci de ne pas répondre.
`, retard.NomComplet, mois, retard.MontantDu)

	return s.sendEmail(ctx, retard.Email, subject, htmlBody, textBody)
}

// SendBienvenueEmail sends a welcome email to a newly enrolled member
func (s *EmailService) SendBienvenueEmail(ctx context.Context, toEmail, nomComplet string, cotisationMensuelle int64) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): bienvenue to %s", toEmail)
		return nil
	}

	subject := "Bienvenue chez LES COMBIS"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #1d4ed8; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Bienvenue chez LES COMBIS</h1>
		</div>
		<div class="content">
			<p>Bonjour %s,</p>
			<p>Votre adhésion à l'association LES COMBIS est enregistrée.</p>
			<p>Votre cotisation mensuelle est de <strong>%d FCFA</strong>.</p>
			<p>Connectez-vous avec votre numéro de téléphone pour suivre vos cotisations et déclarer un sinistre.</p>
		</div>
		<div class="footer">
			<p>Ceci est un message automatique de l'association LES COMBIS. Merci de ne pas répondre.</p>
		</div>
	</div>
</body>
</html>
`, nomComplet, cotisationMensuelle)

	textBody := fmt.Sprintf(`Bonjour %s,

Votre adhésion à l'association LES COMBIS est enregistrée.
Votre cotisation mensuelle est de %d FCFA.

Connectez-vous avec votre numéro de téléphone pour suivre vos cotisations et déclarer un sinistre.

---
Ceci est un message automatique de l'association LES COMBIS. Merci de ne pas répondre.
`, nomComplet, cotisationMensuelle)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] sendEmail: from=%s, to=%s, subject=%s", fromAddress, toEmail, subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message id: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
