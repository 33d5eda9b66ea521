package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/emailclient"
	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
)

var (
	sendTo      string
	sendSubject string
	sendHTML    string
	sendText    string
)

func sendEmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send-email",
		Short: "Send one email through the configured relay",
		Long: `Send a single email through the configured relay. Exactly one attempt is
made; the exit status reflects the relay's answer.

Examples:
  newsletterctl send-email --to ursula@example.com --subject "Welcome" \
    --html "<p>Welcome!</p>" --text "Welcome!"`,
		RunE: runSendEmail,
	}

	cmd.Flags().StringVar(&sendTo, "to", "", "Recipient address (required)")
	cmd.Flags().StringVar(&sendSubject, "subject", "", "Subject line (required)")
	cmd.Flags().StringVar(&sendHTML, "html", "", "HTML body")
	cmd.Flags().StringVar(&sendText, "text", "", "Plain-text body")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("subject")

	return cmd
}

func runSendEmail(cmd *cobra.Command, _ []string) error {
	recipient, err := domain.ParseSubscriberEmail(sendTo)
	if err != nil {
		return err
	}
	if sendHTML == "" && sendText == "" {
		return fmt.Errorf("at least one of --html or --text is required")
	}

	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	defer logger.Sync()

	sender, err := cfg.EmailClient.Sender()
	if err != nil {
		return err
	}
	client, err := emailclient.New(emailclient.Config{
		BaseURL:            cfg.EmailClient.BaseURL,
		Sender:             sender,
		AuthorizationToken: cfg.EmailClient.AuthorizationToken,
		Timeout:            cfg.EmailClient.Timeout(),
		Logger:             logger,
	})
	if err != nil {
		return err
	}

	if err := client.Send(cmd.Context(), recipient, sendSubject, sendHTML, sendText); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "sent")
	return nil
}
