package email

// Config holds email service configuration.
// Postmark tokens are optional to support development environments where
// email sending is disabled; SenderEmail establishes the sender identity
// for all outbound emails.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"no-reply@tide.app"`
}
