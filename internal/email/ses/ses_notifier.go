package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"calyrec/internal/domain"
	"calyrec/internal/port"
)

type sesNotifier struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	recipients  []string
}

// NewSESNotifier creates a SES-backed Notifier that mails run reports to the
// configured recipients.
func NewSESNotifier(region, fromAddress, fromName string, recipients []string) (port.Notifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesNotifier{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
		recipients:  recipients,
	}, nil
}

func (s *sesNotifier) SendRunReport(ctx context.Context, summary domain.RunSummary) error {
	if len(s.recipients) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Reconciliation %s: %d of %d matched", summary.DateToken, summary.Matched, summary.Total)
	htmlBody := buildReportHTML(summary)
	textBody := buildReportText(summary)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: s.recipients,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildReportText(sum domain.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reconciliation run for %s\n\n", sum.DateToken)
	fmt.Fprintf(&b, "Input:     %s\n", sum.PrimaryFile)
	fmt.Fprintf(&b, "Output:    %s\n", sum.OutputFile)
	fmt.Fprintf(&b, "Total:     %d\n", sum.Total)
	fmt.Fprintf(&b, "Matched:   %d\n", sum.Matched)
	fmt.Fprintf(&b, "Unmatched: %d\n", sum.Unmatched)
	fmt.Fprintf(&b, "Duration:  %s\n", sum.Duration)
	if len(sum.UnmatchedKeys) > 0 {
		b.WriteString("\nFirst unmatched keys:\n")
		for _, k := range sum.UnmatchedKeys {
			fmt.Fprintf(&b, "  - %s\n", k)
		}
	}
	return b.String()
}

func buildReportHTML(sum domain.RunSummary) string {
	var keys string
	if len(sum.UnmatchedKeys) > 0 {
		var items strings.Builder
		for _, k := range sum.UnmatchedKeys {
			fmt.Fprintf(&items, "<li>%s</li>", k)
		}
		keys = fmt.Sprintf(`<p>First unmatched keys:</p><ul style="color: #666;">%s</ul>`, items.String())
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Reconciliation run %s</h2>
  <table style="border-collapse: collapse;">
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Input</td><td>%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Output</td><td>%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Total</td><td>%d</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Matched</td><td>%d</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Unmatched</td><td>%d</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Duration</td><td>%s</td></tr>
  </table>
  %s
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">calyrec - batch reference reconciliation</p>
</body>
</html>`, sum.DateToken, sum.PrimaryFile, sum.OutputFile, sum.Total, sum.Matched, sum.Unmatched, sum.Duration, keys)
}
