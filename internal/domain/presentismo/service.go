package presentismo

import "context"

type PresentismoService interface {
	// PreviewReport builds the report for month (YYYY-MM, empty means the current month) without sending.
	PreviewReport(ctx context.Context, month string) (PreviewResponse, error)

	// SendReport sends the report to every destination; failed sends are queued for retry.
	SendReport(ctx context.Context, month string) (SendResponse, error)

	RenderPDF(ctx context.Context, month string) ([]byte, string, error)

	// SendMonthlyReport is the scheduled entry point; it logs and skips when there are no recipients.
	SendMonthlyReport(ctx context.Context) error

	ListRecipients(ctx context.Context) ([]RecipientResponse, error)
	CreateRecipient(ctx context.Context, req CreateRecipientRequest) (RecipientResponse, error)
	UpdateRecipient(ctx context.Context, req UpdateRecipientRequest) (RecipientResponse, error)
	DeleteRecipient(ctx context.Context, id string) error

	// RecipientQR renders a PNG QR code opening a chat with the recipient.
	RecipientQR(ctx context.Context, id string) ([]byte, error)
}
