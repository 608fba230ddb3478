package admin

import "context"

type AdminService interface {
	// TestWhatsApp sends one message synchronously through the provider.
	TestWhatsApp(ctx context.Context, req WhatsAppTestRequest) (WhatsAppTestResponse, error)

	// Broadcast sends body to every employee with a phone, one after another.
	Broadcast(ctx context.Context, req BroadcastRequest) (BroadcastResponse, error)

	// MigrateRawFormats re-stores extensionless documents under their detected extension.
	MigrateRawFormats(ctx context.Context) (RawFormatsResponse, error)
}
