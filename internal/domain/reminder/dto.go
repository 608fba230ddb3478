package reminder

import (
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
)

type DispatchResponse struct {
	ID         string  `json:"id"`
	RecordType string  `json:"recordType"`
	RecordID   string  `json:"recordId"`
	Kind       string  `json:"kind"`
	DueDate    string  `json:"dueDate"`
	EmployeeID string  `json:"employeeId"`
	OutboxID   *string `json:"outboxId"`
	CreatedAt  string  `json:"createdAt"`
}

func ToResponse(d Dispatch) DispatchResponse {
	return DispatchResponse{
		ID:         d.ID,
		RecordType: string(d.RecordType),
		RecordID:   d.RecordID,
		Kind:       string(d.Kind),
		DueDate:    utils.FormatDate(d.DueDate),
		EmployeeID: d.EmployeeID,
		OutboxID:   d.OutboxID,
		CreatedAt:  d.CreatedAt.Format(time.RFC3339),
	}
}
