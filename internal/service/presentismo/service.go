package presentismo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/outbox"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/presentismo"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pdfdoc"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/whatsapp"
	qrcode "github.com/skip2/go-qrcode"
)

type PresentismoServiceImpl struct {
	presentismo.RecipientRepository
	reportRepo         presentismo.ReportRepository
	sender             whatsapp.Sender
	outboxService      outbox.OutboxService
	fallback           []string
	defaultCountryCode string
	loc                *time.Location
	now                func() time.Time
}

func NewPresentismoService(
	recipientRepo presentismo.RecipientRepository,
	reportRepo presentismo.ReportRepository,
	sender whatsapp.Sender,
	outboxService outbox.OutboxService,
	fallbackRecipients []string,
	defaultCountryCode string,
	loc *time.Location,
) presentismo.PresentismoService {
	if loc == nil {
		loc = time.UTC
	}
	return &PresentismoServiceImpl{
		RecipientRepository: recipientRepo,
		reportRepo:          reportRepo,
		sender:              sender,
		outboxService:       outboxService,
		fallback:            fallbackRecipients,
		defaultCountryCode:  defaultCountryCode,
		loc:                 loc,
		now:                 time.Now,
	}
}

type report struct {
	month     time.Time
	employees []presentismo.LostEmployee
	message   string
}

func (s *PresentismoServiceImpl) build(ctx context.Context, month string) (report, error) {
	req := presentismo.ReportRequest{Month: month}
	if err := req.Validate(); err != nil {
		return report{}, err
	}

	var start time.Time
	if req.Month == "" {
		start, _ = utils.MonthRange(utils.Today(s.now(), s.loc))
	} else {
		parsed, err := utils.ParseMonth(req.Month)
		if err != nil {
			return report{}, err
		}
		start = parsed
	}
	start, end := utils.MonthRange(start)

	employees, err := s.reportRepo.ListLostPresentismo(ctx, start, end)
	if err != nil {
		return report{}, err
	}
	return report{month: start, employees: employees, message: presentismo.BuildMessage(start, employees)}, nil
}

func (s *PresentismoServiceImpl) destinations(ctx context.Context) ([]presentismo.Destination, string, error) {
	active, err := s.RecipientRepository.ListActive(ctx)
	if err != nil {
		return nil, "", err
	}
	dests, source := presentismo.ResolveDestinations(active, s.fallback)
	return dests, source, nil
}

// PreviewReport implements presentismo.PresentismoService.
func (s *PresentismoServiceImpl) PreviewReport(ctx context.Context, month string) (presentismo.PreviewResponse, error) {
	rep, err := s.build(ctx, month)
	if err != nil {
		return presentismo.PreviewResponse{}, err
	}
	dests, source, err := s.destinations(ctx)
	if err != nil {
		return presentismo.PreviewResponse{}, err
	}

	resp := presentismo.PreviewResponse{
		Month:          utils.FormatMonth(rep.month),
		TotalEmployees: len(rep.employees),
		Employees:      make([]presentismo.EmployeeName, 0, len(rep.employees)),
		Message:        rep.message,
		Destinations:   make([]string, 0, len(dests)),
		Recipients:     make([]presentismo.DestinationResponse, 0, len(dests)),
		Source:         source,
	}
	for _, e := range rep.employees {
		resp.Employees = append(resp.Employees, presentismo.EmployeeName{Nombre: e.Nombre, Apellido: e.Apellido})
	}
	for _, d := range dests {
		link, _ := whatsapp.ChatLink(d.Phone, s.defaultCountryCode)
		resp.Destinations = append(resp.Destinations, d.Phone)
		resp.Recipients = append(resp.Recipients, presentismo.DestinationResponse{
			Phone:     d.Phone,
			Name:      d.Name,
			RoleLabel: d.RoleLabel,
			WaLink:    link,
		})
	}
	return resp, nil
}

// SendReport implements presentismo.PresentismoService.
func (s *PresentismoServiceImpl) SendReport(ctx context.Context, month string) (presentismo.SendResponse, error) {
	rep, err := s.build(ctx, month)
	if err != nil {
		return presentismo.SendResponse{}, err
	}
	dests, source, err := s.destinations(ctx)
	if err != nil {
		return presentismo.SendResponse{}, err
	}
	if len(dests) == 0 {
		return presentismo.SendResponse{}, presentismo.ErrNoRecipients
	}

	monthLabel := utils.FormatMonth(rep.month)
	resp := presentismo.SendResponse{
		Month:          monthLabel,
		TotalEmployees: len(rep.employees),
		Destinations:   len(dests),
		Results:        make([]presentismo.SendResult, 0, len(dests)),
		Source:         source,
	}

	for _, d := range dests {
		result := presentismo.SendResult{To: d.Phone}
		res, err := s.sender.Send(ctx, d.Phone, rep.message)
		if err == nil {
			result.MessageID = res.MessageID
			result.Mock = res.Mock
			resp.Sent++
			resp.Results = append(resp.Results, result)
			continue
		}

		slog.Warn("Presentismo report send failed", "to", d.Phone, "error", err)
		result.Error = err.Error()
		resp.Errors++
		if _, qerr := s.outboxService.Enqueue(ctx, outbox.NewMessage{
			Recipient: d.Phone,
			Body:      rep.message,
			Reference: "presentismo:" + monthLabel,
		}); qerr != nil {
			slog.Error("Failed to queue presentismo report", "to", d.Phone, "error", qerr)
		} else {
			result.Queued = true
		}
		resp.Results = append(resp.Results, result)
	}

	slog.Info("Presentismo report sent", "month", monthLabel, "employees", resp.TotalEmployees, "sent", resp.Sent, "errors", resp.Errors, "source", source)
	return resp, nil
}

// SendMonthlyReport implements presentismo.PresentismoService.
func (s *PresentismoServiceImpl) SendMonthlyReport(ctx context.Context) error {
	_, err := s.SendReport(ctx, "")
	if errors.Is(err, presentismo.ErrNoRecipients) {
		slog.Warn("Monthly presentismo report skipped: no recipients configured")
		return nil
	}
	return err
}

// RenderPDF implements presentismo.PresentismoService.
func (s *PresentismoServiceImpl) RenderPDF(ctx context.Context, month string) ([]byte, string, error) {
	rep, err := s.build(ctx, month)
	if err != nil {
		return nil, "", err
	}

	doc := pdfdoc.New("Informe de Presentismo – " + utils.MonthLabelES(rep.month))
	doc.Paragraph("Empleados que perdieron el presentismo por inasistencias:")
	doc.Space()
	if len(rep.employees) == 0 {
		doc.Paragraph("No se registran pérdidas de presentismo por inasistencia en el período.")
	} else {
		rows := make([][]string, 0, len(rep.employees))
		for i, e := range rep.employees {
			dni := "-"
			if e.DNI != nil && *e.DNI != "" {
				dni = *e.DNI
			}
			tel := strings.TrimSpace(e.Telefono)
			if tel == "" {
				tel = "-"
			}
			rows = append(rows, []string{fmt.Sprint(i + 1), e.Apellido + " " + e.Nombre, dni, tel})
		}
		doc.Table([]float64{12, 80, 40, 50}, []string{"#", "Empleado", "DNI", "Teléfono"}, rows)
	}

	out, err := doc.Bytes()
	if err != nil {
		return nil, "", err
	}
	return out, "presentismo-" + utils.FormatMonth(rep.month) + ".pdf", nil
}

// ListRecipients implements presentismo.PresentismoService.
func (s *PresentismoServiceImpl) ListRecipients(ctx context.Context) ([]presentismo.RecipientResponse, error) {
	recipients, err := s.RecipientRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]presentismo.RecipientResponse, 0, len(recipients))
	for _, r := range recipients {
		out = append(out, presentismo.ToRecipientResponse(r))
	}
	return out, nil
}

// CreateRecipient implements presentismo.PresentismoService.
func (s *PresentismoServiceImpl) CreateRecipient(ctx context.Context, req presentismo.CreateRecipientRequest) (presentismo.RecipientResponse, error) {
	if err := req.Validate(); err != nil {
		return presentismo.RecipientResponse{}, err
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	created, err := s.RecipientRepository.Create(ctx, presentismo.Recipient{
		Name:      req.Name,
		RoleLabel: req.RoleLabel,
		Phone:     req.Phone,
		Active:    active,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		return presentismo.RecipientResponse{}, err
	}
	return presentismo.ToRecipientResponse(created), nil
}

// UpdateRecipient implements presentismo.PresentismoService.
func (s *PresentismoServiceImpl) UpdateRecipient(ctx context.Context, req presentismo.UpdateRecipientRequest) (presentismo.RecipientResponse, error) {
	if err := req.Validate(); err != nil {
		return presentismo.RecipientResponse{}, err
	}
	r, err := s.RecipientRepository.GetByID(ctx, req.ID)
	if err != nil {
		return presentismo.RecipientResponse{}, err
	}
	if req.Name != nil {
		r.Name = strings.TrimSpace(*req.Name)
	}
	if req.RoleLabel != nil {
		r.RoleLabel = strings.TrimSpace(*req.RoleLabel)
	}
	if req.Phone != nil {
		r.Phone = *req.Phone
	}
	if req.Active != nil {
		r.Active = *req.Active
	}
	updated, err := s.RecipientRepository.Update(ctx, r)
	if err != nil {
		return presentismo.RecipientResponse{}, err
	}
	return presentismo.ToRecipientResponse(updated), nil
}

// DeleteRecipient implements presentismo.PresentismoService.
func (s *PresentismoServiceImpl) DeleteRecipient(ctx context.Context, id string) error {
	return s.RecipientRepository.Delete(ctx, id)
}

// RecipientQR implements presentismo.PresentismoService.
func (s *PresentismoServiceImpl) RecipientQR(ctx context.Context, id string) ([]byte, error) {
	r, err := s.RecipientRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	link, err := whatsapp.ChatLink(r.Phone, s.defaultCountryCode)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(link, qrcode.Medium, 256)
}
