package legacy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/legacy"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// idNamespace scopes the name-based UUIDs derived from legacy ObjectIDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("sj-empleados/legacy"))

var errMissingID = errors.New("missing object id")

// LegacyID maps an ObjectID hex string to a stable UUID.
func LegacyID(hex string) string {
	return uuid.NewSHA1(idNamespace, []byte(strings.ToLower(hex))).String()
}

type mapper struct {
	table string
	build func(d legacy.Document) (legacy.Row, error)
}

var mappers = map[string]mapper{
	"users":                       {"users", mapUser},
	"employees":                   {"employees", mapEmployee},
	"attendances":                 {"attendances", mapAttendance},
	"disciplinaries":              {"disciplinaries", mapDisciplinary},
	"employeeaccounts":            {"employee_accounts", mapAccount},
	"employeeaccounttransactions": {"employee_account_transactions", mapAccountTransaction},
	"employeeevents":              {"employee_events", mapEvent},
	"payrollreceipts":             {"payroll_receipts", mapPayrollReceipt},
	"presentismorecipients":       {"presentismo_recipients", mapRecipient},
}

// rowBuilder collects columns and stops at the first conversion error.
type rowBuilder struct {
	doc legacy.Document
	row legacy.Row
	err error
}

func newRow(d legacy.Document) *rowBuilder {
	b := &rowBuilder{doc: d}
	b.ref("id", "_id", true)
	return b
}

func (b *rowBuilder) set(column string, value interface{}) {
	b.row.Columns = append(b.row.Columns, column)
	b.row.Values = append(b.row.Values, value)
}

func (b *rowBuilder) fail(field string, err error) {
	if b.err == nil {
		b.err = fmt.Errorf("%s: %w", field, err)
	}
}

func (b *rowBuilder) done() (legacy.Row, error) {
	return b.row, b.err
}

// ref converts an ObjectID field into its UUID.
func (b *rowBuilder) ref(column, field string, required bool) {
	id, err := objectID(b.doc[field])
	if err != nil {
		if required || !errors.Is(err, errMissingID) {
			b.fail(field, err)
		}
		b.set(column, nil)
		return
	}
	b.set(column, LegacyID(id))
}

func (b *rowBuilder) str(column, field string) {
	b.set(column, stringValue(b.doc[field]))
}

func (b *rowBuilder) optStr(column, field string) {
	if s := stringValue(b.doc[field]); s != "" {
		b.set(column, s)
		return
	}
	b.set(column, nil)
}

func (b *rowBuilder) required(column, field string) {
	s := stringValue(b.doc[field])
	if s == "" {
		b.fail(field, errors.New("required value is empty"))
	}
	b.set(column, s)
}

func (b *rowBuilder) boolean(column, field string, def bool) {
	v, ok := b.doc[field].(bool)
	if !ok {
		v = def
	}
	b.set(column, v)
}

func (b *rowBuilder) date(column, field string) {
	t, ok, err := timeValue(b.doc[field])
	switch {
	case err != nil:
		b.fail(field, err)
		b.set(column, nil)
	case !ok:
		b.set(column, nil)
	default:
		y, m, d := t.UTC().Date()
		b.set(column, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	}
}

func (b *rowBuilder) requiredDate(column, field string) {
	if _, ok, _ := timeValue(b.doc[field]); !ok {
		b.fail(field, errors.New("required date is empty"))
	}
	b.date(column, field)
}

func (b *rowBuilder) timestamp(column, field string) {
	t, ok, err := timeValue(b.doc[field])
	if err != nil || !ok {
		t = time.Now().UTC()
	}
	b.set(column, t)
}

func (b *rowBuilder) decimal(column, field string, zeroDefault bool) {
	d, ok, err := decimalValue(b.doc[field])
	switch {
	case err != nil:
		b.fail(field, err)
		b.set(column, nil)
	case !ok && zeroDefault:
		b.set(column, decimal.Zero)
	case !ok:
		b.set(column, nil)
	default:
		b.set(column, d)
	}
}

func (b *rowBuilder) integer(column, field string, zeroDefault bool) {
	d, ok, err := decimalValue(b.doc[field])
	switch {
	case err != nil:
		b.fail(field, err)
		b.set(column, nil)
	case !ok && zeroDefault:
		b.set(column, 0)
	case !ok:
		b.set(column, nil)
	default:
		b.set(column, int(d.IntPart()))
	}
}

func (b *rowBuilder) timestamps() {
	b.timestamp("created_at", "createdAt")
	b.timestamp("updated_at", "updatedAt")
}

func mapUser(d legacy.Document) (legacy.Row, error) {
	b := newRow(d)
	b.set("nombre", firstString(d, "nombre", "name"))
	b.set("email", strings.ToLower(stringValue(d["email"])))
	b.required("password_hash", "password")
	role := stringValue(d["role"])
	if role != "admin" {
		role = "user"
	}
	b.set("role", role)
	b.timestamps()
	return b.done()
}

func mapEmployee(d legacy.Document) (legacy.Row, error) {
	b := newRow(d)
	b.required("nombre", "nombre")
	b.required("apellido", "apellido")
	b.optStr("dni", "dni")
	b.optStr("legajo", "legajo")
	b.str("email", "email")
	b.str("telefono", "telefono")
	b.str("domicilio", "domicilio")
	b.str("puesto", "puesto")
	b.str("departamento", "departamento")
	b.str("sucursal", "sucursal")
	b.decimal("salario", "salario", false)
	b.boolean("activo", "activo", true)
	b.date("fecha_ingreso", "fechaIngreso")
	b.timestamps()
	return b.done()
}

func mapAttendance(d legacy.Document) (legacy.Row, error) {
	b := newRow(d)
	b.ref("employee_id", "employee", true)
	b.requiredDate("date", "date")
	b.required("type", "type")
	b.boolean("justified", "justified", false)
	b.boolean("lost_presentismo", "lostPresentismo", false)
	b.str("comments", "comments")
	b.optStr("justification_document", "justificationDocument")
	b.optStr("scheduled_entry", "scheduledEntry")
	b.optStr("actual_entry", "actualEntry")
	b.integer("late_minutes", "lateMinutes", true)
	b.date("certificate_expiry", "certificateExpiry")
	b.date("vacations_start", "vacationsStart")
	b.date("vacations_end", "vacationsEnd")
	b.integer("suspension_days", "suspensionDays", false)
	b.date("return_to_work_date", "returnToWorkDate")
	b.timestamps()
	return b.done()
}

func mapDisciplinary(d legacy.Document) (legacy.Row, error) {
	b := newRow(d)
	b.ref("employee_id", "employee", true)
	b.requiredDate("date", "date")
	b.optStr("time", "time")
	b.required("type", "type")
	b.str("description", "description")
	b.optStr("document", "document")
	b.boolean("signed", "signed", false)
	b.date("signed_date", "signedDate")
	b.integer("duration_days", "durationDays", false)
	b.date("return_to_work_date", "returnToWorkDate")
	b.timestamps()
	return b.done()
}

func mapAccount(d legacy.Document) (legacy.Row, error) {
	b := newRow(d)
	b.ref("employee_id", "employee", true)
	b.decimal("balance", "balance", true)
	b.decimal("weekly_deduction_amount", "weeklyDeductionAmount", true)
	b.timestamps()
	return b.done()
}

func mapAccountTransaction(d legacy.Document) (legacy.Row, error) {
	b := newRow(d)
	b.ref("account_id", "account", true)
	b.ref("employee_id", "employee", true)
	b.required("type", "type")
	b.decimal("amount", "amount", false)
	b.str("description", "description")
	b.requiredDate("date", "date")
	b.decimal("balance_after", "balanceAfter", true)
	b.timestamp("created_at", "createdAt")
	return b.done()
}

func mapEvent(d legacy.Document) (legacy.Row, error) {
	b := newRow(d)
	b.ref("employee_id", "employee", true)
	b.required("type", "type")
	b.str("message", "message")

	changes := []byte("[]")
	if raw, ok := d["changes"]; ok && raw != nil {
		encoded, err := json.Marshal(raw)
		if err != nil {
			b.fail("changes", err)
		} else {
			changes = encoded
		}
	}
	b.set("changes", string(changes))
	b.timestamp("created_at", "createdAt")
	return b.done()
}

func mapPayrollReceipt(d legacy.Document) (legacy.Row, error) {
	b := newRow(d)
	b.ref("employee_id", "employee", true)
	b.required("period", "period")
	b.date("payment_date", "paymentDate")
	b.boolean("signed", "signed", false)
	b.date("signed_date", "signedDate")
	b.boolean("has_presentismo", "hasPresentismo", true)
	b.decimal("extra_hours", "extraHours", true)
	b.decimal("other_additions", "otherAdditions", true)
	b.decimal("discounts", "discounts", true)
	b.boolean("advance_requested", "advanceRequested", false)
	b.date("advance_date", "advanceDate")
	b.decimal("advance_amount", "advanceAmount", true)
	b.decimal("net_amount", "netAmount", false)
	b.str("notes", "notes")
	b.timestamps()
	return b.done()
}

func mapRecipient(d legacy.Document) (legacy.Row, error) {
	b := newRow(d)
	b.str("name", "name")
	b.str("role_label", "roleLabel")
	b.required("phone", "phone")
	b.boolean("active", "active", true)
	b.ref("created_by", "createdBy", false)
	b.timestamps()
	return b.done()
}

func objectID(v interface{}) (string, error) {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case string:
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return "", fmt.Errorf("invalid object id %q", id)
		}
		return oid.Hex(), nil
	case nil:
		return "", errMissingID
	default:
		return "", fmt.Errorf("unsupported id type %T", v)
	}
}

func stringValue(v interface{}) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

func firstString(d legacy.Document, fields ...string) string {
	for _, f := range fields {
		if s := stringValue(d[f]); s != "" {
			return s
		}
	}
	return ""
}

func timeValue(v interface{}) (time.Time, bool, error) {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time(), true, nil
	case time.Time:
		return t, true, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return time.Time{}, false, nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
				return parsed, true, nil
			}
		}
		return time.Time{}, false, fmt.Errorf("invalid date %q", t)
	case nil:
		return time.Time{}, false, nil
	default:
		return time.Time{}, false, fmt.Errorf("unsupported date type %T", v)
	}
}

func decimalValue(v interface{}) (decimal.Decimal, bool, error) {
	switch n := v.(type) {
	case int32:
		return decimal.NewFromInt32(n), true, nil
	case int64:
		return decimal.NewFromInt(n), true, nil
	case int:
		return decimal.NewFromInt(int64(n)), true, nil
	case float64:
		return decimal.NewFromFloat(n), true, nil
	case primitive.Decimal128:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil, err
	case string:
		if strings.TrimSpace(n) == "" {
			return decimal.Zero, false, nil
		}
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("invalid number %q", n)
		}
		return d, true, nil
	case nil:
		return decimal.Zero, false, nil
	default:
		return decimal.Zero, false, fmt.Errorf("unsupported number type %T: %s", v, strconv.Quote(fmt.Sprint(v)))
	}
}
