package legacy

import "context"

// Collections lists the legacy collections in import order; parents come before children.
var Collections = []string{
	"users",
	"employees",
	"attendances",
	"disciplinaries",
	"employeeaccounts",
	"employeeaccounttransactions",
	"employeeevents",
	"payrollreceipts",
	"presentismorecipients",
}

type CollectionReport struct {
	SrcCount int64 `json:"srcCount"`
	Inserted int64 `json:"inserted"`
	Skipped  int64 `json:"skipped"`
	Failed   int64 `json:"failed"`
}

type Report map[string]CollectionReport

// Importer copies every legacy collection into the relational store. Reruns are safe.
type Importer interface {
	Import(ctx context.Context) (Report, error)
}
