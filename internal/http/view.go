package http

import (
	"bytes"
	"fmt"
	"html/template"

	"splitter/internal/core"
	"splitter/internal/i18n"
	appweb "splitter/web"
)

// Template names defined in web/templates.
const (
	tmplIndex   = "index"
	tmplLedger  = "ledger"
	tmplSummary = "summary"
)

type (
	itemRow struct {
		Index   int
		LabelID string
		Label   string
		Value   string
	}

	listView struct {
		L             i18n.Localizer
		Title         string
		Segment       string
		AddID         string
		ConfirmDelete string
		Items         []itemRow
	}

	ledgerView struct {
		Contributions listView
		Expenses      listView
	}

	pageView struct {
		L       i18n.Localizer
		Ledger  ledgerView
		Summary summaryView
	}

	summaryRow struct {
		Label        string
		PercentShare string
		ToPay        string
	}

	summaryView struct {
		L                 i18n.Localizer
		TotalContribution string
		TotalExpense      string
		Rows              []summaryRow
	}
)

func parseTemplates() (*template.Template, error) {
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// newLedgerView gives every input a DOM id from a generator owned by this
// render, so ids are stable within one page.
func newLedgerView(lg core.Ledger, loc i18n.Localizer) ledgerView {
	var ids core.IDGenerator
	return ledgerView{
		Contributions: newListView(core.Contribution, lg.Contributions, &ids, loc),
		Expenses:      newListView(core.Expense, lg.Expenses, &ids, loc),
	}
}

func newListView(kind core.FinanceType, list core.ItemList, ids *core.IDGenerator, loc i18n.Localizer) listView {
	v := listView{
		L:             loc,
		Title:         loc.T("Contributions"),
		Segment:       pathSegment(kind),
		ConfirmDelete: loc.T("Are you sure you want to delete this contribution?"),
		Items:         make([]itemRow, 0, len(list)),
	}
	if kind == core.Expense {
		v.Title = loc.T("Expenses")
		v.ConfirmDelete = loc.T("Are you sure you want to delete this expense?")
	}
	for i, it := range list {
		v.Items = append(v.Items, itemRow{
			Index:   i,
			LabelID: ids.Next(string(kind) + "-label"),
			Label:   it.Label,
			Value:   it.Value,
		})
	}
	v.AddID = ids.Next(string(kind) + "-new")
	return v
}

// newSummaryView zips shares and amounts owed, which are positionally aligned.
func newSummaryView(s core.Summary, loc i18n.Localizer) summaryView {
	v := summaryView{
		L:                 loc,
		TotalContribution: s.TotalContribution,
		TotalExpense:      s.TotalExpense,
		Rows:              make([]summaryRow, 0, len(s.PercentShares)),
	}
	for i, share := range s.PercentShares {
		row := summaryRow{Label: share.Label, PercentShare: share.Value}
		if i < len(s.ToPay) {
			row.ToPay = s.ToPay[i].Value
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

func (s *Server) render(name string, data any) ([]byte, error) {
	if s.templates == nil {
		return nil, fmt.Errorf("render %s: templates not loaded", name)
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
