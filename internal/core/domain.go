package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

const (
	Contribution FinanceType = "contribution"
	Expense      FinanceType = "expense"
)

type (
	// FinanceType selects one of the two lists of a Ledger.
	FinanceType string

	// FinanceItem is a labeled amount as entered by the user. Value is free
	// text and is only interpreted by ParseAmount.
	FinanceItem struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}

	// ItemList is an ordered list of items. Order is display order and
	// determines positional alignment with derived lists.
	ItemList []FinanceItem

	// Ledger holds the contributions (incomes) and expenses of one session.
	Ledger struct {
		Contributions ItemList `json:"contributions"`
		Expenses      ItemList `json:"expenses"`
	}
)

var ErrUnknownKind = errors.New("unknown finance type")

// ParseFinanceType maps user-facing names, singular or plural, to a FinanceType.
// "income" and "incomes" are accepted as synonyms of contribution.
func ParseFinanceType(s string) (FinanceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contribution", "contributions", "income", "incomes":
		return Contribution, nil
	case "expense", "expenses":
		return Expense, nil
	}
	return "", ErrUnknownKind
}

// UnmarshalJSON accepts value either as a string or as a bare JSON number,
// keeping the number's literal text.
func (it *FinanceItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Label string          `json:"label"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	it.Label = raw.Label
	it.Value = ""
	v := bytes.TrimSpace(raw.Value)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil
	}
	if v[0] == '"' {
		return json.Unmarshal(v, &it.Value)
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return err
	}
	it.Value = n.String()
	return nil
}

// Add appends an item. Nothing is validated.
func (l *ItemList) Add(label, value string) {
	*l = append(*l, FinanceItem{Label: label, Value: value})
}

// EditLabel replaces the label at index, keeping the value. Out of range
// indexes are ignored: a caller may hold an index made stale by a delete.
func (l *ItemList) EditLabel(index int, label string) {
	if index < 0 || index >= len(*l) {
		return
	}
	(*l)[index].Label = label
}

// DeleteAt removes the item at index and shifts the rest left. Out of range
// indexes are ignored.
func (l *ItemList) DeleteAt(index int) {
	if index < 0 || index >= len(*l) {
		return
	}
	*l = append((*l)[:index], (*l)[index+1:]...)
}

// Len returns the number of items.
func (l ItemList) Len() int {
	return len(l)
}

// Clone returns a copy that shares no storage with l. The copy of an empty
// list is an empty, non-nil list so it encodes as [] rather than null.
func (l ItemList) Clone() ItemList {
	out := make(ItemList, len(l))
	copy(out, l)
	return out
}

// List returns a pointer to the list selected by kind, or nil for an unknown kind.
func (lg *Ledger) List(kind FinanceType) *ItemList {
	switch kind {
	case Contribution:
		return &lg.Contributions
	case Expense:
		return &lg.Expenses
	}
	return nil
}

func (lg *Ledger) Add(kind FinanceType, label, value string) {
	if l := lg.List(kind); l != nil {
		l.Add(label, value)
	}
}

func (lg *Ledger) EditLabel(kind FinanceType, index int, label string) {
	if l := lg.List(kind); l != nil {
		l.EditLabel(index, label)
	}
}

func (lg *Ledger) DeleteAt(kind FinanceType, index int) {
	if l := lg.List(kind); l != nil {
		l.DeleteAt(index)
	}
}

// Clone deep-copies both lists.
func (lg Ledger) Clone() Ledger {
	return Ledger{
		Contributions: lg.Contributions.Clone(),
		Expenses:      lg.Expenses.Clone(),
	}
}

// ExampleLedger returns the sample data shown to first-time users when
// seeding is enabled.
func ExampleLedger() Ledger {
	return Ledger{
		Contributions: ItemList{
			{Label: "Person 1", Value: "100"},
			{Label: "Person 2", Value: "120"},
		},
		Expenses: ItemList{
			{Label: "Expense 1", Value: "30"},
			{Label: "Expense 2", Value: "290"},
			{Label: "Expense 3", Value: "-20"},
		},
	}
}
