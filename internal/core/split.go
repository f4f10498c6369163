package core

// PercentSuffix is appended to every formatted percent share.
const PercentSuffix = " %"

type (
	// DerivedAmount is a computed, already formatted value for one contributor.
	DerivedAmount struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}

	// Summary is everything derived from a Ledger. PercentShares and ToPay
	// are positionally aligned with the contributions they were computed from.
	Summary struct {
		TotalContribution string          `json:"totalContribution"`
		TotalExpense      string          `json:"totalExpense"`
		PercentShares     []DerivedAmount `json:"percentShares"`
		ToPay             []DerivedAmount `json:"toPay"`
	}
)

// Total sums the parsed values of list and formats the result. Unparseable
// values count as 0; an empty list totals "0.00".
func Total(list ItemList) string {
	var sum float64
	for _, it := range list {
		sum += ParseAmount(it.Value)
	}
	return FormatFixed2(sum)
}

// share returns the percentage of total represented by value. A total that
// is zero or negative yields 0 for everyone.
func share(value, total float64) float64 {
	if total > 0 {
		return float64(value/total) * 100
	}
	return 0
}

// PercentShares returns each contribution's share of totalContribution, in
// contribution order. totalContribution is the formatted total, so shares
// are computed against the rounded figure the user sees.
func PercentShares(contributions ItemList, totalContribution string) []DerivedAmount {
	total := ParseAmount(totalContribution)
	out := make([]DerivedAmount, len(contributions))
	for i, it := range contributions {
		percent := share(ParseAmount(it.Value), total)
		out[i] = DerivedAmount{Label: it.Label, Value: FormatFixed2(percent) + PercentSuffix}
	}
	return out
}

// ToPay splits totalExpense across contributors in proportion to their
// share of totalContribution. When totalContribution is not positive every
// contributor owes "0.00", whatever the expenses.
func ToPay(contributions ItemList, totalContribution, totalExpense string) []DerivedAmount {
	total := ParseAmount(totalContribution)
	expense := ParseAmount(totalExpense)
	out := make([]DerivedAmount, len(contributions))
	for i, it := range contributions {
		percent := share(ParseAmount(it.Value), total)
		pay := float64(expense*percent) / 100
		out[i] = DerivedAmount{Label: it.Label, Value: FormatFixed2(pay)}
	}
	return out
}

// Calculate derives a full Summary from lg without modifying it.
func Calculate(lg Ledger) Summary {
	tc := Total(lg.Contributions)
	te := Total(lg.Expenses)
	return Summary{
		TotalContribution: tc,
		TotalExpense:      te,
		PercentShares:     PercentShares(lg.Contributions, tc),
		ToPay:             ToPay(lg.Contributions, tc, te),
	}
}

// Calculator keeps the most recent Summary it produced.
type Calculator struct {
	last     Summary
	computed bool
}

// Recompute derives a fresh Summary from lg and remembers it.
func (c *Calculator) Recompute(lg Ledger) Summary {
	c.last = Calculate(lg)
	c.computed = true
	return c.last
}

// Last returns the Summary from the latest Recompute. ok is false if
// Recompute has never run; the zero Summary then still reports "0.00" totals.
func (c *Calculator) Last() (s Summary, ok bool) {
	if !c.computed {
		return Summary{TotalContribution: "0.00", TotalExpense: "0.00", PercentShares: []DerivedAmount{}, ToPay: []DerivedAmount{}}, false
	}
	return c.last, true
}
