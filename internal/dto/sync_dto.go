package dto

// CollectionOutcome is the per-collection tally of a bulk merge. A record is
// "skipped" both when it failed validation and when it matched the stored row
// exactly — either way nothing was written for it.
type CollectionOutcome struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

func (o *CollectionOutcome) add(other CollectionOutcome) {
	o.Inserted += other.Inserted
	o.Updated += other.Updated
	o.Skipped += other.Skipped
	o.Errors += other.Errors
}

// MergeResult summarizes one merge(snapshot) call.
type MergeResult struct {
	Products  CollectionOutcome `json:"products"`
	Sales     CollectionOutcome `json:"sales"`
	Customers CollectionOutcome `json:"customers"`
	Debts     CollectionOutcome `json:"debts"`
}

// Total aggregates all four collections.
func (r MergeResult) Total() CollectionOutcome {
	var t CollectionOutcome
	t.add(r.Products)
	t.add(r.Sales)
	t.add(r.Customers)
	t.add(r.Debts)
	return t
}
