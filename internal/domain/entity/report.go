package entity

// GroupCount is a row of a GROUP BY aggregation
type GroupCount struct {
	Key   string
	Count int64
}

// NamedCount pairs a reference entity name with its referral count
type NamedCount struct {
	ID    int
	Name  string
	Count int64
}
