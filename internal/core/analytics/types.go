package analytics

// CountQuery describes a filtered COUNT(*) grouped by one column.
type CountQuery struct {
	Table   string                 // table name
	GroupBy string                 // column to group on
	Filters map[string]interface{} // WHERE conditions
	Limit   int                    // LIMIT (0 = no limit)
}

// Bucket is one group of a breakdown. NULL group values are reported as
// UnknownLabel.
type Bucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

const UnknownLabel = "unknown"
