package analytics

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Aggregator provides generic database aggregation helpers
type Aggregator struct {
	db *gorm.DB
}

// NewAggregator creates a new aggregator
func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Breakdown counts rows per distinct value of query.GroupBy, largest group
// first. Column and table names come from code, never from user input.
func (a *Aggregator) Breakdown(ctx context.Context, query CountQuery) ([]Bucket, error) {
	db := applyFilters(a.db.WithContext(ctx).Table(query.Table), query.Filters).
		Select(fmt.Sprintf("%s AS label, COUNT(*) AS total", query.GroupBy)).
		Group(query.GroupBy).
		Order("total DESC").
		Order("label")

	if query.Limit > 0 {
		db = db.Limit(query.Limit)
	}

	var rows []struct {
		Label *string
		Total int64
	}
	if err := db.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("breakdown query failed: %w", err)
	}

	// NULL and empty values share one bucket
	buckets := make([]Bucket, 0, len(rows))
	unknown := -1
	for _, row := range rows {
		label := UnknownLabel
		if row.Label != nil && *row.Label != "" {
			label = *row.Label
		}
		if label == UnknownLabel && unknown >= 0 {
			buckets[unknown].Count += row.Total
			continue
		}
		if label == UnknownLabel {
			unknown = len(buckets)
		}
		buckets = append(buckets, Bucket{Label: label, Count: row.Total})
	}

	return buckets, nil
}

// Count performs a simple COUNT query with filters
func (a *Aggregator) Count(ctx context.Context, table string, filters map[string]interface{}) (int64, error) {
	var count int64
	if err := applyFilters(a.db.WithContext(ctx).Table(table), filters).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return count, nil
}

func applyFilters(db *gorm.DB, filters map[string]interface{}) *gorm.DB {
	for condition, value := range filters {
		if strings.Contains(condition, "?") {
			// Parameterized condition (e.g., "created_at >= ?")
			db = db.Where(condition, value)
		} else {
			// Simple equality (e.g., {"company_id": uuid})
			db = db.Where(fmt.Sprintf("%s = ?", condition), value)
		}
	}
	return db
}
