// Package report builds ad-hoc report queries and computes the derived
// aggregations behind the dashboard.
package report

import (
	"maktaba/internal/models"
	"maktaba/internal/storage"
)

// BuildQuery composes a report filter into a backend query. Every set field
// becomes one AND-ed clause; unset fields impose nothing, so the zero filter
// matches every record. Results always sort by updated_at descending.
func BuildQuery(f models.ReportFilter) storage.Query {
	q := storage.Query{Sort: storage.Sort{Column: "updated_at", Descending: true}}
	if f.BookTitle != "" {
		q = q.Where("title", storage.OpILike, f.BookTitle)
	}
	if f.ReaderName != "" {
		q = q.Where("reader_name", storage.OpILike, f.ReaderName)
	}
	if f.Status != "" {
		q = q.Where("status", storage.OpEq, string(f.Status))
	}
	if f.Level != "" {
		q = q.Where("level", storage.OpEq, f.Level)
	}
	if f.StartDate != nil {
		q = q.Where("created_at", storage.OpGte, *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("created_at", storage.OpLte, *f.EndDate)
	}
	return q
}
