package transform

import (
	"time"

	"github.com/JonMunkholm/visitseed/internal/source"
	"github.com/JonMunkholm/visitseed/internal/store"
)

// ServiceTypes maps service-types.csv rows one to one onto documents keyed
// by code.
func ServiceTypes(t *source.Table, now time.Time) []store.Document {
	docs := make([]store.Document, 0, t.Len())
	for _, rec := range t.Records {
		code := rec.Get("code")
		requiresCert, _ := source.ParseBool(rec.Get("requires_physical_care_cert"))
		sortOrder, _ := source.ParseInt(rec.Get("sort_order"))

		docs = append(docs, NewBuilder().
			Set("code", code).
			Set("label", rec.Get("label")).
			Set("short_label", rec.Get("short_label")).
			Set("requires_physical_care_cert", requiresCert).
			Set("sort_order", sortOrder).
			Set("created_at", now).
			Set("updated_at", now).
			Doc(code))
	}
	return docs
}
