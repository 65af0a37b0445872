package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestListQueryNormalize(t *testing.T) {
	q := ListQuery{Page: 0, PerPage: 500, Search: "  grace "}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxPerPage, q.PerPage)
	assert.Equal(t, "grace", q.Search)

	q = ListQuery{Page: 3, PerPage: 0}.Normalize()
	assert.Equal(t, DefaultPerPage, q.PerPage)
	assert.Equal(t, 40, ListQuery{Page: 3}.Offset())
	assert.Equal(t, 20, ListQuery{Page: 3}.Limit())
}

func TestListQueryOrderBy(t *testing.T) {
	allowed := map[string]string{"title": "title", "date": "preached_on"}

	assert.Equal(t, "preached_on DESC, id DESC", ListQuery{Sort: "date", Desc: true}.orderBy(allowed, "id"))
	assert.Equal(t, "title ASC, id ASC", ListQuery{Sort: "title"}.orderBy(allowed, "id"))
	// unknown columns never reach SQL
	assert.Equal(t, "id DESC", ListQuery{Sort: "title; DROP TABLE users"}.orderBy(allowed, "id DESC"))
}

func TestWhereBuilder(t *testing.T) {
	var w where
	assert.Equal(t, "", w.String())

	w.add("kind = ?", "daily")
	w.search("hope", "title", "description")
	w.add("preached_on BETWEEN ? AND ?", "2026-01-01", "2026-02-01")

	assert.Equal(t,
		" WHERE kind = $1 AND (title ILIKE $2 OR description ILIKE $2) AND preached_on BETWEEN $3 AND $4",
		w.String())
	assert.Equal(t, []any{"daily", "%hope%", "2026-01-01", "2026-02-01"}, w.args)

	clause, args := w.page(ListQuery{Page: 2, PerPage: 10})
	assert.Equal(t, " LIMIT $5 OFFSET $6", clause)
	assert.Equal(t, []any{"daily", "%hope%", "2026-01-01", "2026-02-01", 10, 10}, args)
	// page must not mutate the count args
	assert.Len(t, w.args, 4)
}

func TestWhereSearchIgnoresEmptyTerm(t *testing.T) {
	var w where
	w.search("", "title")
	assert.Equal(t, "", w.String())
	assert.Empty(t, w.args)
}

func TestEventWhereUpcomingUsesEndTimeOnly(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	w := eventWhere("vigil", EventFilter{Upcoming: true, Now: now})
	assert.Equal(t, " WHERE ends_at > $1 AND (title ILIKE $2 OR description ILIKE $2 OR location ILIKE $2)", w.String())
	assert.Equal(t, []any{now, "%vigil%"}, w.args)

	assert.Equal(t, "", eventWhere("", EventFilter{Now: now}).String())
}
