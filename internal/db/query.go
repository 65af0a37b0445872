package db

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ListQuery is the search/sort/page request shared by every list endpoint.
type ListQuery struct {
	Search  string
	Sort    string
	Desc    bool
	Page    int
	PerPage int
}

// Normalize clamps paging to sane bounds.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func (q ListQuery) Limit() int  { return q.Normalize().PerPage }
func (q ListQuery) Offset() int { n := q.Normalize(); return (n.Page - 1) * n.PerPage }

// orderBy resolves q.Sort against the allowed columns. Unknown fields use fallback.
func (q ListQuery) orderBy(allowed map[string]string, fallback string) string {
	col, ok := allowed[q.Sort]
	if !ok {
		return fallback
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id %s", col, dir, dir)
}

type PreachingFilter struct {
	Kind string
	From *time.Time
	To   *time.Time
}

type EventFilter struct {
	Upcoming bool
	Now      time.Time
}

// where accumulates AND-ed conditions written with ? placeholders.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.clauses = append(w.clauses, clause)
}

// search adds a case-insensitive match of term against any of cols.
func (w *where) search(term string, cols ...string) {
	if term == "" || len(cols) == 0 {
		return
	}
	w.args = append(w.args, "%"+term+"%")
	n := len(w.args)
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", c, n)
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the clause with the full args.
func (w *where) page(q ListQuery) (string, []any) {
	n := len(w.args)
	args := append(append([]any{}, w.args...), q.Limit(), q.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}

// Patches use nil for "leave unchanged"; the Clear flags set a nullable
// column to NULL and win over the matching pointer.

type PreachingPatch struct {
	Title       *string
	Preacher    *string
	Kind        *string
	PreachedOn  *time.Time
	Verses      *[]string
	Description *string
	AudioURL    *string
}

type StudyPatch struct {
	Title     *string
	Content   *string
	Verses    *[]string
	Questions *[]string
}

type BaptismClassPatch struct {
	Name     *string
	Teacher  *string
	Location *string
	StartsOn *time.Time
	EndsOn   *time.Time
	Capacity *int

	ClearLocation bool
}

type StudentPatch struct {
	FullName   *string
	Email      *string
	Phone      *string
	Status     *string
	Baptized   *bool
	BaptizedOn *time.Time

	ClearBaptizedOn bool
}

type DepartmentPatch struct {
	Name        *string
	Description *string
	Leader      *string
	Members     *[]string
	Plans       *[]string
	Actions     *[]string
}

type EventPatch struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Recurrence  *string

	ClearLocation   bool
	ClearRecurrence bool
}

type ChoirPatch struct {
	Name        *string
	Description *string
	Leader      *string
}

type VideoPatch struct {
	Title        *string
	Category     *string
	URL          *string
	ThumbnailURL *string
	PublishedAt  *time.Time
}

type ThemePatch struct {
	Title     *string
	Verse     *string
	WeekStart *time.Time
	Summary   *string
}
