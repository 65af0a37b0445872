package db

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/model"
)

const themeColumns = `id, title, verse, week_start, summary, created_at, updated_at`

var themeSorts = map[string]string{
	"title": "title",
	"week":  "week_start",
}

func (s *pgStore) ListThemes(q ListQuery) ([]model.WeeklyTheme, int, error) {
	q = q.Normalize()
	var w where
	w.search(q.Search, "title", "verse", "summary")

	out := []model.WeeklyTheme{}
	total, err := s.list(&out, "ListThemes",
		`SELECT `+themeColumns+` FROM weekly_themes`,
		`SELECT count(*) FROM weekly_themes`,
		&w, q.orderBy(themeSorts, "week_start DESC, id DESC"), q)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *pgStore) loadPlans(t *model.WeeklyTheme) error {
	plans := []model.ThemePlan{}
	if err := s.db.Select(&plans, `
	SELECT id, theme_id, day, activity FROM theme_plans WHERE theme_id = $1 ORDER BY day, id;`, t.ID); err != nil {
		log.Error().Err(err).Int("theme_id", t.ID).Msg("failed to load theme plans")
		return err
	}
	t.Plans = plans
	return nil
}

func (s *pgStore) GetTheme(id int) (model.WeeklyTheme, error) {
	var t model.WeeklyTheme
	if err := s.db.Get(&t, `SELECT `+themeColumns+` FROM weekly_themes WHERE id = $1;`, id); err != nil {
		return t, err
	}
	return t, s.loadPlans(&t)
}

// GetThemeForDate returns the theme whose week contains day.
func (s *pgStore) GetThemeForDate(day time.Time) (model.WeeklyTheme, error) {
	var t model.WeeklyTheme
	if err := s.db.Get(&t, `
	SELECT `+themeColumns+`
	  FROM weekly_themes
	 WHERE week_start <= $1::date AND week_start + 7 > $1::date
	 LIMIT 1;`, day.Format("2006-01-02")); err != nil {
		return t, err
	}
	return t, s.loadPlans(&t)
}

func (s *pgStore) CreateTheme(t model.WeeklyTheme) (model.WeeklyTheme, error) {
	var out model.WeeklyTheme
	err := s.db.Get(&out, `
	INSERT INTO weekly_themes (title, verse, week_start, summary, created_at, updated_at)
	VALUES ($1, $2, $3, $4, now(), now())
	RETURNING `+themeColumns+`;`, t.Title, t.Verse, t.WeekStart, t.Summary)
	if err != nil {
		if isUniqueViolation(err) {
			return out, ErrDuplicate
		}
		log.Error().Err(err).Msg("CreateTheme failed")
		return out, err
	}
	if len(t.Plans) > 0 {
		plans, err := s.ReplaceThemePlans(out.ID, t.Plans)
		if err != nil {
			return out, err
		}
		out.Plans = plans
	}
	return out, nil
}

func (s *pgStore) UpdateTheme(id int, patch ThemePatch) (model.WeeklyTheme, error) {
	res, err := s.db.Exec(`
	UPDATE weekly_themes
	   SET title      = COALESCE($2, title),
	       verse      = COALESCE($3, verse),
	       week_start = COALESCE($4, week_start),
	       summary    = COALESCE($5, summary),
	       updated_at = now()
	 WHERE id = $1;`, id, patch.Title, patch.Verse, patch.WeekStart, patch.Summary)
	if err != nil {
		if isUniqueViolation(err) {
			return model.WeeklyTheme{}, ErrDuplicate
		}
		log.Error().Err(err).Int("theme_id", id).Msg("UpdateTheme failed")
		return model.WeeklyTheme{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.WeeklyTheme{}, sql.ErrNoRows
	}
	return s.GetTheme(id)
}

func (s *pgStore) DeleteTheme(id int) error {
	return s.execAffecting("DeleteTheme", `DELETE FROM weekly_themes WHERE id = $1;`, id)
}

// ReplaceThemePlans swaps the whole plan list in one transaction.
func (s *pgStore) ReplaceThemePlans(themeID int, plans []model.ThemePlan) ([]model.ThemePlan, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM theme_plans WHERE theme_id = $1;`, themeID); err != nil {
		return nil, err
	}
	out := make([]model.ThemePlan, 0, len(plans))
	for _, p := range plans {
		var saved model.ThemePlan
		if err := tx.Get(&saved, `
		INSERT INTO theme_plans (theme_id, day, activity)
		VALUES ($1, $2, $3)
		RETURNING id, theme_id, day, activity;`, themeID, p.Day, p.Activity); err != nil {
			log.Error().Err(err).Int("theme_id", themeID).Msg("ReplaceThemePlans insert failed")
			return nil, err
		}
		out = append(out, saved)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}
