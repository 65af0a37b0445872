package db

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/model"
)

var reactionTargets = map[string]string{
	model.TargetEvent:     "events",
	model.TargetStudy:     "studies",
	model.TargetPreaching: "preachings",
	model.TargetVideo:     "videos",
}

// SetReaction is idempotent.
func (s *pgStore) SetReaction(userID int, targetType string, targetID int, kind string) error {
	_, err := s.db.Exec(`
	INSERT INTO reactions (user_id, target_type, target_id, kind, created_at)
	VALUES ($1, $2, $3, $4, now())
	ON CONFLICT DO NOTHING;`, userID, targetType, targetID, kind)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Str("target_type", targetType).Msg("SetReaction failed")
	}
	return err
}

// DeleteReaction is idempotent.
func (s *pgStore) DeleteReaction(userID int, targetType string, targetID int, kind string) error {
	_, err := s.db.Exec(`
	DELETE FROM reactions WHERE user_id = $1 AND target_type = $2 AND target_id = $3 AND kind = $4;`,
		userID, targetType, targetID, kind)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Str("target_type", targetType).Msg("DeleteReaction failed")
	}
	return err
}

func (s *pgStore) ListReactions(userID int, targetType, kind string) ([]model.Reaction, error) {
	var w where
	w.add("user_id = ?", userID)
	if targetType != "" {
		w.add("target_type = ?", targetType)
	}
	if kind != "" {
		w.add("kind = ?", kind)
	}
	out := []model.Reaction{}
	if err := s.db.Select(&out, `
	SELECT user_id, target_type, target_id, kind, created_at FROM reactions`+w.String()+` ORDER BY created_at DESC;`, w.args...); err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("ListReactions failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) CountReactions(targetType string, targetID int) ([]model.ReactionCount, error) {
	out := []model.ReactionCount{}
	err := s.db.Select(&out, `
	SELECT kind, count(*) AS count
	  FROM reactions
	 WHERE target_type = $1 AND target_id = $2
	 GROUP BY kind
	 ORDER BY kind;`, targetType, targetID)
	return out, err
}

func (s *pgStore) TargetExists(targetType string, targetID int) (bool, error) {
	table, ok := reactionTargets[targetType]
	if !ok {
		return false, fmt.Errorf("unknown target type %q", targetType)
	}
	var exists bool
	err := s.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1);`, targetID)
	return exists, err
}
