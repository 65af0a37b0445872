package mirror

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Obed704/church-portal/internal/model"
)

func TestEventToMap(t *testing.T) {
	kigali := time.FixedZone("CAT", 2*60*60)
	loc := "Main hall"
	e := model.Event{
		ID:       12,
		Title:    "Prayer Night",
		StartsAt: time.Date(2026, 7, 3, 19, 0, 0, 0, kigali),
		EndsAt:   time.Date(2026, 7, 3, 21, 0, 0, 0, kigali),
		Location: &loc,
	}

	m := eventToMap(e, "batch-1")
	assert.Equal(t, "12", docID(e))
	assert.Equal(t, "Prayer Night", m["title"])
	assert.Equal(t, "Main hall", m["location"])
	assert.Equal(t, "batch-1", m["batch_id"])
	assert.Equal(t, time.Date(2026, 7, 3, 17, 0, 0, 0, time.UTC), m["starts_at"])
	assert.NotContains(t, m, "recurrence")
}

func TestSyncAsyncNilMirror(t *testing.T) {
	var m *Mirror
	assert.NotPanics(t, m.SyncAsync)
}
