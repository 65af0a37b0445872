package endpoints

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Obed704/church-portal/internal/ingest"
	"github.com/Obed704/church-portal/internal/model"
)

type staticCalendar []model.Event

func (c staticCalendar) Fetch(ctx context.Context) ([]model.Event, error) {
	return c, nil
}

// failingEvents accepts `limit` creates and then errors.
type failingEvents struct {
	created []model.Event
	limit   int
}

func (f *failingEvents) FindEvent(title string, startsAt time.Time) (model.Event, error) {
	return model.Event{}, sql.ErrNoRows
}

func (f *failingEvents) CreateEvent(e model.Event) (model.Event, error) {
	if len(f.created) >= f.limit {
		return model.Event{}, errors.New("connection reset")
	}
	e.ID = len(f.created) + 1
	f.created = append(f.created, e)
	return e, nil
}

func calendarFixture() staticCalendar {
	return staticCalendar{
		{Title: "Feast of Pentecost", StartsAt: eventStart, EndsAt: eventStart.Add(time.Hour)},
		{Title: "Parish picnic", StartsAt: eventStart.Add(24 * time.Hour), EndsAt: eventStart.Add(26 * time.Hour)},
	}
}

func TestIngestCreatesEvents(t *testing.T) {
	store := &failingEvents{limit: 10}
	sync := &countingSyncer{}
	r := newRouter(IngestModule(store, calendarFixture(), nil, sync))

	assert.Equal(t, http.StatusForbidden, do(t, r, http.MethodPost, "/api/admin/ingest", nil, memberID).Code)

	w := do(t, r, http.MethodPost, "/api/admin/ingest", nil, adminID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[ingest.Result](t, w)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, adminID, store.created[0].CreatedBy)
	assert.Equal(t, 1, sync.calls)
}

func TestIngestPartialFailureStillSyncs(t *testing.T) {
	store := &failingEvents{limit: 1}
	sync := &countingSyncer{}
	r := newRouter(IngestModule(store, calendarFixture(), nil, sync))

	w := do(t, r, http.MethodPost, "/api/admin/ingest", nil, adminID)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "1 events created")
	assert.Len(t, store.created, 1)
	assert.Equal(t, 1, sync.calls)
}

func TestIngestNotConfigured(t *testing.T) {
	r := newRouter(IngestModule(&failingEvents{}, nil, nil, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/api/admin/ingest", nil, adminID).Code)
}
