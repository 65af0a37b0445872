// Package mirror publishes upcoming events to a Firestore collection read by
// the public events feed.
package mirror

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"

	"github.com/Obed704/church-portal/internal/model"
)

const (
	batchSize     = 250 // Firestore allows 500 writes per batch
	upcomingLimit = 500
)

type EventLister interface {
	ListUpcomingEvents(now time.Time, limit int) ([]model.Event, error)
}

// Mirror replaces the collection with the current upcoming events.
type Mirror struct {
	client     *firestore.Client
	collection string
	events     EventLister
}

func New(ctx context.Context, projectID, collection string, events EventLister) (*Mirror, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &Mirror{client: client, collection: collection, events: events}, nil
}

func (m *Mirror) Close() error {
	return m.client.Close()
}

// Sync loads upcoming events and writes them in place of the previous set.
func (m *Mirror) Sync(ctx context.Context) error {
	events, err := m.events.ListUpcomingEvents(time.Now(), upcomingLimit)
	if err != nil {
		return fmt.Errorf("listing upcoming events: %w", err)
	}
	batchID := uuid.NewString()
	if err := m.replaceAll(ctx, events, batchID); err != nil {
		return err
	}
	log.Info().Int("events", len(events)).Str("batch_id", batchID).Msg("Events mirrored to Firestore")
	return nil
}

// SyncAsync runs Sync in the background; failures are only logged.
func (m *Mirror) SyncAsync() {
	if m == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := m.Sync(ctx); err != nil {
			log.Error().Err(err).Msg("Firestore mirror sync failed")
		}
	}()
}

func (m *Mirror) replaceAll(ctx context.Context, events []model.Event, batchID string) error {
	coll := m.client.Collection(m.collection)

	if err := m.deleteAll(ctx); err != nil {
		return fmt.Errorf("deleting existing events: %w", err)
	}

	for i := 0; i < len(events); i += batchSize {
		end := i + batchSize
		if end > len(events) {
			end = len(events)
		}
		batch := m.client.Batch()
		for _, e := range events[i:end] {
			batch.Set(coll.Doc(docID(e)), eventToMap(e, batchID))
		}
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("committing batch: %w", err)
		}
	}
	return nil
}

func (m *Mirror) deleteAll(ctx context.Context) error {
	coll := m.client.Collection(m.collection)
	for {
		iter := coll.Limit(batchSize).Documents(ctx)
		batch := m.client.Batch()
		numDeleted := 0

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("iterating documents: %w", err)
			}
			batch.Delete(doc.Ref)
			numDeleted++
		}

		if numDeleted == 0 {
			return nil
		}
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("committing delete batch: %w", err)
		}
		if numDeleted < batchSize {
			return nil
		}
	}
}

func docID(e model.Event) string {
	return strconv.Itoa(e.ID)
}

func eventToMap(e model.Event, batchID string) map[string]interface{} {
	m := map[string]interface{}{
		"id":          e.ID,
		"title":       e.Title,
		"description": e.Description,
		"starts_at":   e.StartsAt.UTC(),
		"ends_at":     e.EndsAt.UTC(),
		"batch_id":    batchID,
	}
	if e.Location != nil {
		m["location"] = *e.Location
	}
	if e.Recurrence != nil {
		m["recurrence"] = *e.Recurrence
	}
	return m
}
