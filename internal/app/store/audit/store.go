// internal/app/store/audit/store.go
package audit

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by Get when no event has the id.
var ErrNotFound = errors.New("audit event not found")

// Event categories
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Auth event types
const (
	EventLoginSuccess = "login_success"
	EventLoginFailed  = "login_failed"
	EventLogout       = "logout"
	EventLocaleChange = "locale_changed"
)

// Admin event types
const (
	EventEntitySaved   = "entity_saved"
	EventEntityDeleted = "entity_deleted"
	EventRowsCommitted = "rows_committed"
	EventMenuRebuilt   = "menu_rebuilt"
)

// Event is one console action.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`

	// Event classification
	Category  string `bson:"category" json:"category"`
	EventType string `bson:"event_type" json:"eventType"`

	// Who
	ActorID string `bson:"actor_id,omitempty" json:"actorId,omitempty"`
	Actor   string `bson:"actor" json:"actor"`
	ActorCI string `bson:"actor_ci" json:"-"`

	// What
	Service  string `bson:"service,omitempty" json:"service,omitempty"`
	Entity   string `bson:"entity,omitempty" json:"entity,omitempty"`
	EntityID string `bson:"entity_id,omitempty" json:"entityId,omitempty"`
	Label    string `bson:"label,omitempty" json:"label,omitempty"`
	LabelCI  string `bson:"label_ci,omitempty" json:"-"`

	// Context
	IP        string `bson:"ip" json:"ip"`
	UserAgent string `bson:"user_agent,omitempty" json:"userAgent,omitempty"`

	// Outcome
	Success       bool   `bson:"success" json:"success"`
	FailureReason string `bson:"failure_reason,omitempty" json:"failureReason,omitempty"`

	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`
}

// sortFields maps grid properties to document fields.
var sortFields = map[string]string{
	"timestamp": "timestamp",
	"actor":     "actor_ci",
	"eventType": "event_type",
	"service":   "service",
	"entity":    "entity",
	"label":     "label_ci",
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Query by time range (most recent first)
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		// Prefix search by actor
		{Keys: bson.D{{Key: "actor_ci", Value: 1}, {Key: "timestamp", Value: -1}}},
		// Query by event type
		{Keys: bson.D{
			{Key: "category", Value: 1},
			{Key: "event_type", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
		// Failed events (the "show inactive" view)
		{Keys: bson.D{{Key: "success", Value: 1}, {Key: "timestamp", Value: -1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.ActorCI = text.Fold(event.Actor)
	event.LabelCI = text.Fold(event.Label)
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Get returns one event.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (Event, error) {
	var e Event
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Event{}, ErrNotFound
	}
	return e, err
}

// Find returns one window of events matching q.
func (s *Store) Find(ctx context.Context, q paging.Query) ([]Event, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(sortDoc(q.Sort)).
		SetSkip(int64(q.Offset)).
		SetLimit(int64(q.Limit))

	cursor, err := s.c.Find(ctx, filterDoc(q.Count()), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Count returns the number of events matching q.
func (s *Store) Count(ctx context.Context, q paging.CountQuery) (int64, error) {
	return s.c.CountDocuments(ctx, filterDoc(q))
}

// filterDoc translates the grid filter. The folded filter text is a prefix
// match on actor, label or event type. Failed events are the "inactive"
// rows; an explicit ShowInactive=false hides them.
func filterDoc(q paging.CountQuery) bson.M {
	filter := bson.M{}
	if q.ActiveOnly() {
		filter["success"] = true
	}
	if ft := text.Fold(q.Filter()); ft != "" {
		prefix := bson.M{"$regex": "^" + regexp.QuoteMeta(ft), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"actor_ci": prefix},
			bson.M{"label_ci": prefix},
			bson.M{"event_type": prefix},
		}
	}
	return filter
}

// sortDoc translates sort orders; unknown properties are skipped and the
// newest-first order is the default and final tie-break.
func sortDoc(orders []paging.SortOrder) bson.D {
	doc := bson.D{}
	seenTimestamp := false
	for _, o := range orders {
		field, ok := sortFields[o.Property]
		if !ok {
			continue
		}
		dir := 1
		if o.IsDescending() {
			dir = -1
		}
		doc = append(doc, bson.E{Key: field, Value: dir})
		if field == "timestamp" {
			seenTimestamp = true
		}
	}
	if !seenTimestamp {
		doc = append(doc, bson.E{Key: "timestamp", Value: -1})
	}
	return append(doc, bson.E{Key: "_id", Value: -1})
}
