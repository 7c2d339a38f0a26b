package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

const auditCollection = "jugada_events"

// AuditRepository appends jugada lifecycle events to an append-only
// collection. It is an event sink; nothing in the request path reads it.
type AuditRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection), now: time.Now}
}

type auditDoc struct {
	Type        string    `bson:"type"`
	JugadaID    string    `bson:"jugada_id"`
	BancaID     string    `bson:"banca_id"`
	VendedorID  string    `bson:"vendedor_id"`
	SorteoID    string    `bson:"sorteo_id"`
	ActorID     string    `bson:"actor_id,omitempty"`
	OccurredAt  time.Time `bson:"occurred_at"`
	ProcessedAt time.Time `bson:"processed_at"`
}

func (r *AuditRepository) Name() string { return "mongo_audit" }

func (r *AuditRepository) Handle(ctx context.Context, ev domain.JugadaEvent) error {
	if _, err := r.coll.InsertOne(ctx, toAuditDoc(ev, r.now())); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// History returns the events recorded for one jugada, oldest first.
func (r *AuditRepository) History(ctx context.Context, jugadaID string) ([]domain.JugadaEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"jugada_id": jugadaID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []auditDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}
	out := make([]domain.JugadaEvent, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

// EnsureIndexes creates the lookup indexes. Safe to call on every start.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "jugada_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
		{Keys: bson.D{{Key: "banca_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

func toAuditDoc(ev domain.JugadaEvent, processedAt time.Time) auditDoc {
	return auditDoc{
		Type:        string(ev.Type),
		JugadaID:    ev.JugadaID,
		BancaID:     ev.BancaID,
		VendedorID:  ev.VendedorID,
		SorteoID:    ev.SorteoID,
		ActorID:     ev.ActorID,
		OccurredAt:  ev.OccurredAt.UTC(),
		ProcessedAt: processedAt.UTC(),
	}
}

func (d auditDoc) toDomain() domain.JugadaEvent {
	return domain.JugadaEvent{
		Type:       domain.JugadaEventType(d.Type),
		JugadaID:   d.JugadaID,
		BancaID:    d.BancaID,
		VendedorID: d.VendedorID,
		SorteoID:   d.SorteoID,
		ActorID:    d.ActorID,
		OccurredAt: d.OccurredAt,
	}
}
