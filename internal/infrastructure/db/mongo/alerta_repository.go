package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

const alertasCollection = "alertas"

type AlertaRepository struct {
	coll *mongo.Collection
}

func NewAlertaRepository(db *mongo.Database) *AlertaRepository {
	return &AlertaRepository{coll: db.Collection(alertasCollection)}
}

func setAlertaID(a *domain.Alerta, id string) { a.ID = id }

func (r *AlertaRepository) FindByID(ctx context.Context, id string) (*domain.Alerta, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return findOne(ctx, r.coll, bson.M{"_id": objID}, domain.ErrAlertaNotFound, setAlertaID)
}

func (r *AlertaRepository) List(ctx context.Context, filter domain.AlertaFilter) ([]domain.Alerta, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.NNAID != "" {
		query["nna_id"] = filter.NNAID
	}
	if filter.Tipo != "" {
		query["tipo"] = filter.Tipo
	}
	if filter.Prioridad != "" {
		query["prioridad"] = filter.Prioridad
	}
	if filter.Estado != "" {
		query["estado"] = filter.Estado
	}
	if filter.AsignadoA != "" {
		query["asignado_a"] = filter.AsignadoA
	}
	if filter.SoloActivas {
		query["estado"] = bson.M{"$in": domain.EstadosAbiertos}
	}
	if filter.Vencidas {
		query["estado"] = bson.M{"$in": domain.EstadosAbiertos}
		query["fecha_vencimiento"] = bson.M{"$lt": domain.FormatDate(time.Now().UTC())}
	}
	if filter.TecnicoID != "" {
		query["$or"] = []bson.M{
			{"asignado_a": filter.TecnicoID},
			{"creado_por": filter.TecnicoID},
			{"asignado_a": ""},
			{"asignado_a": bson.M{"$exists": false}},
		}
	}

	opts := pageOpts(filter.Skip, filter.Limit, bson.D{{Key: "creado_en", Value: -1}})
	return findDocs(ctx, r.coll, query, opts, setAlertaID)
}

// MisAlertas returns the open alerts a user owns or that remain
// unassigned, most urgent due date first.
func (r *AlertaRepository) MisAlertas(ctx context.Context, userID string, limit int64) ([]domain.Alerta, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{
		"estado": bson.M{"$in": domain.EstadosAbiertos},
		"$or": []bson.M{
			{"asignado_a": userID},
			{"usuario_id": userID},
			{"asignado_a": ""},
			{"asignado_a": bson.M{"$exists": false}},
		},
	}

	opts := pageOpts(0, limit, bson.D{{Key: "fecha_vencimiento", Value: 1}, {Key: "prioridad", Value: -1}})
	return findDocs(ctx, r.coll, query, opts, setAlertaID)
}

// Create inserts an alert. When the partial unique index rejects a second
// open alert for the same (entidad_tipo, entidad_id, tipo), the caller
// gets domain.ErrAlertaExists.
func (r *AlertaRepository) Create(ctx context.Context, alerta *domain.Alerta) (*domain.Alerta, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, alerta)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlertaExists
		}
		return nil, fmt.Errorf("insert alerta: %w", err)
	}

	created := *alerta
	created.ID = insertedID(res)
	return &created, nil
}

func (r *AlertaRepository) Update(ctx context.Context, id string, update ports.AlertaUpdate) (*domain.Alerta, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"actualizado_en": time.Now().UTC()}
	setField(set, "titulo", update.Titulo)
	setField(set, "mensaje", update.Mensaje)
	setField(set, "prioridad", update.Prioridad)
	setField(set, "fecha_vencimiento", update.FechaVencimiento)
	setField(set, "fecha_recordatorio", update.FechaRecordatorio)
	setField(set, "estado", update.Estado)
	setField(set, "asignado_a", update.AsignadoA)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d document[domain.Alerta]
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAlertaNotFound
		}
		return nil, err
	}
	d.Body.ID = d.ID.Hex()
	return &d.Body, nil
}

func (r *AlertaRepository) Delete(ctx context.Context, id string) error {
	objID, err := oid(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrAlertaNotFound
	}
	return nil
}

func (r *AlertaRepository) Resolver(ctx context.Context, id, userID, comentario string) error {
	objID, err := oid(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"estado":                domain.AlertaResuelta,
		"resuelta_en":           now,
		"resuelta_por":          userID,
		"comentario_resolucion": comentario,
		"actualizado_en":        now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrAlertaNotFound
	}
	return nil
}

func (r *AlertaRepository) Asignar(ctx context.Context, id, usuarioID string) error {
	objID, err := oid(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"asignado_a":     usuarioID,
		"estado":         domain.AlertaEnProceso,
		"actualizado_en": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrAlertaNotFound
	}
	return nil
}

func (r *AlertaRepository) Stats(ctx context.Context, hoy string) (*domain.AlertaStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	abiertas := bson.M{"estado": bson.M{"$in": domain.EstadosAbiertos}}

	porTipo, err := groupCounts(ctx, r.coll, abiertas, "tipo")
	if err != nil {
		return nil, err
	}
	porPrioridad, err := groupCounts(ctx, r.coll, abiertas, "prioridad")
	if err != nil {
		return nil, err
	}
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	activas, err := r.coll.CountDocuments(ctx, bson.M{"estado": domain.AlertaActiva})
	if err != nil {
		return nil, err
	}
	vencidas, err := r.coll.CountDocuments(ctx, bson.M{
		"estado":            bson.M{"$in": domain.EstadosAbiertos},
		"fecha_vencimiento": bson.M{"$lt": hoy, "$ne": ""},
	})
	if err != nil {
		return nil, err
	}

	return &domain.AlertaStats{
		Total:        total,
		Activas:      activas,
		Criticas:     porPrioridad[domain.PrioridadCritica],
		Vencidas:     vencidas,
		PorTipo:      porTipo,
		PorPrioridad: porPrioridad,
	}, nil
}

// FindAbierta looks up an open alert for the given subject key and
// category; the dedupe check of the alert generator.
func (r *AlertaRepository) FindAbierta(ctx context.Context, entidadTipo, entidadID, tipo string) (*domain.Alerta, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{
		"entidad_tipo": entidadTipo,
		"entidad_id":   entidadID,
		"tipo":         tipo,
		"estado":       bson.M{"$in": domain.EstadosAbiertos},
	}
	return findOne(ctx, r.coll, query, domain.ErrAlertaNotFound, setAlertaID)
}

// alertaDedupeFilter scopes the unique index to open, subject-linked
// alerts. Manual alerts carry no subject entity and both entity fields
// are omitted from their documents; without the $exists guard Mongo
// would index those absences as null and reject the second subjectless
// alert of the same category.
func alertaDedupeFilter() bson.M {
	return bson.M{
		"estado":       bson.M{"$in": domain.EstadosAbiertos},
		"entidad_tipo": bson.M{"$exists": true},
		"entidad_id":   bson.M{"$exists": true},
	}
}

// EnsureIndexes creates the lookup indexes plus the partial unique index
// that makes open-alert deduplication atomic: a concurrent second insert
// for the same subject and category fails with a duplicate-key error
// instead of producing a duplicate.
func (r *AlertaRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "entidad_tipo", Value: 1},
				{Key: "entidad_id", Value: 1},
				{Key: "tipo", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(alertaDedupeFilter()),
		},
		{Keys: bson.D{{Key: "estado", Value: 1}, {Key: "fecha_vencimiento", Value: 1}}},
		{Keys: bson.D{{Key: "asignado_a", Value: 1}}},
		{Keys: bson.D{{Key: "nna_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
