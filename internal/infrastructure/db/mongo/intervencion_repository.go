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

const intervencionesCollection = "intervenciones"

type IntervencionRepository struct {
	coll *mongo.Collection
}

func NewIntervencionRepository(db *mongo.Database) *IntervencionRepository {
	return &IntervencionRepository{coll: db.Collection(intervencionesCollection)}
}

func setIntervencionID(i *domain.Intervencion, id string) { i.ID = id }

func (r *IntervencionRepository) FindByID(ctx context.Context, id string) (*domain.Intervencion, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return findOne(ctx, r.coll, bson.M{"_id": objID}, domain.ErrIntervencionNotFound, setIntervencionID)
}

func (r *IntervencionRepository) List(ctx context.Context, filter domain.IntervencionFilter) ([]domain.Intervencion, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.NNAID != "" {
		query["nna_id"] = filter.NNAID
	}
	if filter.Tipo != "" {
		query["tipo"] = filter.Tipo
	}
	if filter.Estado != "" {
		query["estado"] = filter.Estado
	}
	if filter.Prioridad != "" {
		query["prioridad"] = filter.Prioridad
	}
	if filter.FechaDesde != "" || filter.FechaHasta != "" {
		rango := bson.M{}
		if filter.FechaDesde != "" {
			rango["$gte"] = filter.FechaDesde
		}
		if filter.FechaHasta != "" {
			rango["$lte"] = filter.FechaHasta
		}
		query["fecha"] = rango
	}

	opts := pageOpts(filter.Skip, filter.Limit, bson.D{{Key: "fecha", Value: -1}})
	return findDocs(ctx, r.coll, query, opts, setIntervencionID)
}

func (r *IntervencionRepository) Create(ctx context.Context, i *domain.Intervencion) (*domain.Intervencion, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, i)
	if err != nil {
		return nil, fmt.Errorf("insert intervencion: %w", err)
	}

	created := *i
	created.ID = insertedID(res)
	return &created, nil
}

func (r *IntervencionRepository) Update(ctx context.Context, id string, update ports.IntervencionUpdate) (*domain.Intervencion, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"actualizado_en": time.Now().UTC()}
	setField(set, "fecha", update.Fecha)
	setField(set, "tipo", update.Tipo)
	setField(set, "motivo", update.Motivo)
	setField(set, "descripcion", update.Descripcion)
	setField(set, "resultados", update.Resultados)
	setField(set, "derivacion", update.Derivacion)
	setField(set, "estado", update.Estado)
	setField(set, "prioridad", update.Prioridad)
	setField(set, "fecha_proximo_seguimiento", update.FechaProximoSeguimiento)
	if update.ActualizadoPor != "" {
		set["actualizado_por"] = update.ActualizadoPor
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d document[domain.Intervencion]
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIntervencionNotFound
		}
		return nil, err
	}
	d.Body.ID = d.ID.Hex()
	return &d.Body, nil
}

func (r *IntervencionRepository) Delete(ctx context.Context, id string) error {
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
		return domain.ErrIntervencionNotFound
	}
	return nil
}

// DeleteByNNA removes every intervention of a resident; used when the
// resident record itself is deleted.
func (r *IntervencionRepository) DeleteByNNA(ctx context.Context, nnaID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{"nna_id": nnaID})
	return err
}

func (r *IntervencionRepository) Stats(ctx context.Context) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	porEstado, err := groupCounts(ctx, r.coll, nil, "estado")
	if err != nil {
		return nil, err
	}
	porTipo, err := groupCounts(ctx, r.coll, nil, "tipo")
	if err != nil {
		return nil, err
	}
	porPrioridad, err := groupCounts(ctx, r.coll, nil, "prioridad")
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range porEstado {
		total += n
	}
	return map[string]any{
		"total":         total,
		"por_estado":    porEstado,
		"por_tipo":      porTipo,
		"por_prioridad": porPrioridad,
		"pendientes":    porEstado[domain.IntervencionPendiente],
		"completadas":   porEstado[domain.IntervencionCompletada],
	}, nil
}

// ConSeguimientoPendiente returns pending or in-progress interventions
// whose next follow-up date falls in [desde, hasta].
func (r *IntervencionRepository) ConSeguimientoPendiente(ctx context.Context, desde, hasta string) ([]domain.Intervencion, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{
		"estado":                    bson.M{"$in": []string{domain.IntervencionPendiente, domain.IntervencionEnProceso}},
		"fecha_proximo_seguimiento": bson.M{"$gte": desde, "$lte": hasta},
	}

	opts := options.Find().SetSort(bson.D{{Key: "fecha_proximo_seguimiento", Value: 1}})
	return findDocs(ctx, r.coll, query, opts, setIntervencionID)
}

func (r *IntervencionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "nna_id", Value: 1}, {Key: "fecha", Value: -1}}},
		{Keys: bson.D{{Key: "estado", Value: 1}, {Key: "fecha_proximo_seguimiento", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
