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

const planificacionesCollection = "planificaciones"

type PlanificacionRepository struct {
	coll *mongo.Collection
}

func NewPlanificacionRepository(db *mongo.Database) *PlanificacionRepository {
	return &PlanificacionRepository{coll: db.Collection(planificacionesCollection)}
}

func setPlanificacionID(p *domain.Planificacion, id string) { p.ID = id }

func (r *PlanificacionRepository) FindByID(ctx context.Context, id string) (*domain.Planificacion, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return findOne(ctx, r.coll, bson.M{"_id": objID}, domain.ErrPlanificacionNotFound, setPlanificacionID)
}

func (r *PlanificacionRepository) List(ctx context.Context, filter domain.PlanificacionFilter) ([]domain.Planificacion, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.NNAID != "" {
		query["nna_id"] = filter.NNAID
	}
	if filter.Tipo != "" {
		query["tipo"] = filter.Tipo
	}
	if filter.Categoria != "" {
		query["categoria"] = filter.Categoria
	}
	if filter.Estado != "" {
		query["estado"] = filter.Estado
	}
	if filter.Anio != 0 {
		query["anio"] = filter.Anio
	}

	opts := pageOpts(filter.Skip, filter.Limit, bson.D{{Key: "fecha_inicio", Value: 1}})
	return findDocs(ctx, r.coll, query, opts, setPlanificacionID)
}

func (r *PlanificacionRepository) Create(ctx context.Context, p *domain.Planificacion) (*domain.Planificacion, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if p.Participantes == nil {
		p.Participantes = []string{}
	}
	if p.Evidencias == nil {
		p.Evidencias = []domain.Evidencia{}
	}
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("insert planificacion: %w", err)
	}

	created := *p
	created.ID = insertedID(res)
	return &created, nil
}

func (r *PlanificacionRepository) Update(ctx context.Context, id string, update ports.PlanificacionUpdate) (*domain.Planificacion, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"actualizado_en": time.Now().UTC()}
	setField(set, "titulo", update.Titulo)
	setField(set, "descripcion", update.Descripcion)
	setField(set, "tipo", update.Tipo)
	setField(set, "categoria", update.Categoria)
	setField(set, "anio", update.Anio)
	setField(set, "fecha_inicio", update.FechaInicio)
	setField(set, "fecha_termino", update.FechaTermino)
	setField(set, "responsable_id", update.ResponsableID)
	setField(set, "estado", update.Estado)
	setField(set, "observaciones", update.Observaciones)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d document[domain.Planificacion]
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPlanificacionNotFound
		}
		return nil, err
	}
	d.Body.ID = d.ID.Hex()
	return &d.Body, nil
}

func (r *PlanificacionRepository) Delete(ctx context.Context, id string) error {
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
		return domain.ErrPlanificacionNotFound
	}
	return nil
}

func (r *PlanificacionRepository) CambiarEstado(ctx context.Context, id, estado string) error {
	objID, err := oid(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"estado":         estado,
		"actualizado_en": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPlanificacionNotFound
	}
	return nil
}

func (r *PlanificacionRepository) AddParticipante(ctx context.Context, id, nnaID string) error {
	objID, err := oid(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$addToSet": bson.M{"participantes": nnaID},
		"$set":      bson.M{"actualizado_en": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPlanificacionNotFound
	}
	return nil
}

func (r *PlanificacionRepository) AddEvidencia(ctx context.Context, id string, ev domain.Evidencia) error {
	objID, err := oid(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$push": bson.M{"evidencias": ev},
		"$set":  bson.M{"actualizado_en": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPlanificacionNotFound
	}
	return nil
}

func (r *PlanificacionRepository) Stats(ctx context.Context) (*domain.PlanificacionStats, error) {
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
	porCategoria, err := groupCounts(ctx, r.coll, nil, "categoria")
	if err != nil {
		return nil, err
	}

	stats := &domain.PlanificacionStats{
		PorEstado:    porEstado,
		PorTipo:      porTipo,
		PorCategoria: porCategoria,
	}
	for _, n := range porEstado {
		stats.Total += n
	}
	return stats, nil
}

// Proximas returns planned activities starting in [desde, hasta].
func (r *PlanificacionRepository) Proximas(ctx context.Context, desde, hasta string) ([]domain.Planificacion, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{
		"estado":       domain.ActividadPlanificada,
		"fecha_inicio": bson.M{"$gte": desde, "$lte": hasta},
	}
	opts := options.Find().SetSort(bson.D{{Key: "fecha_inicio", Value: 1}})
	return findDocs(ctx, r.coll, query, opts, setPlanificacionID)
}

func (r *PlanificacionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "anio", Value: 1}, {Key: "fecha_inicio", Value: 1}}},
		{Keys: bson.D{{Key: "estado", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
