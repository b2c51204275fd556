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

const seguimientosCollection = "seguimientos"

type SeguimientoRepository struct {
	coll *mongo.Collection
}

func NewSeguimientoRepository(db *mongo.Database) *SeguimientoRepository {
	return &SeguimientoRepository{coll: db.Collection(seguimientosCollection)}
}

func setSeguimientoID(s *domain.Seguimiento, id string) { s.ID = id }

func (r *SeguimientoRepository) FindByID(ctx context.Context, id string) (*domain.Seguimiento, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return findOne(ctx, r.coll, bson.M{"_id": objID}, domain.ErrSeguimientoNotFound, setSeguimientoID)
}

func (r *SeguimientoRepository) List(ctx context.Context, filter domain.SeguimientoFilter) ([]domain.Seguimiento, error) {
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

	opts := pageOpts(filter.Skip, filter.Limit, bson.D{{Key: "fecha", Value: -1}})
	return findDocs(ctx, r.coll, query, opts, setSeguimientoID)
}

func (r *SeguimientoRepository) Create(ctx context.Context, s *domain.Seguimiento) (*domain.Seguimiento, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("insert seguimiento: %w", err)
	}

	created := *s
	created.ID = insertedID(res)
	return &created, nil
}

func (r *SeguimientoRepository) Update(ctx context.Context, id string, update ports.SeguimientoUpdate) (*domain.Seguimiento, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"actualizado_en": time.Now().UTC()}
	setField(set, "fecha", update.Fecha)
	setField(set, "tipo", update.Tipo)
	setField(set, "area_salud", update.AreaSalud)
	setField(set, "area_educativa", update.AreaEducativa)
	setField(set, "area_social", update.AreaSocial)
	setField(set, "area_familiar", update.AreaFamiliar)
	setField(set, "area_emocional", update.AreaEmocional)
	setField(set, "evaluacion_general", update.EvaluacionGeneral)
	setField(set, "fortalezas", update.Fortalezas)
	setField(set, "dificultades", update.Dificultades)
	setField(set, "objetivos_corto_plazo", update.ObjetivosCortoPlazo)
	setField(set, "objetivos_medio_plazo", update.ObjetivosMedioPlazo)
	setField(set, "objetivos_largo_plazo", update.ObjetivosLargoPlazo)
	setField(set, "recomendaciones", update.Recomendaciones)
	setField(set, "estado", update.Estado)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d document[domain.Seguimiento]
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrSeguimientoNotFound
		}
		return nil, err
	}
	d.Body.ID = d.ID.Hex()
	return &d.Body, nil
}

func (r *SeguimientoRepository) Delete(ctx context.Context, id string) error {
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
		return domain.ErrSeguimientoNotFound
	}
	return nil
}

func (r *SeguimientoRepository) DeleteByNNA(ctx context.Context, nnaID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{"nna_id": nnaID})
	return err
}

func (r *SeguimientoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "nna_id", Value: 1}, {Key: "fecha", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
