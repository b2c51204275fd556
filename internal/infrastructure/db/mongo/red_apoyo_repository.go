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

const redApoyoCollection = "red_apoyo"

type RedApoyoRepository struct {
	coll *mongo.Collection
}

func NewRedApoyoRepository(db *mongo.Database) *RedApoyoRepository {
	return &RedApoyoRepository{coll: db.Collection(redApoyoCollection)}
}

func setRedApoyoID(x *domain.RedApoyo, id string) { x.ID = id }

func (r *RedApoyoRepository) FindByID(ctx context.Context, id string) (*domain.RedApoyo, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return findOne(ctx, r.coll, bson.M{"_id": objID}, domain.ErrRedApoyoNotFound, setRedApoyoID)
}

func (r *RedApoyoRepository) List(ctx context.Context, filter domain.RedApoyoFilter) ([]domain.RedApoyo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.NNAID != "" {
		query["nna_id"] = filter.NNAID
	}
	if filter.TipoVinculo != "" {
		query["tipo_vinculo"] = filter.TipoVinculo
	}
	if filter.Estado != "" {
		query["estado"] = filter.Estado
	}
	if filter.NivelConfiabilidad != "" {
		query["nivel_confiabilidad"] = filter.NivelConfiabilidad
	}
	if filter.SoloCuidadores {
		query["es_cuidador_temporal"] = true
	}
	if filter.SoloPPF {
		query["es_ppf"] = true
	}

	opts := pageOpts(filter.Skip, filter.Limit, bson.D{{Key: "nombre", Value: 1}})
	return findDocs(ctx, r.coll, query, opts, setRedApoyoID)
}

func (r *RedApoyoRepository) ListByNNA(ctx context.Context, nnaID string) ([]domain.RedApoyo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "nombre", Value: 1}})
	return findDocs(ctx, r.coll, bson.M{"nna_id": nnaID}, opts, setRedApoyoID)
}

func (r *RedApoyoRepository) Create(ctx context.Context, x *domain.RedApoyo) (*domain.RedApoyo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, x)
	if err != nil {
		return nil, fmt.Errorf("insert red_apoyo: %w", err)
	}

	created := *x
	created.ID = insertedID(res)
	return &created, nil
}

func (r *RedApoyoRepository) Update(ctx context.Context, id string, update ports.RedApoyoUpdate) (*domain.RedApoyo, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"actualizado_en": time.Now().UTC()}
	setField(set, "nombre", update.Nombre)
	setField(set, "rut", update.RUT)
	setField(set, "tipo_vinculo", update.TipoVinculo)
	setField(set, "telefono", update.Telefono)
	setField(set, "email", update.Email)
	setField(set, "direccion", update.Direccion)
	setField(set, "es_cuidador_temporal", update.EsCuidadorTemporal)
	setField(set, "es_ppf", update.EsPPF)
	setField(set, "es_contacto_emergencia", update.EsContactoEmergencia)
	setField(set, "estado", update.Estado)
	setField(set, "observaciones", update.Observaciones)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d document[domain.RedApoyo]
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRedApoyoNotFound
		}
		return nil, err
	}
	d.Body.ID = d.ID.Hex()
	return &d.Body, nil
}

func (r *RedApoyoRepository) Delete(ctx context.Context, id string) error {
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
		return domain.ErrRedApoyoNotFound
	}
	return nil
}

// Evaluar records a reliability assessment on the contact.
func (r *RedApoyoRepository) Evaluar(ctx context.Context, id string, ev ports.Evaluacion) error {
	objID, err := oid(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"nivel_confiabilidad":      ev.Nivel,
		"evaluacion_confiabilidad": ev.Comentario,
		"fecha_ultima_evaluacion":  ev.Fecha,
		"evaluado_por":             ev.EvaluadoPor,
		"actualizado_en":           time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrRedApoyoNotFound
	}
	return nil
}

func (r *RedApoyoRepository) Stats(ctx context.Context) (*domain.RedApoyoStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	porVinculo, err := groupCounts(ctx, r.coll, nil, "tipo_vinculo")
	if err != nil {
		return nil, err
	}
	porConfiabilidad, err := groupCounts(ctx, r.coll, nil, "nivel_confiabilidad")
	if err != nil {
		return nil, err
	}
	cuidadores, err := r.coll.CountDocuments(ctx, bson.M{"es_cuidador_temporal": true})
	if err != nil {
		return nil, err
	}
	ppf, err := r.coll.CountDocuments(ctx, bson.M{"es_ppf": true})
	if err != nil {
		return nil, err
	}
	emergencia, err := r.coll.CountDocuments(ctx, bson.M{"es_contacto_emergencia": true})
	if err != nil {
		return nil, err
	}

	stats := &domain.RedApoyoStats{
		CuidadoresTemporales: cuidadores,
		PPF:                  ppf,
		ContactosEmergencia:  emergencia,
		PorTipoVinculo:       porVinculo,
		PorConfiabilidad:     porConfiabilidad,
	}
	for _, n := range porVinculo {
		stats.Total += n
	}
	return stats, nil
}

func (r *RedApoyoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "nna_id", Value: 1}}},
		{Keys: bson.D{{Key: "tipo_vinculo", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
