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

const talleresCollection = "talleres"

type TallerRepository struct {
	coll *mongo.Collection
}

func NewTallerRepository(db *mongo.Database) *TallerRepository {
	return &TallerRepository{coll: db.Collection(talleresCollection)}
}

func setTallerID(t *domain.Taller, id string) { t.ID = id }

func (r *TallerRepository) FindByID(ctx context.Context, id string) (*domain.Taller, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return findOne(ctx, r.coll, bson.M{"_id": objID}, domain.ErrTallerNotFound, setTallerID)
}

func (r *TallerRepository) List(ctx context.Context, filter domain.TallerFilter) ([]domain.Taller, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Estado != "" {
		query["estado"] = filter.Estado
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
	return findDocs(ctx, r.coll, query, opts, setTallerID)
}

func (r *TallerRepository) ListByParticipante(ctx context.Context, nnaID string) ([]domain.Taller, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"participantes.nna_id": nnaID}
	opts := options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}})
	return findDocs(ctx, r.coll, query, opts, setTallerID)
}

func (r *TallerRepository) Create(ctx context.Context, t *domain.Taller) (*domain.Taller, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if t.Participantes == nil {
		t.Participantes = []domain.Participante{}
	}
	res, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("insert taller: %w", err)
	}

	created := *t
	created.ID = insertedID(res)
	return &created, nil
}

func (r *TallerRepository) Update(ctx context.Context, id string, update ports.TallerUpdate) (*domain.Taller, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"actualizado_en": time.Now().UTC()}
	setField(set, "nombre", update.Nombre)
	setField(set, "descripcion", update.Descripcion)
	setField(set, "fecha", update.Fecha)
	setField(set, "hora_inicio", update.HoraInicio)
	setField(set, "hora_termino", update.HoraTermino)
	setField(set, "ubicacion", update.Ubicacion)
	setField(set, "objetivos", update.Objetivos)
	setField(set, "materiales", update.Materiales)
	setField(set, "responsable_id", update.ResponsableID)
	setField(set, "capacidad_maxima", update.CapacidadMaxima)
	setField(set, "estado", update.Estado)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d document[domain.Taller]
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTallerNotFound
		}
		return nil, err
	}
	d.Body.ID = d.ID.Hex()
	return &d.Body, nil
}

func (r *TallerRepository) Delete(ctx context.Context, id string) error {
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
		return domain.ErrTallerNotFound
	}
	return nil
}

// AddParticipante enrolls a resident. The filter enforces both the
// capacity limit and single enrollment in one matched update, so two
// concurrent enrollments cannot overbook.
func (r *TallerRepository) AddParticipante(ctx context.Context, tallerID string, p domain.Participante) error {
	objID, err := oid(tallerID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":                  objID,
		"participantes.nna_id": bson.M{"$ne": p.NNAID},
		"$expr": bson.M{"$lt": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$participantes", bson.A{}}}},
			"$capacidad_maxima",
		}},
	}
	update := bson.M{
		"$push": bson.M{"participantes": p},
		"$set":  bson.M{"actualizado_en": time.Now().UTC()},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}

	// Distinguish why the guarded update matched nothing.
	taller, err := r.FindByID(ctx, tallerID)
	if err != nil {
		return err
	}
	for _, existing := range taller.Participantes {
		if existing.NNAID == p.NNAID {
			return domain.ErrParticipanteInscrito
		}
	}
	return domain.ErrTallerLleno
}

func (r *TallerRepository) RemoveParticipante(ctx context.Context, tallerID, nnaID string) error {
	objID, err := oid(tallerID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$pull": bson.M{"participantes": bson.M{"nna_id": nnaID}},
		"$set":  bson.M{"actualizado_en": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTallerNotFound
	}
	return nil
}

// RemoveParticipanteTodos unenrolls a resident from every workshop; used
// when the resident record is deleted.
func (r *TallerRepository) RemoveParticipanteTodos(ctx context.Context, nnaID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.UpdateMany(ctx, bson.M{"participantes.nna_id": nnaID}, bson.M{
		"$pull": bson.M{"participantes": bson.M{"nna_id": nnaID}},
	})
	return err
}

func (r *TallerRepository) Stats(ctx context.Context) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	porEstado, err := groupCounts(ctx, r.coll, nil, "estado")
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range porEstado {
		total += n
	}
	return map[string]any{
		"total":       total,
		"por_estado":  porEstado,
		"programados": porEstado[domain.TallerProgramado],
		"completados": porEstado[domain.TallerCompletado],
	}, nil
}

// Proximos returns scheduled workshops dated in [desde, hasta].
func (r *TallerRepository) Proximos(ctx context.Context, desde, hasta string) ([]domain.Taller, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{
		"estado": domain.TallerProgramado,
		"fecha":  bson.M{"$gte": desde, "$lte": hasta},
	}
	opts := options.Find().SetSort(bson.D{{Key: "fecha", Value: 1}})
	return findDocs(ctx, r.coll, query, opts, setTallerID)
}

func (r *TallerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "estado", Value: 1}, {Key: "fecha", Value: 1}}},
		{Keys: bson.D{{Key: "participantes.nna_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
