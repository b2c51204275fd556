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

const nnaCollection = "nna"

type NNARepository struct {
	coll *mongo.Collection
}

func NewNNARepository(db *mongo.Database) *NNARepository {
	return &NNARepository{coll: db.Collection(nnaCollection)}
}

func setNNAID(n *domain.NNA, id string) { n.ID = id }

func (r *NNARepository) FindByID(ctx context.Context, id string) (*domain.NNA, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return findOne(ctx, r.coll, bson.M{"_id": objID}, domain.ErrNNANotFound, setNNAID)
}

func (r *NNARepository) FindByRUT(ctx context.Context, rut string) (*domain.NNA, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return findOne(ctx, r.coll, bson.M{"rut": rut}, domain.ErrNNANotFound, setNNAID)
}

func (r *NNARepository) List(ctx context.Context, filter domain.NNAFilter) ([]domain.NNA, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Estado != "" {
		query["estado"] = filter.Estado
	}
	if filter.Search != "" {
		query["$and"] = []bson.M{searchFilter([]string{"nombre", "apellido", "rut"}, filter.Search)}
	}

	opts := pageOpts(filter.Skip, filter.Limit, bson.D{{Key: "apellido", Value: 1}, {Key: "nombre", Value: 1}})
	return findDocs(ctx, r.coll, query, opts, setNNAID)
}

func (r *NNARepository) Create(ctx context.Context, nna *domain.NNA) (*domain.NNA, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, nna)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRUTExists
		}
		return nil, fmt.Errorf("insert nna: %w", err)
	}

	created := *nna
	created.ID = insertedID(res)
	return &created, nil
}

func (r *NNARepository) Update(ctx context.Context, id string, update ports.NNAUpdate) (*domain.NNA, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d document[domain.NNA]
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": objID}, nnaUpdateDoc(update, time.Now().UTC()), opts).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNNANotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRUTExists
		}
		return nil, err
	}
	d.Body.ID = d.ID.Hex()
	return &d.Body, nil
}

// nnaUpdateDoc builds the Mongo update for a resident. Clearing the RUT
// must $unset the field: the unique index is sparse, and an empty string
// is a present value that would collide across a second cleared resident.
func nnaUpdateDoc(update ports.NNAUpdate, now time.Time) bson.M {
	set := bson.M{"actualizado_en": now}
	setField(set, "nombre", update.Nombre)
	setField(set, "apellido", update.Apellido)
	setField(set, "fecha_nacimiento", update.FechaNacimiento)
	setField(set, "edad", update.Edad)
	setField(set, "genero", update.Genero)
	setField(set, "fecha_egreso", update.FechaEgreso)
	setField(set, "estado", update.Estado)
	setField(set, "telefono", update.Telefono)
	setField(set, "direccion", update.Direccion)
	setField(set, "comuna", update.Comuna)
	setField(set, "region", update.Region)
	setField(set, "contacto_emergencia", update.ContactoEmergencia)
	setField(set, "alergias", update.Alergias)
	setField(set, "medicamentos", update.Medicamentos)
	setField(set, "condiciones_medicas", update.CondicionesMedicas)
	setField(set, "establecimiento_educacional", update.EstablecimientoEducacional)
	setField(set, "curso", update.Curso)
	setField(set, "observaciones", update.Observaciones)

	doc := bson.M{"$set": set}
	if update.RUT != nil {
		if *update.RUT == "" {
			doc["$unset"] = bson.M{"rut": ""}
		} else {
			set["rut"] = *update.RUT
		}
	}
	return doc
}

func (r *NNARepository) Delete(ctx context.Context, id string) error {
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
		return domain.ErrNNANotFound
	}
	return nil
}

func (r *NNARepository) Stats(ctx context.Context) (*domain.NNAStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	porEstado, err := groupCounts(ctx, r.coll, nil, "estado")
	if err != nil {
		return nil, err
	}
	porGenero, err := groupCounts(ctx, r.coll, nil, "genero")
	if err != nil {
		return nil, err
	}

	stats := &domain.NNAStats{
		Activos:     porEstado[domain.NNAActivo],
		Egresados:   porEstado[domain.NNAEgresado],
		Trasladados: porEstado[domain.NNATrasladado],
		Temporal:    porEstado[domain.NNATemporal],
		PorGenero:   porGenero,
	}
	for _, n := range porEstado {
		stats.Total += n
	}
	return stats, nil
}

// EnsureIndexes creates the sparse unique RUT index; residents without a
// registered RUT are allowed.
func (r *NNARepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "rut", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "estado", Value: 1}}},
		{Keys: bson.D{{Key: "apellido", Value: 1}, {Key: "nombre", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
