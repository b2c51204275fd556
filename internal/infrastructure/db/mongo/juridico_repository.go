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

const (
	medidasCollection       = "medidas_judiciales"
	restriccionesCollection = "restricciones"
)

type MedidaRepository struct {
	coll *mongo.Collection
}

func NewMedidaRepository(db *mongo.Database) *MedidaRepository {
	return &MedidaRepository{coll: db.Collection(medidasCollection)}
}

func setMedidaID(m *domain.MedidaJudicial, id string) { m.ID = id }

func (r *MedidaRepository) FindByID(ctx context.Context, id string) (*domain.MedidaJudicial, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return findOne(ctx, r.coll, bson.M{"_id": objID}, domain.ErrMedidaNotFound, setMedidaID)
}

func (r *MedidaRepository) List(ctx context.Context, filter domain.MedidaFilter) ([]domain.MedidaJudicial, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.NNAID != "" {
		query["nna_id"] = filter.NNAID
	}
	if filter.Estado != "" {
		query["estado"] = filter.Estado
	}
	if filter.TipoSolicitud != "" {
		query["tipo_solicitud"] = filter.TipoSolicitud
	}
	if filter.TipoMedida != "" {
		query["tipo_medida"] = filter.TipoMedida
	}
	hoy := domain.FormatDate(time.Now().UTC())
	if filter.ProximasVencer {
		query["estado"] = bson.M{"$in": domain.EstadosMedidaVigentes}
		query["fecha_termino"] = bson.M{
			"$gte": hoy,
			"$lte": domain.FormatDate(time.Now().UTC().AddDate(0, 0, 30)),
		}
	}
	if filter.Vencidas {
		query["estado"] = bson.M{"$in": domain.EstadosMedidaVigentes}
		query["fecha_termino"] = bson.M{"$lt": hoy, "$ne": ""}
	}

	opts := pageOpts(filter.Skip, filter.Limit, bson.D{{Key: "fecha_solicitud", Value: -1}})
	return findDocs(ctx, r.coll, query, opts, setMedidaID)
}

func (r *MedidaRepository) Create(ctx context.Context, m *domain.MedidaJudicial) (*domain.MedidaJudicial, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if m.Audiencias == nil {
		m.Audiencias = []domain.Audiencia{}
	}
	if m.MedidasComplementarias == nil {
		m.MedidasComplementarias = []string{}
	}
	res, err := r.coll.InsertOne(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("insert medida: %w", err)
	}

	created := *m
	created.ID = insertedID(res)
	return &created, nil
}

func (r *MedidaRepository) Update(ctx context.Context, id string, update ports.MedidaUpdate) (*domain.MedidaJudicial, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"actualizado_en": time.Now().UTC()}
	setField(set, "numero_ingreso", update.NumeroIngreso)
	setField(set, "fecha_solicitud", update.FechaSolicitud)
	setField(set, "tipo_solicitud", update.TipoSolicitud)
	setField(set, "solicitante", update.Solicitante)
	setField(set, "rol_solicitante", update.RolSolicitante)
	setField(set, "fecha_resolucion", update.FechaResolucion)
	setField(set, "numero_resolucion", update.NumeroResolucion)
	setField(set, "tipo_medida", update.TipoMedida)
	setField(set, "fecha_inicio", update.FechaInicio)
	setField(set, "fecha_termino", update.FechaTermino)
	setField(set, "plazo_meses", update.PlazoMeses)
	setField(set, "estado", update.Estado)
	setField(set, "restriccion_contacto", update.RestriccionContacto)
	setField(set, "restriccion_acercamiento", update.RestriccionAcercamiento)
	setField(set, "restriccion_salida_territorio", update.RestriccionSalidaTerritorio)
	setField(set, "otras_restricciones", update.OtrasRestricciones)
	setField(set, "observaciones", update.Observaciones)
	setField(set, "requiere_seguimiento", update.RequiereSeguimiento)
	setField(set, "frecuencia_seguimiento", update.FrecuenciaSeguimiento)
	setField(set, "alerta_dias_anticipacion", update.AlertaDiasAnticipacion)
	if update.MedidasComplementarias != nil {
		set["medidas_complementarias"] = update.MedidasComplementarias
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d document[domain.MedidaJudicial]
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrMedidaNotFound
		}
		return nil, err
	}
	d.Body.ID = d.ID.Hex()
	return &d.Body, nil
}

func (r *MedidaRepository) AddAudiencia(ctx context.Context, id string, a domain.Audiencia) error {
	objID, err := oid(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$push": bson.M{"audiencias": a},
		"$set":  bson.M{"actualizado_en": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrMedidaNotFound
	}
	return nil
}

func (r *MedidaRepository) Stats(ctx context.Context, hoy, limite string) (*domain.JuridicoStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	porEstado, err := groupCounts(ctx, r.coll, nil, "estado")
	if err != nil {
		return nil, err
	}
	porTipoSolicitud, err := groupCounts(ctx, r.coll, nil, "tipo_solicitud")
	if err != nil {
		return nil, err
	}
	porTipoMedida, err := groupCounts(ctx, r.coll, nil, "tipo_medida")
	if err != nil {
		return nil, err
	}

	vigentes := bson.M{"estado": bson.M{"$in": domain.EstadosMedidaVigentes}}
	conRestricciones, err := r.coll.CountDocuments(ctx, bson.M{"$or": []bson.M{
		{"restriccion_contacto": true},
		{"restriccion_acercamiento": true},
		{"restriccion_salida_territorio": true},
	}})
	if err != nil {
		return nil, err
	}
	proximas, err := r.coll.CountDocuments(ctx, bson.M{
		"estado":        vigentes["estado"],
		"fecha_termino": bson.M{"$gte": hoy, "$lte": limite},
	})
	if err != nil {
		return nil, err
	}
	vencidas, err := r.coll.CountDocuments(ctx, bson.M{
		"estado":        vigentes["estado"],
		"fecha_termino": bson.M{"$lt": hoy, "$ne": ""},
	})
	if err != nil {
		return nil, err
	}

	stats := &domain.JuridicoStats{
		PorEstado:        porEstado,
		PorTipoSolicitud: porTipoSolicitud,
		PorTipoMedida:    porTipoMedida,
		Vigentes:         porEstado[domain.MedidaVigente] + porEstado[domain.MedidaDictada],
		ConRestricciones: conRestricciones,
		ProximasAVencer:  proximas,
		Vencidas:         vencidas,
	}
	for _, n := range porEstado {
		stats.TotalMedidas += n
	}
	return stats, nil
}

// ProximasAVencer returns enforceable measures whose end date falls in
// [desde, hasta]; the scan behind the expiry alert rule.
func (r *MedidaRepository) ProximasAVencer(ctx context.Context, desde, hasta string) ([]domain.MedidaJudicial, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{
		"estado":        bson.M{"$in": domain.EstadosMedidaVigentes},
		"fecha_termino": bson.M{"$gte": desde, "$lte": hasta},
	}
	opts := options.Find().SetSort(bson.D{{Key: "fecha_termino", Value: 1}})
	return findDocs(ctx, r.coll, query, opts, setMedidaID)
}

func (r *MedidaRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "nna_id", Value: 1}}},
		{Keys: bson.D{{Key: "estado", Value: 1}, {Key: "fecha_termino", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

type RestriccionRepository struct {
	coll *mongo.Collection
}

func NewRestriccionRepository(db *mongo.Database) *RestriccionRepository {
	return &RestriccionRepository{coll: db.Collection(restriccionesCollection)}
}

func setRestriccionID(x *domain.Restriccion, id string) { x.ID = id }

func (r *RestriccionRepository) List(ctx context.Context, filter domain.RestriccionFilter) ([]domain.Restriccion, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.NNAID != "" {
		query["nna_id"] = filter.NNAID
	}
	if filter.Estado != "" {
		query["estado"] = filter.Estado
	}
	if filter.Tipo != "" {
		query["tipo"] = filter.Tipo
	}

	opts := pageOpts(filter.Skip, filter.Limit, bson.D{{Key: "fecha_inicio", Value: -1}})
	return findDocs(ctx, r.coll, query, opts, setRestriccionID)
}

func (r *RestriccionRepository) Create(ctx context.Context, x *domain.Restriccion) (*domain.Restriccion, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, x)
	if err != nil {
		return nil, fmt.Errorf("insert restriccion: %w", err)
	}

	created := *x
	created.ID = insertedID(res)
	return &created, nil
}

func (r *RestriccionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "nna_id", Value: 1}, {Key: "estado", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
