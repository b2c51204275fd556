package mongo

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

// ReporteRepository runs the cross-collection aggregations behind the
// reporting endpoints. It reads the same collections the per-entity
// repositories write.
type ReporteRepository struct {
	db *mongo.Database
}

func NewReporteRepository(db *mongo.Database) *ReporteRepository {
	return &ReporteRepository{db: db}
}

func (r *ReporteRepository) Dashboard(ctx context.Context, hoy string) (*ports.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	nna, err := groupCounts(ctx, r.db.Collection(nnaCollection), nil, "estado")
	if err != nil {
		return nil, err
	}
	intervenciones, err := groupCounts(ctx, r.db.Collection(intervencionesCollection), nil, "estado")
	if err != nil {
		return nil, err
	}
	talleres, err := groupCounts(ctx, r.db.Collection(talleresCollection), nil, "estado")
	if err != nil {
		return nil, err
	}
	usuarios, err := groupCounts(ctx, r.db.Collection(usuariosCollection), bson.M{"activo": true}, "rol")
	if err != nil {
		return nil, err
	}
	porMes, err := r.intervencionesPorMes(ctx, 6)
	if err != nil {
		return nil, err
	}

	return &ports.DashboardStats{
		NNA:                  nna,
		Intervenciones:       intervenciones,
		Talleres:             talleres,
		Usuarios:             usuarios,
		IntervencionesPorMes: porMes,
	}, nil
}

// ReporteNNA assembles the complete per-resident report: identity header,
// counters, and the latest records of each related collection.
func (r *ReporteRepository) ReporteNNA(ctx context.Context, nnaID string) (*ports.ReporteNNA, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(nnaID)
	if err != nil {
		return nil, err
	}
	n, err := findOne(ctx, r.db.Collection(nnaCollection), bson.M{"_id": objID}, domain.ErrNNANotFound, setNNAID)
	if err != nil {
		return nil, err
	}

	porNNA := bson.M{"nna_id": nnaID}
	reciente := options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}}).SetLimit(100)

	intervenciones, err := findDocs(ctx, r.db.Collection(intervencionesCollection), porNNA, reciente, setIntervencionID)
	if err != nil {
		return nil, err
	}
	seguimientos, err := findDocs(ctx, r.db.Collection(seguimientosCollection), porNNA, reciente, setSeguimientoID)
	if err != nil {
		return nil, err
	}
	talleres, err := findDocs(ctx, r.db.Collection(talleresCollection), bson.M{"participantes.nna_id": nnaID}, reciente, setTallerID)
	if err != nil {
		return nil, err
	}

	rep := &ports.ReporteNNA{
		NNA: ports.FichaNNA{
			ID:           n.ID,
			Nombre:       n.NombreCompleto(),
			RUT:          n.RUT,
			Estado:       n.Estado,
			FechaIngreso: n.FechaIngreso,
		},
		Resumen: map[string]int{
			"total_intervenciones": len(intervenciones),
			"total_seguimientos":   len(seguimientos),
			"total_talleres":       len(talleres),
		},
		Intervenciones: make([]ports.IntervencionResumen, 0, len(intervenciones)),
		Seguimientos:   make([]ports.SeguimientoResumen, 0, len(seguimientos)),
		Talleres:       make([]ports.TallerResumen, 0, len(talleres)),
	}
	for _, i := range intervenciones {
		rep.Intervenciones = append(rep.Intervenciones, ports.IntervencionResumen{
			ID:        i.ID,
			Fecha:     i.Fecha,
			Tipo:      i.Tipo,
			Motivo:    i.Motivo,
			Estado:    i.Estado,
			Prioridad: i.Prioridad,
		})
	}
	for _, s := range seguimientos {
		rep.Seguimientos = append(rep.Seguimientos, ports.SeguimientoResumen{
			ID:                s.ID,
			Fecha:             s.Fecha,
			Tipo:              s.Tipo,
			EvaluacionGeneral: truncar(s.EvaluacionGeneral, 100),
		})
	}
	for _, t := range talleres {
		rep.Talleres = append(rep.Talleres, ports.TallerResumen{
			ID:     t.ID,
			Nombre: t.Nombre,
			Fecha:  t.Fecha,
			Estado: t.Estado,
		})
	}
	return rep, nil
}

func truncar(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// intervencionesPorMes buckets interventions created in the last n
// months by calendar month.
func (r *ReporteRepository) intervencionesPorMes(ctx context.Context, meses int) ([]ports.SerieMensual, error) {
	desde := time.Now().UTC().AddDate(0, -meses, 0)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"creado_en": bson.M{"$gte": desde}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":      bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$creado_en"}},
			"cantidad": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := r.db.Collection(intervencionesCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Mes      string `bson:"_id"`
		Cantidad int64  `bson:"cantidad"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	serie := make([]ports.SerieMensual, 0, len(rows))
	for _, row := range rows {
		serie = append(serie, ports.SerieMensual{Mes: row.Mes, Cantidad: row.Cantidad})
	}
	return serie, nil
}

func (r *ReporteRepository) IntervencionesPorTipo(ctx context.Context, desde, hasta string) ([]ports.TipoIntervencionResumen, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if desde != "" || hasta != "" {
		rango := bson.M{}
		if desde != "" {
			rango["$gte"] = desde
		}
		if hasta != "" {
			rango["$lte"] = hasta
		}
		match["fecha"] = rango
	}

	pipeline := mongo.Pipeline{}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":      "$tipo",
			"cantidad": bson.M{"$sum": 1},
			"completadas": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$estado", domain.IntervencionCompletada}}, 1, 0,
			}}},
			"pendientes": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$estado", domain.IntervencionPendiente}}, 1, 0,
			}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"cantidad": -1}}},
	)

	cur, err := r.db.Collection(intervencionesCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Tipo        string `bson:"_id"`
		Cantidad    int64  `bson:"cantidad"`
		Completadas int64  `bson:"completadas"`
		Pendientes  int64  `bson:"pendientes"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]ports.TipoIntervencionResumen, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.TipoIntervencionResumen{
			Tipo:        row.Tipo,
			Cantidad:    row.Cantidad,
			Completadas: row.Completadas,
			Pendientes:  row.Pendientes,
		})
	}
	return out, nil
}

func (r *ReporteRepository) TalleresAsistencia(ctx context.Context, desde, hasta string) ([]ports.AsistenciaTaller, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if desde != "" || hasta != "" {
		rango := bson.M{}
		if desde != "" {
			rango["$gte"] = desde
		}
		if hasta != "" {
			rango["$lte"] = hasta
		}
		query["fecha"] = rango
	}

	opts := options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}})
	talleres, err := findDocs(ctx, r.db.Collection(talleresCollection), query, opts, setTallerID)
	if err != nil {
		return nil, err
	}

	out := make([]ports.AsistenciaTaller, 0, len(talleres))
	for _, t := range talleres {
		asistentes := 0
		for _, p := range t.Participantes {
			if p.Asistencia {
				asistentes++
			}
		}
		item := ports.AsistenciaTaller{
			ID:         t.ID,
			Nombre:     t.Nombre,
			Fecha:      t.Fecha,
			Capacidad:  t.CapacidadMaxima,
			Inscritos:  len(t.Participantes),
			Asistentes: asistentes,
		}
		if item.Inscritos > 0 {
			item.TasaAsistencia = float64(asistentes) / float64(item.Inscritos)
		}
		out = append(out, item)
	}
	return out, nil
}

// ActividadReciente merges the latest interventions, workshops and
// follow-ups into one feed, newest first.
func (r *ReporteRepository) ActividadReciente(ctx context.Context, limit int64) ([]ports.ActividadItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().SetSort(bson.D{{Key: "creado_en", Value: -1}}).SetLimit(limit)

	type entrada struct {
		item   ports.ActividadItem
		creado time.Time
	}
	var feed []entrada

	intervenciones, err := findDocs(ctx, r.db.Collection(intervencionesCollection), bson.M{}, opts, setIntervencionID)
	if err != nil {
		return nil, err
	}
	for _, i := range intervenciones {
		feed = append(feed, entrada{
			item: ports.ActividadItem{
				Tipo:        "intervencion",
				Fecha:       i.Fecha,
				Descripcion: i.Motivo,
				EntidadID:   i.ID,
				NNAID:       i.NNAID,
			},
			creado: i.CreadoEn,
		})
	}

	talleres, err := findDocs(ctx, r.db.Collection(talleresCollection), bson.M{}, opts, setTallerID)
	if err != nil {
		return nil, err
	}
	for _, t := range talleres {
		feed = append(feed, entrada{
			item: ports.ActividadItem{
				Tipo:        "taller",
				Fecha:       t.Fecha,
				Descripcion: t.Nombre,
				EntidadID:   t.ID,
			},
			creado: t.CreadoEn,
		})
	}

	seguimientos, err := findDocs(ctx, r.db.Collection(seguimientosCollection), bson.M{}, opts, setSeguimientoID)
	if err != nil {
		return nil, err
	}
	for _, s := range seguimientos {
		feed = append(feed, entrada{
			item: ports.ActividadItem{
				Tipo:        "seguimiento",
				Fecha:       s.Fecha,
				Descripcion: s.Tipo,
				EntidadID:   s.ID,
				NNAID:       s.NNAID,
			},
			creado: s.CreadoEn,
		})
	}

	sort.Slice(feed, func(i, j int) bool { return feed[i].creado.After(feed[j].creado) })
	if int64(len(feed)) > limit {
		feed = feed[:limit]
	}

	out := make([]ports.ActividadItem, 0, len(feed))
	for _, e := range feed {
		out = append(out, e.item)
	}
	return out, nil
}
