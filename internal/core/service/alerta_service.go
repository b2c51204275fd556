package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

// Scan windows for the due-date rules.
const (
	ventanaSeguimientosDias = 7
	ventanaMedidasDias      = 30
)

// AlertaService is the due-date rule engine. Each subject is checked for
// an existing open alert before inserting; the store's partial unique
// index over open alerts backstops the concurrent race, where a duplicate
// insert comes back as domain.ErrAlertaExists and counts as a skip. Either
// way, re-running a scan never multiplies alerts.
type AlertaService struct {
	alertas        ports.AlertaRepository
	intervenciones ports.IntervencionRepository
	talleres       ports.TallerRepository
	medidas        ports.MedidaRepository
	nna            ports.NNARepository
	log            zerolog.Logger
	now            func() time.Time
}

func NewAlertaService(
	alertas ports.AlertaRepository,
	intervenciones ports.IntervencionRepository,
	talleres ports.TallerRepository,
	medidas ports.MedidaRepository,
	nna ports.NNARepository,
	log zerolog.Logger,
) *AlertaService {
	return &AlertaService{
		alertas:        alertas,
		intervenciones: intervenciones,
		talleres:       talleres,
		medidas:        medidas,
		nna:            nna,
		log:            log,
		now:            time.Now,
	}
}

// GenerarVencimientos scans interventions awaiting follow-up and upcoming
// workshops inside a 7-day window and raises one open alert per subject.
// A failing subject is logged and skipped; the scan keeps going.
func (s *AlertaService) GenerarVencimientos(ctx context.Context, actor domain.Principal) (int, error) {
	hoy := s.now().UTC()
	desde := domain.FormatDate(hoy)
	hasta := domain.FormatDate(hoy.AddDate(0, 0, ventanaSeguimientosDias))
	creadas := 0

	intervenciones, err := s.intervenciones.ConSeguimientoPendiente(ctx, desde, hasta)
	if err != nil {
		return 0, err
	}
	for _, i := range intervenciones {
		alerta := domain.Alerta{
			NNAID:            i.NNAID,
			Titulo:           fmt.Sprintf("Seguimiento pendiente: %s", s.nombreNNA(ctx, i.NNAID)),
			Mensaje:          fmt.Sprintf("La intervención del %s tiene seguimiento programado para el %s.", i.Fecha, i.FechaProximoSeguimiento),
			Tipo:             domain.AlertaSeguimientoPendiente,
			Prioridad:        domain.PrioridadSeguimiento(i.Prioridad),
			FechaVencimiento: i.FechaProximoSeguimiento,
			Estado:           domain.AlertaActiva,
			EntidadTipo:      "intervencion",
			EntidadID:        i.ID,
			URLRedirect:      "/intervenciones/" + i.ID,
			CreadoEn:         hoy,
			CreadoPor:        actor.UserID,
		}
		if s.crear(ctx, &alerta) {
			creadas++
		}
	}

	talleres, err := s.talleres.Proximos(ctx, desde, hasta)
	if err != nil {
		return creadas, err
	}
	for _, t := range talleres {
		alerta := domain.Alerta{
			Titulo:           fmt.Sprintf("Taller próximo: %s", t.Nombre),
			Mensaje:          fmt.Sprintf("El taller %q está programado para el %s a las %s.", t.Nombre, t.Fecha, t.HoraInicio),
			Tipo:             domain.AlertaTallerProximo,
			Prioridad:        domain.PrioridadMedia,
			FechaVencimiento: t.Fecha,
			Estado:           domain.AlertaActiva,
			EntidadTipo:      "taller",
			EntidadID:        t.ID,
			URLRedirect:      "/talleres/" + t.ID,
			CreadoEn:         hoy,
			CreadoPor:        actor.UserID,
		}
		if s.crear(ctx, &alerta) {
			creadas++
		}
	}

	return creadas, nil
}

// GenerarVencimientosMedidas scans enforceable judicial measures expiring
// inside a 30-day window. Priority escalates as the end date approaches.
func (s *AlertaService) GenerarVencimientosMedidas(ctx context.Context, actor domain.Principal) (int, error) {
	hoy := s.now().UTC()
	desde := domain.FormatDate(hoy)
	hasta := domain.FormatDate(hoy.AddDate(0, 0, ventanaMedidasDias))
	creadas := 0

	medidas, err := s.medidas.ProximasAVencer(ctx, desde, hasta)
	if err != nil {
		return 0, err
	}
	for _, m := range medidas {
		dias, err := domain.DaysUntil(m.FechaTermino, hoy)
		if err != nil {
			s.log.Warn().Err(err).Str("medida_id", m.ID).Msg("measure has unparseable end date, skipping")
			continue
		}
		nombre := s.nombreNNA(ctx, m.NNAID)
		alerta := domain.Alerta{
			NNAID:            m.NNAID,
			Titulo:           fmt.Sprintf("Vencimiento de medida: %s", nombre),
			Mensaje:          fmt.Sprintf("La medida %q de %s vence el %s (%d días restantes).", m.TipoMedida, nombre, m.FechaTermino, dias),
			Tipo:             domain.AlertaVencimientoPlazo,
			Prioridad:        domain.PrioridadVencimientoMedida(dias),
			FechaVencimiento: m.FechaTermino,
			Estado:           domain.AlertaActiva,
			EntidadTipo:      "medida_judicial",
			EntidadID:        m.ID,
			URLRedirect:      "/juridico/medidas/" + m.ID,
			CreadoEn:         hoy,
			CreadoPor:        actor.UserID,
		}
		if s.crear(ctx, &alerta) {
			creadas++
		}
	}

	return creadas, nil
}

// AlertasVencimientoMedidas projects measures expiring within the given
// number of days, soonest first. Read-only; no alerts are created.
func (s *AlertaService) AlertasVencimientoMedidas(ctx context.Context, diasAnticipacion int) ([]domain.VencimientoMedida, error) {
	if diasAnticipacion <= 0 {
		diasAnticipacion = ventanaMedidasDias
	}
	hoy := s.now().UTC()
	desde := domain.FormatDate(hoy)
	hasta := domain.FormatDate(hoy.AddDate(0, 0, diasAnticipacion))

	medidas, err := s.medidas.ProximasAVencer(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	out := make([]domain.VencimientoMedida, 0, len(medidas))
	for _, m := range medidas {
		dias, err := domain.DaysUntil(m.FechaTermino, hoy)
		if err != nil {
			continue
		}
		out = append(out, domain.VencimientoMedida{
			MedidaID:         m.ID,
			NNAID:            m.NNAID,
			NNANombre:        s.nombreNNA(ctx, m.NNAID),
			TipoMedida:       m.TipoMedida,
			FechaVencimiento: m.FechaTermino,
			DiasRestantes:    dias,
			Prioridad:        domain.PrioridadListadoVencimiento(dias),
		})
	}
	return out, nil
}

// crear inserts an alert, reporting whether one was actually created.
// An existing open alert for the same subject is the normal idempotent
// outcome, not an error: a lookup skips it up front, and the store's
// partial unique index catches the concurrent-insert race behind it.
func (s *AlertaService) crear(ctx context.Context, alerta *domain.Alerta) bool {
	if alerta.EntidadID != "" {
		_, err := s.alertas.FindAbierta(ctx, alerta.EntidadTipo, alerta.EntidadID, alerta.Tipo)
		if err == nil {
			return false
		}
		if !errors.Is(err, domain.ErrAlertaNotFound) {
			// Lookup trouble is not fatal: the insert below still
			// dedupes through the unique index.
			s.log.Warn().Err(err).
				Str("entidad_id", alerta.EntidadID).
				Msg("open-alert lookup failed, relying on unique index")
		}
	}
	if _, err := s.alertas.Create(ctx, alerta); err != nil {
		if !errors.Is(err, domain.ErrAlertaExists) {
			s.log.Warn().Err(err).
				Str("entidad_tipo", alerta.EntidadTipo).
				Str("entidad_id", alerta.EntidadID).
				Msg("failed to create alert, continuing scan")
		}
		return false
	}
	return true
}

func (s *AlertaService) nombreNNA(ctx context.Context, nnaID string) string {
	if nnaID == "" {
		return "NNA"
	}
	n, err := s.nna.FindByID(ctx, nnaID)
	if err != nil {
		return "NNA"
	}
	return n.NombreCompleto()
}
