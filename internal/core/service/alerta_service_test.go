package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

// Stubs embed their port interface so only the methods the rule engine
// touches need implementations.

type stubAlertaRepo struct {
	ports.AlertaRepository
	created     []domain.Alerta
	abierta     map[string]bool
	createCalls int
	lookupCalls int
}

func newStubAlertaRepo() *stubAlertaRepo {
	return &stubAlertaRepo{abierta: make(map[string]bool)}
}

func dedupeKey(entidadTipo, entidadID, tipo string) string {
	return entidadTipo + "/" + entidadID + "/" + tipo
}

func (r *stubAlertaRepo) Create(_ context.Context, a *domain.Alerta) (*domain.Alerta, error) {
	r.createCalls++
	key := dedupeKey(a.EntidadTipo, a.EntidadID, a.Tipo)
	if r.abierta[key] {
		return nil, domain.ErrAlertaExists
	}
	r.abierta[key] = true
	r.created = append(r.created, *a)
	return a, nil
}

func (r *stubAlertaRepo) FindAbierta(_ context.Context, entidadTipo, entidadID, tipo string) (*domain.Alerta, error) {
	r.lookupCalls++
	if r.abierta[dedupeKey(entidadTipo, entidadID, tipo)] {
		return &domain.Alerta{EntidadTipo: entidadTipo, EntidadID: entidadID, Tipo: tipo, Estado: domain.AlertaActiva}, nil
	}
	return nil, domain.ErrAlertaNotFound
}

type stubIntervencionRepo struct {
	ports.IntervencionRepository
	pendientes   []domain.Intervencion
	desde, hasta string
}

func (r *stubIntervencionRepo) ConSeguimientoPendiente(_ context.Context, desde, hasta string) ([]domain.Intervencion, error) {
	r.desde, r.hasta = desde, hasta
	return r.pendientes, nil
}

type stubTallerRepo struct {
	ports.TallerRepository
	proximos []domain.Taller
}

func (r *stubTallerRepo) Proximos(_ context.Context, _, _ string) ([]domain.Taller, error) {
	return r.proximos, nil
}

type stubMedidaRepo struct {
	ports.MedidaRepository
	medidas      []domain.MedidaJudicial
	desde, hasta string
}

func (r *stubMedidaRepo) ProximasAVencer(_ context.Context, desde, hasta string) ([]domain.MedidaJudicial, error) {
	r.desde, r.hasta = desde, hasta
	return r.medidas, nil
}

type stubNNARepo struct {
	ports.NNARepository
	byID map[string]*domain.NNA
}

func (r *stubNNARepo) FindByID(_ context.Context, id string) (*domain.NNA, error) {
	if n, ok := r.byID[id]; ok {
		return n, nil
	}
	return nil, domain.ErrNNANotFound
}

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestAlertaService(alertas *stubAlertaRepo, iv *stubIntervencionRepo, ta *stubTallerRepo, me *stubMedidaRepo) *AlertaService {
	nna := &stubNNARepo{byID: map[string]*domain.NNA{
		"nna1": {ID: "nna1", Nombre: "Ana", Apellido: "Soto"},
	}}
	svc := NewAlertaService(alertas, iv, ta, me, nna, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

var generador = domain.Principal{UserID: "u1", Email: "coordinador@residencia.cl", Rol: domain.RoleCoordinador}

func TestGenerarVencimientos(t *testing.T) {
	alertas := newStubAlertaRepo()
	iv := &stubIntervencionRepo{pendientes: []domain.Intervencion{
		{ID: "i1", NNAID: "nna1", Fecha: "2025-03-01", Prioridad: domain.PrioridadUrgente, FechaProximoSeguimiento: "2025-03-12"},
		{ID: "i2", NNAID: "nna1", Fecha: "2025-03-02", Prioridad: domain.PrioridadBaja, FechaProximoSeguimiento: "2025-03-15"},
	}}
	ta := &stubTallerRepo{proximos: []domain.Taller{
		{ID: "t1", Nombre: "Arte", Fecha: "2025-03-14", HoraInicio: "16:00", Estado: domain.TallerProgramado},
	}}
	svc := newTestAlertaService(alertas, iv, ta, &stubMedidaRepo{})

	n, err := svc.GenerarVencimientos(context.Background(), generador)
	if err != nil {
		t.Fatalf("GenerarVencimientos returned error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 alerts created, got %d", n)
	}
	if iv.desde != "2025-03-10" || iv.hasta != "2025-03-17" {
		t.Fatalf("unexpected 7-day scan window: [%s, %s]", iv.desde, iv.hasta)
	}

	byEntidad := make(map[string]domain.Alerta)
	for _, a := range alertas.created {
		byEntidad[a.EntidadID] = a
	}
	if a := byEntidad["i1"]; a.Tipo != domain.AlertaSeguimientoPendiente || a.Prioridad != domain.PrioridadAlta {
		t.Fatalf("urgent intervention alert wrong: tipo=%s prioridad=%s", a.Tipo, a.Prioridad)
	}
	if a := byEntidad["i2"]; a.Prioridad != domain.PrioridadMedia {
		t.Fatalf("non-urgent intervention must map to media, got %s", a.Prioridad)
	}
	if a := byEntidad["t1"]; a.Tipo != domain.AlertaTallerProximo || a.Prioridad != domain.PrioridadMedia {
		t.Fatalf("workshop alert wrong: tipo=%s prioridad=%s", a.Tipo, a.Prioridad)
	}
	if a := byEntidad["i1"]; a.Estado != domain.AlertaActiva || a.CreadoPor != "u1" {
		t.Fatalf("alert not active or missing creator: %+v", a)
	}
}

func TestGenerarVencimientos_Idempotente(t *testing.T) {
	alertas := newStubAlertaRepo()
	iv := &stubIntervencionRepo{pendientes: []domain.Intervencion{
		{ID: "i1", NNAID: "nna1", Prioridad: domain.PrioridadMedia, FechaProximoSeguimiento: "2025-03-12"},
	}}
	svc := newTestAlertaService(alertas, iv, &stubTallerRepo{}, &stubMedidaRepo{})

	if n, err := svc.GenerarVencimientos(context.Background(), generador); err != nil || n != 1 {
		t.Fatalf("first run: n=%d err=%v", n, err)
	}
	if n, err := svc.GenerarVencimientos(context.Background(), generador); err != nil || n != 0 {
		t.Fatalf("second run must create nothing: n=%d err=%v", n, err)
	}
	if len(alertas.created) != 1 {
		t.Fatalf("expected exactly 1 stored alert, got %d", len(alertas.created))
	}
	// The second run must skip through the open-alert lookup, not by
	// bouncing an insert off the unique index.
	if alertas.createCalls != 1 {
		t.Fatalf("expected 1 insert attempt, got %d", alertas.createCalls)
	}
	if alertas.lookupCalls != 2 {
		t.Fatalf("expected 2 open-alert lookups, got %d", alertas.lookupCalls)
	}
}

func TestGenerarVencimientosMedidas_Prioridades(t *testing.T) {
	alertas := newStubAlertaRepo()
	me := &stubMedidaRepo{medidas: []domain.MedidaJudicial{
		{ID: "m1", NNAID: "nna1", TipoMedida: "proteccion", FechaTermino: "2025-03-15", Estado: domain.MedidaVigente}, // 5 days
		{ID: "m2", NNAID: "nna1", TipoMedida: "proteccion", FechaTermino: "2025-03-22", Estado: domain.MedidaVigente}, // 12 days
		{ID: "m3", NNAID: "nna1", TipoMedida: "proteccion", FechaTermino: "2025-04-04", Estado: domain.MedidaDictada}, // 25 days
	}}
	svc := newTestAlertaService(alertas, &stubIntervencionRepo{}, &stubTallerRepo{}, me)

	n, err := svc.GenerarVencimientosMedidas(context.Background(), generador)
	if err != nil {
		t.Fatalf("GenerarVencimientosMedidas returned error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 alerts, got %d", n)
	}
	if me.desde != "2025-03-10" || me.hasta != "2025-04-09" {
		t.Fatalf("unexpected 30-day scan window: [%s, %s]", me.desde, me.hasta)
	}

	want := map[string]string{
		"m1": domain.PrioridadCritica,
		"m2": domain.PrioridadAlta,
		"m3": domain.PrioridadMedia,
	}
	for _, a := range alertas.created {
		if a.Tipo != domain.AlertaVencimientoPlazo {
			t.Fatalf("unexpected alert type %s", a.Tipo)
		}
		if a.Prioridad != want[a.EntidadID] {
			t.Fatalf("measure %s: expected priority %s, got %s", a.EntidadID, want[a.EntidadID], a.Prioridad)
		}
	}
}

func TestAlertasVencimientoMedidas_Proyeccion(t *testing.T) {
	me := &stubMedidaRepo{medidas: []domain.MedidaJudicial{
		{ID: "m1", NNAID: "nna1", TipoMedida: "proteccion", FechaTermino: "2025-03-15", Estado: domain.MedidaVigente}, // 5 days
		{ID: "m2", NNAID: "nna1", TipoMedida: "proteccion", FechaTermino: "2025-03-22", Estado: domain.MedidaVigente}, // 12 days
		{ID: "m3", NNAID: "desconocido", TipoMedida: "cuidado", FechaTermino: "2025-04-04", Estado: domain.MedidaVigente}, // 25 days
	}}
	svc := newTestAlertaService(newStubAlertaRepo(), &stubIntervencionRepo{}, &stubTallerRepo{}, me)

	out, err := svc.AlertasVencimientoMedidas(context.Background(), 30)
	if err != nil {
		t.Fatalf("AlertasVencimientoMedidas returned error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 projections, got %d", len(out))
	}
	if out[0].DiasRestantes != 5 || out[0].Prioridad != domain.PrioridadAlta {
		t.Fatalf("5-day projection wrong: %+v", out[0])
	}
	if out[0].NNANombre != "Ana Soto" {
		t.Fatalf("expected resolved resident name, got %q", out[0].NNANombre)
	}
	if out[1].DiasRestantes != 12 || out[1].Prioridad != domain.PrioridadMedia {
		t.Fatalf("12-day projection wrong: %+v", out[1])
	}
	if out[2].DiasRestantes != 25 || out[2].Prioridad != domain.PrioridadBaja {
		t.Fatalf("25-day projection wrong: %+v", out[2])
	}
	if out[2].NNANombre != "NNA" {
		t.Fatalf("unknown resident should fall back to placeholder, got %q", out[2].NNANombre)
	}
}
