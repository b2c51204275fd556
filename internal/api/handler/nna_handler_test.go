package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/residencia-nna/residencia-api/internal/api/middleware"
	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

// Stubs embed the port interface so only the methods a test exercises
// need an implementation.

type stubNNARepo struct {
	ports.NNARepository
	created *domain.NNA
	deleted []string
}

func (r *stubNNARepo) Create(_ context.Context, n *domain.NNA) (*domain.NNA, error) {
	r.created = n
	out := *n
	out.ID = "nna1"
	return &out, nil
}

func (r *stubNNARepo) Delete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

type stubIntervencionCascade struct {
	ports.IntervencionRepository
	deletedFor []string
}

func (r *stubIntervencionCascade) DeleteByNNA(_ context.Context, nnaID string) error {
	r.deletedFor = append(r.deletedFor, nnaID)
	return nil
}

type stubSeguimientoCascade struct {
	ports.SeguimientoRepository
	deletedFor []string
}

func (r *stubSeguimientoCascade) DeleteByNNA(_ context.Context, nnaID string) error {
	r.deletedFor = append(r.deletedFor, nnaID)
	return nil
}

type stubTallerCascade struct {
	ports.TallerRepository
	removedFor []string
}

func (r *stubTallerCascade) RemoveParticipanteTodos(_ context.Context, nnaID string) error {
	r.removedFor = append(r.removedFor, nnaID)
	return nil
}

func TestNNAHandler_Create_CleansRUT(t *testing.T) {
	repo := &stubNNARepo{}
	h := NewNNAHandler(repo, &stubIntervencionCascade{}, &stubSeguimientoCascade{}, &stubTallerCascade{}, zerolog.Nop())

	body := `{"nombre":"Pedro","apellido":"Rojas","rut":"12.345.678-5","genero":"masculino","fecha_ingreso":"2025-01-15"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/nna", body)
	middleware.SetPrincipal(c, domain.Principal{UserID: "u1", Rol: domain.RoleTecnico})

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if repo.created.RUT != "123456785" {
		t.Fatalf("expected cleaned rut, got %q", repo.created.RUT)
	}
	if repo.created.Estado != domain.NNAActivo {
		t.Fatalf("expected default estado activo, got %q", repo.created.Estado)
	}
	if repo.created.CreadoPor != "u1" {
		t.Fatalf("expected creator u1, got %q", repo.created.CreadoPor)
	}
}

func TestNNAHandler_Create_RejectsBadRUT(t *testing.T) {
	repo := &stubNNARepo{}
	h := NewNNAHandler(repo, &stubIntervencionCascade{}, &stubSeguimientoCascade{}, &stubTallerCascade{}, zerolog.Nop())

	body := `{"nombre":"Pedro","apellido":"Rojas","rut":"12.345.678-0","genero":"masculino","fecha_ingreso":"2025-01-15"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/nna", body)
	middleware.SetPrincipal(c, domain.Principal{UserID: "u1", Rol: domain.RoleTecnico})

	if err := h.Create(c); !errors.Is(err, domain.ErrInvalidRUT) {
		t.Fatalf("expected ErrInvalidRUT, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("nothing should be persisted on a bad RUT")
	}
}

func TestNNAHandler_Delete_Cascades(t *testing.T) {
	repo := &stubNNARepo{}
	intervenciones := &stubIntervencionCascade{}
	seguimientos := &stubSeguimientoCascade{}
	talleres := &stubTallerCascade{}
	h := NewNNAHandler(repo, intervenciones, seguimientos, talleres, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodDelete, "/api/nna/nna1", "")
	c.SetParamNames("id")
	c.SetParamValues("nna1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "nna1" {
		t.Fatalf("resident not deleted: %v", repo.deleted)
	}
	if len(intervenciones.deletedFor) != 1 || intervenciones.deletedFor[0] != "nna1" {
		t.Fatalf("interventions not cascaded: %v", intervenciones.deletedFor)
	}
	if len(seguimientos.deletedFor) != 1 || seguimientos.deletedFor[0] != "nna1" {
		t.Fatalf("follow-ups not cascaded: %v", seguimientos.deletedFor)
	}
	if len(talleres.removedFor) != 1 || talleres.removedFor[0] != "nna1" {
		t.Fatalf("workshop enrollments not cascaded: %v", talleres.removedFor)
	}
}

func TestNNAHandler_ValidarRUT(t *testing.T) {
	h := NewNNAHandler(&stubNNARepo{}, &stubIntervencionCascade{}, &stubSeguimientoCascade{}, &stubTallerCascade{}, zerolog.Nop())

	cases := []struct {
		name       string
		body       string
		valido     bool
		formateado string
	}{
		{"valid with dots", `{"rut":"12.345.678-5"}`, true, "12.345.678-5"},
		{"valid bare", `{"rut":"123456785"}`, true, "12.345.678-5"},
		{"wrong check digit", `{"rut":"12345678-9"}`, false, ""},
		{"garbage", `{"rut":"abc"}`, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t, http.MethodPost, "/api/nna/validar-rut", tc.body)
			if err := h.ValidarRUT(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}

			var resp validarRUTResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Valido != tc.valido {
				t.Fatalf("expected valido=%v, got %v", tc.valido, resp.Valido)
			}
			if resp.Formateado != tc.formateado {
				t.Fatalf("expected formateado %q, got %q", tc.formateado, resp.Formateado)
			}
		})
	}
}

func TestNNAHandler_Create_MissingRequiredFields(t *testing.T) {
	h := NewNNAHandler(&stubNNARepo{}, &stubIntervencionCascade{}, &stubSeguimientoCascade{}, &stubTallerCascade{}, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodPost, "/api/nna", `{"nombre":"Pedro"}`)
	middleware.SetPrincipal(c, domain.Principal{UserID: "u1", Rol: domain.RoleTecnico})

	err := h.Create(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
