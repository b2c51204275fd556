package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/residencia-nna/residencia-api/internal/api/middleware"
	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

type stubGenerador struct {
	vencimientos int
	medidas      int
}

func (g stubGenerador) GenerarVencimientos(context.Context, domain.Principal) (int, error) {
	return g.vencimientos, nil
}

func (g stubGenerador) GenerarVencimientosMedidas(context.Context, domain.Principal) (int, error) {
	return g.medidas, nil
}

func (g stubGenerador) AlertasVencimientoMedidas(context.Context, int) ([]domain.VencimientoMedida, error) {
	return nil, nil
}

func decodeGenerar(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestAlertaHandler_GenerarVencimientos_Response(t *testing.T) {
	h := NewAlertaHandler(nil, stubGenerador{vencimientos: 4}, nil)

	c, rec := newTestContext(t, http.MethodPost, "/api/alertas/generar/vencimientos", "")
	middleware.SetPrincipal(c, domain.Principal{UserID: "u1", Rol: domain.RoleCoordinador})

	if err := h.GenerarVencimientos(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeGenerar(t, rec.Body.Bytes())
	if n, ok := body["alertas_creadas"].(float64); !ok || n != 4 {
		t.Fatalf("expected alertas_creadas=4, got %v", body["alertas_creadas"])
	}
	if msg, ok := body["message"].(string); !ok || msg == "" {
		t.Fatalf("expected a message field, got %v", body["message"])
	}
}

func TestAlertaHandler_GenerarVencimientosMedidas_Response(t *testing.T) {
	h := NewAlertaHandler(nil, stubGenerador{medidas: 2}, nil)

	c, rec := newTestContext(t, http.MethodPost, "/api/juridico/generar-alertas-vencimiento", "")
	middleware.SetPrincipal(c, domain.Principal{UserID: "u1", Rol: domain.RoleCoordinador})

	if err := h.GenerarVencimientosMedidas(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeGenerar(t, rec.Body.Bytes())
	if n, ok := body["alertas_creadas"].(float64); !ok || n != 2 {
		t.Fatalf("expected alertas_creadas=2, got %v", body["alertas_creadas"])
	}
}
