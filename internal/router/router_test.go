package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(router.NewRouter(router.Options{AuthSecret: "test-secret", DebugAuth: true}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_DebugHeadersRequireOptIn(t *testing.T) {
	// Sem o opt-in, identidade forjada por cabeçalho não autentica nada.
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthSecret: "prod-like-secret"}))
	t.Cleanup(ts.Close)

	st, _ := doReq(t, ts.URL, "POST", "/terms/accept", "victim-user", "", map[string]any{
		"terms_of_use": true,
		"lgpd":         true,
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged debug header, got %d", st)
	}

	st, _ = doReq(t, ts.URL, "GET", "/me/requests", "victim-user", "adopter", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged debug header on protected route, got %d", st)
	}
}

func TestHTTP_EndToEnd_AdoptionFlow(t *testing.T) {
	ts := newTestServer(t)

	orgUser := "user-org"
	adopterA := "user-adopter-a"
	adopterB := "user-adopter-b"

	// 1) Sem aceite de termos, a subárvore protegida responde 403
	{
		st, _ := doReq(t, ts.URL, "GET", "/me/requests", adopterA, "adopter", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 before terms acceptance, got %d", st)
		}
	}

	// 2) Todos aceitam os termos (rota fora do gate)
	for _, uid := range []string{orgUser, adopterA, adopterB} {
		acceptTerms(t, ts.URL, uid)
	}

	// 3) Perfis
	{
		st, body := doReq(t, ts.URL, "PUT", "/me/profile/organization", orgUser, "organization", map[string]any{
			"cnpj":       "11222333000181",
			"trade_name": "Abrigo Esperança",
			"phone":      "11987654321",
			"address":    "Rua das Flores, 100 - São Paulo",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 upsert organization, got %d body=%s", st, string(body))
		}
	}
	for uid, cpf := range map[string]string{adopterA: "52998224725", adopterB: "11144477735"} {
		st, body := doReq(t, ts.URL, "PUT", "/me/profile/adopter", uid, "adopter", map[string]any{
			"cpf":     cpf,
			"phone":   "11912345678",
			"address": "Av. Paulista, 1000 - São Paulo",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 upsert adopter for %s, got %d body=%s", uid, st, string(body))
		}
	}

	// 4) Organização cadastra pet
	petID := createPet(t, ts.URL, orgUser, map[string]any{
		"name":        "Thor",
		"species":     "dog",
		"breed":       "vira-lata",
		"age_months":  24,
		"sex":         "male",
		"size":        "medium",
		"description": "Dócil e vacinado, adora crianças.",
	})

	// 5) Pet visível sem autenticação
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID, "", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 public get pet, got %d body=%s", st, string(body))
		}
	}

	// 6) Dois interessados no mesmo pet
	reqA := submitRequest(t, ts.URL, adopterA, petID)
	submitRequest(t, ts.URL, adopterB, petID)

	// 7) Solicitação duplicada do mesmo adotante => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/pets/"+petID+"/requests", adopterA, "adopter", map[string]any{
			"motive":     "Quero muito um cachorro para companhia diária.",
			"experience": "Já tive dois cães por mais de dez anos.",
			"housing":    "Casa com quintal murado.",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate request, got %d", st)
		}
	}

	// 8) Entrevista do adotante A: agenda e aprova
	{
		st, body := doReq(t, ts.URL, "POST", "/requests/"+reqA+"/interview", orgUser, "organization", map[string]any{
			"at":       time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
			"location": "Sede do abrigo",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 schedule interview, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/requests/"+reqA+"/interview/result", orgUser, "organization", map[string]any{
			"approved": true,
			"notes":    "Entrevista tranquila, aprovado.",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 interview result, got %d body=%s", st, string(body))
		}
	}

	// 9) Agendar retirada reserva o pet e rejeita a solicitação do B
	{
		st, body := doReq(t, ts.URL, "POST", "/requests/"+reqA+"/pickup", orgUser, "organization", map[string]any{
			"at": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 schedule pickup, got %d body=%s", st, string(body))
		}
	}
	{
		reqs := listMyRequests(t, ts.URL, adopterB)
		if len(reqs) != 1 || reqs[0].Status != "rejected" {
			t.Fatalf("expected sibling request rejected after reserve, got %+v", reqs)
		}
	}

	// 10) A assina o termo de adoção e a organização confirma a entrega
	{
		st, body := doReq(t, ts.URL, "POST", "/requests/"+reqA+"/term", adopterA, "adopter", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 accept adoption term, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/requests/"+reqA+"/confirm", orgUser, "organization", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 confirm completion, got %d body=%s", st, string(body))
		}
	}

	// 11) Confirmar de novo é idempotente
	{
		st, body := doReq(t, ts.URL, "POST", "/requests/"+reqA+"/confirm", orgUser, "organization", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on repeated confirm, got %d body=%s", st, string(body))
		}
	}

	// 12) Pet agora consta como adotado
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID, "", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get pet, got %d", st)
		}
		var resp struct {
			Status string `json:"status"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Status != "adopted" {
			t.Fatalf("expected pet status adopted, got %q body=%s", resp.Status, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/me/adopted-pets", adopterA, "adopter", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 adopted pets, got %d body=%s", st, string(body))
		}
		var resp []struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp) != 1 || resp[0].ID != petID {
			t.Fatalf("expected adopted pet %s, got body=%s", petID, string(body))
		}
	}

	// 13) Estatísticas da organização refletem o desfecho
	{
		st, body := doReq(t, ts.URL, "GET", "/org/requests/stats", orgUser, "organization", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 org stats, got %d body=%s", st, string(body))
		}
		var stats struct {
			Total     int `json:"total"`
			Completed int `json:"completed"`
			Rejected  int `json:"rejected"`
		}
		_ = json.Unmarshal(body, &stats)
		if stats.Total != 2 || stats.Completed != 1 || stats.Rejected != 1 {
			t.Fatalf("unexpected stats: %+v body=%s", stats, string(body))
		}
	}
}

func TestHTTP_AuditLog_AdminOnly(t *testing.T) {
	ts := newTestServer(t)

	acceptTerms(t, ts.URL, "user-admin")
	acceptTerms(t, ts.URL, "user-common")

	{
		st, _ := doReq(t, ts.URL, "GET", "/admin/audit", "user-common", "adopter", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 audit for non-admin, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/admin/audit", "user-admin", "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 audit for admin, got %d body=%s", st, string(body))
		}
		var entries []struct {
			Method string `json:"method"`
			Path   string `json:"path"`
		}
		if err := json.Unmarshal(body, &entries); err != nil {
			t.Fatalf("unmarshal audit entries: %v body=%s", err, string(body))
		}
		// As chamadas anteriores desta função já devem ter sido registradas.
		if len(entries) == 0 {
			t.Fatalf("expected audit entries recorded, got none")
		}
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := newTestServer(t)

	st, _ := doReq(t, ts.URL, "GET", "/health", "", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
}

func acceptTerms(t *testing.T, baseURL, userID string) {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/terms/accept", userID, "", map[string]any{
		"terms_of_use": true,
		"lgpd":         true,
		"version":      "1.0",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 accept terms for %s, got %d body=%s", userID, st, string(body))
	}
}

func createPet(t *testing.T, baseURL, orgUser string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", orgUser, "organization", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func submitRequest(t *testing.T, baseURL, adopterUser, petID string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets/"+petID+"/requests", adopterUser, "adopter", map[string]any{
		"motive":     "Quero muito um cachorro para companhia diária.",
		"experience": "Já tive dois cães por mais de dez anos.",
		"housing":    "Casa com quintal murado.",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 submit request, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("submit request: missing id body=%s", string(body))
	}
	return resp.ID
}

type requestView struct {
	ID     string `json:"id"`
	PetID  string `json:"pet_id"`
	Status string `json:"status"`
}

func listMyRequests(t *testing.T, baseURL, userID string) []requestView {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/me/requests", userID, "adopter", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 my requests, got %d body=%s", st, string(body))
	}
	var out []requestView
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal requests: %v body=%s", err, string(body))
	}
	return out
}

func doReq(t *testing.T, baseURL, method, path, debugUserID, debugRole string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}
	if debugRole != "" {
		req.Header.Set("X-Debug-Role", debugRole)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, b
}
