package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"patient-access-portal/internal/config"
	"patient-access-portal/internal/ports/notify"
	"patient-access-portal/internal/router"
)

// codeInbox guarda el último código enviado a cada contacto.
type codeInbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (b *codeInbox) sender() notify.Sender {
	return notify.SenderFunc(func(_ context.Context, contact, code string) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.codes[contact] = code
		return nil
	})
}

func (b *codeInbox) last(contact string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.codes[contact]
}

func newServer(t *testing.T, mutate func(*config.Config), sender notify.Sender) *httptest.Server {
	t.Helper()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if mutate != nil {
		mutate(cfg)
	}

	h, err := router.NewRouter(context.Background(), router.Options{Config: cfg, Sender: sender})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_AccessFlow(t *testing.T) {
	inbox := &codeInbox{codes: map[string]string{}}
	ts := newServer(t, nil, inbox.sender())

	doctor := login(t, ts.URL, "doctor@example.com", "password")
	admin := login(t, ts.URL, "admin@example.com", "password")

	// 1) Buscar paciente por nombre
	var found []struct {
		ID       string `json:"id"`
		FullName string `json:"full_name"`
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/patients?q=francisca", doctor, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 search, got %d body=%s", st, string(body))
		}
		mustJSON(t, body, &found)
		if len(found) != 1 || found[0].ID != "2" {
			t.Fatalf("expected Maria Francisca (id 2), got %+v", found)
		}
	}

	// 2) Sin acceso todavía
	{
		st, body := doReq(t, ts.URL, "GET", "/patients/2/records", doctor, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 before grant, got %d body=%s", st, string(body))
		}
		if !strings.Contains(string(body), `"NONE"`) {
			t.Fatalf("expected reason NONE, got %s", string(body))
		}
	}

	// 3) Solicitar acceso + enviar código
	{
		st, body := doReq(t, ts.URL, "POST", "/patients/2/access", doctor, map[string]any{"scope": "view"})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 request access, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "POST", "/patients/2/access/code", doctor, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 issue code, got %d body=%s", st, string(body))
		}
		if strings.Contains(string(body), "hash") {
			t.Fatalf("grant response must not expose the code hash: %s", string(body))
		}
	}

	code := inbox.last("+258 82 765 4321")
	if len(code) != 6 {
		t.Fatalf("expected a 6-digit code sent to the patient, got %q", code)
	}

	// 4) Código incorrecto => 422, correcto => GRANTED
	{
		wrong := "000000"
		if code == wrong {
			wrong = "111111"
		}
		st, _ := doReq(t, ts.URL, "POST", "/patients/2/access/verify", doctor, map[string]any{"code": wrong})
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 wrong code, got %d", st)
		}

		st, body := doReq(t, ts.URL, "POST", "/patients/2/access/verify", doctor, map[string]any{"code": code})
		if st != http.StatusOK {
			t.Fatalf("expected 200 verify, got %d body=%s", st, string(body))
		}
		var g struct {
			Status string `json:"status"`
		}
		mustJSON(t, body, &g)
		if g.Status != "GRANTED" {
			t.Fatalf("expected GRANTED, got %s", g.Status)
		}
	}

	// 5) view ok, edit no
	{
		st, body := doReq(t, ts.URL, "GET", "/patients/2/records", doctor, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 records, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "POST", "/patients/2/records", doctor, map[string]any{"notes": "control"})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 edit with view grant, got %d body=%s", st, string(body))
		}
	}

	// 6) Admin nunca ve datos clínicos
	{
		st, body := doReq(t, ts.URL, "GET", "/patients/2/records", admin, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 admin records, got %d body=%s", st, string(body))
		}
		if !strings.Contains(string(body), "admin_no_clinical_access") {
			t.Fatalf("unexpected admin denial: %s", string(body))
		}
	}

	// 7) El acceso quedó registrado
	{
		st, body := doReq(t, ts.URL, "GET", "/admin/access-logs?q=francisca", admin, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 access logs, got %d body=%s", st, string(body))
		}
		var entries []struct {
			ProfessionalName string `json:"professional_name"`
			ProfessionalRole string `json:"professional_role"`
			AccessType       string `json:"access_type"`
		}
		mustJSON(t, body, &entries)
		if len(entries) == 0 {
			t.Fatalf("expected at least one access log entry")
		}
		if entries[0].ProfessionalName != "Dr. Maria Silva" || entries[0].AccessType != "view" {
			t.Fatalf("unexpected newest entry: %+v", entries[0])
		}
		if entries[0].ProfessionalRole != "Doctor" {
			t.Fatalf("expected profession Doctor, got %q", entries[0].ProfessionalRole)
		}

		st, _ = doReq(t, ts.URL, "GET", "/admin/access-logs", doctor, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 access logs for professional, got %d", st)
		}
	}

	// 8) Logout invalida el token
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/logout", doctor, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 logout, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/me", doctor, nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 after logout, got %d", st)
		}
	}
}

func TestHTTP_Login_Failures(t *testing.T) {
	ts := newServer(t, nil, nil)

	st, _ := doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{"email": "doctor@example.com", "password": "nope"})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 wrong password, got %d", st)
	}

	st, _ = doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{"email": "paulo.costa@example.com", "password": "password"})
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 inactive account, got %d", st)
	}

	st, _ = doReq(t, ts.URL, "GET", "/me", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 anonymous /me, got %d", st)
	}
}

func TestHTTP_DebugHeaders_DevCode(t *testing.T) {
	ts := newServer(t, func(c *config.Config) {
		c.Auth.DebugHeaders = true
		c.Access.DevCode = "123456"
	}, nil)

	doReqDebug := func(method, path string, body any) (int, []byte) {
		return doReqWith(t, ts.URL, method, path, map[string]string{
			"X-Debug-User-ID":     "3",
			"X-Debug-Role":        "health_professional",
			"X-Debug-User-Name":   "Dr. Ana Sousa",
			"X-Debug-Health-Unit": "Central Hospital",
		}, body)
	}

	if st, body := doReqDebug("POST", "/patients/1/access", map[string]any{"scope": "edit"}); st != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", st, string(body))
	}
	if st, body := doReqDebug("POST", "/patients/1/access/code", nil); st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}
	if st, body := doReqDebug("POST", "/patients/1/access/verify", map[string]any{"code": "123456"}); st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}

	// edit cubre view y permite crear entradas
	st, body := doReqDebug("POST", "/patients/1/records", map[string]any{
		"date":       "2026-01-20",
		"notes":      "Revisão de rotina",
		"conditions": []string{"Hipertensão"},
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create record, got %d body=%s", st, string(body))
	}

	st, body = doReqDebug("GET", "/patients/1/records", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list records, got %d body=%s", st, string(body))
	}
	var recs []struct {
		Date             string `json:"date"`
		ProfessionalName string `json:"professional_name"`
	}
	mustJSON(t, body, &recs)
	if len(recs) != 4 || recs[0].Date != "2026-01-20" || recs[0].ProfessionalName != "Dr. Ana Sousa" {
		t.Fatalf("expected new record first among 4, got %+v", recs)
	}
}

func TestHTTP_PatientProfile_AccessState(t *testing.T) {
	ts := newServer(t, nil, nil)
	doctor := login(t, ts.URL, "doctor@example.com", "password")

	st, body := doReq(t, ts.URL, "GET", "/patients/1", doctor, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 profile, got %d body=%s", st, string(body))
	}
	var prof struct {
		Patient struct {
			NID string `json:"nid"`
		} `json:"patient"`
		Access struct {
			View struct {
				Allowed bool   `json:"allowed"`
				Reason  string `json:"reason"`
			} `json:"view"`
		} `json:"access"`
	}
	mustJSON(t, body, &prof)
	if prof.Patient.NID != "1234567890" || prof.Access.View.Allowed || prof.Access.View.Reason != "NONE" {
		t.Fatalf("unexpected profile: %+v", prof)
	}

	if st, _ := doReq(t, ts.URL, "GET", "/patients/999", doctor, nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 unknown patient, got %d", st)
	}
}

func TestHTTP_PatientProfile_AccessHistory(t *testing.T) {
	inbox := &codeInbox{codes: map[string]string{}}
	ts := newServer(t, nil, inbox.sender())
	doctor := login(t, ts.URL, "doctor@example.com", "password")

	if st, body := doReq(t, ts.URL, "POST", "/patients/1/access", doctor, map[string]any{"scope": "view"}); st != http.StatusCreated {
		t.Fatalf("expected 201 request access, got %d body=%s", st, string(body))
	}
	if st, body := doReq(t, ts.URL, "POST", "/patients/1/access/code", doctor, nil); st != http.StatusOK {
		t.Fatalf("expected 200 issue code, got %d body=%s", st, string(body))
	}
	code := inbox.last("+258 84 123 4567")
	if st, body := doReq(t, ts.URL, "POST", "/patients/1/access/verify", doctor, map[string]any{"code": code}); st != http.StatusOK {
		t.Fatalf("expected 200 verify, got %d body=%s", st, string(body))
	}
	if st, body := doReq(t, ts.URL, "GET", "/patients/1/records", doctor, nil); st != http.StatusOK {
		t.Fatalf("expected 200 records, got %d body=%s", st, string(body))
	}

	st, body := doReq(t, ts.URL, "GET", "/patients/1", doctor, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 profile, got %d body=%s", st, string(body))
	}
	var prof struct {
		History []struct {
			ProfessionalName string `json:"professional_name"`
			Facility         string `json:"facility"`
			AccessType       string `json:"access_type"`
		} `json:"history"`
		Access struct {
			View struct {
				Allowed bool `json:"allowed"`
			} `json:"view"`
		} `json:"access"`
	}
	mustJSON(t, body, &prof)
	if !prof.Access.View.Allowed {
		t.Fatalf("expected view allowed after verify, got %+v", prof.Access)
	}
	// seed-1 y seed-4 son de João da Silva; el acceso nuevo va primero
	if len(prof.History) != 3 {
		t.Fatalf("expected 3 history entries, got %+v", prof.History)
	}
	first := prof.History[0]
	if first.ProfessionalName != "Dr. Maria Silva" || first.Facility != "Central Hospital" || first.AccessType != "view" {
		t.Fatalf("unexpected newest history entry: %+v", first)
	}
	if prof.History[1].ProfessionalName != "Dr. Ana Sousa" || prof.History[1].AccessType != "view" {
		t.Fatalf("expected seeded entries after the new one, got %+v", prof.History)
	}

	st, body = doReq(t, ts.URL, "GET", "/patients/3", doctor, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 profile, got %d", st)
	}
	mustJSON(t, body, &prof)
	if len(prof.History) != 1 || prof.History[0].ProfessionalName != "Nurse Maria Inês" {
		t.Fatalf("history must be scoped to the patient, got %+v", prof.History)
	}
}

func TestHTTP_Admin_CreateAccountAndUnit(t *testing.T) {
	ts := newServer(t, nil, nil)
	admin := login(t, ts.URL, "admin@example.com", "password")
	doctor := login(t, ts.URL, "doctor@example.com", "password")

	st, body := doReq(t, ts.URL, "POST", "/admin/health-units", admin, map[string]any{
		"name":        "Inhambane Rural Clinic",
		"province":    "Inhambane",
		"type":        "Clinic",
		"staff_count": 12,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create unit, got %d body=%s", st, string(body))
	}
	var unit struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	mustJSON(t, body, &unit)
	if unit.ID == "" || unit.Status != "active" {
		t.Fatalf("unexpected unit: %+v", unit)
	}

	st, body = doReq(t, ts.URL, "GET", "/admin/health-units?province=Inhambane", admin, nil)
	if st != http.StatusOK || !strings.Contains(string(body), "Inhambane Rural Clinic") {
		t.Fatalf("expected new unit in list, got %d body=%s", st, string(body))
	}

	newUser := map[string]any{
		"name":           "Dr. Rui Matsinhe",
		"email":          "Rui.Matsinhe@example.com",
		"password":       "s3gura-pass",
		"role":           "health_professional",
		"profession":     "Doctor",
		"health_unit_id": unit.ID,
	}
	st, body = doReq(t, ts.URL, "POST", "/admin/users", admin, newUser)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create user, got %d body=%s", st, string(body))
	}
	var acc struct {
		Email      string `json:"email"`
		HealthUnit string `json:"health_unit"`
	}
	mustJSON(t, body, &acc)
	if acc.Email != "rui.matsinhe@example.com" || acc.HealthUnit != "Inhambane Rural Clinic" {
		t.Fatalf("unexpected account: %+v", acc)
	}
	if strings.Contains(string(body), "s3gura-pass") {
		t.Fatalf("password leaked in response")
	}

	// la cuenta nueva puede iniciar sesión
	login(t, ts.URL, "rui.matsinhe@example.com", "s3gura-pass")

	if st, _ := doReq(t, ts.URL, "POST", "/admin/users", admin, newUser); st != http.StatusConflict {
		t.Fatalf("expected 409 duplicate email, got %d", st)
	}

	newUser["email"] = "other@example.com"
	newUser["health_unit_id"] = "999"
	if st, _ := doReq(t, ts.URL, "POST", "/admin/users", admin, newUser); st != http.StatusBadRequest {
		t.Fatalf("expected 400 unknown unit, got %d", st)
	}

	if st, _ := doReq(t, ts.URL, "POST", "/admin/users", doctor, newUser); st != http.StatusForbidden {
		t.Fatalf("expected 403 for professional, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "POST", "/admin/health-units", doctor, map[string]any{"name": "X"}); st != http.StatusForbidden {
		t.Fatalf("expected 403 for professional, got %d", st)
	}
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	ts := newServer(t, nil, nil)

	if st, _ := doReq(t, ts.URL, "GET", "/health", "", nil); st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
	st, body := doReq(t, ts.URL, "GET", "/metrics", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 metrics, got %d", st)
	}
	if !strings.Contains(string(body), "portal_http_requests_total") {
		t.Fatalf("expected http metrics in exposition")
	}
}

func login(t *testing.T, baseURL, email, password string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if st != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d body=%s", email, st, string(body))
	}

	var resp struct {
		Authenticated bool   `json:"isAuthenticated"`
		Token         string `json:"token"`
	}
	mustJSON(t, body, &resp)
	if !resp.Authenticated || resp.Token == "" {
		t.Fatalf("login %s: missing token", email)
	}
	return resp.Token
}

func mustJSON(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode json: %v body=%s", err, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()
	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return doReqWith(t, baseURL, method, path, headers, body)
}

func doReqWith(t *testing.T, baseURL, method, path string, headers map[string]string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
