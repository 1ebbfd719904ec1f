package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vet-clinic-backend/internal/domain/accounts"
	"vet-clinic-backend/internal/router"
)

func newTestServer(t *testing.T) (*httptest.Server, *accounts.Service) {
	t.Helper()
	handler, accountsSvc := router.NewRouter(router.Options{})
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts, accountsSvc
}

func seedUser(t *testing.T, svc *accounts.Service, username, email, password string, rol accounts.Role) accounts.User {
	t.Helper()
	u, err := svc.Create(context.Background(), accounts.CreateInput{
		Username:  username,
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Password:  password,
		Rol:       string(rol),
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
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
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, b
}

func login(t *testing.T, baseURL, identifier, password string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/api/usuarios/login", "", map[string]any{
		"email":    identifier,
		"password": password,
	})
	if st != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d body=%s", identifier, st, string(body))
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if out.Token == "" {
		t.Fatalf("expected token in login response")
	}
	return out.Token
}

func TestHTTP_Login_Flows(t *testing.T) {
	ts, svc := newTestServer(t)
	seedUser(t, svc, "vet1", "vet1@clinica.test", "secret123", accounts.RoleVeterinario)

	// por email
	tok1 := login(t, ts.URL, "vet1@clinica.test", "secret123")

	// por username en el campo username
	st, body := doReq(t, ts.URL, "POST", "/api/usuarios/login", "", map[string]any{
		"username": "vet1",
		"password": "secret123",
	})
	if st != http.StatusOK {
		t.Fatalf("login by username: expected 200, got %d body=%s", st, string(body))
	}
	var out struct {
		Token string `json:"token"`
		User  struct {
			Rol string `json:"rol"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Token != tok1 {
		t.Fatalf("expected idempotent token across logins")
	}
	if out.User.Rol != string(accounts.RoleVeterinario) {
		t.Fatalf("expected rol VETERINARIO, got %s", out.User.Rol)
	}

	// credenciales incompletas: 400 antes de cualquier lookup
	st, body = doReq(t, ts.URL, "POST", "/api/usuarios/login", "", map[string]any{
		"email": "vet1@clinica.test",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("missing password: expected 400, got %d body=%s", st, string(body))
	}

	// email en mayúsculas: no coincide con el almacenado, 401
	st, body = doReq(t, ts.URL, "POST", "/api/usuarios/login", "", map[string]any{
		"email":    "VET1@CLINICA.TEST",
		"password": "secret123",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("case-mismatched email: expected 401, got %d body=%s", st, string(body))
	}

	// password incorrecta: 401 con mensaje genérico
	st, body = doReq(t, ts.URL, "POST", "/api/usuarios/login", "", map[string]any{
		"email":    "vet1@clinica.test",
		"password": "nope",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", st)
	}
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if e.Error != "Credenciales inválidas" {
		t.Fatalf("expected generic credentials message, got %q", e.Error)
	}
}

func TestHTTP_Guard_UserManagement(t *testing.T) {
	ts, svc := newTestServer(t)
	seedUser(t, svc, "admin", "admin@clinica.test", "secret123", accounts.RoleSystemAdmin)
	seedUser(t, svc, "recep", "recep@clinica.test", "secret123", accounts.RoleRecepcionista)

	adminTok := login(t, ts.URL, "admin@clinica.test", "secret123")
	recepTok := login(t, ts.URL, "recep@clinica.test", "secret123")

	newUser := map[string]any{
		"username": "vet2",
		"email":    "vet2@clinica.test",
		"password": "secret123",
		"rol":      "VETERINARIO",
	}

	// anónimo: 401
	if st, _ := doReq(t, ts.URL, "POST", "/api/usuarios", "", newUser); st != http.StatusUnauthorized {
		t.Fatalf("anonymous create user: expected 401, got %d", st)
	}

	// recepcionista: 403
	if st, _ := doReq(t, ts.URL, "POST", "/api/usuarios", recepTok, newUser); st != http.StatusForbidden {
		t.Fatalf("recepcionista create user: expected 403, got %d", st)
	}

	// recepcionista puede listar
	if st, _ := doReq(t, ts.URL, "GET", "/api/usuarios", recepTok, nil); st != http.StatusOK {
		t.Fatalf("recepcionista list users: expected 200, got %d", st)
	}

	// SYSTEM_ADMIN puede crear
	st, body := doReq(t, ts.URL, "POST", "/api/usuarios", adminTok, newUser)
	if st != http.StatusCreated {
		t.Fatalf("admin create user: expected 201, got %d body=%s", st, string(body))
	}

	// filtro por rol
	st, body = doReq(t, ts.URL, "GET", "/api/usuarios?rol=VETERINARIO", recepTok, nil)
	if st != http.StatusOK {
		t.Fatalf("list by rol: expected 200, got %d", st)
	}
	var users []map[string]any
	if err := json.Unmarshal(body, &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 veterinario, got %d", len(users))
	}
}

func TestHTTP_Citas_StateMachine(t *testing.T) {
	ts, svc := newTestServer(t)
	seedUser(t, svc, "recep", "recep@clinica.test", "secret123", accounts.RoleRecepcionista)
	tok := login(t, ts.URL, "recep@clinica.test", "secret123")

	// cliente + mascota para colgar la cita
	st, body := doReq(t, ts.URL, "POST", "/api/clientes", tok, map[string]any{
		"nombre":   "María",
		"apellido": "Pérez",
		"email":    "maria@example.test",
	})
	if st != http.StatusCreated {
		t.Fatalf("create cliente: expected 201, got %d body=%s", st, string(body))
	}
	var cliente struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &cliente); err != nil {
		t.Fatalf("decode cliente: %v", err)
	}

	st, body = doReq(t, ts.URL, "POST", "/api/mascotas", tok, map[string]any{
		"propietario": cliente.ID,
		"nombre":      "Milo",
		"especie":     "Perro",
	})
	if st != http.StatusCreated {
		t.Fatalf("create mascota: expected 201, got %d body=%s", st, string(body))
	}
	var mascota struct {
		ID   string `json:"id"`
		Sexo string `json:"sexo"`
	}
	if err := json.Unmarshal(body, &mascota); err != nil {
		t.Fatalf("decode mascota: %v", err)
	}
	if mascota.Sexo != "Desconocido" {
		t.Fatalf("expected default sexo Desconocido, got %q", mascota.Sexo)
	}

	st, body = doReq(t, ts.URL, "POST", "/api/citas", tok, map[string]any{
		"mascota":          mascota.ID,
		"fecha_programada": time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC).Format(time.RFC3339),
		"motivo":           "control anual",
	})
	if st != http.StatusCreated {
		t.Fatalf("create cita: expected 201, got %d body=%s", st, string(body))
	}
	var cita struct {
		ID            string `json:"id"`
		Estado        string `json:"estado"`
		MascotaNombre string `json:"mascota_nombre"`
	}
	if err := json.Unmarshal(body, &cita); err != nil {
		t.Fatalf("decode cita: %v", err)
	}
	if cita.Estado != "PENDIENTE" {
		t.Fatalf("expected estado PENDIENTE, got %s", cita.Estado)
	}
	if cita.MascotaNombre != "Milo" {
		t.Fatalf("expected mascota_nombre Milo, got %q", cita.MascotaNombre)
	}

	// PENDIENTE -> CONFIRMADA -> CANCELADA
	for _, estado := range []string{"CONFIRMADA", "CANCELADA"} {
		st, body = doReq(t, ts.URL, "PATCH", "/api/citas/"+cita.ID, tok, map[string]any{
			"estado": estado,
		})
		if st != http.StatusOK {
			t.Fatalf("transition to %s: expected 200, got %d body=%s", estado, st, string(body))
		}
	}

	// reabrir cancelada: 400 con el motivo en el body
	st, body = doReq(t, ts.URL, "PATCH", "/api/citas/"+cita.ID, tok, map[string]any{
		"estado": "PENDIENTE",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("reopen cancelada: expected 400, got %d", st)
	}
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Detail != "no se puede cambiar el estado de una cita cancelada" {
		t.Fatalf("unexpected detail: %q", detail.Detail)
	}

	// estado desconocido: 400
	if st, _ = doReq(t, ts.URL, "PATCH", "/api/citas/"+cita.ID, tok, map[string]any{
		"estado": "ARCHIVADA",
	}); st != http.StatusBadRequest {
		t.Fatalf("unknown estado: expected 400, got %d", st)
	}

	// sin estado la máquina no interviene: notas se actualizan igual
	st, body = doReq(t, ts.URL, "PATCH", "/api/citas/"+cita.ID, tok, map[string]any{
		"notas": "cliente avisó que no viene",
	})
	if st != http.StatusOK {
		t.Fatalf("patch notas on cancelada: expected 200, got %d body=%s", st, string(body))
	}
}

func TestHTTP_Vacunas_ValidationDetail(t *testing.T) {
	ts, svc := newTestServer(t)
	seedUser(t, svc, "vet1", "vet1@clinica.test", "secret123", accounts.RoleVeterinario)
	tok := login(t, ts.URL, "vet1@clinica.test", "secret123")

	st, body := doReq(t, ts.URL, "POST", "/api/vacunas", tok, map[string]any{})
	if st != http.StatusBadRequest {
		t.Fatalf("empty vacuna: expected 400, got %d", st)
	}
	var out struct {
		Error    string            `json:"error"`
		Detalles map[string]string `json:"detalles"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Error != "Error de validación" {
		t.Fatalf("expected validation error header, got %q", out.Error)
	}
	for _, field := range []string{"mascota", "nombre", "fecha_administracion"} {
		if out.Detalles[field] == "" {
			t.Fatalf("expected detalle for %s, got %#v", field, out.Detalles)
		}
	}
}

func TestHTTP_Filters_And_Reports(t *testing.T) {
	ts, svc := newTestServer(t)
	seedUser(t, svc, "vet1", "vet1@clinica.test", "secret123", accounts.RoleVeterinario)
	tok := login(t, ts.URL, "vet1@clinica.test", "secret123")

	// dos clientes, mascotas repartidas
	var owners []string
	for _, nombre := range []string{"María", "Juan"} {
		st, body := doReq(t, ts.URL, "POST", "/api/clientes", tok, map[string]any{
			"nombre":   nombre,
			"apellido": "Pérez",
		})
		if st != http.StatusCreated {
			t.Fatalf("create cliente: got %d body=%s", st, string(body))
		}
		var c struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(body, &c); err != nil {
			t.Fatalf("decode: %v", err)
		}
		owners = append(owners, c.ID)
	}

	pets := []struct {
		owner   string
		nombre  string
		especie string
	}{
		{owners[0], "Milo", "Perro"},
		{owners[0], "Luna", "Gato"},
		{owners[1], "Rocky", "Perro"},
	}
	var firstPet string
	for i, p := range pets {
		st, body := doReq(t, ts.URL, "POST", "/api/mascotas", tok, map[string]any{
			"propietario": p.owner,
			"nombre":      p.nombre,
			"especie":     p.especie,
		})
		if st != http.StatusCreated {
			t.Fatalf("create mascota %s: got %d body=%s", p.nombre, st, string(body))
		}
		if i == 0 {
			var m struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(body, &m); err != nil {
				t.Fatalf("decode: %v", err)
			}
			firstPet = m.ID
		}
	}

	// filtro por propietario
	st, body := doReq(t, ts.URL, "GET", "/api/mascotas?propietario="+owners[0], tok, nil)
	if st != http.StatusOK {
		t.Fatalf("list mascotas: got %d", st)
	}
	var mascotas []map[string]any
	if err := json.Unmarshal(body, &mascotas); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mascotas) != 2 {
		t.Fatalf("expected 2 mascotas for owner, got %d", len(mascotas))
	}

	// vacuna para el reporte y filtro ?mascota=
	st, body = doReq(t, ts.URL, "POST", "/api/vacunas", tok, map[string]any{
		"mascota":              firstPet,
		"nombre":               "Antirrábica",
		"fecha_administracion": "2026-02-01",
	})
	if st != http.StatusCreated {
		t.Fatalf("create vacuna: got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/api/vacunas?mascota="+firstPet, tok, nil)
	if st != http.StatusOK {
		t.Fatalf("list vacunas: got %d", st)
	}
	var vacunas []map[string]any
	if err := json.Unmarshal(body, &vacunas); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(vacunas) != 1 {
		t.Fatalf("expected 1 vacuna for mascota, got %d", len(vacunas))
	}

	// resumen
	st, body = doReq(t, ts.URL, "GET", "/api/reportes/resumen", tok, nil)
	if st != http.StatusOK {
		t.Fatalf("resumen: got %d body=%s", st, string(body))
	}
	var resumen struct {
		CitasPorEstado     map[string]int `json:"citas_por_estado"`
		MascotasPorEspecie map[string]int `json:"mascotas_por_especie"`
		VacunasAplicadas   int            `json:"vacunas_aplicadas"`
	}
	if err := json.Unmarshal(body, &resumen); err != nil {
		t.Fatalf("decode resumen: %v", err)
	}
	if resumen.MascotasPorEspecie["Perro"] != 2 || resumen.MascotasPorEspecie["Gato"] != 1 {
		t.Fatalf("unexpected especies: %#v", resumen.MascotasPorEspecie)
	}
	if resumen.VacunasAplicadas != 1 {
		t.Fatalf("expected 1 vacuna aplicada, got %d", resumen.VacunasAplicadas)
	}
	if resumen.CitasPorEstado["PENDIENTE"] != 0 {
		t.Fatalf("expected zeroed estado counters, got %#v", resumen.CitasPorEstado)
	}

	// sin token todo el surtido clínico es 401
	if st, _ := doReq(t, ts.URL, "GET", "/api/reportes/resumen", "", nil); st != http.StatusUnauthorized {
		t.Fatalf("anonymous resumen: expected 401, got %d", st)
	}
}

func TestHTTP_DeleteVet_DetachesCitas(t *testing.T) {
	ts, svc := newTestServer(t)
	seedUser(t, svc, "admin", "admin@clinica.test", "secret123", accounts.RoleSystemAdmin)
	vet := seedUser(t, svc, "vet1", "vet1@clinica.test", "secret123", accounts.RoleVeterinario)
	adminTok := login(t, ts.URL, "admin@clinica.test", "secret123")

	st, body := doReq(t, ts.URL, "POST", "/api/clientes", adminTok, map[string]any{
		"nombre": "María", "apellido": "Pérez",
	})
	if st != http.StatusCreated {
		t.Fatalf("create cliente: got %d", st)
	}
	var cliente struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &cliente)

	st, body = doReq(t, ts.URL, "POST", "/api/mascotas", adminTok, map[string]any{
		"propietario": cliente.ID, "nombre": "Milo", "especie": "Perro",
	})
	if st != http.StatusCreated {
		t.Fatalf("create mascota: got %d", st)
	}
	var mascota struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &mascota)

	st, body = doReq(t, ts.URL, "POST", "/api/citas", adminTok, map[string]any{
		"mascota":          mascota.ID,
		"veterinario":      vet.ID,
		"fecha_programada": time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC).Format(time.RFC3339),
		"motivo":           "control",
	})
	if st != http.StatusCreated {
		t.Fatalf("create cita: got %d body=%s", st, string(body))
	}
	var cita struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &cita)

	if st, body = doReq(t, ts.URL, "DELETE", "/api/usuarios/"+vet.ID, adminTok, nil); st != http.StatusNoContent {
		t.Fatalf("delete vet: expected 204, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/api/citas/"+cita.ID, adminTok, nil)
	if st != http.StatusOK {
		t.Fatalf("get cita after vet delete: got %d", st)
	}
	var got struct {
		Veterinario string `json:"veterinario"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Veterinario != "" {
		t.Fatalf("expected cita detached from vet, got %q", got.Veterinario)
	}
}

func TestHTTP_Delete_Missing(t *testing.T) {
	ts, svc := newTestServer(t)
	seedUser(t, svc, "admin", "admin@clinica.test", "secret123", accounts.RoleSystemAdmin)
	adminTok := login(t, ts.URL, "admin@clinica.test", "secret123")

	for _, path := range []string{
		"/api/clientes/no-such-id",
		"/api/mascotas/no-such-id",
		"/api/inventario/no-such-id",
		"/api/usuarios/no-such-id",
		"/api/registros-medicos/no-such-id",
		"/api/vacunas/no-such-id",
	} {
		if st, body := doReq(t, ts.URL, "DELETE", path, adminTok, nil); st != http.StatusNotFound {
			t.Errorf("DELETE %s: expected 404, got %d body=%s", path, st, string(body))
		}
	}
}
