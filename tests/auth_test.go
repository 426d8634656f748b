package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"empleadosauth/internal/dto"
	"empleadosauth/internal/handler"
	"empleadosauth/internal/middleware"
	"empleadosauth/internal/model"
	"empleadosauth/internal/service"
	"empleadosauth/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory Repository Stub ─────────────────────────────────────────────────

type stubEmpleadoRepo struct {
	empleados map[int]*model.Empleado
	nextID    int
}

func newStubRepo() *stubEmpleadoRepo {
	return &stubEmpleadoRepo{empleados: make(map[int]*model.Empleado), nextID: 1}
}

func (r *stubEmpleadoRepo) CreateConAsignacion(_ context.Context, e *model.Empleado) error {
	id := r.nextID
	if _, exists := r.empleados[id]; exists {
		return gorm.ErrDuplicatedKey
	}
	e.IDEmpleado = id
	cp := *e
	r.empleados[id] = &cp
	r.nextID = id + 1
	return nil
}

func (r *stubEmpleadoRepo) FindByID(_ context.Context, id int) (*model.Empleado, error) {
	e, ok := r.empleados[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *stubEmpleadoRepo) List(_ context.Context) ([]model.Empleado, error) {
	out := make([]model.Empleado, 0, len(r.empleados))
	for _, e := range r.empleados {
		out = append(out, model.Empleado{
			IDEmpleado: e.IDEmpleado, Paterno: e.Paterno,
			Materno: e.Materno, Nombres: e.Nombres,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IDEmpleado < out[j].IDEmpleado })
	return out, nil
}

func (r *stubEmpleadoRepo) ListConClaves(_ context.Context) ([]model.Empleado, error) {
	out := make([]model.Empleado, 0, len(r.empleados))
	for _, e := range r.empleados {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IDEmpleado < out[j].IDEmpleado })
	return out, nil
}

func (r *stubEmpleadoRepo) UpdateClave(_ context.Context, id int, clave string) error {
	e, ok := r.empleados[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Clave = clave
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newTestIssuer() *token.Issuer { return token.NewIssuer(testSecret, 24*time.Hour) }

func newTestRouter(repo *stubEmpleadoRepo, iss *token.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())

	svc := service.NewAuthService(repo, iss)
	h := handler.NewAuthHandler(svc)

	auth := r.Group("/api/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)

	jwtMW := middleware.JWTAuth(iss)
	auth.GET("/profile", jwtMW, h.Profile)
	auth.GET("/empleados", jwtMW, h.ListEmpleados)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, tok string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registrar(t *testing.T, r *gin.Engine, paterno, nombres, clave string) dto.AuthResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Paterno: paterno, Nombres: nombres, Clave: clave,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ── Tests: Register ───────────────────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	r := newTestRouter(newStubRepo(), newTestIssuer())

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Paterno: "Gomez", Nombres: "Ana", Clave: "s3cr3t",
	}, "")

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Gomez", resp.User.Paterno)
	assert.Positive(t, resp.User.ID)

	// The clave must never appear in any response.
	assert.NotContains(t, w.Body.String(), "clave")
	assert.NotContains(t, w.Body.String(), "s3cr3t")
}

func TestRegister_MissingFields(t *testing.T) {
	r := newTestRouter(newStubRepo(), newTestIssuer())

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", map[string]string{
		"paterno": "Gomez",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "requeridos")
}

func TestRegister_IdentificadoresCrecientes(t *testing.T) {
	r := newTestRouter(newStubRepo(), newTestIssuer())

	prev := 0
	for i := 0; i < 5; i++ {
		resp := registrar(t, r, "Gomez", "Ana", "s3cr3t")
		assert.Greater(t, resp.User.ID, prev, "each id must exceed every previous one")
		prev = resp.User.ID
	}
}

func TestRegister_ClaveSiempreHasheada(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(repo, newTestIssuer())

	// Even an input that already looks like a bcrypt hash is hashed again:
	// the stored value is never the raw user input.
	entrada := "$2a$12$abcdefghijklmnopqrstuv"
	resp := registrar(t, r, "Gomez", "Ana", entrada)

	stored := repo.empleados[resp.User.ID].Clave
	assert.NotEqual(t, entrada, stored)
	assert.True(t, service.EsClaveHasheada(stored))
	assert.True(t, service.VerificarClave(stored, entrada))
}

func TestRegister_Duplicado(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(repo, newTestIssuer())
	registrar(t, r, "Gomez", "Ana", "s3cr3t")

	// Force the id collision the counter race can produce.
	repo.nextID = 1
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Paterno: "Lopez", Nombres: "Juan", Clave: "otra",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "El empleado ya existe")
}

// ── Tests: Login ──────────────────────────────────────────────────────────────

func TestLogin_Success_ClaimsCoinciden(t *testing.T) {
	iss := newTestIssuer()
	r := newTestRouter(newStubRepo(), iss)
	reg := registrar(t, r, "Gomez", "Ana", "s3cr3t")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		EmpleadoID: reg.User.ID, Clave: "s3cr3t",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, reg.User.ID, resp.User.ID)

	claims, err := iss.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.EmpleadoID)
	assert.Equal(t, "Ana", claims.Nombres)
	assert.Equal(t, "Gomez", claims.Paterno)
}

func TestLogin_ErroresIndistinguibles(t *testing.T) {
	r := newTestRouter(newStubRepo(), newTestIssuer())
	reg := registrar(t, r, "Gomez", "Ana", "s3cr3t")

	// Wrong clave on an existing id vs. a nonexistent id: the responses must
	// be byte-identical so accounts cannot be enumerated.
	wMala := doJSON(t, r, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		EmpleadoID: reg.User.ID, Clave: "incorrecta",
	}, "")
	wInexistente := doJSON(t, r, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		EmpleadoID: 99999, Clave: "incorrecta",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, wMala.Code)
	assert.Equal(t, http.StatusUnauthorized, wInexistente.Code)
	assert.Equal(t, wMala.Body.Bytes(), wInexistente.Body.Bytes())
	assert.Contains(t, wMala.Body.String(), "Credenciales inválidas")
}

func TestLogin_MissingFields(t *testing.T) {
	r := newTestRouter(newStubRepo(), newTestIssuer())

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]any{"empleadoId": 1}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_ClaveLegadaTextoPlano(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(repo, newTestIssuer())

	// Row inherited from the legacy database: plaintext, padded to column width.
	repo.empleados[7] = &model.Empleado{
		IDEmpleado: 7, Paterno: "Quispe", Nombres: "Luis", Clave: "legada123   ",
	}

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		EmpleadoID: 7, Clave: "legada123",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

// ── Tests: Profile / Empleados ────────────────────────────────────────────────

func TestProfile_FlujoCompleto(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(repo, newTestIssuer())
	reg := registrar(t, r, "Gomez", "Ana", "s3cr3t")

	w := doJSON(t, r, http.MethodGet, "/api/auth/profile", nil, reg.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.PerfilResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, reg.User.ID, resp.User.ID)

	// Token truncated by one character → 403.
	w = doJSON(t, r, http.MethodGet, "/api/auth/profile", nil, reg.Token[:len(reg.Token)-1])
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No token at all → 401.
	w = doJSON(t, r, http.MethodGet, "/api/auth/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfile_EmpleadoDesaparecido(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(repo, newTestIssuer())
	reg := registrar(t, r, "Gomez", "Ana", "s3cr3t")

	delete(repo.empleados, reg.User.ID)
	w := doJSON(t, r, http.MethodGet, "/api/auth/profile", nil, reg.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfile_TokenExpirado(t *testing.T) {
	repo := newStubRepo()
	expirado := token.NewIssuer(testSecret, -time.Minute)
	r := newTestRouter(repo, newTestIssuer())

	tok, err := expirado.Issue(1, "Ana", "Gomez")
	require.NoError(t, err)
	w := doJSON(t, r, http.MethodGet, "/api/auth/profile", nil, tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEmpleados_RequiereToken(t *testing.T) {
	r := newTestRouter(newStubRepo(), newTestIssuer())

	w := doJSON(t, r, http.MethodGet, "/api/auth/empleados", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEmpleados_Listado(t *testing.T) {
	r := newTestRouter(newStubRepo(), newTestIssuer())
	registrar(t, r, "Gomez", "Ana", "s3cr3t")
	reg := registrar(t, r, "Lopez", "Juan", "otra")

	w := doJSON(t, r, http.MethodGet, "/api/auth/empleados", nil, reg.Token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.EmpleadosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Empleados, 2)
	assert.Less(t, resp.Empleados[0].ID, resp.Empleados[1].ID)
	assert.NotContains(t, w.Body.String(), "clave")
}

// ── Tests: Migración de claves ────────────────────────────────────────────────

func TestMigrarClaves(t *testing.T) {
	repo := newStubRepo()
	hashPrevio, err := service.HashClave("ya-hasheada")
	require.NoError(t, err)
	repo.empleados[1] = &model.Empleado{IDEmpleado: 1, Paterno: "Gomez", Nombres: "Ana", Clave: "plana1  "}
	repo.empleados[2] = &model.Empleado{IDEmpleado: 2, Paterno: "Lopez", Nombres: "Juan", Clave: hashPrevio}
	repo.empleados[3] = &model.Empleado{IDEmpleado: 3, Paterno: "Diaz", Nombres: "Eva", Clave: "plana3"}

	migradas, err := service.MigrarClaves(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 2, migradas)

	// Hashed rows untouched, plaintext rows rewritten and still verifying.
	assert.Equal(t, hashPrevio, repo.empleados[2].Clave)
	for id, clave := range map[int]string{1: "plana1", 3: "plana3"} {
		assert.True(t, service.EsClaveHasheada(repo.empleados[id].Clave))
		assert.True(t, service.VerificarClave(repo.empleados[id].Clave, clave))
	}

	// Idempotent: a second pass migrates nothing.
	migradas, err = service.MigrarClaves(context.Background(), repo)
	require.NoError(t, err)
	assert.Zero(t, migradas)
}
