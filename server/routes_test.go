package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/studyplan"
	"github.com/meikuraledutech/studyplan/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	return newApp(memstore.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestScheduleEndpoint(t *testing.T) {
	app := testApp(t)

	status, body := do(t, app, http.MethodPost, "/schedule", `{"records": [
		{"name": "A", "prerequisites": ["B", "C"]},
		{"name": "B", "prerequisites": ["D"]},
		{"name": "C", "prerequisites": ["D"]},
		{"name": "D"}
	]}`)
	require.Equal(t, http.StatusOK, status, string(body))

	sched := decode[studyplan.Schedule](t, body)
	assert.Equal(t, []studyplan.Level{
		{Index: 1, Modules: []string{"D"}},
		{Index: 2, Modules: []string{"B", "C"}},
		{Index: 3, Modules: []string{"A"}},
	}, sched.Levels)
}

func TestScheduleEndpointErrors(t *testing.T) {
	app := testApp(t)

	t.Run("invalid body", func(t *testing.T) {
		status, _ := do(t, app, http.MethodPost, "/schedule", `{"records": [`)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("malformed record", func(t *testing.T) {
		status, body := do(t, app, http.MethodPost, "/schedule", `{"records": [{"prerequisites": ["B"]}]}`)
		assert.Equal(t, http.StatusBadRequest, status)

		resp := decode[struct {
			Error  string           `json:"error"`
			Record studyplan.Record `json:"record"`
		}](t, body)
		assert.Equal(t, "malformed record", resp.Error)
		assert.Equal(t, []string{"B"}, resp.Record.Prerequisites)
	})

	t.Run("cycle", func(t *testing.T) {
		status, body := do(t, app, http.MethodPost, "/schedule", `{"records": [
			{"name": "A", "prerequisites": ["B"]},
			{"name": "B", "prerequisites": ["C"]},
			{"name": "C", "prerequisites": ["A"]}
		]}`)
		assert.Equal(t, http.StatusUnprocessableEntity, status)

		resp := decode[struct {
			Remaining []string `json:"remaining"`
		}](t, body)
		assert.Equal(t, []string{"A", "B", "C"}, resp.Remaining)
	})
}

func TestCatalogueLifecycle(t *testing.T) {
	app := testApp(t)

	status, body := do(t, app, http.MethodPost, "/catalogues", `{"id": "cs", "records": [
		{"name": "A", "prerequisites": ["B"]},
		{"name": "B"}
	]}`)
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = do(t, app, http.MethodGet, "/catalogues", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"cs"}, decode[[]string](t, body))

	status, body = do(t, app, http.MethodGet, "/catalogues/cs", "")
	require.Equal(t, http.StatusOK, status)
	cat := decode[studyplan.Catalogue](t, body)
	assert.Len(t, cat.Records, 2)

	status, _ = do(t, app, http.MethodGet, "/catalogues/cs/schedule", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = do(t, app, http.MethodPost, "/catalogues/cs/schedule", "")
	require.Equal(t, http.StatusCreated, status, string(body))
	created := decode[studyplan.Schedule](t, body)
	assert.Equal(t, 2, created.Len())

	status, body = do(t, app, http.MethodGet, "/catalogues/cs/schedule", "")
	require.Equal(t, http.StatusOK, status)
	sched := decode[studyplan.Schedule](t, body)
	assert.Equal(t, "Semester 1: B\nSemester 2: A\n", sched.String())
	assert.False(t, sched.CreatedAt.IsZero())

	status, _ = do(t, app, http.MethodDelete, "/catalogues/cs", "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = do(t, app, http.MethodGet, "/catalogues/cs", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCatalogueMalformed(t *testing.T) {
	app := testApp(t)

	status, _ := do(t, app, http.MethodPost, "/catalogues", `{"records": [{"name": ""}]}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/catalogues", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPrerequisiteEndpoints(t *testing.T) {
	app := testApp(t)

	status, _ := do(t, app, http.MethodPost, "/catalogues", `{"id": "cs", "records": [{"name": "A", "prerequisites": ["B"]}]}`)
	require.Equal(t, http.StatusCreated, status)

	status, _ = do(t, app, http.MethodPost, "/catalogues/cs/prerequisites", `{"module": "B", "prerequisite": "C"}`)
	assert.Equal(t, http.StatusCreated, status)

	status, body := do(t, app, http.MethodPost, "/catalogues/cs/prerequisites", `{"module": "C", "prerequisite": "A"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(body), "cycle detected")

	status, _ = do(t, app, http.MethodPost, "/catalogues/missing/prerequisites", `{"module": "C", "prerequisite": "A"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodDelete, "/catalogues/cs/modules/A/prerequisites/B", "")
	assert.Equal(t, http.StatusNoContent, status)

	status, body = do(t, app, http.MethodPost, "/catalogues/cs/schedule", "")
	require.Equal(t, http.StatusCreated, status)
	sched := decode[studyplan.Schedule](t, body)
	assert.Equal(t, "Semester 1: A C\nSemester 2: B\n", sched.String())

	status, _ = do(t, app, http.MethodDelete, "/catalogues/missing/modules/A/prerequisites/B", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestScheduleMissingCatalogue(t *testing.T) {
	app := testApp(t)

	status, _ := do(t, app, http.MethodPost, "/catalogues/missing/schedule", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSchemaEndpoints(t *testing.T) {
	app := testApp(t)

	status, _ := do(t, app, http.MethodPost, "/schema", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodDelete, "/schema", "")
	assert.Equal(t, http.StatusOK, status)
}
