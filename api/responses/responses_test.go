package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/nutritrack/food-catalog/pkg/errors"
	"github.com/nutritrack/food-catalog/pkg/logger"
)

func TestWriteSuccessIsBareJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, []string{"Frutas", "Lácteos"})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body []string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, []string{"Frutas", "Lácteos"}, body)
}

func TestWriteSuccessStatus(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessStatus(w, http.StatusCreated, map[string]string{"id": "abc"})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestWriteErrorMapsValidation(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.Validation("invalid food record", map[string]string{"name": "is required"})
	WriteError(context.Background(), logger.Nop(), w, err)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, string(pkgerrors.CodeValidation), body.Error.Code)
	require.Equal(t, "invalid food record", body.Error.Message)
	require.Equal(t, map[string]any{"name": "is required"}, body.Error.Details)
}

func TestWriteErrorNotFoundKeepsMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "Alimento no encontrado"))

	require.Equal(t, http.StatusNotFound, w.Code)
	var body ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, "Alimento no encontrado", body.Error.Message)
}

func TestWriteErrorDefaultsToInternalForUntypedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), logger.Nop(), w, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, string(pkgerrors.CodeInternal), body.Error.Code)
	require.Equal(t, "internal server error", body.Error.Message)
	require.Nil(t, body.Error.Details)
}

func TestWriteErrorDependencyHidesMessage(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp: refused"), "food store unavailable: search")
	WriteError(context.Background(), nil, w, err)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, "dependency unavailable", body.Error.Message)
}
