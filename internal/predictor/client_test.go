package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/studentpredictor/internal/config"
	"github.com/edgard/studentpredictor/internal/survey"
)

const predictionBody = `{
	"prediccion": "Alto",
	"probabilidades": {"Bajo": 0.1, "Medio": 0.25, "Alto": 0.65},
	"factores_clave": ["Alta Motivación", "Excelente Asistencia"],
	"recomendaciones": ["Mantener los buenos hábitos de estudio"],
	"confianza": 0.65
}`

func testSubmission() *survey.Submission {
	return &survey.Submission{
		Gender: "F", FamilySupport: 4, FamilyIncome: 3, StudyHours: 15, ExtraActivities: 5,
		ParentEducation: 4, InternetAccess: 1, FamilyClimate: 4, Attendance: 90, Motivation: 4,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default().API
	cfg.BaseURL = srv.URL
	return NewClientWithHTTP(cfg, srv.Client(), nil)
}

func TestPredictSuccess(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(predictionBody))
	})

	pred, err := client.Predict(context.Background(), testSubmission())
	require.NoError(t, err)

	assert.Equal(t, "F", gotBody["genero"])
	assert.Equal(t, float64(90), gotBody["asistencia"])

	assert.Equal(t, ClassHigh, pred.Class)
	assert.Equal(t, "alto", pred.Level())
	assert.Equal(t, "🎉", pred.Emoji())
	assert.InDelta(t, 0.65, pred.Confidence, 1e-9)
	assert.Equal(t, Probabilities{
		{Class: "Bajo", Probability: 0.1},
		{Class: "Medio", Probability: 0.25},
		{Class: "Alto", Probability: 0.65},
	}, pred.Probabilities)
	assert.Equal(t, []string{"Alta Motivación", "Excelente Asistencia"}, pred.KeyFactors)
	assert.Equal(t, []string{"Mantener los buenos hábitos de estudio"}, pred.RecommendationsOrDefault())
}

func TestPredictNon2xx(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		message string
		detail  string
	}{
		{
			name:    "validation error from api",
			status:  http.StatusBadRequest,
			body:    `{"error": "Error en validación de datos", "detalle": "Motivacion debe estar entre 1 y 5"}`,
			message: "Error en validación de datos",
			detail:  "Motivacion debe estar entre 1 y 5",
		},
		{
			name:    "model not loaded",
			status:  http.StatusInternalServerError,
			body:    `{"error": "Modelo no disponible"}`,
			message: "Modelo no disponible",
		},
		{
			name:   "non json error body",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Predict(context.Background(), testSubmission())
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.detail, apiErr.Detail)
		})
	}
}

func TestPredictUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	cfg := config.Default().API
	cfg.BaseURL = srv.URL
	srv.Close()

	client := NewClientWithHTTP(cfg, &http.Client{Timeout: time.Second}, nil)
	_, err := client.Predict(context.Background(), testSubmission())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable), "got %v", err)
}

func TestPredictInvalidSuccessBody(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`not json`, `{"confianza": 0.5}`, `{"prediccion": "Alto", "probabilidades": [1]}`} {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := client.Predict(context.Background(), testSubmission())
		assert.True(t, errors.Is(err, ErrInvalidResponse), "body %s: got %v", body, err)
	}
}

func TestPredictNilSubmission(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected")
	})
	_, err := client.Predict(context.Background(), nil)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/health", r.URL.Path)
			_, _ = w.Write([]byte(`{"status": "healthy", "modelo_cargado": true, "mensaje": "ok"}`))
		})
		h, err := client.Health(context.Background())
		require.NoError(t, err)
		assert.True(t, h.Healthy())
	})

	t.Run("model missing answers 500 with body", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"status": "error", "modelo_cargado": false, "mensaje": "Modelo no cargado"}`))
		})
		h, err := client.Health(context.Background())
		require.NoError(t, err)
		assert.False(t, h.Healthy())
		assert.Equal(t, "Modelo no cargado", h.Message)
	})

	t.Run("404 without health body", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": "Ruta no encontrada"}`))
		})
		_, err := client.Health(context.Background())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	})
}

func TestModelInfo(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/model-info", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"modelo": "Regresión Logística",
			"descripcion": "Modelo de clasificación",
			"metricas": {"precision_prueba": "40.0%", "precision_entrenamiento": "54.3%", "folds": 5},
			"variables": [
				{"nombre": "Género", "tipo": "Categórico", "valores": ["M", "F"]},
				{"nombre": "Asistencia", "tipo": "Numérico", "rango": "0-100%"},
				{"nombre": "Acceso a Internet", "tipo": "Binario", "valores": [0, 1]}
			],
			"clases": ["Alto", "Medio", "Bajo"]
		}`))
	})

	info, err := client.ModelInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Regresión Logística", info.Model)
	assert.Equal(t, Metrics{
		{Name: "precision_prueba", Value: "40.0%"},
		{Name: "precision_entrenamiento", Value: "54.3%"},
		{Name: "folds", Value: "5"},
	}, info.Metrics)
	require.Len(t, info.Variables, 3)
	assert.Equal(t, "M, F", info.Variables[0].Domain())
	assert.Equal(t, "0-100%", info.Variables[1].Domain())
	assert.Equal(t, "0, 1", info.Variables[2].Domain())
	assert.Equal(t, []string{"Alto", "Medio", "Bajo"}, info.Classes)
}

func TestProbabilitiesMarshalKeepsOrder(t *testing.T) {
	t.Parallel()

	p := Probabilities{{Class: "Medio", Probability: 0.5}, {Class: "Alto", Probability: 0.3}, {Class: "Bajo", Probability: 0.2}}
	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{"Medio":0.5,"Alto":0.3,"Bajo":0.2}`, string(body))

	var back Probabilities
	require.NoError(t, json.Unmarshal(body, &back))
	assert.Equal(t, p, back)
}

func TestDefaultRecommendations(t *testing.T) {
	t.Parallel()

	p := &Prediction{Class: "Medio"}
	assert.Equal(t, DefaultRecommendations, p.RecommendationsOrDefault())
	assert.Len(t, p.RecommendationsOrDefault(), 4)
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	const fallback = "Error en la predicción"
	const conn = "Error de conexión"

	assert.Equal(t, "Modelo no disponible", UserMessage(&APIError{StatusCode: 500, Message: "Modelo no disponible"}, fallback, conn))
	assert.Equal(t, fallback, UserMessage(&APIError{StatusCode: 500}, fallback, conn))
	assert.Equal(t, conn, UserMessage(errors.Join(ErrUnavailable), fallback, conn))
	assert.Equal(t, conn, UserMessage(ErrInvalidResponse, fallback, conn))
	assert.Equal(t, fallback, UserMessage(errors.New("boom"), fallback, conn))
}

func TestStatusTracker(t *testing.T) {
	t.Parallel()

	tr := NewStatusTracker()
	_, known := tr.Current()
	assert.False(t, known)
	assert.False(t, tr.Down())

	now := time.Now()
	tr.Record(&HealthStatus{Status: "healthy", ModelLoaded: true}, nil, now)
	assert.False(t, tr.Down())

	s := tr.Record(nil, ErrUnavailable, now)
	assert.False(t, s.Healthy)
	assert.True(t, tr.Down())

	var nilTracker *StatusTracker
	assert.False(t, nilTracker.Down())
}
