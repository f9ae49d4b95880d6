package predictor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Class labels returned by the prediction API.
const (
	ClassHigh   = "Alto"
	ClassMedium = "Medio"
	ClassLow    = "Bajo"
)

// DefaultRecommendations are shown when the API returns none.
var DefaultRecommendations = []string{
	"Mantener comunicación constante con la familia",
	"Establecer horarios de estudio regulares",
	"Participar en actividades de apoyo académico",
	"Consultar con tutores ante dificultades",
}

var classEmoji = map[string]string{
	"alto":  "🎉",
	"medio": "📈",
	"bajo":  "⚠️",
}

// Prediction is the decoded success response of the prediction endpoint.
type Prediction struct {
	Class           string        `json:"prediccion"`
	Confidence      float64       `json:"confianza"`
	Probabilities   Probabilities `json:"probabilidades"`
	KeyFactors      []string      `json:"factores_clave,omitempty"`
	Recommendations []string      `json:"recomendaciones,omitempty"`
}

// Level is the lower-case class, used as a CSS class and emoji key.
func (p *Prediction) Level() string {
	return strings.ToLower(strings.TrimSpace(p.Class))
}

// Emoji returns the marker shown next to the result title.
func (p *Prediction) Emoji() string {
	return classEmoji[p.Level()]
}

// RecommendationsOrDefault returns the API recommendations, or the default
// list when the API sent none.
func (p *Prediction) RecommendationsOrDefault() []string {
	if len(p.Recommendations) == 0 {
		return DefaultRecommendations
	}
	return p.Recommendations
}

// ClassProbability is one entry of the per-class probability mapping.
type ClassProbability struct {
	Class       string
	Probability float64
}

// Level is the lower-case class name.
func (c ClassProbability) Level() string {
	return strings.ToLower(c.Class)
}

// Probabilities keeps the per-class mapping in the order the API sent it.
type Probabilities []ClassProbability

// UnmarshalJSON decodes a JSON object while preserving key order.
func (p *Probabilities) UnmarshalJSON(data []byte) error {
	out := Probabilities{}
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var prob float64
		if err := json.Unmarshal(raw, &prob); err != nil {
			return fmt.Errorf("probability for %q: %w", key, err)
		}
		out = append(out, ClassProbability{Class: key, Probability: prob})
		return nil
	})
	if err != nil {
		return err
	}
	*p = out
	return nil
}

// MarshalJSON encodes the mapping as a JSON object in stored order.
func (p Probabilities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cp := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cp.Class)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(cp.Probability, 'g', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"modelo_cargado"`
	Message     string `json:"mensaje"`
}

// Healthy reports whether the API can serve predictions.
func (h *HealthStatus) Healthy() bool {
	return h != nil && h.Status == "healthy" && h.ModelLoaded
}

// ModelInfo is the body of the model info endpoint.
type ModelInfo struct {
	Model       string     `json:"modelo"`
	Description string     `json:"descripcion"`
	Metrics     Metrics    `json:"metricas"`
	Variables   []Variable `json:"variables"`
	Classes     []string   `json:"clases"`
}

// Metric is one named model metric.
type Metric struct {
	Name  string
	Value string
}

// Metrics keeps the metrics in the order the API sent them.
type Metrics []Metric

// UnmarshalJSON decodes a JSON object of metrics. String values are kept
// as-is; other values keep their JSON text.
func (m *Metrics) UnmarshalJSON(data []byte) error {
	out := Metrics{}
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			s = string(raw)
		}
		out = append(out, Metric{Name: key, Value: s})
		return nil
	})
	if err != nil {
		return err
	}
	*m = out
	return nil
}

// Variable describes one model input.
type Variable struct {
	Name   string `json:"nombre"`
	Type   string `json:"tipo"`
	Range  string `json:"rango,omitempty"`
	Values []any  `json:"valores,omitempty"`
}

// Domain renders the range, or the allowed values joined by commas.
func (v Variable) Domain() string {
	if v.Range != "" {
		return v.Range
	}
	parts := make([]string, 0, len(v.Values))
	for _, val := range v.Values {
		parts = append(parts, fmt.Sprint(val))
	}
	return strings.Join(parts, ", ")
}

// decodeOrderedObject walks a JSON object key by key. A JSON null is
// treated as an empty object.
func decodeOrderedObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("value for %q: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
