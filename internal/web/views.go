package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/edgard/studentpredictor/internal/database"
	"github.com/edgard/studentpredictor/internal/predictor"
	"github.com/edgard/studentpredictor/internal/survey"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageIndex   = "index.html"
	pageModel   = "model.html"
	pageHistory = "history.html"
)

var funcs = template.FuncMap{
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f", v*100)
	},
	"width": func(v float64) string {
		return fmt.Sprintf("%.2f", v*100)
	},
	"datetime": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04:05")
	},
}

// views holds one parsed template set per page, each combined with the
// shared layout.
type views map[string]*template.Template

func loadViews() (views, error) {
	v := views{}
	for _, page := range []string{pageIndex, pageModel, pageHistory} {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		v[page] = t
	}
	return v, nil
}

func (v views) render(w io.Writer, page string, data any) error {
	t, ok := v[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// fieldView is one form input with its current value.
type fieldView struct {
	survey.Field
	Value   string
	Invalid bool
}

func (f fieldView) IsChoice() bool { return f.Kind == survey.KindChoice }
func (f fieldView) IsRating() bool { return f.Kind == survey.KindRating }

func (f fieldView) MinText() string {
	lo, _ := f.Bounds()
	return lo
}

func (f fieldView) MaxText() string {
	_, hi := f.Bounds()
	return hi
}

// indexPage is the form page. With neither Prediction nor Error set the
// result panel shows its empty state.
type indexPage struct {
	Fields            []fieldView
	Prediction        *predictor.Prediction
	Error             string
	ServiceDown       string
	EmptyResult       string
	EmptyResultDetail string
	HistoryEnabled    bool
}

func newIndexPage(form survey.Form, invalid []string) indexPage {
	marked := make(map[string]bool, len(invalid))
	for _, name := range invalid {
		marked[name] = true
	}

	fields := make([]fieldView, 0, len(survey.Fields))
	for _, f := range survey.Fields {
		fields = append(fields, fieldView{Field: f, Value: form.Value(f.Name), Invalid: marked[f.Name]})
	}
	return indexPage{Fields: fields}
}

type modelPage struct {
	Info           *predictor.ModelInfo
	Error          string
	HistoryEnabled bool
}

type historyPage struct {
	Exchanges      []database.Exchange
	Limit          int
	HistoryEnabled bool
}
