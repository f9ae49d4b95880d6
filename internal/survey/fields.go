// Package survey defines the student survey form: its fields, their valid
// ranges, and the validation that turns raw form input into a Submission
// ready to be sent to the prediction API.
package survey

import "strconv"

// Kind classifies how a field's raw value is parsed.
type Kind int

const (
	// KindChoice is a categorical select with a fixed set of values.
	KindChoice Kind = iota
	// KindRating is a whole-number rating, e.g. 1..5.
	KindRating
	// KindNumber is a bounded real number.
	KindNumber
)

// Field describes one survey input.
type Field struct {
	Name    string // form and JSON name
	Label   string
	Kind    Kind
	Min     float64
	Max     float64
	Choices []Choice
	// ChoiceMessage is shown when a KindChoice value is not one of Choices.
	ChoiceMessage string
	// Reset is the value restored when the form is cleared.
	Reset string
}

// Choice is one option of a categorical field.
type Choice struct {
	Value string
	Label string
}

// Field names, matching the JSON keys of the prediction API.
const (
	FieldGender          = "genero"
	FieldFamilySupport   = "apoyo_familiar"
	FieldFamilyIncome    = "ingresos_familiares"
	FieldStudyHours      = "horas_estudio"
	FieldExtraActivities = "actividades_extra"
	FieldParentEducation = "nivel_educativo_padres"
	FieldInternetAccess  = "acceso_internet"
	FieldFamilyClimate   = "clima_familiar"
	FieldAttendance      = "asistencia"
	FieldMotivation      = "motivacion"
)

// Fields lists the survey inputs in form order. Validation reports the
// first failing field in this order.
var Fields = []Field{
	{
		Name: FieldGender, Label: "Género", Kind: KindChoice,
		Choices:       []Choice{{Value: "M", Label: "Masculino"}, {Value: "F", Label: "Femenino"}},
		ChoiceMessage: "Género debe ser M o F",
	},
	{Name: FieldFamilySupport, Label: "Apoyo Familiar", Kind: KindRating, Min: 1, Max: 5, Reset: "3"},
	{Name: FieldFamilyIncome, Label: "Ingresos Familiares", Kind: KindRating, Min: 1, Max: 5, Reset: "3"},
	{Name: FieldStudyHours, Label: "Horas de Estudio", Kind: KindNumber, Min: 0, Max: 168},
	{Name: FieldExtraActivities, Label: "Actividades Extra", Kind: KindNumber, Min: 0, Max: 40},
	{Name: FieldParentEducation, Label: "Nivel Educativo Padres", Kind: KindRating, Min: 1, Max: 5, Reset: "3"},
	{
		Name: FieldInternetAccess, Label: "Acceso a Internet", Kind: KindChoice,
		Choices:       []Choice{{Value: "1", Label: "Sí"}, {Value: "0", Label: "No"}},
		ChoiceMessage: "Acceso a internet debe ser 0 o 1",
	},
	{Name: FieldFamilyClimate, Label: "Clima Familiar", Kind: KindRating, Min: 1, Max: 5, Reset: "3"},
	{Name: FieldAttendance, Label: "Asistencia", Kind: KindNumber, Min: 0, Max: 100},
	{Name: FieldMotivation, Label: "Motivación", Kind: KindRating, Min: 1, Max: 5, Reset: "3"},
}

var fieldIndex = func() map[string]int {
	idx := make(map[string]int, len(Fields))
	for i, f := range Fields {
		idx[f.Name] = i
	}
	return idx
}()

// Lookup returns the field with the given name.
func Lookup(name string) (Field, bool) {
	i, ok := fieldIndex[name]
	if !ok {
		return Field{}, false
	}
	return Fields[i], true
}

// Bounds formats the range as it appears in messages and input attributes.
func (f Field) Bounds() (minStr, maxStr string) {
	return formatNumber(f.Min), formatNumber(f.Max)
}

// Step is the HTML input step for numeric fields.
func (f Field) Step() string {
	if f.Kind == KindRating {
		return "1"
	}
	return "any"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
