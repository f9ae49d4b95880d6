package survey

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Submission is a validated survey, serialized with typed values as the
// JSON body of a prediction request.
type Submission struct {
	Gender          string  `json:"genero"                 validate:"oneof=M F"`
	FamilySupport   int     `json:"apoyo_familiar"         validate:"min=1,max=5"`
	FamilyIncome    int     `json:"ingresos_familiares"    validate:"min=1,max=5"`
	StudyHours      float64 `json:"horas_estudio"          validate:"min=0,max=168"`
	ExtraActivities float64 `json:"actividades_extra"      validate:"min=0,max=40"`
	ParentEducation int     `json:"nivel_educativo_padres" validate:"min=1,max=5"`
	InternetAccess  int     `json:"acceso_internet"        validate:"oneof=0 1"`
	FamilyClimate   int     `json:"clima_familiar"         validate:"min=1,max=5"`
	Attendance      float64 `json:"asistencia"             validate:"min=0,max=100"`
	Motivation      int     `json:"motivacion"             validate:"min=1,max=5"`
}

// ValidationError reports why a form could not become a Submission.
// Message is the single user-facing message; Fields names the inputs to
// highlight.
type ValidationError struct {
	Message    string
	Fields     []string
	Incomplete bool
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validator checks survey forms.
type Validator struct {
	validate       *validator.Validate
	incompleteForm string
}

// NewValidator returns a Validator. incompleteMessage is reported when any
// field is empty.
func NewValidator(incompleteMessage string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v, incompleteForm: incompleteMessage}
}

// Validate turns a raw form into a Submission. Empty fields are reported
// first, all at once. Otherwise the first invalid field in form order is
// reported with its bounds.
func (v *Validator) Validate(form Form) (*Submission, error) {
	if missing := form.Missing(); len(missing) > 0 {
		return nil, &ValidationError{Message: v.incompleteForm, Fields: missing, Incomplete: true}
	}

	sub := &Submission{}
	failures := make(map[string]string)
	for _, field := range Fields {
		if msg := sub.set(field, form[field.Name]); msg != "" {
			failures[field.Name] = msg
		}
	}

	if err := v.validate.Struct(sub); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("failed to validate submission: %w", err)
		}
		for _, fe := range fieldErrs {
			if _, seen := failures[fe.Field()]; seen {
				continue
			}
			if field, ok := Lookup(fe.Field()); ok {
				failures[field.Name] = field.invalidMessage()
			}
		}
	}

	for _, field := range Fields {
		if msg, ok := failures[field.Name]; ok {
			return nil, &ValidationError{Message: msg, Fields: []string{field.Name}}
		}
	}
	return sub, nil
}

// set parses raw into the struct field backing f and returns a user-facing
// message when raw cannot be parsed.
func (s *Submission) set(f Field, raw string) string {
	raw = strings.TrimSpace(raw)

	switch f.Kind {
	case KindChoice:
		if f.Name == FieldGender {
			s.Gender = strings.ToUpper(raw)
			return ""
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f.invalidMessage()
		}
		s.InternetAccess = n
		return ""

	case KindRating:
		x, err := parseFinite(raw)
		if err != nil || x < f.Min || x > f.Max {
			return f.invalidMessage()
		}
		if x != math.Trunc(x) {
			return fmt.Sprintf("%s debe ser un número entero", f.Label)
		}
		s.setInt(f.Name, int(x))
		return ""

	default:
		x, err := parseFinite(raw)
		if err != nil {
			return f.invalidMessage()
		}
		s.setFloat(f.Name, x)
		return ""
	}
}

func (s *Submission) setInt(name string, n int) {
	switch name {
	case FieldFamilySupport:
		s.FamilySupport = n
	case FieldFamilyIncome:
		s.FamilyIncome = n
	case FieldParentEducation:
		s.ParentEducation = n
	case FieldFamilyClimate:
		s.FamilyClimate = n
	case FieldMotivation:
		s.Motivation = n
	}
}

func (s *Submission) setFloat(name string, x float64) {
	switch name {
	case FieldStudyHours:
		s.StudyHours = x
	case FieldExtraActivities:
		s.ExtraActivities = x
	case FieldAttendance:
		s.Attendance = x
	}
}

// Form renders the submission back into raw form values.
func (s *Submission) Form() Form {
	return Form{
		FieldGender:          s.Gender,
		FieldFamilySupport:   strconv.Itoa(s.FamilySupport),
		FieldFamilyIncome:    strconv.Itoa(s.FamilyIncome),
		FieldStudyHours:      formatNumber(s.StudyHours),
		FieldExtraActivities: formatNumber(s.ExtraActivities),
		FieldParentEducation: strconv.Itoa(s.ParentEducation),
		FieldInternetAccess:  strconv.Itoa(s.InternetAccess),
		FieldFamilyClimate:   strconv.Itoa(s.FamilyClimate),
		FieldAttendance:      formatNumber(s.Attendance),
		FieldMotivation:      strconv.Itoa(s.Motivation),
	}
}

func (f Field) invalidMessage() string {
	if f.Kind == KindChoice {
		return f.ChoiceMessage
	}
	minStr, maxStr := f.Bounds()
	return fmt.Sprintf("%s debe estar entre %s y %s", f.Label, minStr, maxStr)
}

func parseFinite(raw string) (float64, error) {
	x, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("value %q is not a finite number", raw)
	}
	return x, nil
}
