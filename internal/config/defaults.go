package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultServerAddr            = ":8080"
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 45 * time.Second // must outlive the API timeout
	DefaultServerShutdownTimeout = 10 * time.Second

	DefaultAPIBaseURL       = "http://localhost:5000"
	DefaultAPIPredictPath   = "/api/predict"
	DefaultAPIHealthPath    = "/api/health"
	DefaultAPIModelInfoPath = "/api/model-info"
	DefaultAPITimeout       = 30 * time.Second

	DefaultHistoryEnabled   = false
	DefaultHistoryDBPath    = "predictions.db"
	DefaultHistoryRetention = 30 * 24 * time.Hour
	DefaultHistoryPageSize  = 50
)

// Names of the tasks known to the scheduler.
const (
	TaskAPIHealthProbe   = "api_health_probe"
	TaskHistoryRetention = "history_retention"
	TaskSQLMaintenance   = "sql_maintenance"
)

// DefaultTasks is the schedule used when config.yaml has no scheduler section.
var DefaultTasks = map[string]TaskConfig{
	TaskAPIHealthProbe:   {Enabled: true, Schedule: "*/30 * * * * *"},
	TaskHistoryRetention: {Enabled: true, Schedule: "0 15 3 * * *"},
	TaskSQLMaintenance:   {Enabled: true, Schedule: "0 30 3 * * 0"},
}

// DefaultMessages holds the Spanish UI strings of the survey front-end.
var DefaultMessages = Messages{
	IncompleteForm:    "Por favor complete todos los campos del formulario",
	PredictionFailed:  "Error en la predicción",
	ConnectionError:   "Error de conexión con el servidor. Verifique que el backend esté ejecutándose en %s",
	ServiceDown:       "El servicio de predicción no está disponible en este momento",
	EmptyResult:       "Complete el formulario para obtener la predicción",
	EmptyResultDetail: "El sistema analizará los datos del estudiante",
}
