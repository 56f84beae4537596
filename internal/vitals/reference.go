package vitals

// ReferenceRanges are the normal ranges shown on the public reference endpoint.
var ReferenceRanges = map[string]string{
	"presion_arterial":    "120/80 mmHg (normal)",
	"oxigenacion":         "95% - 100%",
	"glucosa":             "70 - 110 mg/dL (en ayunas)",
	"frecuencia_cardiaca": "60 - 100 latidos por minuto",
}
