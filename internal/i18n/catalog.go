package i18n

import "golang.org/x/text/language"

var catalogs = map[language.Tag]map[string]string{
	language.English: {
		"patient_report":              "Patient Report",
		"name":                        "Name:",
		"age":                         "Age:",
		"job":                         "Job:",
		"not_specified":               "Not specified",
		"audiometric_testing_results": "Audiometric Testing Results",
		"frequency_hz":                "Frequency (Hz)",
		"right_ear":                   "Right Ear",
		"left_ear":                    "Left Ear",
		"assessment_results":          "Assessment Results",
		"hearing_loss_assessment":     "Hearing Loss Assessment",
		"bilateral":                   "Bilateral",
		"sal_index":                   "SAL Index (Speech Audiometry Level)",
		"eli_index":                   "ELI Index (Ear Loss Index)",
		"parameters_summary":          "Parameters Summary",
		"test_frequencies":            "Test frequencies: 500, 1000, 2000, 4000 and 8000 Hz.",
		"results_measured":            "Results are measured in dB HL (decibels Hearing Level).",
		"sal_description":             "SAL: average of the speech frequencies (500, 1000 and 2000 Hz).",
		"eli_description":             "ELI: weighted average of all frequencies (15%, 25%, 25%, 25%, 10%).",
		"insufficient_data":           "Insufficient data",
		"normal":                      "Normal",
		"mild":                        "Mild",
		"moderate":                    "Moderate",
		"moderate_severe":             "Moderate-Severe",
		"severe":                      "Severe",
		"profound":                    "Profound",
	},
	language.Spanish: {
		"patient_report":              "Informe del Paciente",
		"name":                        "Nombre:",
		"age":                         "Edad:",
		"job":                         "Profesión:",
		"not_specified":               "No especificado",
		"audiometric_testing_results": "Resultados de la Prueba Audiométrica",
		"frequency_hz":                "Frecuencia (Hz)",
		"right_ear":                   "Oído Derecho",
		"left_ear":                    "Oído Izquierdo",
		"assessment_results":          "Resultados de la Evaluación",
		"hearing_loss_assessment":     "Evaluación de la Pérdida Auditiva",
		"bilateral":                   "Bilateral",
		"sal_index":                   "Índice SAL (Nivel de Audiometría Verbal)",
		"eli_index":                   "Índice ELI (Índice de Pérdida Auditiva)",
		"parameters_summary":          "Resumen de Parámetros",
		"test_frequencies":            "Frecuencias evaluadas: 500, 1000, 2000, 4000 y 8000 Hz.",
		"results_measured":            "Los resultados se miden en dB HL (decibelios de nivel de audición).",
		"sal_description":             "SAL: promedio de las frecuencias conversacionales (500, 1000 y 2000 Hz).",
		"eli_description":             "ELI: promedio ponderado de todas las frecuencias (15%, 25%, 25%, 25%, 10%).",
		"insufficient_data":           "Datos insuficientes",
		"normal":                      "Normal",
		"mild":                        "Leve",
		"moderate":                    "Moderada",
		"moderate_severe":             "Moderada-Severa",
		"severe":                      "Severa",
		"profound":                    "Profunda",
	},
}
