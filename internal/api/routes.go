package api

import (
	"net/http"

	"github.com/RMahshie/audiometry/internal/api/handlers"
	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, patientHandler *handlers.PatientHandler) {
	// Register patient record routes
	huma.Register(api, huma.Operation{
		OperationID: "listPatients",
		Method:      http.MethodGet,
		Path:        "/api/patients",
		Summary:     "List patients",
		Description: "Returns all patients ordered by name, optionally filtered by a name search",
		Tags:        []string{"Patients"},
	}, patientHandler.ListPatients)

	huma.Register(api, huma.Operation{
		OperationID:   "createPatient",
		Method:        http.MethodPost,
		Path:          "/api/patients",
		Summary:       "Create a patient",
		Description:   "Stores a new patient record with its audiograms",
		Tags:          []string{"Patients"},
		DefaultStatus: http.StatusCreated,
	}, patientHandler.CreatePatient)

	huma.Register(api, huma.Operation{
		OperationID: "flushDrafts",
		Method:      http.MethodPost,
		Path:        "/api/patients/flush",
		Summary:     "Save pending drafts",
		Description: "Writes every pending draft immediately",
		Tags:        []string{"Patients"},
	}, patientHandler.FlushDrafts)

	huma.Register(api, huma.Operation{
		OperationID: "getPatient",
		Method:      http.MethodGet,
		Path:        "/api/patients/{id}",
		Summary:     "Get a patient",
		Tags:        []string{"Patients"},
	}, patientHandler.GetPatient)

	huma.Register(api, huma.Operation{
		OperationID: "updatePatient",
		Method:      http.MethodPut,
		Path:        "/api/patients/{id}",
		Summary:     "Update a patient",
		Description: "Replaces the patient's data and saves it immediately",
		Tags:        []string{"Patients"},
	}, patientHandler.UpdatePatient)

	huma.Register(api, huma.Operation{
		OperationID: "saveDraft",
		Method:      http.MethodPut,
		Path:        "/api/patients/{id}/draft",
		Summary:     "Autosave a patient",
		Description: "Schedules a save after a short period without further edits",
		Tags:        []string{"Patients"},
	}, patientHandler.SaveDraft)

	huma.Register(api, huma.Operation{
		OperationID:   "deletePatient",
		Method:        http.MethodDelete,
		Path:          "/api/patients/{id}",
		Summary:       "Delete a patient",
		Tags:          []string{"Patients"},
		DefaultStatus: http.StatusNoContent,
	}, patientHandler.DeletePatient)

	// Register assessment and report routes
	huma.Register(api, huma.Operation{
		OperationID: "getAssessment",
		Method:      http.MethodGet,
		Path:        "/api/patients/{id}/assessment",
		Summary:     "Get patient assessment",
		Description: "Returns hearing loss, SAL and ELI per ear plus the bilateral average",
		Tags:        []string{"Assessment"},
	}, patientHandler.GetAssessment)

	huma.Register(api, huma.Operation{
		OperationID: "calculate",
		Method:      http.MethodPost,
		Path:        "/api/calculate",
		Summary:     "Calculate indices",
		Description: "Computes all indices for two audiograms without storing them",
		Tags:        []string{"Assessment"},
	}, patientHandler.Calculate)

	huma.Register(api, huma.Operation{
		OperationID: "getReport",
		Method:      http.MethodGet,
		Path:        "/api/patients/{id}/report",
		Summary:     "Get patient report",
		Description: "Renders the patient's report as markdown",
		Tags:        []string{"Reports"},
	}, patientHandler.GetReport)

	huma.Register(api, huma.Operation{
		OperationID: "archiveReport",
		Method:      http.MethodPost,
		Path:        "/api/patients/{id}/report/archive",
		Summary:     "Archive patient report",
		Description: "Uploads the rendered report to object storage and returns a download URL",
		Tags:        []string{"Reports"},
	}, patientHandler.ArchiveReport)

	huma.Register(api, huma.Operation{
		OperationID: "getArchivedReport",
		Method:      http.MethodGet,
		Path:        "/api/patients/{id}/report/archive/{archivedAt}",
		Summary:     "Get archived report",
		Tags:        []string{"Reports"},
	}, patientHandler.GetArchivedReport)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteArchivedReport",
		Method:        http.MethodDelete,
		Path:          "/api/patients/{id}/report/archive/{archivedAt}",
		Summary:       "Delete archived report",
		Tags:          []string{"Reports"},
		DefaultStatus: http.StatusNoContent,
	}, patientHandler.DeleteArchivedReport)

	huma.Register(api, huma.Operation{
		OperationID: "getPatientsReport",
		Method:      http.MethodGet,
		Path:        "/api/reports",
		Summary:     "Get report for all patients",
		Description: "Renders every patient matching the name search, in name order, as one markdown document",
		Tags:        []string{"Reports"},
	}, patientHandler.GetPatientsReport)
}
