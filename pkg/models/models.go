package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Storage string    `json:"storage" example:"json" doc:"Active record store backend"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// PatientInput is the patient form as entered by the clinician. Hearing levels
// are text so that a blank field stays distinguishable from 0 dB HL.
type PatientInput struct {
	Name     string   `json:"name" maxLength:"200" doc:"Patient full name"`
	Age      string   `json:"age,omitempty" maxLength:"20" doc:"Patient age"`
	Job      string   `json:"job,omitempty" maxLength:"200" doc:"Patient occupation"`
	RightEar []string `json:"right_ear,omitempty" maxItems:"5" doc:"Right ear dB HL at 500, 1000, 2000, 4000, 8000 Hz; blank for no measurement"`
	LeftEar  []string `json:"left_ear,omitempty" maxItems:"5" doc:"Left ear dB HL at 500, 1000, 2000, 4000, 8000 Hz; blank for no measurement"`
}

// ListPatientsRequest lists patients, optionally filtered by name
type ListPatientsRequest struct {
	Query string `query:"q" maxLength:"200" doc:"Case-insensitive name substring"`
}

// ListPatientsResponseBody is the body of the list response
type ListPatientsResponseBody struct {
	Patients []*Patient `json:"patients" doc:"Patients ordered by name"`
	Count    int        `json:"count" doc:"Number of patients returned"`
}

// ListPatientsResponse represents a list of patients
type ListPatientsResponse struct {
	Body ListPatientsResponseBody
}

// CreatePatientRequest represents a request to create a patient record
type CreatePatientRequest struct {
	Body PatientInput
}

// GetPatientRequest represents a request for a single patient
type GetPatientRequest struct {
	ID string `path:"id" doc:"Patient ID"`
}

// UpdatePatientRequest replaces a patient's data
type UpdatePatientRequest struct {
	ID   string `path:"id" doc:"Patient ID"`
	Body PatientInput
}

// PatientResponse returns a stored patient record
type PatientResponse struct {
	Body *Patient
}

// SaveDraftResponseBody is the body of the draft response
type SaveDraftResponseBody struct {
	ID      string `json:"id" doc:"Patient ID"`
	Pending int    `json:"pending" doc:"Number of records waiting to be written"`
	Message string `json:"message" doc:"Human-readable status message"`
}

// SaveDraftResponse acknowledges a debounced save
type SaveDraftResponse struct {
	Status int
	Body   SaveDraftResponseBody
}

// FlushDraftsResponse reports how many pending saves were written
type FlushDraftsResponse struct {
	Body struct {
		Flushed int `json:"flushed" doc:"Number of pending records written"`
	}
}

// DeletePatientRequest represents a request to delete a patient
type DeletePatientRequest struct {
	ID string `path:"id" doc:"Patient ID"`
}

// GetAssessmentRequest represents a request for a patient's indices
type GetAssessmentRequest struct {
	ID string `path:"id" doc:"Patient ID"`
}

// IndexResultBody is one computed index or the reason it could not be computed
type IndexResultBody struct {
	Value     *float64 `json:"value,omitempty" doc:"Index value in dB HL"`
	Band      string   `json:"band,omitempty" enum:"normal,mild,moderate,moderate_severe,severe,profound" doc:"Classification key"`
	Label     string   `json:"label,omitempty" doc:"Classification label"`
	Formatted string   `json:"formatted,omitempty" example:"28.5 dB" doc:"Value rendered for display"`
	Error     string   `json:"error,omitempty" doc:"Why the index could not be computed"`
}

// EarIndicesBody groups the per-ear indices
type EarIndicesBody struct {
	HearingLoss IndexResultBody `json:"hearing_loss" doc:"Mean over all five frequencies"`
	SAL         IndexResultBody `json:"sal" doc:"Speech Audiometry Level (500/1000/2000 Hz)"`
	ELI         IndexResultBody `json:"eli" doc:"Ear Loss Index (weighted)"`
}

// AssessmentBody is the full set of computed indices
type AssessmentBody struct {
	PatientID  string          `json:"patient_id,omitempty" doc:"Patient ID"`
	Right      EarIndicesBody  `json:"right" doc:"Right ear indices"`
	Left       EarIndicesBody  `json:"left" doc:"Left ear indices"`
	Bilateral  IndexResultBody `json:"bilateral" doc:"Mean of the two ear means"`
	Thresholds []ThresholdRow  `json:"thresholds" doc:"Measured thresholds per frequency"`
}

// AssessmentResponse returns computed indices
type AssessmentResponse struct {
	Body AssessmentBody
}

// CalculateRequest computes indices for raw profiles without storing anything
type CalculateRequest struct {
	Body struct {
		RightEar []string `json:"right_ear" maxItems:"5" doc:"Right ear dB HL at 500, 1000, 2000, 4000, 8000 Hz"`
		LeftEar  []string `json:"left_ear" maxItems:"5" doc:"Left ear dB HL at 500, 1000, 2000, 4000, 8000 Hz"`
	}
}

// GetReportRequest represents a request for a rendered report
type GetReportRequest struct {
	ID             string `path:"id" doc:"Patient ID"`
	Lang           string `query:"lang" doc:"Report language (en, es)"`
	AcceptLanguage string `header:"Accept-Language" doc:"Preferred languages"`
}

// ArchiveReportRequest renders a report and stores it in the archive
type ArchiveReportRequest struct {
	ID             string `path:"id" doc:"Patient ID"`
	Lang           string `query:"lang" doc:"Report language (en, es)"`
	AcceptLanguage string `header:"Accept-Language" doc:"Preferred languages"`
}

// ArchivedReportRequest identifies one archived report of a patient
type ArchivedReportRequest struct {
	ID         string `path:"id" doc:"Patient ID"`
	ArchivedAt int64  `path:"archivedAt" doc:"Unix time the report was archived, as returned in its key"`
}

// GetPatientsReportRequest renders one report for every matching patient
type GetPatientsReportRequest struct {
	Query          string `query:"q" doc:"Case-insensitive name search; empty renders all patients"`
	Lang           string `query:"lang" doc:"Report language (en, es)"`
	AcceptLanguage string `header:"Accept-Language" doc:"Preferred languages"`
}

// GetReportResponse is a markdown report
type GetReportResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// ArchiveReportResponse points to an archived report
type ArchiveReportResponse struct {
	Body struct {
		Key         string `json:"key" doc:"Object key of the archived report"`
		DownloadURL string `json:"download_url" doc:"Pre-signed download URL"`
		ExpiresIn   int    `json:"expires_in" doc:"URL expiration time in seconds"`
	}
}
