package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/RMahshie/audiometry/internal/assessment"
	"github.com/RMahshie/audiometry/internal/i18n"
	"github.com/RMahshie/audiometry/internal/report"
	"github.com/RMahshie/audiometry/internal/repository"
	"github.com/RMahshie/audiometry/internal/storage"
	"github.com/RMahshie/audiometry/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"
)

// DraftSaver debounces draft writes
type DraftSaver interface {
	Schedule(patient *models.Patient) error
	Cancel(id string) bool
	Pending() int
	Flush(ctx context.Context) (int, error)
}

// PatientHandler handles patient record HTTP requests
type PatientHandler struct {
	repo      repository.PatientRepository
	drafts    DraftSaver
	assessor  assessment.Service
	s3Service storage.S3Service
	language  string
	now       func() time.Time
}

// NewPatientHandler creates a new patient handler. s3Service may be nil, in
// which case report archiving is unavailable.
func NewPatientHandler(repo repository.PatientRepository, drafts DraftSaver, assessor assessment.Service, s3Service storage.S3Service, language string) *PatientHandler {
	return &PatientHandler{
		repo:      repo,
		drafts:    drafts,
		assessor:  assessor,
		s3Service: s3Service,
		language:  language,
		now:       time.Now,
	}
}

// ListPatients returns every patient, or those whose name matches the query
func (h *PatientHandler) ListPatients(ctx context.Context, req *models.ListPatientsRequest) (*models.ListPatientsResponse, error) {
	patients, err := h.repo.FindByName(ctx, req.Query)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list patients", err)
	}

	return &models.ListPatientsResponse{
		Body: models.ListPatientsResponseBody{
			Patients: patients,
			Count:    len(patients),
		},
	}, nil
}

// CreatePatient stores a new patient record
func (h *PatientHandler) CreatePatient(ctx context.Context, req *models.CreatePatientRequest) (*models.PatientResponse, error) {
	right, left, err := parseInput(req.Body)
	if err != nil {
		return nil, err
	}

	patient := &models.Patient{}
	patient.Apply(req.Body, right, left)
	if err := h.repo.Upsert(ctx, patient); err != nil {
		return nil, huma.Error500InternalServerError("Failed to save patient", err)
	}

	log.Info().Str("patientID", patient.ID).Int("right_measured", right.Measured()).Int("left_measured", left.Measured()).Msg("Patient created")
	return &models.PatientResponse{Body: patient}, nil
}

// GetPatient returns a single patient
func (h *PatientHandler) GetPatient(ctx context.Context, req *models.GetPatientRequest) (*models.PatientResponse, error) {
	patient, err := h.repo.Get(ctx, req.ID)
	if err != nil {
		return nil, lookupError(err)
	}
	return &models.PatientResponse{Body: patient}, nil
}

// UpdatePatient replaces a patient's data and writes it immediately
func (h *PatientHandler) UpdatePatient(ctx context.Context, req *models.UpdatePatientRequest) (*models.PatientResponse, error) {
	patient, err := h.prepareUpdate(ctx, req)
	if err != nil {
		return nil, err
	}

	// an older draft must not overwrite this write when its timer fires
	h.drafts.Cancel(patient.ID)
	if err := h.repo.Upsert(ctx, patient); err != nil {
		return nil, huma.Error500InternalServerError("Failed to save patient", err)
	}

	log.Info().Str("patientID", patient.ID).Msg("Patient updated")
	return &models.PatientResponse{Body: patient}, nil
}

// SaveDraft schedules a debounced write of the form contents
func (h *PatientHandler) SaveDraft(ctx context.Context, req *models.UpdatePatientRequest) (*models.SaveDraftResponse, error) {
	patient, err := h.prepareUpdate(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := h.drafts.Schedule(patient); err != nil {
		return nil, huma.Error503ServiceUnavailable("Autosave is not accepting changes", err)
	}

	return &models.SaveDraftResponse{
		Status: http.StatusAccepted,
		Body: models.SaveDraftResponseBody{
			ID:      patient.ID,
			Pending: h.drafts.Pending(),
			Message: "Changes will be saved shortly",
		},
	}, nil
}

// FlushDrafts writes all pending drafts now
func (h *PatientHandler) FlushDrafts(ctx context.Context, _ *struct{}) (*models.FlushDraftsResponse, error) {
	n, err := h.drafts.Flush(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to save pending changes", err)
	}

	resp := &models.FlushDraftsResponse{}
	resp.Body.Flushed = n
	return resp, nil
}

// DeletePatient removes a patient record and any pending draft for it
func (h *PatientHandler) DeletePatient(ctx context.Context, req *models.DeletePatientRequest) (*struct{}, error) {
	h.drafts.Cancel(req.ID)
	if err := h.repo.Delete(ctx, req.ID); err != nil {
		return nil, lookupError(err)
	}

	log.Info().Str("patientID", req.ID).Msg("Patient deleted")
	return nil, nil
}

// GetAssessment returns all seven indices for a stored patient
func (h *PatientHandler) GetAssessment(ctx context.Context, req *models.GetAssessmentRequest) (*models.AssessmentResponse, error) {
	patient, a, err := h.assessor.AssessPatient(ctx, req.ID)
	if err != nil {
		return nil, lookupError(err)
	}

	body := toAssessmentBody(a, models.Thresholds(patient.RightEar, patient.LeftEar))
	body.PatientID = patient.ID
	return &models.AssessmentResponse{Body: body}, nil
}

// Calculate computes indices for two profiles without storing anything
func (h *PatientHandler) Calculate(ctx context.Context, req *models.CalculateRequest) (*models.AssessmentResponse, error) {
	right, left, err := parseInput(models.PatientInput{RightEar: req.Body.RightEar, LeftEar: req.Body.LeftEar})
	if err != nil {
		return nil, err
	}

	a := assessment.Evaluate(right, left)
	return &models.AssessmentResponse{Body: toAssessmentBody(a, models.Thresholds(right, left))}, nil
}

// GetReport renders a patient's markdown report
func (h *PatientHandler) GetReport(ctx context.Context, req *models.GetReportRequest) (*models.GetReportResponse, error) {
	body, err := h.render(ctx, req.ID, req.Lang, req.AcceptLanguage)
	if err != nil {
		return nil, err
	}

	return &models.GetReportResponse{
		ContentType: storage.ContentTypeMarkdown,
		Body:        body,
	}, nil
}

// ArchiveReport uploads a rendered report and returns a download link
func (h *PatientHandler) ArchiveReport(ctx context.Context, req *models.ArchiveReportRequest) (*models.ArchiveReportResponse, error) {
	if h.s3Service == nil {
		return nil, huma.Error503ServiceUnavailable("Report archive is not configured")
	}

	body, err := h.render(ctx, req.ID, req.Lang, req.AcceptLanguage)
	if err != nil {
		return nil, err
	}

	key := storage.ReportKey(req.ID, h.now())
	if err := h.s3Service.UploadFile(ctx, key, storage.ContentTypeMarkdown, body); err != nil {
		return nil, huma.Error500InternalServerError("Failed to archive report", err)
	}

	url, err := h.s3Service.GenerateDownloadURL(ctx, key)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate download URL", err)
	}

	log.Info().Str("patientID", req.ID).Str("key", key).Msg("Report archived")

	resp := &models.ArchiveReportResponse{}
	resp.Body.Key = key
	resp.Body.DownloadURL = url
	resp.Body.ExpiresIn = int(storage.DownloadURLExpiry.Seconds())
	return resp, nil
}

// GetPatientsReport renders every matching patient into one document, in name order
func (h *PatientHandler) GetPatientsReport(ctx context.Context, req *models.GetPatientsReportRequest) (*models.GetReportResponse, error) {
	patients, err := h.repo.FindByName(ctx, req.Query)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list patients", err)
	}

	entries := make([]report.Entry, 0, len(patients))
	for _, p := range patients {
		entries = append(entries, report.NewEntry(p))
	}

	tr := i18n.Negotiate(req.Lang, req.AcceptLanguage, h.language)
	return &models.GetReportResponse{
		ContentType: storage.ContentTypeMarkdown,
		Body:        report.Markdown(tr, entries...),
	}, nil
}

// GetArchivedReport returns a previously archived report
func (h *PatientHandler) GetArchivedReport(ctx context.Context, req *models.ArchivedReportRequest) (*models.GetReportResponse, error) {
	if h.s3Service == nil {
		return nil, huma.Error503ServiceUnavailable("Report archive is not configured")
	}

	body, err := h.s3Service.DownloadFile(ctx, storage.ReportKey(req.ID, time.Unix(req.ArchivedAt, 0)))
	if err != nil {
		return nil, archiveError(err)
	}

	return &models.GetReportResponse{
		ContentType: storage.ContentTypeMarkdown,
		Body:        body,
	}, nil
}

// DeleteArchivedReport removes an archived report
func (h *PatientHandler) DeleteArchivedReport(ctx context.Context, req *models.ArchivedReportRequest) (*struct{}, error) {
	if h.s3Service == nil {
		return nil, huma.Error503ServiceUnavailable("Report archive is not configured")
	}

	key := storage.ReportKey(req.ID, time.Unix(req.ArchivedAt, 0))
	if err := h.s3Service.DeleteFile(ctx, key); err != nil {
		return nil, archiveError(err)
	}

	log.Info().Str("patientID", req.ID).Str("key", key).Msg("Archived report deleted")
	return nil, nil
}

func (h *PatientHandler) render(ctx context.Context, id, lang, acceptLanguage string) ([]byte, error) {
	patient, a, err := h.assessor.AssessPatient(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}

	tr := i18n.Negotiate(lang, acceptLanguage, h.language)
	return report.Markdown(tr, report.Entry{Patient: patient, Assessment: a}), nil
}

// prepareUpdate validates the form and applies it to the stored record
func (h *PatientHandler) prepareUpdate(ctx context.Context, req *models.UpdatePatientRequest) (*models.Patient, error) {
	right, left, err := parseInput(req.Body)
	if err != nil {
		return nil, err
	}

	patient, err := h.repo.Get(ctx, req.ID)
	if err != nil {
		return nil, lookupError(err)
	}
	patient.Apply(req.Body, right, left)
	return patient, nil
}

func archiveError(err error) error {
	if errors.Is(err, storage.ErrObjectNotFound) {
		return huma.Error404NotFound("Archived report not found", err)
	}
	return huma.Error500InternalServerError("Failed to access report archive", err)
}

// lookupError maps repository errors to HTTP errors
func lookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return huma.Error404NotFound("Patient not found", err)
	}
	return huma.Error500InternalServerError("Failed to load patient", err)
}
