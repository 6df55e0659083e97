// Package report renders patient audiometry reports.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RMahshie/audiometry/internal/assessment"
	"github.com/RMahshie/audiometry/internal/i18n"
	"github.com/RMahshie/audiometry/pkg/audiometry"
	"github.com/RMahshie/audiometry/pkg/models"
)

// Entry is one patient section of a report
type Entry struct {
	Patient    *models.Patient
	Assessment assessment.Assessment
}

// NewEntry evaluates the patient's profiles for rendering
func NewEntry(p *models.Patient) Entry {
	return Entry{Patient: p, Assessment: assessment.Evaluate(p.RightEar, p.LeftEar)}
}

// Markdown renders entries into a byte slice
func Markdown(tr i18n.Translator, entries ...Entry) []byte {
	var buf bytes.Buffer
	// writes to a bytes.Buffer cannot fail
	_ = WriteMarkdown(&buf, tr, entries...)
	return buf.Bytes()
}

// WriteMarkdown writes one section per entry: patient info, frequency table,
// index results and a descriptive footer. Entries are separated by a rule.
func WriteMarkdown(w io.Writer, tr i18n.Translator, entries ...Entry) error {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintf(&b, "\n---\n\n")
		}
		writeEntry(&b, tr, e)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeEntry(b *strings.Builder, tr i18n.Translator, e Entry) {
	p := e.Patient
	a := e.Assessment

	fmt.Fprintf(b, "# %s\n\n", tr.T("patient_report"))
	fmt.Fprintf(b, "- %s %s\n", tr.T("name"), orNotSpecified(tr, p.Name))
	fmt.Fprintf(b, "- %s %s\n", tr.T("age"), orNotSpecified(tr, p.Age))
	fmt.Fprintf(b, "- %s %s\n\n", tr.T("job"), orNotSpecified(tr, p.Job))

	fmt.Fprintf(b, "## %s\n\n", tr.T("audiometric_testing_results"))
	fmt.Fprintf(b, "| %s | %s | %s |\n", tr.T("frequency_hz"), tr.T("right_ear"), tr.T("left_ear"))
	fmt.Fprintf(b, "| --- | --- | --- |\n")
	for _, row := range models.Thresholds(p.RightEar, p.LeftEar) {
		fmt.Fprintf(b, "| %d | %s | %s |\n", row.Frequency, formatLevel(row.Right), formatLevel(row.Left))
	}

	fmt.Fprintf(b, "\n## %s\n\n", tr.T("assessment_results"))

	fmt.Fprintf(b, "### %s\n\n", tr.T("hearing_loss_assessment"))
	fmt.Fprintf(b, "- %s: %s\n", tr.T("right_ear"), FormatOutcome(tr, a.Right.HearingLoss))
	fmt.Fprintf(b, "- %s: %s\n", tr.T("left_ear"), FormatOutcome(tr, a.Left.HearingLoss))
	fmt.Fprintf(b, "- %s: %s\n\n", tr.T("bilateral"), FormatOutcome(tr, a.Bilateral))

	fmt.Fprintf(b, "### %s\n\n", tr.T("sal_index"))
	fmt.Fprintf(b, "- %s SAL: %s\n", tr.T("right_ear"), FormatOutcome(tr, a.Right.SAL))
	fmt.Fprintf(b, "- %s SAL: %s\n\n", tr.T("left_ear"), FormatOutcome(tr, a.Left.SAL))

	fmt.Fprintf(b, "### %s\n\n", tr.T("eli_index"))
	fmt.Fprintf(b, "- %s ELI: %s\n", tr.T("right_ear"), FormatOutcome(tr, a.Right.ELI))
	fmt.Fprintf(b, "- %s ELI: %s\n\n", tr.T("left_ear"), FormatOutcome(tr, a.Left.ELI))

	fmt.Fprintf(b, "## %s\n\n", tr.T("parameters_summary"))
	for _, key := range []string{"test_frequencies", "results_measured", "sal_description", "eli_description"} {
		fmt.Fprintf(b, "- %s\n", tr.T(key))
	}
}

// FormatOutcome renders "28.5 dB - Mild" in the translator's language
func FormatOutcome(tr i18n.Translator, o assessment.Outcome) string {
	if !o.OK() {
		return tr.T("insufficient_data")
	}
	return audiometry.FormatDecibels(o.Result.Value) + " - " + BandLabel(tr, o.Result.Band)
}

// BandLabel is the localized name of a band
func BandLabel(tr i18n.Translator, b audiometry.Band) string {
	return tr.T(b.Key())
}

func formatLevel(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + " dB"
}

func orNotSpecified(tr i18n.Translator, s string) string {
	if strings.TrimSpace(s) == "" {
		return tr.T("not_specified")
	}
	return s
}
