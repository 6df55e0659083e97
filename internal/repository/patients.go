package repository

import (
	"sort"
	"strings"
	"time"

	"github.com/RMahshie/audiometry/pkg/models"
	"github.com/google/uuid"
)

// Stamp prepares a record for writing: new records get an ID and creation
// time, every write refreshes the modification time.
func Stamp(p *models.Patient, now time.Time) {
	now = now.UTC()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.DateCreated.IsZero() {
		p.DateCreated = now
	}
	p.DateModified = now
}

// NormalizeQuery trims a name search; an empty result means "list everything"
func NormalizeQuery(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// MatchesName reports whether the patient's name contains the normalized query
func MatchesName(p *models.Patient, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query)
}

// SortByName orders patients by name ignoring case, then by exact name and ID
func SortByName(patients []*models.Patient) {
	sort.SliceStable(patients, func(i, j int) bool {
		a, b := strings.ToLower(patients[i].Name), strings.ToLower(patients[j].Name)
		if a != b {
			return a < b
		}
		if patients[i].Name != patients[j].Name {
			return patients[i].Name < patients[j].Name
		}
		return patients[i].ID < patients[j].ID
	})
}

// EscapeLike escapes LIKE wildcards using backslash as the escape character
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
