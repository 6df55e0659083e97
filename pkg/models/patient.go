package models

import (
	"time"

	"github.com/RMahshie/audiometry/pkg/audiometry"
)

// Patient is a stored patient record with one audiogram per ear
type Patient struct {
	ID           string             `json:"id" doc:"Patient unique identifier"`
	Name         string             `json:"name" doc:"Patient full name"`
	Age          string             `json:"age" doc:"Patient age"`
	Job          string             `json:"job" doc:"Patient occupation"`
	RightEar     audiometry.Profile `json:"right_ear" doc:"Right ear dB HL at 500, 1000, 2000, 4000, 8000 Hz; null when not measured"`
	LeftEar      audiometry.Profile `json:"left_ear" doc:"Left ear dB HL at 500, 1000, 2000, 4000, 8000 Hz; null when not measured"`
	DateCreated  time.Time          `json:"date_created" doc:"Record creation time"`
	DateModified time.Time          `json:"date_modified" doc:"Last modification time"`
}

// Apply copies the form fields onto the record
func (p *Patient) Apply(in PatientInput, right, left audiometry.Profile) {
	p.Name = in.Name
	p.Age = in.Age
	p.Job = in.Job
	p.RightEar = right
	p.LeftEar = left
}

// Clone returns a deep copy, so pending writes cannot be mutated by callers
func (p *Patient) Clone() *Patient {
	c := *p
	for i := range c.RightEar {
		if v := c.RightEar[i]; v != nil {
			c.RightEar[i] = audiometry.Level(*v)
		}
		if v := c.LeftEar[i]; v != nil {
			c.LeftEar[i] = audiometry.Level(*v)
		}
	}
	return &c
}
