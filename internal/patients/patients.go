// Package patients serves the demo patient roster. All data is hard-coded;
// filtering and sorting are projections over the fixed slice.
package patients

import (
	"sort"
	"strings"
	"time"
)

// VerificationStatus of a patient's insurance check.
type VerificationStatus string

const (
	StatusPending    VerificationStatus = "pending"
	StatusIncomplete VerificationStatus = "incomplete"
	StatusVerified   VerificationStatus = "verified"
)

// Patient is one row of the appointment dashboard.
type Patient struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	DOB         string             `json:"dob"`
	Carrier     string             `json:"carrier"`
	MemberID    string             `json:"memberId"`
	Appointment time.Time          `json:"appointment"`
	Procedure   string             `json:"procedure"`
	Status      VerificationStatus `json:"status"`
}

// Roster is today's appointment list for the demo practice.
func Roster() []Patient {
	day := time.Now().Truncate(24 * time.Hour)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }
	return []Patient{
		{ID: "pt-001", Name: "Emma Smith", DOB: "2017-03-14", Carrier: "Delta Dental", MemberID: "K-7781-003", Appointment: at(9, 0), Procedure: "Cleaning + exam", Status: StatusIncomplete},
		{ID: "pt-002", Name: "Liam Johnson", DOB: "2015-11-02", Carrier: "MetLife", MemberID: "M-2231-118", Appointment: at(9, 40), Procedure: "Sealants", Status: StatusVerified},
		{ID: "pt-003", Name: "Olivia Chen", DOB: "2019-06-21", Carrier: "Cigna Dental", MemberID: "C-9904-771", Appointment: at(10, 20), Procedure: "Fluoride", Status: StatusPending},
		{ID: "pt-004", Name: "Noah Garcia", DOB: "2014-01-30", Carrier: "Delta Dental", MemberID: "K-5520-914", Appointment: at(11, 0), Procedure: "Filling #19", Status: StatusIncomplete},
		{ID: "pt-005", Name: "Ava Patel", DOB: "2016-08-09", Carrier: "Guardian", MemberID: "G-1177-260", Appointment: at(13, 0), Procedure: "Cleaning + exam", Status: StatusVerified},
		{ID: "pt-006", Name: "Lucas Kim", DOB: "2018-04-17", Carrier: "Aetna Dental", MemberID: "A-6612-430", Appointment: at(13, 40), Procedure: "Space maintainer", Status: StatusPending},
		{ID: "pt-007", Name: "Mia Nguyen", DOB: "2013-12-05", Carrier: "Delta Dental", MemberID: "K-3308-552", Appointment: at(14, 20), Procedure: "Ortho consult", Status: StatusPending},
	}
}

// ByID returns the patient with the given id, if present.
func ByID(id string) (Patient, bool) {
	for _, p := range Roster() {
		if p.ID == id {
			return p, true
		}
	}
	return Patient{}, false
}

// Query narrows and orders the roster.
type Query struct {
	Status string // "" means all
	Search string // case-insensitive substring over name and member id
	Sort   string // "name" or "time" (default)
}

// Filter applies q to the roster and returns the matching patients.
func Filter(q Query) []Patient {
	out := make([]Patient, 0)
	needle := strings.ToLower(q.Search)
	for _, p := range Roster() {
		if q.Status != "" && string(p.Status) != q.Status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.MemberID), needle) {
			continue
		}
		out = append(out, p)
	}
	if q.Sort == "name" {
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].Appointment.Before(out[j].Appointment) })
	}
	return out
}
