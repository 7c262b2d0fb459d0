// Package crm contains the core business logic of the CRM service:
// typed records for the five entity kinds, mission/applicant assignment,
// callback linkage, polymorphic notes, and the federated search engine.
//
// It is transport-agnostic: the HTTP handler (handler.go) is the only
// consumer inside this repository, but nothing here depends on net/http.
package crm

import (
	"fmt"
	"time"
)

// EntityKind tags the polymorphic note key and the per-kind buckets of a
// federated search result.
type EntityKind string

const (
	KindClient    EntityKind = "client"
	KindContact   EntityKind = "contact"
	KindApplicant EntityKind = "applicant"
	KindMission   EntityKind = "mission"
	KindCallback  EntityKind = "callback"
)

// ParseEntityKind converts a raw string to an EntityKind, returning an error
// for unknown values.
func ParseEntityKind(s string) (EntityKind, error) {
	k := EntityKind(s)
	switch k {
	case KindClient, KindContact, KindApplicant, KindMission, KindCallback:
		return k, nil
	}
	return "", fmt.Errorf("unknown entity kind %q", s)
}

// RecordStatus is the shared status enum for clients, contacts and applicants.
type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusInactive RecordStatus = "inactive"
)

// ParseRecordStatus converts a raw string to a RecordStatus.
func ParseRecordStatus(s string) (RecordStatus, error) {
	st := RecordStatus(s)
	switch st {
	case StatusActive, StatusInactive:
		return st, nil
	}
	return "", fmt.Errorf("unknown record status %q", s)
}

// MissionStatus is the status enum for missions. No transition restrictions
// exist beyond set membership.
type MissionStatus string

const (
	MissionOpen       MissionStatus = "open"
	MissionInProgress MissionStatus = "in_progress"
	MissionClosed     MissionStatus = "closed"
)

// ParseMissionStatus converts a raw string to a MissionStatus.
func ParseMissionStatus(s string) (MissionStatus, error) {
	st := MissionStatus(s)
	switch st {
	case MissionOpen, MissionInProgress, MissionClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown mission status %q", s)
}

// CallbackStatus is the status enum for callback reminders.
type CallbackStatus string

const (
	CallbackPending CallbackStatus = "pending"
	CallbackDone    CallbackStatus = "done"
)

// ParseCallbackStatus converts a raw string to a CallbackStatus.
func ParseCallbackStatus(s string) (CallbackStatus, error) {
	st := CallbackStatus(s)
	switch st {
	case CallbackPending, CallbackDone:
		return st, nil
	}
	return "", fmt.Errorf("unknown callback status %q", s)
}

// ─── Records ─────────────────────────────────────────────────────────────────

// Client is a company profile. Contacts and missions reference it weakly:
// deleting a client clears those references, it never cascades.
type Client struct {
	ID                int64        `json:"id"`
	CompanyName       string       `json:"companyName"`
	VATNumber         string       `json:"vatNumber"`
	Address           string       `json:"address"`
	PostalCode        string       `json:"postalCode"`
	City              string       `json:"city"`
	Country           string       `json:"country"`
	ContactName       string       `json:"contactName"`
	ContactEmail      string       `json:"contactEmail"`
	ContactPhone      string       `json:"contactPhone"`
	AdditionalContact string       `json:"additionalContact"`
	Notes             string       `json:"notes"`
	Status            RecordStatus `json:"status"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// Contact is a person, optionally attached to one client.
type Contact struct {
	ID          int64        `json:"id"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Role        string       `json:"role"`
	LinkedinURL string       `json:"linkedinUrl"`
	City        string       `json:"city"`
	Country     string       `json:"country"`
	Notes       string       `json:"notes"`
	Status      RecordStatus `json:"status"`
	ClientID    *int64       `json:"clientId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Applicant is a candidate profile. CVFilename and ExtraFilename are keys
// into the document blob store, not file content; their lifecycle is managed
// by the service layer (applicants.go).
type Applicant struct {
	ID                int64        `json:"id"`
	FirstName         string       `json:"firstName"`
	LastName          string       `json:"lastName"`
	Email             string       `json:"email"`
	Phone             string       `json:"phone"`
	LinkedinURL       string       `json:"linkedinUrl"`
	Address           string       `json:"address"`
	PostalCode        string       `json:"postalCode"`
	City              string       `json:"city"`
	Country           string       `json:"country"`
	CurrentJobTitle   string       `json:"currentJobTitle"`
	CurrentEmployer   string       `json:"currentEmployer"`
	DesiredPosition   string       `json:"desiredPosition"`
	Availability      string       `json:"availability"`
	NoticePeriod      string       `json:"noticePeriod"`
	SalaryExpectation string       `json:"salaryExpectation"`
	CVFilename        string       `json:"cvFilename"`
	ExtraFilename     string       `json:"extraFilename"`
	Notes             string       `json:"notes"`
	Status            RecordStatus `json:"status"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// Mission is a job order, optionally attached to one client.
// Start and end dates are caller-validated YYYY-MM-DD strings; empty means unset.
type Mission struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	ClientID       *int64        `json:"clientId"`
	Description    string        `json:"description"`
	RequiredSkills string        `json:"requiredSkills"`
	Location       string        `json:"location"`
	StartDate      string        `json:"startDate"`
	EndDate        string        `json:"endDate"`
	Notes          string        `json:"notes"`
	Status         MissionStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Assignment links one mission to one applicant. The (MissionID, ApplicantID)
// pair is unique; the constraint is enforced at the persistence boundary.
type Assignment struct {
	ID          int64     `json:"id"`
	MissionID   int64     `json:"missionId"`
	ApplicantID int64     `json:"applicantId"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AssignedApplicant is the joined assignment view shown on a mission page.
type AssignedApplicant struct {
	Assignment
	FirstName       string `json:"applicantFirstName"`
	LastName        string `json:"applicantLastName"`
	Email           string `json:"applicantEmail"`
	CurrentJobTitle string `json:"applicantCurrentJobTitle"`
}

// Callback is a reminder to call someone back. ApplicantID and ContactID are
// mutually exclusive weak references; when one is set, Name/Phone/Email are
// snapshots copied from the linked record at save time. When both are nil the
// callback is a free-standing manual entry.
type Callback struct {
	ID           int64          `json:"id"`
	ApplicantID  *int64         `json:"applicantId"`
	ContactID    *int64         `json:"contactId"`
	Name         string         `json:"name"`
	Company      string         `json:"company"`
	Phone        string         `json:"phone"`
	Email        string         `json:"email"`
	Reason       string         `json:"reason"`
	Notes        string         `json:"notes"`
	CallbackDate *time.Time     `json:"callbackDate"`
	Status       CallbackStatus `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Note is a free-text attachment against any of the five entity kinds.
// (EntityType, EntityID) is a lookup key only, not a structural foreign
// key; notes for a deleted entity are left in place.
type Note struct {
	ID         int64      `json:"id"`
	Content    string     `json:"content"`
	EntityType EntityKind `json:"entityType"`
	EntityID   int64      `json:"entityId"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// PersonOption is the compact shape used to populate the callback form's
// applicant and contact pickers.
type PersonOption struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}
