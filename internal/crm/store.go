package crm

import (
	"context"
	"time"
)

// ListFilter narrows an entity list. Search is a case-insensitive substring
// match over the kind's list fields; Status filters on the exact status value
// ("" and "all" disable it).
type ListFilter struct {
	Search string
	Status string
}

// SearchLimit caps every per-kind result set of a federated search.
const SearchLimit = 20

// ─── Search hit shapes ───────────────────────────────────────────────────────
//
// One compact row type per kind; the federated engine never merges them.

type ApplicantHit struct {
	ID              int64  `json:"id"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	City            string `json:"city"`
	CurrentJobTitle string `json:"currentJobTitle"`
}

type ClientHit struct {
	ID           int64  `json:"id"`
	CompanyName  string `json:"companyName"`
	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail"`
	City         string `json:"city"`
}

type ContactHit struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Role      string `json:"role"`
}

type MissionHit struct {
	ID       int64         `json:"id"`
	Title    string        `json:"title"`
	Location string        `json:"location"`
	Status   MissionStatus `json:"status"`
}

type CallbackHit struct {
	ID      int64          `json:"id"`
	Name    string         `json:"name"`
	Company string         `json:"company"`
	Phone   string         `json:"phone"`
	Reason  string         `json:"reason"`
	Status  CallbackStatus `json:"status"`
}

// SearchResults bundles the five per-kind result sets of one federated search.
type SearchResults struct {
	Applicants []ApplicantHit `json:"applicants"`
	Clients    []ClientHit    `json:"clients"`
	Contacts   []ContactHit   `json:"contacts"`
	Missions   []MissionHit   `json:"missions"`
	Callbacks  []CallbackHit  `json:"callbacks"`
}

// Store is the persistence contract the service layer runs on. Two
// implementations exist: internal/store/postgres (pgx) and
// internal/store/sqlite (database/sql + modernc). Both enforce:
//
//   - weak references: deleting a client clears contact/mission client ids;
//     deleting an applicant or contact clears callback links
//   - cascade: deleting a mission or applicant removes its assignments
//   - uniqueness: at most one assignment per (mission, applicant) pair,
//     reported as ErrDuplicateAssignment
//
// Get/Update/Delete return ErrNotFound when the id does not exist. Create
// fills the record's ID and timestamps.
type Store interface {
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id int64) (*Client, error)
	ListClients(ctx context.Context, f ListFilter) ([]Client, error)
	UpdateClient(ctx context.Context, c *Client) error
	DeleteClient(ctx context.Context, id int64) error

	CreateContact(ctx context.Context, c *Contact) error
	GetContact(ctx context.Context, id int64) (*Contact, error)
	ListContacts(ctx context.Context, f ListFilter) ([]Contact, error)
	UpdateContact(ctx context.Context, c *Contact) error
	DeleteContact(ctx context.Context, id int64) error

	CreateApplicant(ctx context.Context, a *Applicant) error
	GetApplicant(ctx context.Context, id int64) (*Applicant, error)
	ListApplicants(ctx context.Context, f ListFilter) ([]Applicant, error)
	UpdateApplicant(ctx context.Context, a *Applicant) error
	DeleteApplicant(ctx context.Context, id int64) error

	CreateMission(ctx context.Context, m *Mission) error
	GetMission(ctx context.Context, id int64) (*Mission, error)
	ListMissions(ctx context.Context, f ListFilter) ([]Mission, error)
	UpdateMission(ctx context.Context, m *Mission) error
	DeleteMission(ctx context.Context, id int64) error

	CreateCallback(ctx context.Context, cb *Callback) error
	GetCallback(ctx context.Context, id int64) (*Callback, error)
	ListCallbacks(ctx context.Context, f ListFilter) ([]Callback, error)
	UpdateCallback(ctx context.Context, cb *Callback) error
	DeleteCallback(ctx context.Context, id int64) error

	// DuePendingCallbacks returns pending callbacks whose callback date is at
	// or before asOf, ordered by callback date. Used by the reminder sweep.
	DuePendingCallbacks(ctx context.Context, asOf time.Time) ([]Callback, error)

	// CreateAssignment inserts the join record, relying on the storage-level
	// uniqueness constraint; a conflicting pair yields ErrDuplicateAssignment.
	CreateAssignment(ctx context.Context, a *Assignment) error
	// DeleteAssignment removes the pair if present and reports whether a row
	// was deleted. A missing pair is not an error.
	DeleteAssignment(ctx context.Context, missionID, applicantID int64) (bool, error)
	AssignedApplicants(ctx context.Context, missionID int64) ([]AssignedApplicant, error)
	// AvailableApplicants returns active applicants not assigned to the
	// mission, ordered by last name.
	AvailableApplicants(ctx context.Context, missionID int64) ([]Applicant, error)

	ActiveApplicantOptions(ctx context.Context) ([]PersonOption, error)
	ActiveContactOptions(ctx context.Context) ([]PersonOption, error)

	InsertNote(ctx context.Context, n *Note) error
	InsertNotes(ctx context.Context, notes []Note) error
	NotesFor(ctx context.Context, kind EntityKind, entityID int64) ([]Note, error)
	DeleteNote(ctx context.Context, id int64) error

	SearchApplicants(ctx context.Context, term string, limit int) ([]ApplicantHit, error)
	SearchClients(ctx context.Context, term string, limit int) ([]ClientHit, error)
	SearchContacts(ctx context.Context, term string, limit int) ([]ContactHit, error)
	SearchMissions(ctx context.Context, term string, limit int) ([]MissionHit, error)
	SearchCallbacks(ctx context.Context, term string, limit int) ([]CallbackHit, error)
}
