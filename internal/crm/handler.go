package crm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// ─── Handler ─────────────────────────────────────────────────────────────────
//
// Routes:
//
//	GET|POST          /clients                      → list / create
//	GET|PUT|DELETE    /clients/{id}                 → fetch / update / delete
//	GET|POST          /clients/{id}/notes           → notes for / attach note(s)
//	(same layout for /contacts, /applicants, /missions, /callbacks)
//	GET|POST          /missions/{id}/applicants     → assigned list / assign
//	DELETE            /missions/{id}/applicants/{applicantId} → unassign
//	GET               /missions/{id}/available      → assignable applicants
//	POST              /callbacks/{id}/done          → mark done
//	GET               /callbacks/options/applicants → picker options
//	GET               /callbacks/options/contacts   → picker options
//	DELETE            /notes/{id}                   → remove a note
//	GET               /search?q=                    → federated search
//	GET               /uploads/{name}               → document download
//	GET               /health                       → liveness probe
//
// Applicant create/update accepts multipart/form-data (fields plus optional
// "cv" and "extraFile" parts) or plain JSON when no files are involved.

// Handler adapts the Service to HTTP.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all CRM routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/clients", h.handleClients)
	mux.HandleFunc("/clients/", h.handleClientByID)
	mux.HandleFunc("/contacts", h.handleContacts)
	mux.HandleFunc("/contacts/", h.handleContactByID)
	mux.HandleFunc("/applicants", h.handleApplicants)
	mux.HandleFunc("/applicants/", h.handleApplicantByID)
	mux.HandleFunc("/missions", h.handleMissions)
	mux.HandleFunc("/missions/", h.handleMissionByID)
	mux.HandleFunc("/callbacks", h.handleCallbacks)
	mux.HandleFunc("/callbacks/", h.handleCallbackByID)
	mux.HandleFunc("/notes/", h.handleNoteByID)
	mux.HandleFunc("/search", h.handleSearch)
	mux.HandleFunc("/uploads/", h.handleDownload)
	mux.HandleFunc("/health", h.handleHealth)
}

// ─── Shared plumbing ─────────────────────────────────────────────────────────

// pathParts splits a trimmed request path into its segments.
func pathParts(r *http.Request) []string {
	return strings.Split(strings.Trim(r.URL.Path, "/"), "/")
}

// parseID converts a path segment to an entity id.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// listFilter reads the ?search= and ?status= query parameters.
func listFilter(r *http.Request) ListFilter {
	q := r.URL.Query()
	return ListFilter{Search: q.Get("search"), Status: q.Get("status")}
}

// writeServiceError maps service errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		jsonError(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrDuplicateAssignment):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrEmptyContent):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrStorageUnavailable):
		log.Printf("[crm] storage error: %v", err)
		jsonError(w, "document storage unavailable", http.StatusServiceUnavailable)
	default:
		log.Printf("[crm] internal error: %v", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonCreated(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// ─── Clients ─────────────────────────────────────────────────────────────────

func (h *Handler) handleClients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.svc.ListClients(r.Context(), listFilter(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, list)
	case http.MethodPost:
		var body struct {
			Client
			InitialNotes []string `json:"initialNotes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		created, err := h.svc.CreateClient(r.Context(), &body.Client)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		h.attachInitialNotes(r, KindClient, created.ID, body.InitialNotes)
		jsonCreated(w, created)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// attachInitialNotes batch-attaches the notes supplied with a create request.
// The record already exists, so a note failure is logged, not returned.
func (h *Handler) attachInitialNotes(r *http.Request, kind EntityKind, entityID int64, contents []string) {
	if len(contents) == 0 {
		return
	}
	if _, err := h.svc.AttachNotes(r.Context(), kind, entityID, contents); err != nil {
		log.Printf("[crm] attach initial notes for %s %d: %v", kind, entityID, err)
	}
}

func (h *Handler) handleClientByID(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r)
	if len(parts) < 2 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	id, err := parseID(parts[1])
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(parts) == 3 && parts[2] == "notes" {
		h.handleEntityNotes(w, r, KindClient, id)
		return
	}
	if len(parts) != 2 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := h.svc.GetClient(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, c)
	case http.MethodPut:
		var c Client
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		c.ID = id
		updated, err := h.svc.UpdateClient(r.Context(), &c)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, updated)
	case http.MethodDelete:
		if err := h.svc.DeleteClient(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, map[string]bool{"deleted": true})
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ─── Contacts ────────────────────────────────────────────────────────────────

func (h *Handler) handleContacts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.svc.ListContacts(r.Context(), listFilter(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, list)
	case http.MethodPost:
		var body struct {
			Contact
			InitialNotes []string `json:"initialNotes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		created, err := h.svc.CreateContact(r.Context(), &body.Contact)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		h.attachInitialNotes(r, KindContact, created.ID, body.InitialNotes)
		jsonCreated(w, created)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleContactByID(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r)
	if len(parts) < 2 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	id, err := parseID(parts[1])
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(parts) == 3 && parts[2] == "notes" {
		h.handleEntityNotes(w, r, KindContact, id)
		return
	}
	if len(parts) != 2 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := h.svc.GetContact(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, c)
	case http.MethodPut:
		var c Contact
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		c.ID = id
		updated, err := h.svc.UpdateContact(r.Context(), &c)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, updated)
	case http.MethodDelete:
		if err := h.svc.DeleteContact(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, map[string]bool{"deleted": true})
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ─── Applicants ──────────────────────────────────────────────────────────────

// maxUploadBytes bounds an applicant multipart body (documents included).
const maxUploadBytes = 32 << 20

func (h *Handler) handleApplicants(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.svc.ListApplicants(r.Context(), listFilter(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, list)
	case http.MethodPost:
		a, cv, extra, initialNotes, err := decodeApplicantRequest(r)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		created, err := h.svc.CreateApplicant(r.Context(), a, cv, extra)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		h.attachInitialNotes(r, KindApplicant, created.ID, initialNotes)
		jsonCreated(w, created)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleApplicantByID(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r)
	if len(parts) < 2 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	id, err := parseID(parts[1])
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(parts) == 3 && parts[2] == "notes" {
		h.handleEntityNotes(w, r, KindApplicant, id)
		return
	}
	if len(parts) != 2 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a, err := h.svc.GetApplicant(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, a)
	case http.MethodPut:
		a, cv, extra, _, err := decodeApplicantRequest(r)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		a.ID = id
		updated, err := h.svc.UpdateApplicant(r.Context(), a, cv, extra)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, updated)
	case http.MethodDelete:
		if err := h.svc.DeleteApplicant(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, map[string]bool{"deleted": true})
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// decodeApplicantRequest reads an applicant from either a multipart form
// (fields plus optional cv / extraFile parts) or a JSON body.
func decodeApplicantRequest(r *http.Request) (*Applicant, *DocumentUpload, *DocumentUpload, []string, error) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data") {
		var body struct {
			Applicant
			InitialNotes []string `json:"initialNotes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("invalid JSON body")
		}
		return &body.Applicant, nil, nil, body.InitialNotes, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("invalid multipart form")
	}

	a := &Applicant{
		FirstName:         r.FormValue("firstName"),
		LastName:          r.FormValue("lastName"),
		Email:             r.FormValue("email"),
		Phone:             r.FormValue("phone"),
		LinkedinURL:       r.FormValue("linkedinUrl"),
		Address:           r.FormValue("address"),
		PostalCode:        r.FormValue("postalCode"),
		City:              r.FormValue("city"),
		Country:           r.FormValue("country"),
		CurrentJobTitle:   r.FormValue("currentJobTitle"),
		CurrentEmployer:   r.FormValue("currentEmployer"),
		DesiredPosition:   r.FormValue("desiredPosition"),
		Availability:      r.FormValue("availability"),
		NoticePeriod:      r.FormValue("noticePeriod"),
		SalaryExpectation: r.FormValue("salaryExpectation"),
		Notes:             r.FormValue("notes"),
		Status:            RecordStatus(r.FormValue("status")),
	}

	cv, err := formDocument(r, "cv")
	if err != nil {
		return nil, nil, nil, nil, err
	}
	extra, err := formDocument(r, "extraFile")
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return a, cv, extra, r.MultipartForm.Value["initialNotes"], nil
}

// formDocument reads one optional file part.
func formDocument(r *http.Request, field string) (*DocumentUpload, error) {
	f, hdr, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s part: %v", field, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s part: %v", field, err)
	}
	return &DocumentUpload{Filename: hdr.Filename, Data: data}, nil
}

// ─── Missions ────────────────────────────────────────────────────────────────

func (h *Handler) handleMissions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.svc.ListMissions(r.Context(), listFilter(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, list)
	case http.MethodPost:
		var body struct {
			Mission
			InitialNotes []string `json:"initialNotes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		created, err := h.svc.CreateMission(r.Context(), &body.Mission)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		h.attachInitialNotes(r, KindMission, created.ID, body.InitialNotes)
		jsonCreated(w, created)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleMissionByID dispatches /missions/{id}[/notes|/applicants[/{applicantId}]|/available]
func (h *Handler) handleMissionByID(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r)
	if len(parts) < 2 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	id, err := parseID(parts[1])
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 2:
		h.missionCRUD(w, r, id)
	case len(parts) == 3 && parts[2] == "notes":
		h.handleEntityNotes(w, r, KindMission, id)
	case len(parts) == 3 && parts[2] == "applicants":
		h.missionApplicants(w, r, id)
	case len(parts) == 3 && parts[2] == "available":
		h.missionAvailable(w, r, id)
	case len(parts) == 4 && parts[2] == "applicants":
		h.missionUnassign(w, r, id, parts[3])
	default:
		jsonError(w, "invalid path", http.StatusNotFound)
	}
}

func (h *Handler) missionCRUD(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodGet:
		m, err := h.svc.GetMission(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, m)
	case http.MethodPut:
		var m Mission
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		m.ID = id
		updated, err := h.svc.UpdateMission(r.Context(), &m)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, updated)
	case http.MethodDelete:
		if err := h.svc.DeleteMission(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, map[string]bool{"deleted": true})
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) missionApplicants(w http.ResponseWriter, r *http.Request, missionID int64) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.svc.AssignedApplicants(r.Context(), missionID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, list)
	case http.MethodPost:
		var body struct {
			ApplicantID int64  `json:"applicantId"`
			Notes       string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ApplicantID <= 0 {
			jsonError(w, "body must contain applicantId", http.StatusBadRequest)
			return
		}
		a, err := h.svc.Assign(r.Context(), missionID, body.ApplicantID, body.Notes)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonCreated(w, a)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) missionAvailable(w http.ResponseWriter, r *http.Request, missionID int64) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	list, err := h.svc.AvailableApplicants(r.Context(), missionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonOK(w, list)
}

func (h *Handler) missionUnassign(w http.ResponseWriter, r *http.Request, missionID int64, rawApplicantID string) {
	if r.Method != http.MethodDelete {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	applicantID, err := parseID(rawApplicantID)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.svc.Unassign(r.Context(), missionID, applicantID); err != nil {
		writeServiceError(w, err)
		return
	}
	jsonOK(w, map[string]bool{"removed": true})
}

// ─── Callbacks ───────────────────────────────────────────────────────────────

func (h *Handler) handleCallbacks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.svc.ListCallbacks(r.Context(), listFilter(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, list)
	case http.MethodPost:
		var body struct {
			Callback
			InitialNotes []string `json:"initialNotes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		created, err := h.svc.CreateCallback(r.Context(), &body.Callback)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		h.attachInitialNotes(r, KindCallback, created.ID, body.InitialNotes)
		jsonCreated(w, created)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCallbackByID dispatches /callbacks/{id}[/notes|/done] and the
// /callbacks/options/{applicants|contacts} picker routes.
func (h *Handler) handleCallbackByID(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r)
	if len(parts) < 2 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	if len(parts) == 3 && parts[1] == "options" {
		h.callbackOptions(w, r, parts[2])
		return
	}

	id, err := parseID(parts[1])
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 2:
		h.callbackCRUD(w, r, id)
	case len(parts) == 3 && parts[2] == "notes":
		h.handleEntityNotes(w, r, KindCallback, id)
	case len(parts) == 3 && parts[2] == "done":
		h.callbackDone(w, r, id)
	default:
		jsonError(w, "invalid path", http.StatusNotFound)
	}
}

func (h *Handler) callbackCRUD(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodGet:
		cb, err := h.svc.GetCallback(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, cb)
	case http.MethodPut:
		var cb Callback
		if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		cb.ID = id
		updated, err := h.svc.UpdateCallback(r.Context(), &cb)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, updated)
	case http.MethodDelete:
		if err := h.svc.DeleteCallback(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, map[string]bool{"deleted": true})
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) callbackDone(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cb, err := h.svc.MarkCallbackDone(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonOK(w, cb)
}

func (h *Handler) callbackOptions(w http.ResponseWriter, r *http.Request, kind string) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var (
		opts []PersonOption
		err  error
	)
	switch kind {
	case "applicants":
		opts, err = h.svc.ApplicantOptions(r.Context())
	case "contacts":
		opts, err = h.svc.ContactOptions(r.Context())
	default:
		jsonError(w, fmt.Sprintf("unknown options kind %q", kind), http.StatusNotFound)
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonOK(w, opts)
}

// ─── Notes ───────────────────────────────────────────────────────────────────

// handleEntityNotes serves GET and POST on /{kind}s/{id}/notes. POST accepts
// either {"content": "..."} or {"contents": ["...", ...]} for a batch.
func (h *Handler) handleEntityNotes(w http.ResponseWriter, r *http.Request, kind EntityKind, entityID int64) {
	switch r.Method {
	case http.MethodGet:
		notes, err := h.svc.Notes(r.Context(), kind, entityID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonOK(w, notes)
	case http.MethodPost:
		var body struct {
			Content  string   `json:"content"`
			Contents []string `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if len(body.Contents) > 0 {
			notes, err := h.svc.AttachNotes(r.Context(), kind, entityID, body.Contents)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			jsonCreated(w, notes)
			return
		}
		n, err := h.svc.AttachNote(r.Context(), kind, entityID, body.Content)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		jsonCreated(w, n)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleNoteByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	parts := pathParts(r)
	if len(parts) != 2 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	id, err := parseID(parts[1])
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.svc.DetachNote(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	jsonOK(w, map[string]bool{"deleted": true})
}

// ─── Search, downloads, health ───────────────────────────────────────────────

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	res, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonOK(w, res)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	parts := pathParts(r)
	if len(parts) != 2 || parts[1] == "" {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	name := parts[1]
	if strings.Contains(name, "..") {
		jsonError(w, "invalid document name", http.StatusBadRequest)
		return
	}
	data, err := h.svc.OpenDocument(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]string{"status": "ok"})
}
