package mock

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const timestampLayout = "2006-01-02T15:04:05.000000"

type user struct {
	ID        int
	Email     string
	Name      string
	Password  string
	CreatedAt string
}

type group struct {
	ID               string `json:"id"`
	GroupName        string `json:"groupName"`
	Subject          string `json:"subject"`
	Description      string `json:"description"`
	MaxMembers       int    `json:"maxMembers"`
	SkillLevel       string `json:"skillLevel"`
	MeetingFrequency string `json:"meetingFrequency"`
	MeetingTime      string `json:"meetingTime,omitempty"`
	MeetingDate      string `json:"meetingDate,omitempty"`
	Location         string `json:"location,omitempty"`
	CreatedAt        string `json:"created_at"`
	CreatorID        string `json:"creatorId"`
}

// Backend is the mock's in-memory state. Safe for concurrent use.
type Backend struct {
	mu      sync.RWMutex
	users   map[string]*user // by email
	nextID  int
	groups  []*group
	tokens  map[string]string // token -> email
	dbError string
}

func NewBackend() *Backend {
	return &Backend{
		users:  make(map[string]*user),
		nextID: 1,
		tokens: make(map[string]string),
	}
}

// AddUser registers a user and returns its id.
func (b *Backend) AddUser(name, email, password string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(name, email, password)
}

func (b *Backend) addUserLocked(name, email, password string) int {
	u := &user{
		ID:        b.nextID,
		Email:     email,
		Name:      name,
		Password:  password,
		CreatedAt: time.Now().UTC().Format(timestampLayout),
	}
	b.nextID++
	b.users[email] = u
	return u.ID
}

// IssueToken returns a fresh token for email.
func (b *Backend) IssueToken(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issueTokenLocked(email)
}

func (b *Backend) issueTokenLocked(email string) string {
	tok := strings.ReplaceAll(uuid.NewString(), "-", "")
	b.tokens[tok] = email
	return tok
}

// RevokeTokens invalidates every issued token, as if they had expired.
func (b *Backend) RevokeTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = make(map[string]string)
}

// SetDatabaseError makes group listing report msg the way the real backend
// does when its database is down. An empty msg clears it.
func (b *Backend) SetDatabaseError(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dbError = msg
}

func (b *Backend) register(r *Router) {
	r.AddRoute(&Route{Method: "GET", Path: "/", Name: "landing", Handler: b.landing})
	r.AddRoute(&Route{Method: "POST", Path: "/signin", Name: "signin", Handler: b.signIn})
	r.AddRoute(&Route{Method: "POST", Path: "/signup", Name: "signup", Handler: b.signUp})
	r.AddRoute(&Route{Method: "GET", Path: "/user/", Name: "listUsers", Handler: b.listUsers})
	r.AddRoute(&Route{Method: "POST", Path: "/user/", Name: "createUser", Handler: b.createUser})
	r.AddRoute(&Route{Method: "GET", Path: "/user/profile", Name: "profile", Handler: b.authenticated(b.profile)})
	r.AddRoute(&Route{Method: "GET", Path: "/groups/", Name: "listGroups", Handler: b.listGroups})
	r.AddRoute(&Route{Method: "GET", Path: "/groups/my", Name: "myGroups", Handler: b.authenticated(b.myGroups)})
	r.AddRoute(&Route{Method: "POST", Path: "/groups/create", Name: "createGroup", Handler: b.authenticated(b.createGroup)})
}

// authenticated rejects requests without a valid bearer token
func (b *Backend) authenticated(next func(http.ResponseWriter, *http.Request, *user)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tok == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}

		b.mu.RLock()
		email, known := b.tokens[tok]
		u := b.users[email]
		b.mu.RUnlock()

		if !known || u == nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		next(w, r, u)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "Invalid request body"})
		return false
	}
	return true
}

func (b *Backend) landing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"Message": "Hello user"})
}

func (b *Backend) signIn(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &in) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	u, ok := b.users[in.Email]
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"Message": "User not found"})
		return
	}
	if u.Password != "" && u.Password != in.Password {
		writeJSON(w, http.StatusOK, map[string]string{"error": "Login Failed invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"Message": "Login successful", "token": b.issueTokenLocked(in.Email)})
}

func (b *Backend) signUp(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if !decode(w, r, &in) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.users[in.Email]; exists {
		writeJSON(w, http.StatusOK, map[string]string{"error": "User already exists"})
		return
	}
	b.addUserLocked(in.Name, in.Email, in.Password)
	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully", "token": b.issueTokenLocked(in.Email)})
}

type userResponse struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func toUserResponse(u *user) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

func (b *Backend) listUsers(w http.ResponseWriter, _ *http.Request) {
	b.mu.RLock()
	out := make([]userResponse, 0, len(b.users))
	for _, u := range b.users {
		out = append(out, toUserResponse(u))
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if !decode(w, r, &in) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.users[in.Email]; exists {
		// the real backend wraps its own 400 into a 500
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "400: User already exists"})
		return
	}
	b.addUserLocked(in.Name, in.Email, "")
	writeJSON(w, http.StatusOK, toUserResponse(b.users[in.Email]))
}

func (b *Backend) profile(w http.ResponseWriter, _ *http.Request, u *user) {
	writeJSON(w, http.StatusOK, map[string]any{"user": map[string]string{"name": u.Name, "email": u.Email}})
}

func (b *Backend) listGroups(w http.ResponseWriter, _ *http.Request) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.dbError != "" {
		writeJSON(w, http.StatusOK, map[string]any{"groups": []any{}, "error": b.dbError})
		return
	}
	groups := make([]*group, len(b.groups))
	copy(groups, b.groups)
	writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

func (b *Backend) myGroups(w http.ResponseWriter, _ *http.Request, u *user) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	// stored documents carry _id rather than id
	out := make([]map[string]any, 0)
	for _, g := range b.groups {
		if g.CreatorID != itoa(u.ID) {
			continue
		}
		doc := map[string]any{
			"_id":              g.ID,
			"groupName":        g.GroupName,
			"subject":          g.Subject,
			"description":      g.Description,
			"maxMembers":       g.MaxMembers,
			"skillLevel":       g.SkillLevel,
			"meetingFrequency": g.MeetingFrequency,
			"meetingTime":      g.MeetingTime,
			"meetingDate":      g.MeetingDate,
			"location":         g.Location,
			"created_at":       g.CreatedAt,
			"creatorId":        g.CreatorID,
		}
		out = append(out, doc)
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createGroup(w http.ResponseWriter, r *http.Request, u *user) {
	var in group
	if !decode(w, r, &in) {
		return
	}
	if in.GroupName == "" || in.Subject == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "groupName and subject are required"})
		return
	}

	in.ID = strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
	in.CreatorID = itoa(u.ID)
	in.CreatedAt = time.Now().UTC().Format(timestampLayout)
	if in.SkillLevel == "" {
		in.SkillLevel = "beginner"
	}
	if in.MeetingFrequency == "" {
		in.MeetingFrequency = "Flexible"
	}

	b.mu.Lock()
	b.groups = append(b.groups, &in)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Group created successfully",
		"group":   &in,
		"id":      in.ID,
	})
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
