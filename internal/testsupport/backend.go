// Package testsupport provides an in-process VoiceVista backend for tests.
//
// The fake implements the REST contract the client consumes: JWT bearer
// auth, profile and settings, avatar and audio multipart uploads, the
// transcription list, and transcript downloads. Tests seed it directly and
// flip record statuses to drive polling.
package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const dateLayout = "2006-01-02 15:04:05"

var (
	audioExtensions  = map[string]bool{"wav": true, "mp3": true, "m4a": true, "flac": true, "ogg": true}
	avatarExtensions = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true}
)

// Settings mirrors the backend's user_settings row.
type Settings struct {
	TranscriptionLanguage string `json:"transcription_language"`
	VoiceDiarization      bool   `json:"voice_diarization"`
	ExportFormat          string `json:"export_format"`
}

// User is a seeded or registered account.
type User struct {
	ID           int64
	Name         string
	Email        string
	AvatarURL    string
	CreatedAt    time.Time
	Settings     Settings
	passwordHash []byte
}

// Record is a stored transcription.
type Record struct {
	ID         int64
	UserID     int64
	Title      string
	Status     string
	Date       time.Time
	Transcript string
	Summary    string
}

// Request is a request observed by the backend.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	ContentType   string
	RequestID     string
	FormFile      string
	FormField     string
	Body          []byte
}

type failure struct {
	method string
	path   string
	status int
	body   string
}

// Backend is a fake VoiceVista server.
type Backend struct {
	srv    *httptest.Server
	secret []byte

	mu       sync.Mutex
	users    map[int64]*User
	records  map[int64]*Record
	nextUser int64
	nextRec  int64
	failures []failure
	requests []Request
	avatars  map[string][]byte
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		secret:  []byte("test-secret-" + uuid.NewString()),
		users:   make(map[int64]*User),
		records: make(map[int64]*Record),
		avatars: make(map[string][]byte),
	}
	b.srv = httptest.NewServer(b.routes())
	t.Cleanup(b.srv.Close)
	return b
}

// URL is the backend base URL.
func (b *Backend) URL() string {
	return b.srv.URL
}

// Close shuts the server down. Later requests fail at the transport.
func (b *Backend) Close() {
	b.srv.Close()
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)
	r.Use(b.injectFailures)

	r.Post("/api/auth/register", b.handleRegister)
	r.Post("/api/auth/login", b.handleLogin)
	r.Get("/uploads/{name}", b.handleUploadedFile)

	r.Group(func(r chi.Router) {
		r.Use(b.requireToken)
		r.Get("/api/user/profile", b.handleProfile)
		r.Put("/api/user/profile", b.handleUpdateProfile)
		r.Post("/api/user/avatar", b.handleAvatar)
		r.Post("/api/upload", b.handleUpload)
		r.Get("/api/transcriptions", b.handleList)
		r.Delete("/api/transcriptions", b.handleDeleteAll)
		r.Get("/api/transcriptions/{id}", b.handleGet)
		r.Delete("/api/transcriptions/{id}", b.handleDelete)
		r.Get("/api/transcriptions/{id}/download", b.handleDownload)
	})
	return r
}

// AddUser seeds an account and returns its id.
func (b *Backend) AddUser(name, email, password string) int64 {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("hash password: %v", err))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(name, email, hash)
}

func (b *Backend) addUserLocked(name, email string, hash []byte) int64 {
	b.nextUser++
	b.users[b.nextUser] = &User{
		ID:        b.nextUser,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
		Settings: Settings{
			TranscriptionLanguage: "English",
			VoiceDiarization:      true,
			ExportFormat:          "pdf",
		},
		passwordHash: hash,
	}
	return b.nextUser
}

// User returns a copy of the account.
func (b *Backend) User(id int64) (User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[id]
	if !ok {
		return User{}, false
	}
	return *u, true
}

// Token issues a valid bearer token for the user.
func (b *Backend) Token(userID int64) string {
	return b.sign(userID, time.Now().Add(24*time.Hour))
}

// ExpiredToken issues a token whose exp is in the past.
func (b *Backend) ExpiredToken(userID int64) string {
	return b.sign(userID, time.Now().Add(-time.Hour))
}

func (b *Backend) sign(userID int64, exp time.Time) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		panic(fmt.Sprintf("sign token: %v", err))
	}
	return token
}

// AddRecord seeds a transcription for the user and returns its id. A zero
// Date defaults to now.
func (b *Backend) AddRecord(userID int64, rec Record) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextRec++
	rec.ID = b.nextRec
	rec.UserID = userID
	if rec.Date.IsZero() {
		rec.Date = time.Now()
	}
	if rec.Status == "" {
		rec.Status = "processing"
	}
	b.records[rec.ID] = &rec
	return rec.ID
}

// SetStatus updates a record's status and content.
func (b *Backend) SetStatus(id int64, status, transcriptText, summary string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r, ok := b.records[id]; ok {
		r.Status = status
		r.Transcript = transcriptText
		r.Summary = summary
	}
}

// CompleteAll marks every processing record of the user completed.
func (b *Backend) CompleteAll(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.records {
		if r.UserID == userID && r.Status == "processing" {
			r.Status = "completed"
			r.Transcript = "Transcript of " + r.Title
			r.Summary = "Summary of " + r.Title
		}
	}
}

// Records returns the user's records, most recent first.
func (b *Backend) Records(userID int64) []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recordsLocked(userID)
}

func (b *Backend) recordsLocked(userID int64) []Record {
	var out []Record
	for _, r := range b.records {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// FailNext makes the next request matching method and path fail with status
// and a {"message"} body.
func (b *Backend) FailNext(method, path string, status int, message string) {
	body, _ := json.Marshal(map[string]string{"message": message})
	b.FailNextRaw(method, path, status, string(body))
}

// FailNextRaw makes the next matching request fail with an arbitrary body.
func (b *Backend) FailNextRaw(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, failure{method: method, path: path, status: status, body: body})
}

// Requests returns the requests observed so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// RequestsTo returns observed requests for method and path.
func (b *Backend) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Avatar returns the stored bytes of an uploaded avatar.
func (b *Backend) Avatar(name string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.avatars[name]
	return data, ok
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			RequestID:     r.Header.Get("X-Request-ID"),
		}
		b.mu.Lock()
		b.requests = append(b.requests, req)
		idx := len(b.requests) - 1
		b.mu.Unlock()

		next.ServeHTTP(w, r.WithContext(withRequestIndex(r.Context(), idx)))
	})
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		for i, f := range b.failures {
			if f.method == r.Method && f.path == r.URL.Path {
				b.failures = append(b.failures[:i], b.failures[i+1:]...)
				b.mu.Unlock()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(f.status)
				w.Write([]byte(f.body))
				return
			}
		}
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || raw == "" {
			writeMessage(w, http.StatusUnauthorized, "Token is missing!")
			return
		}
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return b.secret, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				writeMessage(w, http.StatusUnauthorized, "Token has expired!")
				return
			}
			writeMessage(w, http.StatusUnauthorized, "Token is invalid!")
			return
		}
		id, ok := claims["user_id"].(float64)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Token is invalid!")
			return
		}
		b.mu.Lock()
		_, exists := b.users[int64(id)]
		b.mu.Unlock()
		if !exists {
			writeMessage(w, http.StatusUnauthorized, "Token is invalid!")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), int64(id))))
	})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Registration failed")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.MinCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if strings.EqualFold(u.Email, body.Email) {
			writeMessage(w, http.StatusInternalServerError, "Registration failed")
			return
		}
	}
	b.addUserLocked(body.Name, body.Email, hash)
	writeMessage(w, http.StatusCreated, "New user created!")
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	b.mu.Lock()
	var user *User
	for _, u := range b.users {
		if strings.EqualFold(u.Email, body.Email) {
			user = u
			break
		}
	}
	b.mu.Unlock()

	if user == nil || bcrypt.CompareHashAndPassword(user.passwordHash, []byte(body.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": b.Token(user.ID),
		"user": map[string]any{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"avatar_url": nullable(user.AvatarURL),
		},
	})
}

func (b *Backend) handleProfile(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	u := *b.users[userID(r.Context())]
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"avatar_url": nullable(u.AvatarURL),
		"created_at": u.CreatedAt.Format(time.RFC1123),
		"settings":   u.Settings,
	})
}

func (b *Backend) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     *string   `json:"name"`
		Email    *string   `json:"email"`
		Settings *Settings `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Profile update failed")
		return
	}
	b.mu.Lock()
	u := b.users[userID(r.Context())]
	if body.Name != nil {
		u.Name = *body.Name
	}
	if body.Email != nil {
		u.Email = *body.Email
	}
	if body.Settings != nil {
		u.Settings = *body.Settings
	}
	b.mu.Unlock()
	writeMessage(w, http.StatusOK, "Profile updated successfully")
}

func (b *Backend) handleAvatar(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := b.readFormFile(w, r, "avatar", "No avatar file provided")
	if !ok {
		return
	}
	ext := extension(filename)
	if !avatarExtensions[ext] {
		writeMessage(w, http.StatusBadRequest, "Invalid file type. Allowed: png, jpg, jpeg, gif")
		return
	}
	name := uuid.NewString() + "." + ext

	b.mu.Lock()
	b.avatars[name] = data
	b.users[userID(r.Context())].AvatarURL = name
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"message":    "Avatar uploaded successfully",
		"avatar_url": name,
	})
}

func (b *Backend) handleUploadedFile(w http.ResponseWriter, r *http.Request) {
	data, ok := b.Avatar(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Write(data)
}

func (b *Backend) handleUpload(w http.ResponseWriter, r *http.Request) {
	_, filename, ok := b.readFormFile(w, r, "audio", "No audio file provided")
	if !ok {
		return
	}
	if !audioExtensions[extension(filename)] {
		writeMessage(w, http.StatusBadRequest, "Invalid file type. Allowed: wav, mp3, m4a, flac, ogg")
		return
	}
	id := b.AddRecord(userID(r.Context()), Record{Title: filename, Status: "processing"})
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "File uploaded successfully",
		"file_id":  id,
		"filename": filename,
	})
}

func (b *Backend) readFormFile(w http.ResponseWriter, r *http.Request, field, missing string) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, missing)
		return nil, "", false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, missing)
		return nil, "", false
	}
	defer file.Close()
	if header.Filename == "" {
		writeMessage(w, http.StatusBadRequest, "No file selected")
		return nil, "", false
	}
	buf, err := io.ReadAll(file)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Upload failed")
		return nil, "", false
	}

	b.mu.Lock()
	if idx, ok := requestIndex(r.Context()); ok {
		b.requests[idx].FormField = field
		b.requests[idx].FormFile = header.Filename
		b.requests[idx].Body = buf
	}
	b.mu.Unlock()
	return buf, header.Filename, true
}

func (b *Backend) handleList(w http.ResponseWriter, r *http.Request) {
	recs := b.Records(userID(r.Context()))
	out := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		out = append(out, recordJSON(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())
	b.mu.Lock()
	for id, rec := range b.records {
		if rec.UserID == uid {
			delete(b.records, id)
		}
	}
	b.mu.Unlock()
	writeMessage(w, http.StatusOK, "All transcriptions deleted successfully")
}

func (b *Backend) lookup(w http.ResponseWriter, r *http.Request) (Record, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return Record{}, false
	}
	b.mu.Lock()
	rec, ok := b.records[id]
	b.mu.Unlock()
	if !ok || rec.UserID != userID(r.Context()) {
		writeMessage(w, http.StatusNotFound, "Transcription not found")
		return Record{}, false
	}
	return *rec, true
}

func (b *Backend) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, ok := b.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, recordJSON(rec))
}

func (b *Backend) handleDelete(w http.ResponseWriter, r *http.Request) {
	rec, ok := b.lookup(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	delete(b.records, rec.ID)
	b.mu.Unlock()
	writeMessage(w, http.StatusOK, "Transcription deleted successfully")
}

func (b *Backend) handleDownload(w http.ResponseWriter, r *http.Request) {
	rec, ok := b.lookup(w, r)
	if !ok {
		return
	}
	if rec.Status != "completed" {
		writeMessage(w, http.StatusBadRequest, "Transcription not completed yet")
		return
	}
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "txt"
	}
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "en"
	}

	content := fmt.Sprintf("Transcription of: %s\n\nSummary:\n%s\n\nTranscript:\n%s", rec.Title, rec.Summary, rec.Transcript)
	switch format {
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		content = "%PDF-1.4\n" + content
	case "docx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		content = "PK" + content
	default:
		w.Header().Set("Content-Type", "text/plain")
	}
	w.Header().Set("Content-Language", lang)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_transcript.%s"`, rec.Title, format))
	w.Write([]byte(content))
}

func recordJSON(rec Record) map[string]any {
	return map[string]any{
		"id":         rec.ID,
		"title":      rec.Title,
		"status":     rec.Status,
		"date":       rec.Date.Format(dateLayout),
		"transcript": nullable(rec.Transcript),
		"summary":    nullable(rec.Summary),
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
