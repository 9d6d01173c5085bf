package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"yogamitra.app/backend/internal/core"
	"yogamitra.app/backend/internal/session"
	"yogamitra.app/backend/internal/store"
)

const (
	chatHistoryLimit = 50
	maxUploadBytes   = 16 << 20 // 16MB, matches the upload cap of the web form
)

// HistoryStore is the chat-history read dependency of the API layer.
type HistoryStore interface {
	GetChatRecordsByUserID(userID int64, limit int) ([]store.ChatRecord, error)
}

type APIHandler struct {
	sessions *session.Manager
	accounts *core.AccountService
	chat     *core.ChatService
	pose     core.PoseAnalyzer // nil when no vision API key is configured
	history  HistoryStore
}

func NewAPIHandler(sessions *session.Manager, accounts *core.AccountService, chat *core.ChatService, pose core.PoseAnalyzer, history HistoryStore) *APIHandler {
	return &APIHandler{
		sessions: sessions,
		accounts: accounts,
		chat:     chat,
		pose:     pose,
		history:  history,
	}
}

type contextKey string

const sessionKey contextKey = "session"

// SessionMiddleware resolves the request's server-side session from its
// cookie, creating one when absent, and stores it in the request context.
func (h *APIHandler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.sessions.FromRequest(w, r)
		if err != nil {
			log.Printf("Error creating session: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to create session")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(sessionKey).(*session.Session)
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.accounts.Register(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			respondError(w, http.StatusBadRequest, "Username already exists")
			return
		}
		log.Printf("Error creating user %s: %v", req.Username, err)
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	sessionFrom(r).SetAuthenticated(user.ID, user.Username)

	respondJSON(w, http.StatusCreated, map[string]string{
		"message":  "Registration successful",
		"redirect": "/app",
	})
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		log.Printf("Error authenticating user %s: %v", req.Username, err)
		respondError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	sessionFrom(r).SetAuthenticated(user.ID, user.Username)

	respondJSON(w, http.StatusOK, map[string]string{
		"message":  "Login successful",
		"redirect": "/app",
	})
}

// SkipLoginHandler grants guest access: the guest marker is set and any
// authenticated marker is cleared.
func (h *APIHandler) SkipLoginHandler(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).SetGuest()
	w.WriteHeader(http.StatusOK)
}

func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	h.sessions.Destroy(sess.ID)
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

type ChatRequest struct {
	Message string `json:"message"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if !sess.Member() {
		respondError(w, http.StatusUnauthorized, "Please log in or continue as guest")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "Please ask a valid question")
		return
	}

	response := h.chat.Send(r.Context(), sess, req.Message)
	respondJSON(w, http.StatusOK, map[string]string{"response": response})
}

// PoseResponse is the structured result of the pose route. Unlike chat,
// upstream failures surface as a failure object, not an error string in the
// response field.
type PoseResponse struct {
	Success  bool   `json:"success"`
	Feedback string `json:"feedback,omitempty"`
	PoseName string `json:"pose_name,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (h *APIHandler) PoseHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if !sess.LoggedIn() {
		respondError(w, http.StatusUnauthorized, "Please log in to use the pose analysis feature")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
			return
		}
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		respondError(w, http.StatusBadRequest, "No file selected")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondJSON(w, http.StatusOK, PoseResponse{
			Success: false,
			Error:   "Please upload an image file",
		})
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Error reading uploaded file: %v", err)
		respondJSON(w, http.StatusOK, PoseResponse{
			Success: false,
			Error:   "An error occurred while processing the image",
		})
		return
	}

	if h.pose == nil {
		respondJSON(w, http.StatusOK, PoseResponse{
			Success: false,
			Error:   "Pose analysis is not configured",
		})
		return
	}

	format := strings.TrimPrefix(contentType, "image/")
	report, err := h.pose.Analyze(r.Context(), imageData, format)
	if err != nil {
		log.Printf("Error in pose analysis: %v", err)
		msg := "An error occurred while analyzing the pose. Please try again."
		if errors.Is(err, core.ErrEmptyPoseResponse) {
			msg = "Could not analyze the pose. Please try again."
		}
		respondJSON(w, http.StatusOK, PoseResponse{Success: false, Error: msg})
		return
	}

	respondJSON(w, http.StatusOK, PoseResponse{
		Success:  true,
		Feedback: report.Analysis,
		PoseName: report.PoseName,
	})
}

func (h *APIHandler) NewChatHandler(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Reset()
	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *APIHandler) ChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if !sess.LoggedIn() {
		respondError(w, http.StatusUnauthorized, "Please log in to view chat history")
		return
	}

	userID := sess.UserID()
	records, err := h.history.GetChatRecordsByUserID(userID, chatHistoryLimit)
	if err != nil {
		log.Printf("Error loading chat history for user %d: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load chat history")
		return
	}
	if records == nil {
		records = []store.ChatRecord{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"history": records})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
