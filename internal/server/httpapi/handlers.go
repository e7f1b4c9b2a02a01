package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/loveletters/internal/common"
	"github.com/dmitrijs2005/loveletters/internal/server/mailer"
	"github.com/dmitrijs2005/loveletters/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type createLetterRequest struct {
	SenderID  flexInt64  `json:"sender_id"`
	Content   string     `json:"content"`
	Style     flexString `json:"style"`
	PaperType flexString `json:"paper_type"`
}

type updateTitleRequest struct {
	Title string `json:"title"`
}

type sendLetterRequest struct {
	RecipientEmail string `json:"recipientEmail"`
	RecipientName  string `json:"recipientName"`
}

type sendLetterResponse struct {
	Message   string         `json:"message"`
	Letter    *models.Letter `json:"letter,omitempty"`
	EmailInfo mailer.Result  `json:"emailInfo"`
}

type uploadRequest struct {
	Filename string `json:"filename"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeServerError(w, err)
		return
	}

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := s.users.Register(r.Context(), in.Username, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUserExists) {
			writeMessage(w, http.StatusBadRequest, "User already exists")
			return
		}
		s.logger.Error(r.Context(), "register failed", "error", err)
		writeServerError(w, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeServerError(w, err)
		return
	}

	token, err := s.users.Login(r.Context(), strings.TrimSpace(in.Email), in.Password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			writeMessage(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err)
		writeServerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleCreateLetter(w http.ResponseWriter, r *http.Request) {
	var in createLetterRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeServerError(w, err)
		return
	}

	senderID := int64(in.SenderID)
	if s.requireAuth && senderID == 0 {
		senderID, _ = userIDFromContext(r.Context())
	}
	if !s.allowedFor(r, senderID) {
		writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	letter, err := s.letters.Create(r.Context(), senderID, in.Content, string(in.Style), string(in.PaperType))
	if err != nil {
		s.logger.Error(r.Context(), "create letter failed", "error", err)
		writeServerError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, letter)
}

// letterID parses the {id} path segment. Non-integers behave like a
// missing letter.
func letterID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Letter not found")
		return 0, false
	}
	return id, true
}

// letterError writes the response for a failed letter lookup or write.
func (s *Server) letterError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		writeMessage(w, http.StatusNotFound, "Letter not found")
		return
	}
	s.logger.Error(r.Context(), op+" failed", "error", err)
	writeServerError(w, err)
}

func (s *Server) handleGetLetter(w http.ResponseWriter, r *http.Request) {
	id, ok := letterID(w, r)
	if !ok {
		return
	}

	letter, err := s.letters.Get(r.Context(), id)
	if err != nil {
		s.letterError(w, r, "get letter", err)
		return
	}

	writeJSON(w, http.StatusOK, letter)
}

func (s *Server) handleListLetters(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if !s.allowedFor(r, userID) {
		writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	list, err := s.letters.ListBySender(r.Context(), userID)
	if err != nil {
		s.logger.Error(r.Context(), "list letters failed", "error", err)
		writeServerError(w, err)
		return
	}
	if list == nil {
		list = []*models.Letter{}
	}

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleUpdateTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := letterID(w, r)
	if !ok {
		return
	}

	var in updateTitleRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeServerError(w, err)
		return
	}

	letter, err := s.letters.UpdateTitle(r.Context(), id, in.Title)
	if err != nil {
		s.letterError(w, r, "update title", err)
		return
	}

	writeJSON(w, http.StatusOK, letter)
}

func (s *Server) handleDeleteLetter(w http.ResponseWriter, r *http.Request) {
	id, ok := letterID(w, r)
	if !ok {
		return
	}

	if err := s.letters.Delete(r.Context(), id); err != nil {
		s.letterError(w, r, "delete letter", err)
		return
	}

	writeMessage(w, http.StatusOK, "Letter deleted successfully")
}

func (s *Server) handleSendLetter(w http.ResponseWriter, r *http.Request) {
	id, ok := letterID(w, r)
	if !ok {
		return
	}

	var in sendLetterRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeServerError(w, err)
		return
	}

	letter, res, err := s.letters.Send(r.Context(), id, strings.TrimSpace(in.RecipientEmail), in.RecipientName)
	if err != nil {
		if errors.Is(err, common.ErrorMailTransport) {
			writeJSON(w, http.StatusInternalServerError, sendLetterResponse{
				Message:   "Failed to send email",
				EmailInfo: res,
			})
			return
		}
		s.letterError(w, r, "send letter", err)
		return
	}

	writeJSON(w, http.StatusOK, sendLetterResponse{
		Message:   "Letter sent successfully",
		Letter:    letter,
		EmailInfo: res,
	})
}

func (s *Server) handleCreateUpload(w http.ResponseWriter, r *http.Request) {
	var in uploadRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &in); err != nil {
			writeServerError(w, err)
			return
		}
	}

	up, err := s.uploads.PresignPut(r.Context(), in.Filename)
	if err != nil {
		s.logger.Error(r.Context(), "presign failed", "error", err)
		writeServerError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, up)
}
