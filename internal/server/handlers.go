package server

import (
	"errors"
	"net/http"

	"schoolhub/internal/admin"
	"schoolhub/internal/alerts"
	"schoolhub/internal/assistant"
	"schoolhub/internal/directory"
	"schoolhub/internal/logging"

	"github.com/gorilla/mux"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"feed":   s.board.Feed().State.String(),
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.board.List())
}

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.board.Banner(sessionID(r)))
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	s.board.Dismiss(id)
	writeJSON(w, http.StatusOK, s.board.Banner(id))
}

type directoryInfo struct {
	Name  directory.Name `json:"name"`
	Count int            `json:"count"`
}

func (s *Server) handleDirectories(w http.ResponseWriter, r *http.Request) {
	var out []directoryInfo
	for _, name := range directory.Names() {
		links, _ := directory.Links(name)
		out = append(out, directoryInfo{Name: name, Count: len(links)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	name := directory.Name(mux.Vars(r)["directory"])
	links, ok := directory.Links(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown directory: "+string(name))
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, directory.Contacts())
}

func (s *Server) handleTeaser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, directory.TeaserOfTheDay(s.now()))
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply   string              `json:"reply,omitempty"`
	History []assistant.Message `json:"history"`
	Error   string              `json:"error,omitempty"`
}

func assistantStatus(err error) int {
	if errors.Is(err, assistant.ErrNotConfigured) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, assistant.ErrEmptyPrompt) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// handleChatHistory never starts a chat: a session without one sees the greeting.
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, assistant.MsgNotConfigured)
		return
	}
	conv, ok := s.lookupConversation(sessionID(r))
	if !ok {
		writeJSON(w, http.StatusOK, chatResponse{History: assistant.InitialHistory()})
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{History: conv.History()})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	conv, err := s.conversation(r)
	if err != nil {
		writeError(w, assistantStatus(err), assistant.UserMessage(err))
		return
	}

	reply, err := conv.Send(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyPrompt) {
			writeError(w, http.StatusBadRequest, assistant.UserMessage(err))
			return
		}
		writeJSON(w, http.StatusBadGateway, chatResponse{
			Reply:   reply,
			History: conv.History(),
			Error:   "Failed to get a response from the AI.",
		})
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, History: conv.History()})
}

type imageRequest struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	DataURL string `json:"data_url"`
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if s.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, assistant.MsgNotConfigured)
		return
	}
	img, err := s.assistant.GenerateImage(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, assistantStatus(err), assistant.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, imageResponse{DataURL: img.DataURL()})
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, err := s.gate.Login(req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, admin.MsgIncorrectPassword)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.gate.Logout(bearerToken(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, admin.SheetStatus(s.cfg.Alerts.CSVURL, s.cfg.Alerts.EditURL))
}

type refreshResponse struct {
	State  string           `json:"state"`
	Reason string           `json:"reason,omitempty"`
	List   alerts.ListState `json:"list"`
}

// handleAdminRefresh refetches the sheet so editors can check their
// changes. Unlike the public routes it reports the operator-facing reason.
func (s *Server) handleAdminRefresh(w http.ResponseWriter, r *http.Request) {
	feed := s.Refresh(r.Context())
	logging.Server("admin refresh: feed %s with %d alerts", feed.State, len(feed.Alerts))
	writeJSON(w, http.StatusOK, refreshResponse{
		State:  feed.State.String(),
		Reason: feed.Reason,
		List:   s.board.List(),
	})
}

func (s *Server) handleAdminUsage(w http.ResponseWriter, r *http.Request) {
	var usage *assistant.Usage
	if s.assistant != nil {
		usage = s.assistant.Usage()
	}
	writeJSON(w, http.StatusOK, usage.Stats())
}
