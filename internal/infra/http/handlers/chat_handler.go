package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/http/middleware"
	"github.com/xavierca1/clinitech/internal/usecase"
)

type ChatHandler struct {
	UC     *usecase.ChatUseCase
	logger *zap.Logger
}

func NewChatHandler(uc *usecase.ChatUseCase, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{UC: uc, logger: logger}
}

func chatIDs(r *http.Request) (doctorID, patientID string) {
	return chi.URLParam(r, "doctorId"), chi.URLParam(r, "patientId")
}

func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	doctorID, patientID := chatIDs(r)
	out, err := h.UC.GetConversation(r.Context(), doctorID, patientID)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Save (PUT /chats/{doctorId}/{patientId}) substitui a conversa inteira.
func (h *ChatHandler) Save(w http.ResponseWriter, r *http.Request) {
	var msgs []*entity.Message
	if !decodeJSON(w, r, &msgs) {
		return
	}

	doctorID, patientID := chatIDs(r)
	if err := h.UC.SaveConversation(r.Context(), doctorID, patientID, msgs); err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendMessageInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.DoctorID, input.PatientID = chatIDs(r)

	out, err := h.UC.SendMessage(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}

	middleware.RecordChatMessage(out[len(out)-1].From)
	writeJSON(w, http.StatusCreated, out)
}

type markReadRequest struct {
	ReaderID string `json:"readerId"`
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	doctorID, patientID := chatIDs(r)
	out, err := h.UC.MarkRead(r.Context(), doctorID, patientID, req.ReaderID)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	doctorID, patientID := chatIDs(r)
	if err := h.UC.ClearConversation(r.Context(), doctorID, patientID); err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PatientConversations (GET /patients/{cpf}/chats)
func (h *ChatHandler) PatientConversations(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.FindConversationsForPatient(r.Context(), chi.URLParam(r, "cpf"))
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// DoctorConversations (GET /doctors/{crm}/chats)
func (h *ChatHandler) DoctorConversations(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.FindConversationsForDoctor(r.Context(), chi.URLParam(r, "crm"))
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
