package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/entity"
)

type SendMessageInput struct {
	Role      string `json:"role"`
	DoctorID  string `json:"-"`
	PatientID string `json:"-"`
	Text      string `json:"text"`
}

type ChatUseCase struct {
	Repo   entity.ChatRepositoryInterface
	logger *zap.Logger
	now    Clock
}

func NewChatUseCase(repo entity.ChatRepositoryInterface, logger *zap.Logger) *ChatUseCase {
	return &ChatUseCase{Repo: repo, logger: logger, now: time.Now}
}

func (uc *ChatUseCase) GetConversation(ctx context.Context, doctorID, patientID string) ([]*entity.Message, error) {
	msgs, err := uc.Repo.Get(ctx, doctorID, patientID)
	if err != nil {
		return nil, storageError("erro ao ler conversa", err)
	}
	return msgs, nil
}

// SaveConversation replaces the whole array. Null entries are dropped.
func (uc *ChatUseCase) SaveConversation(ctx context.Context, doctorID, patientID string, msgs []*entity.Message) error {
	kept := make([]*entity.Message, 0, len(msgs))
	for _, m := range msgs {
		if m != nil {
			kept = append(kept, m)
		}
	}
	msgs = kept
	if err := uc.Repo.Save(ctx, doctorID, patientID, msgs); err != nil {
		return storageError("erro ao salvar conversa", err)
	}
	return nil
}

func (uc *ChatUseCase) ClearConversation(ctx context.Context, doctorID, patientID string) error {
	if err := uc.Repo.Clear(ctx, doctorID, patientID); err != nil {
		return storageError("erro ao limpar conversa", err)
	}
	return nil
}

// AppendMessage stores msg as is and returns the whole conversation.
func (uc *ChatUseCase) AppendMessage(ctx context.Context, doctorID, patientID string, msg *entity.Message) ([]*entity.Message, error) {
	if msg.ReadBy == nil {
		msg.ReadBy = []string{}
	}
	msgs, err := uc.Repo.Append(ctx, doctorID, patientID, msg)
	if err != nil {
		return nil, storageError("erro ao gravar mensagem", err)
	}
	return msgs, nil
}

// SendMessage builds the message the way the app does: the sender id is the
// doctor id when role is medico, the patient id otherwise.
func (uc *ChatUseCase) SendMessage(ctx context.Context, in SendMessageInput) ([]*entity.Message, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, validationFailed([]ValidationError{{"text", "is required"}})
	}

	from, sender := entity.RolePatient, in.PatientID
	if in.Role == entity.RoleDoctor {
		from, sender = entity.RoleDoctor, in.DoctorID
	}

	ts := uc.now().UnixMilli()
	msg := &entity.Message{
		ID:        strconv.FormatInt(ts, 10),
		From:      from,
		SenderID:  sender,
		Text:      text,
		CreatedAt: ts,
		ReadBy:    []string{},
	}
	return uc.AppendMessage(ctx, in.DoctorID, in.PatientID, msg)
}

// MarkRead adds readerID to every message it has not read yet.
func (uc *ChatUseCase) MarkRead(ctx context.Context, doctorID, patientID, readerID string) ([]*entity.Message, error) {
	if strings.TrimSpace(readerID) == "" {
		return nil, validationFailed([]ValidationError{{"readerId", "is required"}})
	}
	msgs, err := uc.Repo.Update(ctx, doctorID, patientID, func(msgs []*entity.Message) bool {
		changed := false
		for _, m := range msgs {
			if m == nil {
				continue
			}
			if !m.IsReadBy(readerID) {
				m.ReadBy = append(m.ReadBy, readerID)
				changed = true
			}
		}
		return changed
	})
	if err != nil {
		return nil, storageError("erro ao marcar leitura", err)
	}
	return msgs, nil
}

func (uc *ChatUseCase) FindConversationsForPatient(ctx context.Context, patientID string) ([]entity.ConversationRef, error) {
	return uc.findConversations(ctx, func(_, pac string) bool { return pac == patientID }, false)
}

func (uc *ChatUseCase) FindConversationsForDoctor(ctx context.Context, doctorID string) ([]entity.ConversationRef, error) {
	return uc.findConversations(ctx, func(med, _ string) bool { return med == doctorID }, true)
}

// findConversations scans chat: keys and sorts by last message, newest
// first. An unreadable conversation counts as timestamp 0.
func (uc *ChatUseCase) findConversations(ctx context.Context, match func(med, pac string) bool, forDoctor bool) ([]entity.ConversationRef, error) {
	keys, err := uc.Repo.ListKeys(ctx)
	if err != nil {
		return nil, storageError("erro ao listar conversas", err)
	}

	out := []entity.ConversationRef{}
	for _, key := range keys {
		med, pac, ok := entity.ParseChatKey(key)
		if !ok || !match(med, pac) {
			continue
		}

		ref := entity.ConversationRef{Key: key}
		if forDoctor {
			ref.PatientID = pac
		} else {
			ref.DoctorID = med
		}

		msgs, err := uc.Repo.GetByKey(ctx, key)
		if err != nil {
			uc.logger.Warn("conversa ilegível", zap.String("key", key), zap.Error(err))
		} else if len(msgs) > 0 && msgs[len(msgs)-1] != nil {
			ref.LastTimestamp = msgs[len(msgs)-1].CreatedAt
		}
		out = append(out, ref)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].LastTimestamp > out[j].LastTimestamp })
	return out, nil
}
