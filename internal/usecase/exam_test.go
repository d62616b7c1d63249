package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/entity"
)

func newExamUC(r *repos) *ExamUseCase {
	uc := NewExamUseCase(r.exams, r.patients, zap.NewNop())
	uc.now = fixedClock
	return uc
}

func TestRequestExam(t *testing.T) {
	r := newRepos()
	r.seedPatient(validCPF, "Ana")
	uc := newExamUC(r)

	v, err := uc.Request(context.Background(), RequestExamInput{
		CPF:            validCPF,
		Type:           "Outro",
		OtherType:      "Ecocardiograma",
		CollectionDate: "20/03/2026",
		Notes:          " jejum de 8h ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ecocardiograma", v.Type)
	assert.Equal(t, "jejum de 8h", v.Notes)
	assert.Equal(t, "jejum de 8h", v.Result)
	assert.Equal(t, entity.ExamStatusPending, v.Status)
	assert.Equal(t, entity.StatusPending, v.Category)
	assert.False(t, v.CanAttach)
	assert.NotEmpty(t, v.ID)
}

func TestRequestExam_Errors(t *testing.T) {
	r := newRepos()
	r.seedPatient(validCPF, "Ana")
	uc := newExamUC(r)

	_, err := uc.Request(context.Background(), RequestExamInput{CPF: otherValidCPF, Type: "Hemograma", CollectionDate: "20/03/2026"})
	assertDomainCode(t, err, CodePatientNotFound)

	_, err = uc.Request(context.Background(), RequestExamInput{CPF: validCPF, Type: "Outro", CollectionDate: "32/03/2026"})
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeValidation, de.Code)
	assert.Len(t, de.Details, 2)
}

func TestListExams_PastCollectionShowsRealizado(t *testing.T) {
	r := newRepos()
	require.NoError(t, r.exams.Append(context.Background(), validCPF, &entity.Exam{ID: "e1", Type: "Glicemia", CollectionDate: "01/03/2026", Status: "Pendente"}))
	require.NoError(t, r.exams.Append(context.Background(), validCPF, &entity.Exam{ID: "e2", Type: "TSH", CollectionDate: "01/03/2026", Status: "Liberado", ResultFileURI: "file://tsh.pdf"}))

	list, err := newExamUC(r).List(context.Background(), validCPF)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, entity.ExamStatusDone, list[0].Status)
	assert.Equal(t, "Pendente", list[0].StoredStatus)
	assert.True(t, list[0].CanAttach)
	assert.Equal(t, "Liberado", list[1].Status)
	assert.Empty(t, list[1].StoredStatus)
	assert.False(t, list[1].CanAttach)
}

func TestAttachResult(t *testing.T) {
	r := newRepos()
	ctx := context.Background()
	require.NoError(t, r.exams.Append(ctx, validCPF, &entity.Exam{ID: "hoje", CollectionDate: "10/03/2026", Status: "Pendente"}))
	require.NoError(t, r.exams.Append(ctx, validCPF, &entity.Exam{ID: "futuro", CollectionDate: "11/03/2026", Status: "Pendente"}))
	uc := newExamUC(r)

	v, err := uc.AttachResult(ctx, AttachResultInput{CPF: validCPF, ExamID: "hoje", FileURI: "file://r.pdf", FileName: "r.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "file://r.pdf", v.ResultFileURI)
	assert.NotEmpty(t, v.ResultFileAt)

	_, err = uc.AttachResult(ctx, AttachResultInput{CPF: validCPF, ExamID: "hoje", FileURI: "file://r2.pdf", FileName: "r2.pdf"})
	assertDomainCode(t, err, CodeResultAttached)

	_, err = uc.AttachResult(ctx, AttachResultInput{CPF: validCPF, ExamID: "futuro", FileURI: "file://r.pdf", FileName: "r.pdf"})
	assertDomainCode(t, err, CodeResultTooEarly)

	_, err = uc.AttachResult(ctx, AttachResultInput{CPF: validCPF, ExamID: "nenhum", FileURI: "file://r.pdf", FileName: "r.pdf"})
	assertDomainCode(t, err, CodeExamNotFound)

	_, err = uc.AttachResult(ctx, AttachResultInput{CPF: validCPF, ExamID: "futuro"})
	assertDomainCode(t, err, CodeValidation)
}

func TestUpdateExamStatus(t *testing.T) {
	r := newRepos()
	ctx := context.Background()
	require.NoError(t, r.exams.Append(ctx, validCPF, &entity.Exam{ID: "e1", CollectionDate: "20/03/2026", Status: "Pendente"}))
	uc := newExamUC(r)

	v, err := uc.UpdateStatus(ctx, validCPF, "e1", "Aceito pelo laboratório")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccepted, v.Category)

	_, err = uc.UpdateStatus(ctx, validCPF, "e1", " ")
	assertDomainCode(t, err, CodeValidation)
}

func TestCancelExam(t *testing.T) {
	r := newRepos()
	ctx := context.Background()
	require.NoError(t, r.exams.Append(ctx, validCPF, &entity.Exam{ID: "e1", CollectionDate: "20/03/2026", Status: "Pendente"}))
	require.NoError(t, r.exams.Append(ctx, validCPF, &entity.Exam{ID: "e2", CollectionDate: "01/03/2026", Status: "Liberado", ResultFileURI: "file://x"}))
	require.NoError(t, r.exams.Append(ctx, validCPF, &entity.Exam{ID: "liberado", CollectionDate: "20/03/2026", Status: "Liberado"}))
	require.NoError(t, r.exams.Append(ctx, validCPF, &entity.Exam{ID: "aceito", CollectionDate: "20/03/2026", Status: "Aceito"}))
	require.NoError(t, r.exams.Append(ctx, validCPF, &entity.Exam{ID: "realizado", CollectionDate: "20/03/2026", Status: "Realizado"}))
	require.NoError(t, r.exams.Append(ctx, validCPF, &entity.Exam{ID: "coletado", CollectionDate: "01/03/2026", Status: "Pendente"}))
	require.NoError(t, r.exams.Append(ctx, validCPF, &entity.Exam{ID: "sem-status", CollectionDate: "20/03/2026"}))
	uc := newExamUC(r)

	v, err := uc.Cancel(ctx, validCPF, "e1")
	require.NoError(t, err)
	assert.Equal(t, entity.ExamStatusCanceled, v.Status)
	assert.Equal(t, entity.StatusFailed, v.Category)
	assert.NotEmpty(t, v.CancelledAt)

	_, err = uc.Cancel(ctx, validCPF, "e1")
	assertDomainCode(t, err, CodeExamNotCancellable)

	_, err = uc.Cancel(ctx, validCPF, "e2")
	assertDomainCode(t, err, CodeExamNotCancellable)

	for _, id := range []string{"liberado", "aceito", "realizado", "coletado"} {
		_, err = uc.Cancel(ctx, validCPF, id)
		assertDomainCode(t, err, CodeExamNotCancellable)
	}

	v, err = uc.Cancel(ctx, validCPF, "sem-status")
	require.NoError(t, err)
	assert.Equal(t, entity.ExamStatusCanceled, v.Status)
}
