package database

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/storage"
)

func newStore() (*storage.MemoryStore, *storage.KeyLocker) {
	return storage.NewMemoryStore(), storage.NewKeyLocker()
}

func TestPatientRepository_CreateRejectsDuplicate(t *testing.T) {
	s, l := newStore()
	repo := NewPatientRepository(s, l)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Patient{CPF: "52998224725", Name: "Ana"}))
	err := repo.Create(ctx, &entity.Patient{CPF: "52998224725", Name: "Outra"})

	assert.ErrorIs(t, err, entity.ErrAlreadyExists)
	p, err := repo.FindByCPF(ctx, "52998224725")
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.Name)
}

func TestPatientRepository_FindFallsBackToLegacyKey(t *testing.T) {
	s, l := newStore()
	repo := NewPatientRepository(s, l)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "PAC_52998224725", []byte(`{"nome":"Legado","senha":"x"}`)))

	p, err := repo.FindByCPF(ctx, "52998224725")

	require.NoError(t, err)
	assert.Equal(t, "Legado", p.Name)
	assert.Equal(t, "52998224725", p.CPF)
}

func TestPatientRepository_FindNotFound(t *testing.T) {
	s, l := newStore()
	_, err := NewPatientRepository(s, l).FindByCPF(context.Background(), "11144477735")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestPatientRepository_ListAllOnlyBareCPFKeys(t *testing.T) {
	s, l := newStore()
	repo := NewPatientRepository(s, l)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.Patient{CPF: "52998224725", Name: "Ana"}))
	require.NoError(t, s.Set(ctx, "EXA_52998224725", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "MED_1234", []byte(`{}`)))
	require.NoError(t, s.Set(ctx, "1234567890", []byte(`{}`)))
	require.NoError(t, s.Set(ctx, "11144477735", []byte(`{broken`)))

	list, err := repo.ListAll(ctx)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0].Name)
}

func TestDoctorRepository_AddToListIsIdempotent(t *testing.T) {
	s, l := newStore()
	repo := NewDoctorRepository(s, l)
	ctx := context.Background()

	require.NoError(t, repo.AddToList(ctx, "1234"))
	require.NoError(t, repo.AddToList(ctx, "5678"))
	require.NoError(t, repo.AddToList(ctx, "1234"))

	crms, err := repo.ListCRMs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1234", "5678"}, crms)
}

func TestDoctorRepository_CreateFindDelete(t *testing.T) {
	s, l := newStore()
	repo := NewDoctorRepository(s, l)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Doctor{CRM: "1234", Name: "João"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Doctor{CRM: "1234"}), entity.ErrAlreadyExists)

	d, err := repo.FindByCRM(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, "João", d.Name)

	require.NoError(t, repo.Delete(ctx, "1234"))
	_, err = repo.FindByCRM(ctx, "1234")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestDoctorRepository_ListCRMsEmpty(t *testing.T) {
	s, l := newStore()
	crms, err := NewDoctorRepository(s, l).ListCRMs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, crms)
	assert.NotNil(t, crms)
}

func TestExamRepository_AppendAndUpdate(t *testing.T) {
	s, l := newStore()
	repo := NewExamRepository(s, l)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "52998224725", &entity.Exam{ID: "e1", Type: "Hemograma", Status: "Pendente"}))
	require.NoError(t, repo.Append(ctx, "52998224725", &entity.Exam{ID: "e2", Type: "Raio-X", Status: "Pendente"}))

	updated, err := repo.Update(ctx, "52998224725", "e2", func(e *entity.Exam) error {
		e.Status = "Liberado"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Liberado", updated.Status)

	list, err := repo.ListByCPF(ctx, "52998224725")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Pendente", list[0].Status)
	assert.Equal(t, "Liberado", list[1].Status)
}

func TestExamRepository_UpdateErrorDoesNotWrite(t *testing.T) {
	s, l := newStore()
	repo := NewExamRepository(s, l)
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, "1", &entity.Exam{ID: "e1", Status: "Pendente"}))

	boom := errors.New("boom")
	_, err := repo.Update(ctx, "1", "e1", func(e *entity.Exam) error {
		e.Status = "changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.Update(ctx, "1", "missing", func(*entity.Exam) error { return nil })
	assert.ErrorIs(t, err, entity.ErrNotFound)

	list, _ := repo.ListByCPF(ctx, "1")
	assert.Equal(t, "Pendente", list[0].Status)
}

func TestExamRepository_ListCPFsAndUpdateEach(t *testing.T) {
	s, l := newStore()
	repo := NewExamRepository(s, l)
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, "111", &entity.Exam{ID: "a", Status: "Pendente"}))
	require.NoError(t, repo.Append(ctx, "111", &entity.Exam{ID: "b", Status: "Liberado"}))
	require.NoError(t, repo.Append(ctx, "222", &entity.Exam{ID: "c"}))

	cpfs, err := repo.ListCPFs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"111", "222"}, cpfs)

	n, err := repo.UpdateEach(ctx, "111", func(e *entity.Exam) bool {
		if e.Status == "Pendente" {
			e.Status = "Realizado"
			return true
		}
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, _ := repo.ListByCPF(ctx, "111")
	assert.Equal(t, "Realizado", list[0].Status)
	assert.Equal(t, "Liberado", list[1].Status)
}

func TestExamRepository_ConcurrentAppends(t *testing.T) {
	s, l := newStore()
	repo := NewExamRepository(s, l)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Append(ctx, "111", &entity.Exam{Type: "x"})
		}()
	}
	wg.Wait()

	list, err := repo.ListByCPF(ctx, "111")
	require.NoError(t, err)
	assert.Len(t, list, 20)
}

func TestInsuranceRepository(t *testing.T) {
	s, _ := newStore()
	repo := NewInsuranceRepository(s)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	require.NoError(t, repo.Save(ctx, &entity.Insurance{Brand: "Unimed", Number: "123456", Holder: "Ana"}))
	ins, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Unimed", ins.Brand)

	raw, found, _ := s.Get(ctx, "@clinitech_convenio")
	assert.True(t, found)
	assert.JSONEq(t, `{"bandeira":"Unimed","numero":"123456","nome":"Ana"}`, string(raw))

	require.NoError(t, repo.Delete(ctx))
	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestAppointmentRepository_ListAllAcrossPatients(t *testing.T) {
	s, l := newStore()
	repo := NewAppointmentRepository(s, l)
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, "111", &entity.Appointment{ID: "a1", Doctor: "Dr. João Dias"}))
	require.NoError(t, repo.Append(ctx, "222", &entity.Appointment{ID: "a2", Doctor: "Dr. João Dias"}))
	require.NoError(t, s.Set(ctx, "consultas_333", []byte(`not json`)))

	all, err := repo.ListAll(ctx)

	require.NoError(t, err)
	require.Len(t, all, 2)
	cpfs := []string{all[0].PatientCPF, all[1].PatientCPF}
	assert.ElementsMatch(t, []string{"111", "222"}, cpfs)
}

func TestAppointmentRepository_Update(t *testing.T) {
	s, l := newStore()
	repo := NewAppointmentRepository(s, l)
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, "111", &entity.Appointment{ID: "a1", Status: entity.AppointmentScheduled}))

	a, err := repo.Update(ctx, "111", "a1", func(a *entity.Appointment) error {
		a.Status = entity.AppointmentCancelled
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentCancelled, a.Status)
	list, _ := repo.ListByCPF(ctx, "111")
	assert.Equal(t, entity.AppointmentCancelled, list[0].Status)
}

func TestChatRepository_AppendGrowsMonotonically(t *testing.T) {
	s, l := newStore()
	repo := NewChatRepository(s, l)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		msgs, err := repo.Append(ctx, "m1", "p1", &entity.Message{ID: "x", Text: "oi"})
		require.NoError(t, err)
		assert.Len(t, msgs, i)
	}
}

func TestChatRepository_EmptyIDsUseUnknownKey(t *testing.T) {
	s, l := newStore()
	repo := NewChatRepository(s, l)
	ctx := context.Background()

	_, err := repo.Append(ctx, "", "", &entity.Message{ID: "1"})
	require.NoError(t, err)

	_, found, _ := s.Get(ctx, "chat:medico_unknown:paciente_unknown")
	assert.True(t, found)
}

func TestChatRepository_GetMissingIsEmpty(t *testing.T) {
	s, l := newStore()
	msgs, err := NewChatRepository(s, l).Get(context.Background(), "m", "p")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestChatRepository_SaveClearListKeys(t *testing.T) {
	s, l := newStore()
	repo := NewChatRepository(s, l)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, "m1", "p1", nil))
	require.NoError(t, repo.Save(ctx, "m2", "p:with:colon", []*entity.Message{{ID: "1"}}))
	require.NoError(t, s.Set(ctx, "chatty", []byte(`[]`)))

	keys, err := repo.ListKeys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"chat:m1:p1", "chat:m2:p:with:colon"}, keys)

	require.NoError(t, repo.Clear(ctx, "m1", "p1"))
	keys, _ = repo.ListKeys(ctx)
	assert.Equal(t, []string{"chat:m2:p:with:colon"}, keys)
}
