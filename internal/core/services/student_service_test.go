package services_test

import (
	"context"
	"testing"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/services"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("generates an ID and normalizes email", func(t *testing.T) {
		repo := new(MockStudentRepository)
		repo.On("SaveStudent", ctx, mock.MatchedBy(func(s domain.StudentAccount) bool {
			return s.StudentID != "" && s.Email == "neha@college.edu" && s.TotalCredits == 0 && s.CreatedBy == "admin-1"
		})).Return(nil).Once()

		student, err := services.NewStudentService(repo).CreateStudent(ctx, dto.CreateStudentRequest{
			Name:  "Neha Joshi",
			Email: " Neha@College.EDU ",
			PRN:   "2021000011112222",
		}, "admin-1")
		require.NoError(t, err)
		assert.Equal(t, "2021000011112222", student.PRN)
		repo.AssertExpectations(t)
	})

	t.Run("rejects malformed PRN", func(t *testing.T) {
		repo := new(MockStudentRepository)
		svc := services.NewStudentService(repo)
		for _, prn := range []string{"", "123", "20210000111122223", "2021A00011112222"} {
			_, err := svc.CreateStudent(ctx, dto.CreateStudentRequest{Name: "n", Email: "e@x.io", PRN: prn}, "admin-1")
			assert.ErrorIs(t, err, apperrors.ErrValidation, prn)
		}
		repo.AssertNotCalled(t, "SaveStudent", mock.Anything, mock.Anything)
	})

	t.Run("duplicate PRN", func(t *testing.T) {
		repo := new(MockStudentRepository)
		repo.On("SaveStudent", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

		_, err := services.NewStudentService(repo).CreateStudent(ctx, dto.CreateStudentRequest{
			StudentID: "stu-1", Name: "n", Email: "e@x.io", PRN: "2021000011112222",
		}, "admin-1")
		assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	})
}

func TestAcademicLedgerService(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	require.NoError(t, store.SaveStudent(ctx, domain.StudentAccount{StudentID: "s1", PRN: "1111222233334444", TotalCredits: 5}))
	store.entries["cr-a"] = domain.AcademicLedgerEntry{EntryID: "e1", CreditRequestID: "cr-a", StudentID: "s1", StudentPRN: "1111222233334444", Credits: 3}
	store.entries["cr-b"] = domain.AcademicLedgerEntry{EntryID: "e2", CreditRequestID: "cr-b", StudentID: "s1", StudentPRN: "1111222233334444", Credits: 1}

	svc := services.NewAcademicLedgerService(store, store)

	t.Run("ledger by PRN sums entries", func(t *testing.T) {
		l, err := svc.GetLedgerByPRN(ctx, "1111222233334444")
		require.NoError(t, err)
		assert.Equal(t, 4, l.TotalCredits)
		assert.Equal(t, "s1", l.StudentID)
		assert.Len(t, l.Entries, 2)
	})

	t.Run("unknown PRN is an empty ledger", func(t *testing.T) {
		l, err := svc.GetLedgerByPRN(ctx, "9999999999999999")
		require.NoError(t, err)
		assert.Zero(t, l.TotalCredits)
		assert.Empty(t, l.Entries)
	})

	t.Run("malformed PRN", func(t *testing.T) {
		_, err := svc.GetLedgerByPRN(ctx, "12-34")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("counter drift is reported", func(t *testing.T) {
		check, err := svc.CheckConsistency(ctx, "s1")
		require.NoError(t, err)
		assert.False(t, check.Consistent)
		assert.Equal(t, 5, check.CounterTotal)
		assert.Equal(t, 4, check.LedgerTotal)
	})

	t.Run("list all pages", func(t *testing.T) {
		page, err := svc.ListAll(ctx, 1, 0)
		require.NoError(t, err)
		assert.Len(t, page, 1)
		rest, err := svc.ListAll(ctx, 0, 1)
		require.NoError(t, err)
		assert.Len(t, rest, 1)
	})
}
