package services

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
	"github.com/yigit/schoolportal/internal/pkg/spreadsheet"
)

type stubCreator struct {
	mu      sync.Mutex
	created []models.StudentRequest
	reject  map[string]error
}

func (s *stubCreator) CreateStudent(_ context.Context, in models.StudentRequest) (models.Student, error) {
	if err, ok := s.reject[in.Email]; ok {
		return models.Student{}, err
	}
	s.mu.Lock()
	s.created = append(s.created, in)
	s.mu.Unlock()
	return models.Student{Email: in.Email}, nil
}

func TestImportStudents(t *testing.T) {
	table := &spreadsheet.Table{
		Header: []string{"first_name", "last_name", "email", "class_id"},
		Rows: [][]string{
			{"Ada", "Lovelace", "ada@school.test", "7"},
			{"Al", "Turing", "not-an-email"},
			{"Grace", "Hopper", "grace@school.test"},
			{"Linus", "Torvalds", "linus@school.test", "7"},
		},
		Lines: []int{2, 3, 5, 6},
	}
	api := &stubCreator{reject: map[string]error{"grace@school.test": apperrors.ErrConflict}}

	report, err := NewImportService(zerolog.Nop()).ImportStudents(context.Background(), api, table)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Created)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, 3, report.Failures[0].Line)
	assert.Contains(t, report.Failures[0].Message, "Email must be a valid email address")
	assert.Equal(t, 5, report.Failures[1].Line)
	assert.Equal(t, "grace@school.test", report.Failures[1].Email)

	assert.Len(t, api.created, 2)
	for _, in := range api.created {
		assert.Equal(t, "7", in.ClassID)
	}
}

func TestImportStudents_MissingColumns(t *testing.T) {
	table := &spreadsheet.Table{Header: []string{"first_name", "class_id"}}

	_, err := NewImportService(zerolog.Nop()).ImportStudents(context.Background(), &stubCreator{}, table)

	assert.ErrorIs(t, err, apperrors.ErrInvalidSheet)
	assert.Contains(t, err.Error(), "last_name, email")
}

func TestImportStudents_SessionExpiredAborts(t *testing.T) {
	table := &spreadsheet.Table{
		Header: []string{"first_name", "last_name", "email"},
		Rows:   [][]string{{"Ada", "Lovelace", "ada@school.test"}},
		Lines:  []int{2},
	}
	api := &stubCreator{reject: map[string]error{"ada@school.test": apperrors.ErrSessionExpired}}

	_, err := NewImportService(zerolog.Nop()).ImportStudents(context.Background(), api, table)

	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
}
