package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
	"github.com/yigit/schoolportal/internal/pkg/spreadsheet"
)

// StudentImportHeaders are the sheet columns the student import reads.
// Only the first three are required.
var StudentImportHeaders = []string{"first_name", "last_name", "email", "student_number", "class_id", "date_of_birth"}

const importConcurrency = 4

// StudentCreator is the part of the API client the import writes through
type StudentCreator interface {
	CreateStudent(ctx context.Context, in models.StudentRequest) (models.Student, error)
}

// RowFailure is one sheet row that was not imported
type RowFailure struct {
	Line    int
	Email   string
	Message string
}

// ImportReport summarizes a bulk import
type ImportReport struct {
	Total    int
	Created  int
	Failures []RowFailure
}

// ImportService creates students from a spreadsheet, row by row. A bad
// row is reported and skipped; it never aborts the others.
type ImportService struct {
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewImportService creates an ImportService
func NewImportService(lgr zerolog.Logger) *ImportService {
	return &ImportService{
		validate: validator.New(),
		logger:   lgr.With().Str("component", "import").Logger(),
	}
}

// ImportStudents validates every row and creates the valid ones
func (s *ImportService) ImportStudents(ctx context.Context, api StudentCreator, table *spreadsheet.Table) (ImportReport, error) {
	if missing := table.Missing(StudentImportHeaders[:3]...); len(missing) > 0 {
		return ImportReport{}, fmt.Errorf("%w: missing columns %s", apperrors.ErrInvalidSheet, strings.Join(missing, ", "))
	}

	records := table.Records()
	failures := make([]*RowFailure, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)
	for i, rec := range records {
		line := i + 2
		if i < len(table.Lines) {
			line = table.Lines[i]
		}
		req := studentRequest(rec)

		if err := s.validate.Struct(req); err != nil {
			failures[i] = &RowFailure{Line: line, Email: req.Email, Message: describeValidation(err)}
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := api.CreateStudent(gctx, req); err != nil {
				if apiclient.IsSessionExpired(err) {
					return err
				}
				failures[i] = &RowFailure{Line: line, Email: req.Email, Message: apiclient.FormatError(err)}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ImportReport{}, err
	}

	report := ImportReport{Total: len(records)}
	for _, f := range failures {
		if f != nil {
			report.Failures = append(report.Failures, *f)
		}
	}
	report.Created = report.Total - len(report.Failures)

	s.logger.Info().
		Int("total", report.Total).
		Int("created", report.Created).
		Int("failed", len(report.Failures)).
		Msg("Student import finished")
	return report, nil
}

func studentRequest(rec map[string]string) models.StudentRequest {
	return models.StudentRequest{
		FirstName:     rec["first_name"],
		LastName:      rec["last_name"],
		Email:         rec["email"],
		StudentNumber: rec["student_number"],
		ClassID:       rec["class_id"],
		DateOfBirth:   rec["date_of_birth"],
	}
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "email":
			parts = append(parts, fe.Field()+" must be a valid email address")
		case "datetime":
			parts = append(parts, fe.Field()+" must be a date (YYYY-MM-DD)")
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, ", ")
}
