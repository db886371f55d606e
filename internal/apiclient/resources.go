package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// Learning resources are called materials by the backend
const materialsPath = "/teacher/materials"

// ListMaterials returns the materials shared by the teacher
func (a *API) ListMaterials(ctx context.Context) ([]models.Material, error) {
	return list[models.Material](ctx, a, materialsPath, "materials", nil)
}

// CreateMaterial creates a material
func (a *API) CreateMaterial(ctx context.Context, in models.MaterialRequest) (models.Material, error) {
	return write[models.Material](ctx, a, http.MethodPost, materialsPath, "material", in)
}

// UpdateMaterial saves changes to the material with the given id
func (a *API) UpdateMaterial(ctx context.Context, id string, in models.MaterialRequest) (models.Material, error) {
	return write[models.Material](ctx, a, http.MethodPut, itemPath(materialsPath, id), "material", in)
}

// DeleteMaterial removes the material with the given id
func (a *API) DeleteMaterial(ctx context.Context, id string) error {
	return remove(ctx, a, itemPath(materialsPath, id))
}

// StudentMaterials lists the resources shared with the signed in student
func (a *API) StudentMaterials(ctx context.Context) ([]models.Material, error) {
	return list[models.Material](ctx, a, "/student/materials", "materials", nil)
}

// Upload sends a file to the teacher upload endpoint and returns where the
// backend stored it.
func (a *API) Upload(ctx context.Context, filename string, content io.Reader) (models.UploadedFile, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return models.UploadedFile{}, fmt.Errorf("failed to buffer upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return models.UploadedFile{}, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	body, err := a.do(ctx, &request{
		method:      http.MethodPost,
		path:        "/teacher/upload",
		body:        buf.Bytes(),
		contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return models.UploadedFile{}, err
	}

	file, err := decodeItem[models.UploadedFile](body, "file")
	if err != nil {
		return models.UploadedFile{}, err
	}
	if file.URL == "" {
		return models.UploadedFile{}, fmt.Errorf("%w: upload response carried no url", apperrors.ErrUnexpected)
	}
	if file.FileName == "" {
		file.FileName = filename
	}
	return file, nil
}
