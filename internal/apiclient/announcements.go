package apiclient

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
)

const announcementsPath = "/teacher/announcements"

// ListAnnouncements returns the announcements posted by the teacher
func (a *API) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	return list[models.Announcement](ctx, a, announcementsPath, "announcements", nil)
}

// CreateAnnouncement creates an announcement
func (a *API) CreateAnnouncement(ctx context.Context, in models.AnnouncementRequest) (models.Announcement, error) {
	return write[models.Announcement](ctx, a, http.MethodPost, announcementsPath, "announcement", in)
}

// UpdateAnnouncement saves changes to the announcement with the given id
func (a *API) UpdateAnnouncement(ctx context.Context, id string, in models.AnnouncementRequest) (models.Announcement, error) {
	return write[models.Announcement](ctx, a, http.MethodPut, itemPath(announcementsPath, id), "announcement", in)
}

// DeleteAnnouncement removes the announcement with the given id
func (a *API) DeleteAnnouncement(ctx context.Context, id string) error {
	return remove(ctx, a, itemPath(announcementsPath, id))
}
