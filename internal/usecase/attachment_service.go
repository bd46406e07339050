package usecase

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moonchanyong/arom-server/internal/adapters/blob"
	"github.com/moonchanyong/arom-server/internal/adapters/mongodb"
	"github.com/moonchanyong/arom-server/internal/domain"
	"github.com/moonchanyong/arom-server/pkg/httperr"
	pkglog "github.com/moonchanyong/arom-server/pkg/log"
)

type AttachmentInfo struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	URL          string `json:"url"`
	RegDate      string `json:"reg_date"`
}

type AttachmentList struct {
	Attachments []AttachmentInfo `json:"attachments"`
	Limit       int64            `json:"limit"`
	TotalSize   int64            `json:"total_size"`
}

type AttachmentService struct {
	logger      pkglog.Logger
	attachments mongodb.AttachmentRepository
	blobs       blob.Store
	s3BaseURL   string
	bucket      string
}

func NewAttachmentService(logger pkglog.Logger, attachments mongodb.AttachmentRepository, blobs blob.Store, s3BaseURL, bucket string) *AttachmentService {
	return &AttachmentService{
		logger:      logger,
		attachments: attachments,
		blobs:       blobs,
		s3BaseURL:   s3BaseURL,
		bucket:      bucket,
	}
}

func (s *AttachmentService) List(ctx context.Context, caller *domain.User, offset, limit int64) (*AttachmentList, error) {
	attachments, total, err := s.attachments.ListByUser(ctx, caller.UserID, offset, limit)
	if err != nil {
		return nil, err
	}
	infos := make([]AttachmentInfo, 0, len(attachments))
	for i := range attachments {
		infos = append(infos, s.marshal(&attachments[i]))
	}
	return &AttachmentList{Attachments: infos, Limit: limit, TotalSize: total}, nil
}

// Upload records the attachment then pushes the bytes. A failed push deletes
// the fresh record best-effort so no orphan survives.
func (s *AttachmentService) Upload(ctx context.Context, caller *domain.User, header *multipart.FileHeader) (*AttachmentInfo, error) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image") {
		return nil, httperr.BadRequest("Invalid Image Type")
	}

	extension := "png"
	if parts := strings.Split(header.Filename, "."); len(parts) > 1 {
		extension = parts[len(parts)-1]
	}
	attachment := &domain.Attachment{
		UserID:       caller.UserID,
		Extension:    extension,
		OriginalName: header.Filename,
		RegDate:      time.Now(),
	}
	if err := s.attachments.Insert(ctx, attachment); err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		_ = s.attachments.Delete(ctx, attachment.ID)
		return nil, httperr.Internal("s3 upload error. try again")
	}
	defer file.Close()

	if err := s.blobs.Put(ctx, attachment.BlobKey(), contentType, file); err != nil {
		s.logger.Error().Err(err).Str("key", attachment.BlobKey()).Msg("blob upload failed")
		_ = s.attachments.Delete(ctx, attachment.ID)
		return nil, httperr.Internal("s3 upload error. try again")
	}

	info := s.marshal(attachment)
	return &info, nil
}

func (s *AttachmentService) Delete(ctx context.Context, caller *domain.User, attachmentID string) error {
	id, err := primitive.ObjectIDFromHex(attachmentID)
	if err != nil {
		return httperr.NotFound("Image Not Found")
	}
	attachment, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return httperr.NotFound("Image Not Found")
		}
		return err
	}
	if attachment.UserID != caller.UserID {
		return httperr.Forbidden("Image Uploaded by another user")
	}

	if err := s.blobs.Delete(ctx, attachment.BlobKey()); err != nil {
		s.logger.Error().Err(err).Str("key", attachment.BlobKey()).Msg("blob delete failed")
		return httperr.Internal("s3 delete error. try again")
	}
	return s.attachments.Delete(ctx, id)
}

func (s *AttachmentService) marshal(a *domain.Attachment) AttachmentInfo {
	return AttachmentInfo{
		ID:           a.ID.Hex(),
		OriginalName: a.OriginalName,
		URL:          fmt.Sprintf("%s/%s/%s", s.s3BaseURL, s.bucket, a.BlobKey()),
		RegDate:      a.RegDate.UTC().Format(time.RFC3339),
	}
}
