package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moonchanyong/arom-server/internal/adapters/mongodb"
	"github.com/moonchanyong/arom-server/internal/domain"
)

type fakeAttachmentRepo struct {
	byID      map[primitive.ObjectID]*domain.Attachment
	insertErr error
}

func newFakeAttachmentRepo(attachments ...*domain.Attachment) *fakeAttachmentRepo {
	repo := &fakeAttachmentRepo{byID: map[primitive.ObjectID]*domain.Attachment{}}
	for _, a := range attachments {
		repo.byID[a.ID] = a
	}
	return repo
}

func (r *fakeAttachmentRepo) Insert(_ context.Context, attachment *domain.Attachment) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	if attachment.ID.IsZero() {
		attachment.ID = primitive.NewObjectID()
	}
	clone := *attachment
	r.byID[attachment.ID] = &clone
	return nil
}

func (r *fakeAttachmentRepo) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Attachment, error) {
	if a, ok := r.byID[id]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, mongodb.ErrNotFound
}

func (r *fakeAttachmentRepo) ListByUser(_ context.Context, userID string, offset, limit int64) ([]domain.Attachment, int64, error) {
	var all []domain.Attachment
	for _, a := range r.byID {
		if a.UserID == userID {
			all = append(all, *a)
		}
	}
	total := int64(len(all))
	if offset >= total {
		return nil, total, nil
	}
	all = all[offset:]
	if int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakeAttachmentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.byID, id)
	return nil
}

type fakeBlobStore struct {
	puts      map[string]string
	deletes   []string
	putErr    error
	deleteErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{puts: map[string]string{}}
}

func (s *fakeBlobStore) Put(_ context.Context, key, contentType string, body io.Reader) error {
	if s.putErr != nil {
		return s.putErr
	}
	_, _ = io.Copy(io.Discard, body)
	s.puts[key] = contentType
	return nil
}

func (s *fakeBlobStore) Delete(_ context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletes = append(s.deletes, key)
	return nil
}

func newTestAttachmentService(repo *fakeAttachmentRepo, blobs *fakeBlobStore) *AttachmentService {
	return NewAttachmentService(zerolog.Nop(), repo, blobs, "https://s3.example.com", "arom-attachments")
}

func makeFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestUploadRejectsNonImage(t *testing.T) {
	svc := newTestAttachmentService(newFakeAttachmentRepo(), newFakeBlobStore())
	header := makeFileHeader(t, "notes.txt", "text/plain", []byte("hello"))

	_, err := svc.Upload(context.Background(), &domain.User{UserID: "u1"}, header)
	requireHTTPError(t, err, http.StatusBadRequest, "Invalid Image Type")
}

func TestUploadStoresRecordAndBlob(t *testing.T) {
	repo := newFakeAttachmentRepo()
	blobs := newFakeBlobStore()
	svc := newTestAttachmentService(repo, blobs)
	header := makeFileHeader(t, "photo.jpg", "image/jpeg", []byte{0xff, 0xd8, 0xff})

	info, err := svc.Upload(context.Background(), &domain.User{UserID: "u1"}, header)
	require.NoError(t, err)
	require.Equal(t, "photo.jpg", info.OriginalName)

	key := info.ID + ".jpg"
	require.Equal(t, "image/jpeg", blobs.puts[key])
	require.Equal(t, "https://s3.example.com/arom-attachments/"+key, info.URL)
}

func TestUploadDefaultsExtension(t *testing.T) {
	repo := newFakeAttachmentRepo()
	blobs := newFakeBlobStore()
	svc := newTestAttachmentService(repo, blobs)
	header := makeFileHeader(t, "camera_roll", "image/png", []byte{0x89})

	info, err := svc.Upload(context.Background(), &domain.User{UserID: "u1"}, header)
	require.NoError(t, err)
	require.Contains(t, blobs.puts, info.ID+".png")
}

func TestUploadBlobFailureRemovesRecord(t *testing.T) {
	repo := newFakeAttachmentRepo()
	blobs := newFakeBlobStore()
	blobs.putErr = errors.New("s3 down")
	svc := newTestAttachmentService(repo, blobs)
	header := makeFileHeader(t, "photo.jpg", "image/jpeg", []byte{0xff})

	_, err := svc.Upload(context.Background(), &domain.User{UserID: "u1"}, header)
	requireHTTPError(t, err, http.StatusInternalServerError, "s3 upload error. try again")
	require.Empty(t, repo.byID)
}

func TestDeleteUnknownAttachment(t *testing.T) {
	svc := newTestAttachmentService(newFakeAttachmentRepo(), newFakeBlobStore())

	err := svc.Delete(context.Background(), &domain.User{UserID: "u1"}, "not-a-hex-id")
	requireHTTPError(t, err, http.StatusNotFound, "Image Not Found")

	err = svc.Delete(context.Background(), &domain.User{UserID: "u1"}, primitive.NewObjectID().Hex())
	requireHTTPError(t, err, http.StatusNotFound, "Image Not Found")
}

func TestDeleteForeignAttachment(t *testing.T) {
	attachment := &domain.Attachment{ID: primitive.NewObjectID(), UserID: "someone-else", Extension: "jpg"}
	svc := newTestAttachmentService(newFakeAttachmentRepo(attachment), newFakeBlobStore())

	err := svc.Delete(context.Background(), &domain.User{UserID: "u1"}, attachment.ID.Hex())
	requireHTTPError(t, err, http.StatusForbidden, "Image Uploaded by another user")
}

func TestDeleteRemovesBlobAndRecord(t *testing.T) {
	attachment := &domain.Attachment{ID: primitive.NewObjectID(), UserID: "u1", Extension: "jpg"}
	repo := newFakeAttachmentRepo(attachment)
	blobs := newFakeBlobStore()
	svc := newTestAttachmentService(repo, blobs)

	require.NoError(t, svc.Delete(context.Background(), &domain.User{UserID: "u1"}, attachment.ID.Hex()))
	require.Equal(t, []string{attachment.ID.Hex() + ".jpg"}, blobs.deletes)
	require.Empty(t, repo.byID)
}

func TestDeleteBlobFailure(t *testing.T) {
	attachment := &domain.Attachment{ID: primitive.NewObjectID(), UserID: "u1", Extension: "jpg"}
	blobs := newFakeBlobStore()
	blobs.deleteErr = errors.New("s3 down")
	svc := newTestAttachmentService(newFakeAttachmentRepo(attachment), blobs)

	err := svc.Delete(context.Background(), &domain.User{UserID: "u1"}, attachment.ID.Hex())
	requireHTTPError(t, err, http.StatusInternalServerError, "s3 delete error. try again")
}

func TestListReturnsCallerAttachments(t *testing.T) {
	repo := newFakeAttachmentRepo(
		&domain.Attachment{ID: primitive.NewObjectID(), UserID: "u1", Extension: "jpg", OriginalName: "a.jpg", RegDate: time.Now()},
		&domain.Attachment{ID: primitive.NewObjectID(), UserID: "u2", Extension: "png", OriginalName: "b.png", RegDate: time.Now()},
	)
	svc := newTestAttachmentService(repo, newFakeBlobStore())

	list, err := svc.List(context.Background(), &domain.User{UserID: "u1"}, 0, 20)
	require.NoError(t, err)
	require.Equal(t, int64(1), list.TotalSize)
	require.Equal(t, int64(20), list.Limit)
	require.Len(t, list.Attachments, 1)
	require.Equal(t, "a.jpg", list.Attachments[0].OriginalName)
}
