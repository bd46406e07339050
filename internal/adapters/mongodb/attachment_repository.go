package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moonchanyong/arom-server/internal/domain"
)

type AttachmentRepository interface {
	Insert(ctx context.Context, attachment *domain.Attachment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Attachment, error)
	ListByUser(ctx context.Context, userID string, offset, limit int64) ([]domain.Attachment, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type StaticDataRepository interface {
	List(ctx context.Context) ([]domain.StaticData, error)
}

type attachmentRepo struct {
	col *mongo.Collection
}

func NewAttachmentRepository(db *mongo.Database) AttachmentRepository {
	return &attachmentRepo{col: db.Collection("attachments")}
}

func (r *attachmentRepo) Insert(ctx context.Context, attachment *domain.Attachment) error {
	if attachment.ID.IsZero() {
		attachment.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, attachment)
	return err
}

func (r *attachmentRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Attachment, error) {
	var attachment domain.Attachment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&attachment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

func (r *attachmentRepo) ListByUser(ctx context.Context, userID string, offset, limit int64) ([]domain.Attachment, int64, error) {
	filter := bson.M{"user_id": userID}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "reg_date", Value: 1}}).
		SetSkip(offset).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	attachments := []domain.Attachment{}
	if err := cur.All(ctx, &attachments); err != nil {
		return nil, 0, err
	}
	return attachments, total, nil
}

func (r *attachmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type staticDataRepo struct {
	col *mongo.Collection
}

func NewStaticDataRepository(db *mongo.Database) StaticDataRepository {
	return &staticDataRepo{col: db.Collection("static_data")}
}

func (r *staticDataRepo) List(ctx context.Context) ([]domain.StaticData, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	data := []domain.StaticData{}
	if err := cur.All(ctx, &data); err != nil {
		return nil, err
	}
	return data, nil
}
