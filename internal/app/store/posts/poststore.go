// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrCommentNotFound is returned when the post exists but the comment does not.
var ErrCommentNotFound = errors.New("comment not found")

// Store provides access to the posts collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new post store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// Create inserts p with empty likes and comments.
func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	now := time.Now()
	p.ID = primitive.NewObjectID()
	p.Likes = []models.Like{}
	p.LikesCount = 0
	p.Comments = []models.Comment{}
	p.CommentsCount = 0
	p.CreatedAt = now
	p.ModifiedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// GetByID loads a post.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &p, nil
}

// Feed returns one page of posts, newest first, each joined with its
// author's public card. Counts are recomputed from the arrays.
func (s *Store) Feed(ctx context.Context, page, perPage int64) ([]models.FeedPost, int64, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	limit, skip := storeutil.Window(perPage, page)

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from": "users",
			"let":  bson.M{"sid": "$student_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$student_id", "$$sid"}}}},
				bson.M{"$project": bson.M{"_id": 0, "english_name": 1, "student_id": 1, "icon": 1}},
				bson.M{"$limit": 1},
			},
			"as": "user",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$addFields", Value: bson.M{
			"likesCount":    bson.M{"$size": bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}},
			"commentsCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$comments", bson.A{}}}},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	posts := []models.FeedPost{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// UpdateInput holds the post fields an edit may change. Nil leaves a field as is.
type UpdateInput struct {
	Title        *string
	Description  *string
	EventPoster1 *string
	EventPoster2 *string
	EventPoster3 *string
}

// Update applies in to post id and returns the post as it was before.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.Post, error) {
	set := bson.M{"modifiedAt": time.Now()}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.EventPoster1 != nil {
		set["eventPoster1"] = *in.EventPoster1
	}
	if in.EventPoster2 != nil {
		set["eventPoster2"] = *in.EventPoster2
	}
	if in.EventPoster3 != nil {
		set["eventPoster3"] = *in.EventPoster3
	}

	var before models.Post
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&before)
	if err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &before, nil
}

// Delete removes post id and returns it.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &p, nil
}

// ToggleLike adds studentID's like when absent and removes it when present.
// Each branch is a single conditional update that moves the array and the
// counter together. It reports whether the post is now liked and the
// resulting likesCount.
func (s *Store) ToggleLike(ctx context.Context, postID primitive.ObjectID, studentID string) (liked bool, count int, err error) {
	// A concurrent toggle can flip membership between the two attempts;
	// one retry settles it.
	for attempt := 0; attempt < 2; attempt++ {
		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": postID, "likes.studentId": bson.M{"$ne": studentID}},
			bson.M{
				"$push": bson.M{"likes": models.Like{StudentID: studentID}},
				"$inc":  bson.M{"likesCount": 1},
			},
		)
		if err != nil {
			return false, 0, err
		}
		if res.MatchedCount > 0 {
			liked = true
			break
		}

		res, err = s.c.UpdateOne(ctx,
			bson.M{"_id": postID, "likes.studentId": studentID},
			bson.M{
				"$pull": bson.M{"likes": bson.M{"studentId": studentID}},
				"$inc":  bson.M{"likesCount": -1},
			},
		)
		if err != nil {
			return false, 0, err
		}
		if res.MatchedCount > 0 {
			liked = false
			break
		}

		exists, err := s.exists(ctx, postID)
		if err != nil {
			return false, 0, err
		}
		if !exists {
			return false, 0, storeutil.ErrNotFound
		}
	}

	p, err := s.GetByID(ctx, postID)
	if err != nil {
		return false, 0, err
	}
	return liked, p.LikesCount, nil
}

// AddComment appends a comment and bumps commentsCount in one update.
func (s *Store) AddComment(ctx context.Context, postID primitive.ObjectID, studentID, text string) (primitive.ObjectID, error) {
	c := models.Comment{
		ID:        primitive.NewObjectID(),
		StudentID: studentID,
		Comment:   text,
		CreatedAt: time.Now(),
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{
			"$push": bson.M{"comments": c},
			"$inc":  bson.M{"commentsCount": 1},
		},
	)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if res.MatchedCount == 0 {
		return primitive.NilObjectID, storeutil.ErrNotFound
	}
	return c.ID, nil
}

// EditComment replaces the text of one comment.
func (s *Store) EditComment(ctx context.Context, postID, commentID primitive.ObjectID, text string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": postID, "comments._id": commentID},
		bson.M{"$set": bson.M{
			"comments.$.comment":    text,
			"comments.$.modifiedAt": time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.missing(ctx, postID)
	}
	return nil
}

// DeleteComment pulls one comment and decrements commentsCount in one update.
// The filter requires the comment to be present, so the counter cannot drift.
func (s *Store) DeleteComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": postID, "comments._id": commentID},
		bson.M{
			"$pull": bson.M{"comments": bson.M{"_id": commentID}},
			"$inc":  bson.M{"commentsCount": -1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.missing(ctx, postID)
	}
	return nil
}

// TotalComments sums the comment array lengths over all posts.
func (s *Store) TotalComments(ctx context.Context) (int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": bson.M{"$size": bson.M{"$ifNull": bson.A{"$comments", bson.A{}}}}},
		}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var out []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

func (s *Store) exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	return n > 0, err
}

// missing tells a missing post apart from a missing comment.
func (s *Store) missing(ctx context.Context, postID primitive.ObjectID) error {
	ok, err := s.exists(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return storeutil.ErrNotFound
	}
	return ErrCommentNotFound
}

// Count returns the number of posts.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
