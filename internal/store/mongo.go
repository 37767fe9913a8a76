package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pranavnigade123/drawzzl-backend/internal/models"
)

const (
	defaultDatabase = "drawzzl"
	roomsCollection = "rooms"

	connectTimeout = 10 * time.Second
)

// MongoStore is the MongoDB-backed RoomStore. Whole-document saves are
// guarded by a version filter; the hot-path updates run as single
// atomic update statements.
type MongoStore struct {
	client *mongo.Client
	rooms  *mongo.Collection
}

// NewMongoStore connects to the given URI and pings the deployment.
// Failure here is fatal to the process by contract.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = defaultDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		rooms:  client.Database(database).Collection(roomsCollection),
	}, nil
}

// Create inserts a new room document starting at version 1.
func (s *MongoStore) Create(ctx context.Context, room *models.Room) error {
	doc := room.Clone()
	doc.Version = 1
	_, err := s.rooms.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrRoomExists
	}
	if err != nil {
		return fmt.Errorf("insert room %s: %w", room.RoomID, err)
	}
	room.Version = 1
	return nil
}

// Load fetches the room document.
func (s *MongoStore) Load(ctx context.Context, roomID string) (*models.Room, error) {
	var room models.Room
	err := s.rooms.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load room %s: %w", roomID, err)
	}
	return &room, nil
}

// Save replaces the document only when the stored version still equals
// expectedVersion.
func (s *MongoStore) Save(ctx context.Context, room *models.Room, expectedVersion int64) error {
	doc := room.Clone()
	doc.Version = expectedVersion + 1

	res, err := s.rooms.ReplaceOne(ctx,
		bson.M{"_id": room.RoomID, "version": expectedVersion}, doc)
	if err != nil {
		return fmt.Errorf("save room %s: %w", room.RoomID, err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a lost race from a deleted room
		n, err := s.rooms.CountDocuments(ctx, bson.M{"_id": room.RoomID})
		if err != nil {
			return fmt.Errorf("save room %s: %w", room.RoomID, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	room.Version = doc.Version
	return nil
}

// Delete removes the room document.
func (s *MongoStore) Delete(ctx context.Context, roomID string) error {
	_, err := s.rooms.DeleteOne(ctx, bson.M{"_id": roomID})
	if err != nil {
		return fmt.Errorf("delete room %s: %w", roomID, err)
	}
	return nil
}

// ForEach streams every room document through fn.
func (s *MongoStore) ForEach(ctx context.Context, fn func(*models.Room) error) error {
	cur, err := s.rooms.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("list rooms: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var room models.Room
		if err := cur.Decode(&room); err != nil {
			return fmt.Errorf("decode room: %w", err)
		}
		if err := fn(&room); err != nil {
			return err
		}
	}
	return cur.Err()
}

// AppendChat pushes the entry and ring-trims the history to the latest
// 50 in a single atomic update.
func (s *MongoStore) AppendChat(ctx context.Context, roomID string, entry models.ChatEntry) error {
	res, err := s.rooms.UpdateOne(ctx,
		bson.M{"_id": roomID},
		bson.M{
			"$push": bson.M{"chat": bson.M{
				"$each":  []models.ChatEntry{entry},
				"$slice": -models.MaxChatHistory,
			}},
			"$set": bson.M{"lastActivity": time.Now()},
			"$inc": bson.M{"version": 1},
		})
	if err != nil {
		return fmt.Errorf("append chat %s: %w", roomID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyCorrectGuess conditionally credits the guess: the update matches
// only while the session is absent from correctGuessers, which makes
// double-crediting impossible regardless of broadcast ordering.
func (s *MongoStore) ApplyCorrectGuess(ctx context.Context, roomID, sessionID string, points int) (bool, error) {
	res, err := s.rooms.UpdateOne(ctx,
		bson.M{
			"_id":               roomID,
			"correctGuessers":   bson.M{"$ne": sessionID},
			"players.sessionId": sessionID,
		},
		bson.M{
			"$addToSet": bson.M{"correctGuessers": sessionID},
			"$set": bson.M{
				"roundPoints." + sessionID: points,
				"lastActivity":             time.Now(),
			},
			"$inc": bson.M{
				"players.$.score": points,
				"version":         1,
			},
		})
	if err != nil {
		return false, fmt.Errorf("apply guess %s/%s: %w", roomID, sessionID, err)
	}
	if res.ModifiedCount > 0 {
		return true, nil
	}

	// Not credited: either a duplicate or a missing room
	n, err := s.rooms.CountDocuments(ctx, bson.M{"_id": roomID})
	if err != nil {
		return false, fmt.Errorf("apply guess %s/%s: %w", roomID, sessionID, err)
	}
	if n == 0 {
		return false, ErrNotFound
	}
	return false, nil
}

// AppendDrawing pushes one stroke batch onto the canvas snapshot. The
// filter doubles as the membership check, so a non-member's frame
// matches nothing. Drawing also counts as room activity.
func (s *MongoStore) AppendDrawing(ctx context.Context, roomID, sessionID string, lines interface{}) error {
	res, err := s.rooms.UpdateOne(ctx,
		bson.M{"_id": roomID, "players.sessionId": sessionID},
		bson.M{
			"$push": bson.M{"currentDrawing": lines},
			"$set":  bson.M{"lastActivity": time.Now()},
			"$inc":  bson.M{"version": 1},
		})
	if err != nil {
		return fmt.Errorf("append drawing %s: %w", roomID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearDrawing wipes the canvas snapshot.
func (s *MongoStore) ClearDrawing(ctx context.Context, roomID, sessionID string) error {
	res, err := s.rooms.UpdateOne(ctx,
		bson.M{"_id": roomID, "players.sessionId": sessionID},
		bson.M{
			"$set": bson.M{
				"currentDrawing": []interface{}{},
				"lastActivity":   time.Now(),
			},
			"$inc": bson.M{"version": 1},
		})
	if err != nil {
		return fmt.Errorf("clear drawing %s: %w", roomID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks database connectivity for the health endpoint.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Count returns total rooms and rooms with a started game.
func (s *MongoStore) Count(ctx context.Context) (int, int, error) {
	total, err := s.rooms.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, fmt.Errorf("count rooms: %w", err)
	}
	active, err := s.rooms.CountDocuments(ctx, bson.M{"gameStarted": true})
	if err != nil {
		return 0, 0, fmt.Errorf("count active rooms: %w", err)
	}
	return int(total), int(active), nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
