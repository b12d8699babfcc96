package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"backend/store"
)

// Store implements store.TransactionalStore on a MongoDB database.
// RunTransaction rides on mongo sessions: WithTransaction re-runs the
// callback on transient transaction errors, which is the optimistic retry
// loop the engine relies on.
type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Doc, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDoc(raw), nil
}

func (s *Store) NewID() string { return primitive.NewObjectID().Hex() }

type writeOp struct {
	kind       string
	collection string
	id         string
	doc        store.Doc
}

type mongoTx struct {
	sc     mongo.SessionContext
	db     *mongo.Database
	writes []writeOp
}

func (t *mongoTx) Get(collection, id string) (store.Doc, error) {
	var raw bson.M
	err := t.db.Collection(collection).FindOne(t.sc, bson.M{"_id": id}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDoc(raw), nil
}

func (t *mongoTx) Set(collection, id string, doc store.Doc) {
	t.writes = append(t.writes, writeOp{kind: "set", collection: collection, id: id, doc: doc})
}

func (t *mongoTx) Update(collection, id string, fields store.Doc) {
	t.writes = append(t.writes, writeOp{kind: "update", collection: collection, id: id, doc: fields})
}

func (t *mongoTx) Delete(collection, id string) {
	t.writes = append(t.writes, writeOp{kind: "delete", collection: collection, id: id})
}

// flush applies the buffered writes inside the session so reads stay ahead
// of writes within one attempt.
func (t *mongoTx) flush() error {
	for _, w := range t.writes {
		col := t.db.Collection(w.collection)
		var err error
		switch w.kind {
		case "set":
			doc := bson.M{"_id": w.id}
			for k, v := range w.doc {
				doc[k] = v
			}
			_, err = col.ReplaceOne(t.sc, bson.M{"_id": w.id}, doc, options.Replace().SetUpsert(true))
		case "update":
			_, err = col.UpdateOne(t.sc, bson.M{"_id": w.id}, bson.M{"$set": bson.M(w.doc)})
		case "delete":
			_, err = col.DeleteOne(t.sc, bson.M{"_id": w.id})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) RunTransaction(ctx context.Context, fn func(tx store.Tx) error) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	opts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		tx := &mongoTx{sc: sc, db: s.db}
		if err := fn(tx); err != nil {
			return nil, err
		}
		return nil, tx.flush()
	}, opts)

	var srvErr mongo.ServerError
	if errors.As(err, &srvErr) &&
		(srvErr.HasErrorLabel("TransientTransactionError") || srvErr.HasErrorLabel("UnknownTransactionCommitResult")) {
		return store.ErrConflict
	}
	return err
}

func (s *Store) Query(ctx context.Context, collection string, q store.Query) ([]store.Snapshot, error) {
	filter := bson.M{}
	for _, f := range q.Filters {
		switch f.Op {
		case "==":
			filter[f.Field] = f.Value
		case ">=":
			mergeRange(filter, f.Field, "$gte", f.Value)
		case "<=":
			mergeRange(filter, f.Field, "$lte", f.Value)
		default:
			return nil, fmt.Errorf("mongostore: unsupported filter op %q", f.Op)
		}
	}

	findOpts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		findOpts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []store.Snapshot
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		id, _ := raw["_id"].(string)
		out = append(out, store.Snapshot{ID: id, Data: toDoc(raw)})
	}
	return out, cursor.Err()
}

func mergeRange(filter bson.M, field, op string, value interface{}) {
	cond, ok := filter[field].(bson.M)
	if !ok {
		cond = bson.M{}
		filter[field] = cond
	}
	cond[op] = value
}

// toDoc strips the _id and rewrites the driver's bson container types into
// plain maps and slices so the rest of the code never sees bson.
func toDoc(raw bson.M) store.Doc {
	doc := make(store.Doc, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		doc[k] = normalize(v)
	}
	return doc
}

func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case bson.D:
		out := make(map[string]interface{}, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}
