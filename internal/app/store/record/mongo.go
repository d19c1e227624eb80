package record

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "counters"

// MongoClient implements Client on a MongoDB database. Each table maps
// to a collection; record ids live in _id and are minted from a
// per-table counter document so they stay small sequential integers.
type MongoClient struct {
	db *mongo.Database
}

// NewMongoClient creates a record client over db.
func NewMongoClient(db *mongo.Database) *MongoClient {
	return &MongoClient{db: db}
}

var _ Client = (*MongoClient)(nil)

// nextID atomically increments and returns the id counter for table.
func (m *MongoClient) nextID(ctx context.Context, table string) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := m.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": table},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next id for %s: %w", table, err)
	}
	return counter.Seq, nil
}

// FetchRecords runs q against the table's collection.
func (m *MongoClient) FetchRecords(ctx context.Context, table string, q Query) (Response, error) {
	filter, err := mongoFilter(q.Where)
	if err != nil {
		return Response{}, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	findOpts := options.Find().SetLimit(int64(limit)).SetSkip(int64(q.Offset))
	if len(q.OrderBy) > 0 {
		sort := bson.D{}
		for _, o := range q.OrderBy {
			dir := 1
			if o.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: mongoField(o.FieldName), Value: dir})
		}
		findOpts.SetSort(sort)
	}
	if len(q.Fields) > 0 {
		proj := bson.M{}
		for _, f := range q.Fields {
			proj[mongoField(f)] = 1
		}
		findOpts.SetProjection(proj)
	}

	cursor, err := m.db.Collection(table).Find(ctx, filter, findOpts)
	if err != nil {
		return Response{}, fmt.Errorf("fetch %s: %w", table, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return Response{}, fmt.Errorf("fetch %s: %w", table, err)
	}

	resp := Response{Success: true, Data: make([]Raw, 0, len(docs))}
	for _, doc := range docs {
		resp.Data = append(resp.Data, fromDoc(doc))
	}
	return resp, nil
}

// GetRecordByID returns the record with the given id, or ErrNotFound.
func (m *MongoClient) GetRecordByID(ctx context.Context, table string, id int, fields []string) (Raw, error) {
	opts := options.FindOne()
	if len(fields) > 0 {
		proj := bson.M{}
		for _, f := range fields {
			proj[mongoField(f)] = 1
		}
		opts.SetProjection(proj)
	}

	var doc bson.M
	err := m.db.Collection(table).FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%d: %w", table, id, err)
	}
	return fromDoc(doc), nil
}

// CreateRecord inserts the records one at a time, assigning ids. Each
// record gets its own Result so a bad record does not sink the batch.
func (m *MongoClient) CreateRecord(ctx context.Context, table string, records []Raw) (Response, error) {
	resp := Response{Success: true}
	for _, rec := range records {
		id, err := m.nextID(ctx, table)
		if err != nil {
			return Response{}, err
		}
		doc := toDoc(rec)
		doc["_id"] = id

		if _, err := m.db.Collection(table).InsertOne(ctx, doc); err != nil {
			resp.Results = append(resp.Results, failedResult(rec, "insert: %v", err))
			continue
		}
		created := fromDoc(doc)
		resp.Results = append(resp.Results, Result{Success: true, Data: created})
		resp.Data = append(resp.Data, created)
	}
	return resp, nil
}

// UpdateRecord applies partial updates. Each record must carry an Id;
// only the fields present in the record are written.
func (m *MongoClient) UpdateRecord(ctx context.Context, table string, records []Raw) (Response, error) {
	resp := Response{Success: true}
	for _, rec := range records {
		id, ok := asInt(rec["Id"])
		if !ok {
			resp.Results = append(resp.Results, failedResult(rec, "update: missing Id"))
			continue
		}

		set := bson.M{}
		for k, v := range rec {
			if k == "Id" {
				continue
			}
			set[k] = v
		}

		res, err := m.db.Collection(table).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
		if err != nil {
			resp.Results = append(resp.Results, failedResult(rec, "update %d: %v", id, err))
			continue
		}
		if res.MatchedCount == 0 {
			resp.Results = append(resp.Results, failedResult(rec, "update %d: not found", id))
			continue
		}

		updated, err := m.GetRecordByID(ctx, table, id, nil)
		if err != nil {
			resp.Results = append(resp.Results, failedResult(rec, "update %d: reread: %v", id, err))
			continue
		}
		resp.Results = append(resp.Results, Result{Success: true, Data: updated})
		resp.Data = append(resp.Data, updated)
	}
	return resp, nil
}

// DeleteRecord removes the records with the given ids. A missing id is
// reported in its Result, not as an error.
func (m *MongoClient) DeleteRecord(ctx context.Context, table string, ids []int) (Response, error) {
	resp := Response{Success: true}
	for _, id := range ids {
		res, err := m.db.Collection(table).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			resp.Results = append(resp.Results, failedResult(Raw{"Id": id}, "delete %d: %v", id, err))
			continue
		}
		if res.DeletedCount == 0 {
			resp.Results = append(resp.Results, failedResult(Raw{"Id": id}, "delete %d: not found", id))
			continue
		}
		resp.Results = append(resp.Results, Result{Success: true, Data: Raw{"Id": id}})
	}
	return resp, nil
}

// Ping checks connectivity to the underlying database.
func (m *MongoClient) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, nil)
}

// mongoField maps the public "Id" key to the stored _id.
func mongoField(name string) string {
	if name == "Id" {
		return "_id"
	}
	return name
}

func toDoc(rec Raw) bson.M {
	doc := bson.M{}
	for k, v := range rec {
		doc[mongoField(k)] = v
	}
	return doc
}

func fromDoc(doc bson.M) Raw {
	rec := Raw{}
	for k, v := range doc {
		if k == "_id" {
			rec["Id"] = v
			continue
		}
		rec[k] = v
	}
	return rec
}

// mongoFilter translates query conditions to a find filter.
func mongoFilter(conds []Condition) (bson.M, error) {
	filter := bson.M{}
	var and []bson.M
	for _, cond := range conds {
		clause, err := mongoClause(cond)
		if err != nil {
			return nil, err
		}
		and = append(and, clause)
	}
	if len(and) > 0 {
		filter["$and"] = and
	}
	return filter, nil
}

func mongoClause(cond Condition) (bson.M, error) {
	field := mongoField(cond.FieldName)
	var ors []bson.M
	for _, v := range cond.Values {
		switch cond.Operator {
		case OpEqualTo:
			ors = append(ors, bson.M{field: v})
		case OpNotEqualTo:
			ors = append(ors, bson.M{field: bson.M{"$ne": v}})
		case OpGreaterThan:
			ors = append(ors, bson.M{field: bson.M{"$gt": v}})
		case OpGreaterThanOrEqualTo:
			ors = append(ors, bson.M{field: bson.M{"$gte": v}})
		case OpLessThan:
			ors = append(ors, bson.M{field: bson.M{"$lt": v}})
		case OpLessThanOrEqualTo:
			ors = append(ors, bson.M{field: bson.M{"$lte": v}})
		case OpContains:
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("contains on non-string value %v", v)
			}
			ors = append(ors, bson.M{field: bson.M{"$regex": escapeRegex(s), "$options": "i"}})
		default:
			return nil, fmt.Errorf("unknown operator %q", cond.Operator)
		}
	}
	if len(ors) == 1 {
		return ors[0], nil
	}
	return bson.M{"$or": ors}, nil
}

func escapeRegex(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(meta); j++ {
			if s[i] == meta[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}
