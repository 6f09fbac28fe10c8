package mongo

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kailas-cloud/streamflex/internal/db"
)

// FilterFromQuery translates a query into a MongoDB filter document.
// Substring operands are escaped so they match literally.
func FilterFromQuery(q db.Query) (bson.D, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	filter := bson.D{}
	for _, c := range q.Conditions {
		switch c.Op {
		case db.QueryEq:
			filter = append(filter, bson.E{Key: c.Field, Value: c.Value})
		case db.QueryContainsFold:
			s, _ := c.Value.(string)
			filter = append(filter, bson.E{
				Key:   c.Field,
				Value: bson.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"},
			})
		case db.QueryGte:
			filter = append(filter, bson.E{Key: c.Field, Value: bson.D{{Key: "$gte", Value: c.Value}}})
		default:
			return nil, fmt.Errorf("%w: %q", db.ErrUnsupportedOp, c.Op)
		}
	}
	return filter, nil
}

// ProjectionFromFields builds an inclusion projection with _id suppressed.
func ProjectionFromFields(fields []string) bson.D {
	proj := bson.D{{Key: db.IDField, Value: 0}}
	for _, f := range fields {
		if f == db.IDField {
			continue
		}
		proj = append(proj, bson.E{Key: f, Value: 1})
	}
	return proj
}

// fromBSON converts driver-specific values into plain Go values.
func fromBSON(m bson.M) db.Document {
	doc := make(db.Document, len(m))
	for k, v := range m {
		if k == db.IDField {
			continue
		}
		doc[k] = plainValue(v)
	}
	return doc
}

func plainValue(v any) any {
	switch t := v.(type) {
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case bson.DateTime:
		return t.Time().UTC()
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	}
	return v
}
