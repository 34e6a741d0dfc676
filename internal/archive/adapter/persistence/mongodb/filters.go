package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"motive-archive/internal/archive/domain/model"
	apperrors "motive-archive/internal/shared/errors"
)

// objectID parses a hex id, mapping parse failures to the shared
// sentinel so handlers answer 400 instead of 500
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.ErrInvalidObjectID
	}
	return oid, nil
}

// buildCarFilter translates a CarFilter into a Mongo query document.
// An empty filter yields an empty document, matching everything.
func buildCarFilter(f model.CarFilter) bson.M {
	filter := bson.M{}

	if f.Make != "" {
		filter["make"] = f.Make
	}
	if f.Model != "" {
		filter["model"] = f.Model
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if yearRange := rangeFilter(f.YearMin, f.YearMax); yearRange != nil {
		filter["year"] = yearRange
	}
	if f.Search != "" {
		filter["$text"] = bson.M{"$search": f.Search}
	}

	return filter
}

func buildAuctionFilter(f model.AuctionFilter) bson.M {
	filter := bson.M{}

	if f.Make != "" {
		filter["make"] = f.Make
	}
	if f.Platform != "" {
		filter["platform"] = f.Platform
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if yearRange := rangeFilter(f.YearMin, f.YearMax); yearRange != nil {
		filter["year"] = yearRange
	}

	endWindow := bson.M{}
	if f.EndsAfter != nil {
		endWindow["$gte"] = *f.EndsAfter
	}
	if f.EndsBefore != nil {
		endWindow["$lte"] = *f.EndsBefore
	}
	if len(endWindow) > 0 {
		filter["end_date"] = endWindow
	}

	return filter
}

func buildProjectFilter(f model.ProjectFilter) bson.M {
	filter := bson.M{}

	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.MemberID != "" {
		filter["member_ids"] = f.MemberID
	}

	return filter
}

func buildDeliverableFilter(f model.DeliverableFilter) bson.M {
	filter := bson.M{}

	if f.ProjectID != "" {
		filter["project_id"] = f.ProjectID
	}
	if f.CarID != "" {
		filter["car_id"] = f.CarID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Platform != "" {
		filter["platform"] = f.Platform
	}
	if f.Editor != "" {
		filter["editor"] = f.Editor
	}

	return filter
}

func buildEventFilter(f model.EventFilter) bson.M {
	filter := bson.M{}

	if f.CarID != "" {
		filter["car_id"] = f.CarID
	}
	if f.ProjectID != "" {
		filter["project_id"] = f.ProjectID
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Assignee != "" {
		filter["assignees"] = f.Assignee
	}

	window := bson.M{}
	if f.From != nil {
		window["$gte"] = *f.From
	}
	if f.To != nil {
		window["$lte"] = *f.To
	}
	if len(window) > 0 {
		filter["start"] = window
	}

	return filter
}

// rangeFilter builds an inclusive numeric range, nil when unbounded
func rangeFilter(min, max int) bson.M {
	r := bson.M{}
	if min > 0 {
		r["$gte"] = min
	}
	if max > 0 {
		r["$lte"] = max
	}
	if len(r) == 0 {
		return nil
	}
	return r
}
