package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"motive-archive/internal/archive/domain/model"
	apperrors "motive-archive/internal/shared/errors"
)

func TestBuildCarFilter_Empty(t *testing.T) {
	filter := buildCarFilter(model.CarFilter{})
	assert.Equal(t, bson.M{}, filter)
}

func TestBuildCarFilter_AllFields(t *testing.T) {
	filter := buildCarFilter(model.CarFilter{
		Make:     "Porsche",
		Model:    "911",
		YearMin:  1985,
		YearMax:  1995,
		Status:   model.CarStatusAvailable,
		ClientID: "client-1",
		Search:   "turbo",
	})

	assert.Equal(t, "Porsche", filter["make"])
	assert.Equal(t, "911", filter["model"])
	assert.Equal(t, model.CarStatusAvailable, filter["status"])
	assert.Equal(t, "client-1", filter["client_id"])
	assert.Equal(t, bson.M{"$gte": 1985, "$lte": 1995}, filter["year"])
	assert.Equal(t, bson.M{"$search": "turbo"}, filter["$text"])
}

func TestBuildCarFilter_OpenEndedYearRange(t *testing.T) {
	filter := buildCarFilter(model.CarFilter{YearMin: 1990})
	assert.Equal(t, bson.M{"$gte": 1990}, filter["year"])

	filter = buildCarFilter(model.CarFilter{YearMax: 1970})
	assert.Equal(t, bson.M{"$lte": 1970}, filter["year"])
}

func TestBuildAuctionFilter_EndDateWindow(t *testing.T) {
	after := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	filter := buildAuctionFilter(model.AuctionFilter{
		Platform:   "bring-a-trailer",
		EndsAfter:  &after,
		EndsBefore: &before,
	})

	assert.Equal(t, "bring-a-trailer", filter["platform"])
	assert.Equal(t, bson.M{"$gte": after, "$lte": before}, filter["end_date"])
	assert.NotContains(t, filter, "make")
}

func TestBuildDeliverableFilter(t *testing.T) {
	filter := buildDeliverableFilter(model.DeliverableFilter{
		ProjectID: "proj-1",
		Status:    model.DeliverableInProgress,
	})

	assert.Equal(t, "proj-1", filter["project_id"])
	assert.Equal(t, model.DeliverableInProgress, filter["status"])
	assert.Len(t, filter, 2)
}

func TestBuildEventFilter_TimeWindow(t *testing.T) {
	from := time.Now()
	to := from.Add(48 * time.Hour)

	filter := buildEventFilter(model.EventFilter{
		CarID: "car-1",
		From:  &from,
		To:    &to,
	})

	assert.Equal(t, "car-1", filter["car_id"])
	assert.Equal(t, bson.M{"$gte": from, "$lte": to}, filter["start"])
}

func TestObjectID_Invalid(t *testing.T) {
	_, err := objectID("definitely-not-hex")
	assert.ErrorIs(t, err, apperrors.ErrInvalidObjectID)
}
