package notify

import (
	"context"

	archivemodel "motive-archive/internal/archive/domain/model"
	"motive-archive/internal/shared/eventbus"
	"motive-archive/internal/shared/logger"
)

// watchedCollections are the activity sources that produce outbound
// notifications. Car and reference data churn is too noisy to forward.
var watchedCollections = []string{"projects", "deliverables"}

// SubscribeActivity forwards project and deliverable activity from the
// event bus to the notifier. Delivery failures are logged and dropped;
// a broken notification channel never fails a mutation.
func SubscribeActivity(bus eventbus.EventBusInterface, notifier Notifier, log logger.Logger) {
	nlog := log.WithComponent("notify_subscriber")

	handler := func(ctx context.Context, event eventbus.Event) error {
		activity, ok := event.Data().(*archivemodel.ActivityEvent)
		if !ok {
			return nil
		}
		n := &Notification{
			EventType:  event.Type(),
			Collection: activity.Collection,
			EntityID:   activity.EntityID,
			Actor:      activity.Actor,
			Data:       activity.Data,
			Timestamp:  activity.Timestamp,
		}
		if err := notifier.Notify(ctx, n); err != nil {
			nlog.Warnf("Failed to deliver notification %s for %s/%s: %v",
				event.Type(), activity.Collection, activity.EntityID, err)
		}
		return nil
	}

	actions := []string{archivemodel.ActivityCreated, archivemodel.ActivityUpdated, archivemodel.ActivityDeleted}
	for _, collection := range watchedCollections {
		for _, action := range actions {
			bus.Subscribe(collection+"."+action, handler)
		}
	}
}
