package notifications

import (
	"log"
	"time"
)

// expiryBusinessDays is how long a broadcast stays visible, skipping
// weekends.
const expiryBusinessDays = 3

// Broadcaster publishes events visible to every active user. One row is
// written per event; read marks are stored per user when they actually open
// it.
type Broadcaster struct {
	repository NotificationRepository
}

func NewBroadcaster(r NotificationRepository) *Broadcaster {
	return &Broadcaster{repository: r}
}

// Broadcast persists the event. Failures are logged and swallowed so a
// notification hiccup never fails the operation that triggered it.
func (b *Broadcaster) Broadcast(actorID *int, action string, message string) {
	expiresAt := AddBusinessDays(time.Now(), expiryBusinessDays)

	if err := b.repository.PersistNotification(actorID, action, message, expiresAt); err != nil {
		log.Println("Unable to create notification: ", err)
	}
}

// AddBusinessDays advances the date by n days counting Monday through Friday
// only.
func AddBusinessDays(from time.Time, days int) time.Time {
	date := from
	added := 0
	for added < days {
		date = date.AddDate(0, 0, 1)
		if date.Weekday() != time.Saturday && date.Weekday() != time.Sunday {
			added++
		}
	}
	return date
}
