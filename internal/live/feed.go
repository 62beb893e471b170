package live

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gandaki-ict/backend/internal/models"
	"github.com/gandaki-ict/backend/pkg/response"
)

// checkInEvent is the payload pushed to dashboards on each successful scan.
type checkInEvent struct {
	Attendee models.Attendee        `json:"attendee"`
	Stats    models.AttendanceStats `json:"stats"`
	At       time.Time              `json:"at"`
}

// Feed adapts the hub to the attendance service's publishing needs.
type Feed struct {
	hub *Hub
}

// NewFeed wraps a hub as a check-in feed.
func NewFeed(hub *Hub) *Feed {
	return &Feed{hub: hub}
}

// PublishCheckIn pushes a check-in update to every dashboard watching the entity.
func (f *Feed) PublishCheckIn(typ models.EntityType, entityID uuid.UUID, attendee models.Attendee, stats models.AttendanceStats) {
	f.hub.Broadcast(typ, entityID, "check_in", checkInEvent{
		Attendee: attendee,
		Stats:    stats,
		At:       time.Now(),
	})
}

// WatcherCountHandler returns a handler reporting how many dashboards are
// connected for an entity (from the local hub).
func WatcherCountHandler(hub *Hub, typ models.EntityType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid id")
			return
		}
		response.OK(c, gin.H{"count": hub.WatcherCount(typ, id)})
	}
}
