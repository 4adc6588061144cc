package dashboardControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const notificationInterval = 10 * time.Second

// NotificationsWSHandler streams pending-moderation counts to the dashboard
// sidebar. Counts are pushed immediately on connect and then on a fixed
// interval until the client goes away.
func NotificationsWSHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		push := func() error {
			counts, err := GetNotificationCounts(db)
			if err != nil {
				logrus.WithError(err).Warn("failed to load notification counts")
				return nil
			}
			return conn.WriteJSON(counts)
		}

		if err := push(); err != nil {
			return
		}

		ticker := time.NewTicker(notificationInterval)
		defer ticker.Stop()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := push(); err != nil {
					return
				}
			}
		}
	}
}
