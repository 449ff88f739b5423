package monitoring

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/accounthub-be/internal/database"
	"github.com/isdelr/accounthub-be/internal/models"
	"github.com/isdelr/accounthub-be/internal/services"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestNewSessionSweeperRejectsBadSchedule(t *testing.T) {
	db := setupDB(t)
	sessionSvc := services.NewSessionService(db, time.Hour)
	eventSvc := services.NewEventService(db)

	_, err := NewSessionSweeper(sessionSvc, eventSvc, "not a cron expression")
	require.Error(t, err)
}

func TestSessionSweeperRemovesExpiredOnStart(t *testing.T) {
	db := setupDB(t)
	eventSvc := services.NewEventService(db)
	snapshot := models.PublicUser{ID: 1, Username: "alice", Email: "a@x.com"}

	expired := services.NewSessionService(db, -time.Minute)
	_, err := expired.Create(snapshot)
	require.NoError(t, err)

	live := services.NewSessionService(db, time.Hour)
	keep, err := live.Create(snapshot)
	require.NoError(t, err)

	sweeper, err := NewSessionSweeper(live, eventSvc, "*/15 * * * *")
	require.NoError(t, err)
	go sweeper.Run()
	defer sweeper.Stop()

	// The sweeper runs once immediately on start.
	require.Eventually(t, func() bool {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
			return false
		}
		return n == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, err = live.Get(keep.Token)
	require.NoError(t, err)
}
