package postgres

import (
	"database/sql"
	"time"
)

type eventTableModel struct {
	ID                  int64      `db:"id"`
	Name                string     `db:"name"`
	ScoreViewStepFactor float64    `db:"score_view_step_factor"`
	RefreshFromESPN     int        `db:"refresh_from_espn"`
	EndDate             *time.Time `db:"end_date"`
}

type assignmentTableModel struct {
	EupID               int64           `db:"eup_id"`
	EventID             int64           `db:"event_id"`
	BettorID            int64           `db:"bettor_id"`
	BettorName          string          `db:"bettor_name"`
	GolferID            int64           `db:"golfer_id"`
	GolferEspnID        int64           `db:"golfer_espn_id"`
	GolferName          string          `db:"golfer_name"`
	Grp                 int             `db:"grp"`
	ScoreViewStepFactor sql.NullFloat64 `db:"score_view_step_factor"`
}

type lastRefreshTableModel struct {
	EventID   int64     `db:"event_id"`
	Timestamp time.Time `db:"ts"`
	Source    string    `db:"source"`
}

type rawUpstreamTableModel struct {
	EventID int64  `db:"event_id"`
	Payload []byte `db:"payload"`
}

type statisticTableModel struct {
	EventID int64  `db:"event_id"`
	EupID   int64  `db:"eup_id"`
	Payload []byte `db:"payload"`
}

type eventListingTableModel struct {
	EventID int64  `db:"id"`
	Name    string `db:"name"`
}
