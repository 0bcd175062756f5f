package models

// MalfunctionKind enumerates the stoppages a shooter can log
type MalfunctionKind string

const (
	MalfunctionFailureToFeed     MalfunctionKind = "failure_to_feed"
	MalfunctionFailureToExtract  MalfunctionKind = "failure_to_extract"
	MalfunctionStovepipe         MalfunctionKind = "stovepipe"
	MalfunctionFailureToEject    MalfunctionKind = "failure_to_eject"
	MalfunctionLightStrike       MalfunctionKind = "light_strike"
	MalfunctionDoubleFeed        MalfunctionKind = "double_feed"
	MalfunctionFailureToLockBack MalfunctionKind = "failure_to_lock_back"
	MalfunctionOther             MalfunctionKind = "other"
)

// MalfunctionKinds lists every kind in display order
func MalfunctionKinds() []MalfunctionKind {
	return []MalfunctionKind{
		MalfunctionFailureToFeed,
		MalfunctionFailureToExtract,
		MalfunctionStovepipe,
		MalfunctionFailureToEject,
		MalfunctionLightStrike,
		MalfunctionDoubleFeed,
		MalfunctionFailureToLockBack,
		MalfunctionOther,
	}
}

var malfunctionLabels = map[MalfunctionKind]string{
	MalfunctionFailureToFeed:     "Failure to feed",
	MalfunctionFailureToExtract:  "Failure to extract",
	MalfunctionStovepipe:         "Stovepipe",
	MalfunctionFailureToEject:    "Failure to eject",
	MalfunctionLightStrike:       "Light strike",
	MalfunctionDoubleFeed:        "Double feed",
	MalfunctionFailureToLockBack: "Failure to lock back",
	MalfunctionOther:             "Other",
}

// Label returns the human readable name
func (k MalfunctionKind) Label() string {
	if l, ok := malfunctionLabels[k]; ok {
		return l
	}
	return string(k)
}

// MalfunctionTally counts one kind of malfunction within a run
type MalfunctionTally struct {
	ID    string          `gorm:"primaryKey" json:"id"`
	RunID string          `gorm:"not null;uniqueIndex:idx_run_kind" json:"run_id"`
	Kind  MalfunctionKind `gorm:"not null;uniqueIndex:idx_run_kind" json:"kind"`
	Count int             `gorm:"default:0" json:"count"`
}
