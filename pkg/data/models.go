package data

import (
	"time"

	"gorm.io/gorm"
)

// Profile is the node identity of the friend graph. Account handling
// lives in the presentation layer; the core only needs the row.
type Profile struct {
	gorm.Model
	FirstName string
	LastName  string
	City      string
	Email     string
	Bio       string
	AvatarURL string
}

// FriendLink stores one friendship. The relation is symmetric: (a, b)
// and (b, a) are the same link, so the pair is canonicalized on insert
// with ProfileAID holding the smaller ID. That makes the unique index a
// constraint on the unordered pair itself, the safety net against two
// racing inserts of the same pair in either order.
type FriendLink struct {
	gorm.Model
	ProfileAID uint `gorm:"uniqueIndex:idx_friend_pair"`
	ProfileBID uint `gorm:"uniqueIndex:idx_friend_pair"`
}

// BeforeCreate swaps the pair into canonical order.
func (l *FriendLink) BeforeCreate(*gorm.DB) error {
	if l.ProfileBID < l.ProfileAID {
		l.ProfileAID, l.ProfileBID = l.ProfileBID, l.ProfileAID
	}
	return nil
}

// SurfSpot is a saved station location owned by one profile.
type SurfSpot struct {
	gorm.Model
	ProfileID uint
	StationID string
	Nickname  string
	Latitude  float64
	Longitude float64
}

// SurfSession is a logged session at a spot.
type SurfSession struct {
	gorm.Model
	ProfileID  uint
	SurfSpotID uint
	Date       time.Time
	Duration   time.Duration
	WaveRating int // 1..5
	Notes      string
}

// StatusMessage is a text update from a profile, optionally tied to a
// session.
type StatusMessage struct {
	gorm.Model
	ProfileID     uint
	Message       string
	SurfSessionID *uint
}
