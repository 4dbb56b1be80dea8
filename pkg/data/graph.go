package data

import (
	"errors"

	"gorm.io/gorm"
)

// Graph answers the profile-scoped social queries: the symmetric friend
// relation plus a profile's own posts and sessions. Every operation is
// total over valid inputs; duplicate adds and missing removes are
// defined as no-ops, never errors.
type Graph struct {
	db *gorm.DB
}

func NewGraph(db *gorm.DB) *Graph {
	return &Graph{db: db}
}

// AddFriend links two profiles. Self-links and already-linked pairs (in
// either argument order) are no-ops, so the call is idempotent. Links
// are stored in canonical order, so a racing duplicate insert of the
// same pair trips the unique index and is absorbed.
func (g *Graph) AddFriend(a, b uint) error {
	if a == b {
		return nil
	}
	if b < a {
		a, b = b, a
	}

	var count int64
	err := g.db.Model(&FriendLink{}).
		Where("profile_a_id = ? AND profile_b_id = ?", a, b).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	err = g.db.Create(&FriendLink{ProfileAID: a, ProfileBID: b}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race; the link exists, which is what we wanted.
		return nil
	}
	return err
}

// RemoveFriend deletes the link for the unordered pair, whichever
// argument order the caller used. Removing an absent link is a no-op.
func (g *Graph) RemoveFriend(a, b uint) error {
	if b < a {
		a, b = b, a
	}
	return g.db.
		Where("profile_a_id = ? AND profile_b_id = ?", a, b).
		Delete(&FriendLink{}).Error
}

// Friends returns the profiles linked to p. Order is unspecified.
func (g *Graph) Friends(p uint) ([]Profile, error) {
	ids, err := g.friendIDs(p)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Profile{}, nil
	}

	var friends []Profile
	if err := g.db.Find(&friends, ids).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// FriendSuggestions returns every profile that is neither p nor already
// a friend of p. No ranking beyond that.
func (g *Graph) FriendSuggestions(p uint) ([]Profile, error) {
	ids, err := g.friendIDs(p)
	if err != nil {
		return nil, err
	}

	q := g.db.Where("id <> ?", p)
	if len(ids) > 0 {
		q = q.Where("id NOT IN ?", ids)
	}

	var suggestions []Profile
	if err := q.Find(&suggestions).Error; err != nil {
		return nil, err
	}
	return suggestions, nil
}

// NewsFeed returns status messages authored by p's friends, newest
// first. Only friends: the everyone-except-self behavior of the old
// site was a defect, not intent.
func (g *Graph) NewsFeed(p uint) ([]StatusMessage, error) {
	ids, err := g.friendIDs(p)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []StatusMessage{}, nil
	}

	var msgs []StatusMessage
	err = g.db.Where("profile_id IN ?", ids).
		Order("created_at DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// StatusMessages returns p's own posts, newest first.
func (g *Graph) StatusMessages(p uint) ([]StatusMessage, error) {
	var msgs []StatusMessage
	err := g.db.Where("profile_id = ?", p).
		Order("created_at DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// SurfSessions returns p's logged sessions, most recent date first.
func (g *Graph) SurfSessions(p uint) ([]SurfSession, error) {
	var sessions []SurfSession
	err := g.db.Where("profile_id = ?", p).
		Order("date DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// SurfSpots returns p's saved spots, newest first.
func (g *Graph) SurfSpots(p uint) ([]SurfSpot, error) {
	var spots []SurfSpot
	err := g.db.Where("profile_id = ?", p).
		Order("created_at DESC").
		Find(&spots).Error
	if err != nil {
		return nil, err
	}
	return spots, nil
}

// friendIDs resolves the other side of every link touching p.
func (g *Graph) friendIDs(p uint) ([]uint, error) {
	var links []FriendLink
	err := g.db.
		Where("profile_a_id = ? OR profile_b_id = ?", p, p).
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(links))
	for _, l := range links {
		if l.ProfileAID == p {
			ids = append(ids, l.ProfileBID)
		} else {
			ids = append(ids, l.ProfileAID)
		}
	}
	return ids, nil
}
