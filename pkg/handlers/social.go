package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// friendRequest names the acting profile and the other side of the
// link. ProfileID may be omitted when a session cookie identifies the
// viewer.
type friendRequest struct {
	ProfileID uint `json:"profile_id"`
	FriendID  uint `json:"friend_id" validate:"required"`
}

func (s *Server) serveSetProfile(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	var body struct {
		ProfileID uint `json:"profile_id" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || s.validate.Struct(&body) != nil {
		writeUserError(w, "profile_id is required")
		return
	}

	session, _ := s.store.Get(r, sessionName)
	session.Values[sessionProfile] = body.ProfileID
	if err := session.Save(r, w); err != nil {
		log.Println("save session err", err)
	}
	writeJSON(w, map[string]uint{"profile_id": body.ProfileID})
}

// actingProfile resolves who a request acts as: an explicit profile
// query parameter or body field wins, else the session cookie.
func (s *Server) actingProfile(r *http.Request, explicit uint) (uint, bool) {
	if explicit != 0 {
		return explicit, true
	}
	if v := r.FormValue("profile"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return uint(id), true
	}
	session, _ := s.store.Get(r, sessionName)
	if id, ok := session.Values[sessionProfile].(uint); ok {
		return id, true
	}
	return 0, false
}

func (s *Server) decodeFriendRequest(w http.ResponseWriter, r *http.Request) (a, b uint, ok bool) {
	var body friendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || s.validate.Struct(&body) != nil {
		writeUserError(w, "friend_id is required")
		return 0, 0, false
	}
	a, found := s.actingProfile(r, body.ProfileID)
	if !found {
		writeUserError(w, "no acting profile: pass profile_id or set a session")
		return 0, 0, false
	}
	return a, body.FriendID, true
}

func (s *Server) serveAddFriend(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	a, b, ok := s.decodeFriendRequest(w, r)
	if !ok {
		return
	}
	if err := s.graph.AddFriend(a, b); err != nil {
		writeServerError(w, "Failed to add friend", err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) serveRemoveFriend(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	a, b, ok := s.decodeFriendRequest(w, r)
	if !ok {
		return
	}
	if err := s.graph.RemoveFriend(a, b); err != nil {
		writeServerError(w, "Failed to remove friend", err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) serveFriends(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	p, ok := s.actingProfile(r, 0)
	if !ok {
		writeUserError(w, "no acting profile: pass profile or set a session")
		return
	}
	friends, err := s.graph.Friends(p)
	if err != nil {
		writeServerError(w, "Failed to list friends", err)
		return
	}
	writeJSON(w, friends)
}

func (s *Server) serveSuggestions(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	p, ok := s.actingProfile(r, 0)
	if !ok {
		writeUserError(w, "no acting profile: pass profile or set a session")
		return
	}
	suggestions, err := s.graph.FriendSuggestions(p)
	if err != nil {
		writeServerError(w, "Failed to list suggestions", err)
		return
	}
	writeJSON(w, suggestions)
}

func (s *Server) serveNewsFeed(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	p, ok := s.actingProfile(r, 0)
	if !ok {
		writeUserError(w, "no acting profile: pass profile or set a session")
		return
	}
	feed, err := s.graph.NewsFeed(p)
	if err != nil {
		writeServerError(w, "Failed to build news feed", err)
		return
	}
	writeJSON(w, feed)
}

func (s *Server) serveStatusMessages(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	p, ok := s.actingProfile(r, 0)
	if !ok {
		writeUserError(w, "no acting profile: pass profile or set a session")
		return
	}
	msgs, err := s.graph.StatusMessages(p)
	if err != nil {
		writeServerError(w, "Failed to list status messages", err)
		return
	}
	writeJSON(w, msgs)
}

func (s *Server) serveSurfSessions(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	p, ok := s.actingProfile(r, 0)
	if !ok {
		writeUserError(w, "no acting profile: pass profile or set a session")
		return
	}
	sessions, err := s.graph.SurfSessions(p)
	if err != nil {
		writeServerError(w, "Failed to list surf sessions", err)
		return
	}
	writeJSON(w, sessions)
}

func (s *Server) serveSurfSpots(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	p, ok := s.actingProfile(r, 0)
	if !ok {
		writeUserError(w, "no acting profile: pass profile or set a session")
		return
	}
	spots, err := s.graph.SurfSpots(p)
	if err != nil {
		writeServerError(w, "Failed to list surf spots", err)
		return
	}
	writeJSON(w, spots)
}

func writeServerError(w http.ResponseWriter, msg string, err error) {
	log.Printf("%s: %+v", msg, err)
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
