package store

import "time"

// AppendSession commits a focus session to the append-only log. Sessions are
// never mutated or deleted individually afterwards.
func (s *Store) AppendSession(sess FocusSession) (FocusSession, error) {
	if sess.ID == "" {
		sess.ID = newID()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	err := s.mutate(func(st *AppState) bool {
		st.FocusSessions = append(st.FocusSessions, sess)
		return true
	})
	return sess, err
}

// AddPreset creates a focus preset used to pre-fill timer defaults.
func (s *Store) AddPreset(title string, minutes int) (FocusPreset, error) {
	p := FocusPreset{ID: newID(), Title: title, DurationMinutes: minutes}
	err := s.mutate(func(st *AppState) bool {
		st.FocusPresets = append(st.FocusPresets, p)
		return true
	})
	return p, err
}

// DeletePreset removes a preset. Sessions that reference it keep their
// dangling task id; the title snapshot on each session stays readable.
func (s *Store) DeletePreset(id string) error {
	return s.mutate(func(st *AppState) bool {
		for i, p := range st.FocusPresets {
			if p.ID == id {
				st.FocusPresets = append(st.FocusPresets[:i], st.FocusPresets[i+1:]...)
				return true
			}
		}
		return false
	})
}

// SetTheme updates the persisted UI theme.
func (s *Store) SetTheme(theme string) error {
	return s.mutate(func(st *AppState) bool {
		if st.Settings.Theme == theme {
			return false
		}
		st.Settings.Theme = theme
		return true
	})
}
