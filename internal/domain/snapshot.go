package domain

import "time"

// Snapshot is one persisted copy of the whole dataset.
type Snapshot struct {
	ID        string
	CreatedAt time.Time
	Reason    string
	Actor     string
	Checksum  string
	Payload   []byte
}

// SnapshotInfo is a snapshot without its payload, for listings.
type SnapshotInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Reason    string    `json:"reason"`
	Actor     string    `json:"actor"`
	Checksum  string    `json:"checksum"`
	Size      int       `json:"size"`
}

func (s *Snapshot) Info() SnapshotInfo {
	return SnapshotInfo{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Reason:    s.Reason,
		Actor:     s.Actor,
		Checksum:  s.Checksum,
		Size:      len(s.Payload),
	}
}
