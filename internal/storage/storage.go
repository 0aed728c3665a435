// Package storage persists account connections in a JSON key-value file.
package storage

import (
	"context"
	"fmt"

	"github.com/keshon/datastore"
)

const connectionKeyPrefix = "anilist_connection:"

// AccountConnection links a Discord user to an AniList account. One record
// per Discord user; upserts are last-write-wins.
type AccountConnection struct {
	DiscordID string `json:"discord_id"`
	AniListID string `json:"anilist_id"`
	Token     string `json:"token"`
}

// Storage wraps the datastore file.
type Storage struct {
	ds     *datastore.DataStore
	cancel context.CancelFunc
}

// New opens or creates the datastore at filePath.
func New(filePath string) (*Storage, error) {
	ctx, cancel := context.WithCancel(context.Background())
	ds, err := datastore.New(ctx, filePath)
	if err != nil {
		cancel()
		return nil, err
	}
	return &Storage{ds: ds, cancel: cancel}, nil
}

// Close flushes and closes the underlying store. The autosave goroutine
// exits only on context cancellation, so cancel before closing.
func (s *Storage) Close() error {
	s.cancel()
	return s.ds.Close()
}

// UpsertConnection records the link, replacing any previous record for the
// same Discord user.
func (s *Storage) UpsertConnection(discordID, anilistID, token string) error {
	if discordID == "" {
		return fmt.Errorf("discord id is required")
	}
	return s.ds.Set(connectionKeyPrefix+discordID, AccountConnection{
		DiscordID: discordID,
		AniListID: anilistID,
		Token:     token,
	})
}

// Connection returns the stored link for a Discord user, if any.
func (s *Storage) Connection(discordID string) (AccountConnection, bool) {
	var conn AccountConnection
	ok, err := s.ds.Get(connectionKeyPrefix+discordID, &conn)
	if err != nil || !ok {
		return AccountConnection{}, false
	}
	return conn, true
}
