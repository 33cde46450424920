package session

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// tokenKey is the fixed key the auth token is stored under; nothing else
// survives a restart.
const tokenKey = "auth_token"

// credential is a single key/value row in the client state database.
type credential struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

func (credential) TableName() string { return "credentials" }

// Store is the durable side of a session: a small sqlite file holding the
// bearer token between runs.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (and migrates) the client state database at path.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open state db %s: %w", path, err)
	}
	if err := db.AutoMigrate(&credential{}); err != nil {
		return nil, fmt.Errorf("migrate state db: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveToken persists the bearer token, replacing any previous one.
func (s *Store) SaveToken(token string) error {
	cred := credential{Key: tokenKey, Value: token}
	return s.db.Save(&cred).Error
}

// LoadToken returns the persisted token, or "" when none is stored.
func (s *Store) LoadToken() (string, error) {
	var cred credential
	err := s.db.First(&cred, "key = ?", tokenKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cred.Value, nil
}

// ClearToken removes the persisted token. Clearing an empty store is a no-op.
func (s *Store) ClearToken() error {
	return s.db.Delete(&credential{}, "key = ?", tokenKey).Error
}
