// Package dao provides data access objects for use in the MinnowQuest server.
package dao

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is a complete set of repositories for the server, all backed by the
// same persistence layer.
type Store interface {
	// Users returns the repository of user accounts.
	Users() UserRepository

	// Sessions returns the repository of game session records.
	Sessions() SessionRepository

	// Commands returns the repository of command history entries.
	Commands() CommandRepository

	// Close closes all repositories in the store. Their behavior after Close
	// is called is undefined.
	Close() error
}

type UserRepository interface {

	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

type SessionRepository interface {

	// Create creates a new Session record. All attributes except for
	// auto-generated fields are taken from the provided Session.
	Create(ctx context.Context, s Session) (Session, error)
	GetAll(ctx context.Context) ([]Session, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	Update(ctx context.Context, id uuid.UUID, s Session) (Session, error)
	Delete(ctx context.Context, id uuid.UUID) (Session, error)
	Close() error
}

type CommandRepository interface {

	// Create creates a new Command history entry. All attributes except for
	// auto-generated fields are taken from the provided Command.
	Create(ctx context.Context, c Command) (Command, error)
	GetAll(ctx context.Context) ([]Command, error)
	GetAllBySession(ctx context.Context, sessionID uuid.UUID) ([]Command, error)
	GetByID(ctx context.Context, id uuid.UUID) (Command, error)
	Update(ctx context.Context, id uuid.UUID, c Command) (Command, error)
	Delete(ctx context.Context, id uuid.UUID) (Command, error)
	Close() error
}

type Role int

const (
	Guest Role = iota
	Unverified
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'unverified', 'normal', or 'admin'")
	}
}

// User is a server account. Password is the base64 encoding of the bcrypt
// hash of the user's password, never the password itself.
type User struct {
	ID             uuid.UUID
	Username       string
	Password       string
	Email          *mail.Address
	Role           Role
	Created        time.Time
	Modified       time.Time
	LastLoginTime  time.Time
	LastLogoutTime time.Time
}

// Session is the persisted record of one game session. It is metadata only;
// the live game state exists in server memory and dies with the process.
type Session struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	World      string
	Created    time.Time
	LastActive time.Time
}

// Command is one entry of command history: a line of input sent to a session
// and the response it produced. Extras holds the response state pairs that
// accompanied the body in the envelope for that command.
type Command struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	UserID    uuid.UUID
	Input     string
	Response  string
	Extras    map[string]string
	Created   time.Time
}
