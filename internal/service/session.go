package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/store"
)

const sessionIssuer = "foodshare"

// SessionService signs session cookies. The token only names a server-side
// session; the user is reloaded on every Resolve so role and score changes
// apply immediately.
type SessionService struct {
	backend SessionBackend
	users   *store.UserStore
	secret  []byte
	ttl     time.Duration
	clock   Clock
}

var _ ISessionService = (*SessionService)(nil)

func NewSessionService(backend SessionBackend, users *store.UserStore, secret string, ttl time.Duration, clock Clock) *SessionService {
	return &SessionService{
		backend: backend,
		users:   users,
		secret:  []byte(secret),
		ttl:     ttl,
		clock:   clock,
	}
}

// TTL is how long an issued session lives.
func (s *SessionService) TTL() time.Duration { return s.ttl }

// Issue starts a session for user and returns the signed cookie value.
func (s *SessionService) Issue(ctx context.Context, user *models.User) (string, error) {
	sessionID, err := s.backend.Create(ctx, user.ID, s.ttl)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	now := s.clock()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID.String(),
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return token, nil
}

// Resolve verifies the cookie value and returns the signed-in user, or
// ErrUnauthorized for anything invalid, expired or revoked.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.SessionUser, error) {
	sessionID, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	userID, err := s.backend.Lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return models.NewSessionUser(user), nil
}

// Revoke ends the session named by token. Invalid tokens are ignored.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	sessionID, err := s.parse(token)
	if err != nil {
		return nil
	}
	return s.backend.Delete(ctx, sessionID)
}

func (s *SessionService) parse(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrUnauthorized
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	return id, nil
}

// DBSessions keeps sessions in the sessions table.
type DBSessions struct {
	sessions *store.SessionStore
	clock    Clock
}

func NewDBSessions(sessions *store.SessionStore, clock Clock) *DBSessions {
	return &DBSessions{sessions: sessions, clock: clock}
}

func (d *DBSessions) Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (uuid.UUID, error) {
	sess := &models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: d.clock().Add(ttl),
	}
	if err := d.sessions.Insert(ctx, sess); err != nil {
		return uuid.Nil, err
	}
	return sess.ID, nil
}

func (d *DBSessions) Lookup(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	sess, err := d.sessions.FindActive(ctx, sessionID, d.clock())
	if errors.Is(err, store.ErrNotFound) {
		return uuid.Nil, ErrUnauthorized
	}
	if err != nil {
		return uuid.Nil, err
	}
	return sess.UserID, nil
}

func (d *DBSessions) Delete(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := d.sessions.Remove(ctx, sessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// Sweep deletes expired sessions and returns how many went.
func (d *DBSessions) Sweep(ctx context.Context) (int64, error) {
	return d.sessions.DeleteExpired(ctx, d.clock())
}

// RedisSessions keeps sessions as expiring Redis keys.
type RedisSessions struct {
	client *redis.Client
	prefix string
}

func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client, prefix: "session:"}
}

func (r *RedisSessions) Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (uuid.UUID, error) {
	id := uuid.New()
	if err := r.client.Set(ctx, r.prefix+id.String(), userID.String(), ttl).Err(); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *RedisSessions) Lookup(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	val, err := r.client.Get(ctx, r.prefix+sessionID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrUnauthorized
	}
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	return id, nil
}

func (r *RedisSessions) Delete(ctx context.Context, sessionID uuid.UUID) error {
	return r.client.Del(ctx, r.prefix+sessionID.String()).Err()
}
