package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-academy/internal/store"
)

type fakeQueries struct {
	usersByEmail    map[string]store.User
	usersByID       map[[16]byte]store.User
	sessionsByHash  map[string]store.Session
	sessionsByID    map[[16]byte]store.Session
	resetsByToken   map[string]store.PasswordReset
	revokedAllUsers [][16]byte
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{
		usersByEmail:   map[string]store.User{},
		usersByID:      map[[16]byte]store.User{},
		sessionsByHash: map[string]store.Session{},
		sessionsByID:   map[[16]byte]store.Session{},
		resetsByToken:  map[string]store.PasswordReset{},
	}
}

func newTestUUID() pgtype.UUID {
	id := uuid.New()
	var out pgtype.UUID
	copy(out.Bytes[:], id[:])
	out.Valid = true
	return out
}

func (f *fakeQueries) addUser(name, email, passwordHash string) store.User {
	u := store.User{
		ID:           newTestUUID(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Roles:        []string{"user"},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.usersByEmail[email] = u
	f.usersByID[u.ID.Bytes] = u
	return u
}

func (f *fakeQueries) CreateUser(_ context.Context, arg store.CreateUserParams) (store.User, error) {
	if _, exists := f.usersByEmail[arg.Email]; exists {
		return store.User{}, &pgconn.PgError{Code: "23505"}
	}
	return f.addUser(arg.Name, arg.Email, arg.PasswordHash), nil
}

func (f *fakeQueries) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	u, ok := f.usersByEmail[email]
	if !ok {
		return store.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeQueries) GetUserByID(_ context.Context, id pgtype.UUID) (store.User, error) {
	u, ok := f.usersByID[id.Bytes]
	if !ok {
		return store.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeQueries) UpdateUserPassword(_ context.Context, id pgtype.UUID, passwordHash string) error {
	u, ok := f.usersByID[id.Bytes]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = passwordHash
	f.usersByID[id.Bytes] = u
	f.usersByEmail[u.Email] = u
	return nil
}

func (f *fakeQueries) CreateSession(_ context.Context, arg store.CreateSessionParams) (store.Session, error) {
	sess := store.Session{
		ID:        newTestUUID(),
		UserID:    arg.UserID,
		TokenHash: arg.TokenHash,
		UserAgent: arg.UserAgent,
		IP:        arg.IP,
		ExpiresAt: arg.ExpiresAt,
		CreatedAt: time.Now(),
	}
	f.sessionsByHash[sess.TokenHash] = sess
	f.sessionsByID[sess.ID.Bytes] = sess
	return sess, nil
}

func (f *fakeQueries) GetSessionByTokenHash(_ context.Context, hash string) (store.Session, error) {
	sess, ok := f.sessionsByHash[hash]
	if !ok {
		return store.Session{}, pgx.ErrNoRows
	}
	return sess, nil
}

func (f *fakeQueries) RotateSessionToken(_ context.Context, arg store.RotateSessionParams) (store.Session, error) {
	sess, ok := f.sessionsByID[arg.ID.Bytes]
	if !ok || sess.RevokedAt.Valid {
		return store.Session{}, pgx.ErrNoRows
	}
	delete(f.sessionsByHash, sess.TokenHash)
	sess.TokenHash = arg.TokenHash
	sess.ExpiresAt = arg.ExpiresAt
	f.sessionsByHash[sess.TokenHash] = sess
	f.sessionsByID[sess.ID.Bytes] = sess
	return sess, nil
}

func (f *fakeQueries) RevokeSessionByTokenHash(_ context.Context, hash string) error {
	if sess, ok := f.sessionsByHash[hash]; ok {
		sess.RevokedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
		f.sessionsByHash[hash] = sess
		f.sessionsByID[sess.ID.Bytes] = sess
	}
	return nil
}

func (f *fakeQueries) RevokeUserSessions(_ context.Context, userID pgtype.UUID) error {
	f.revokedAllUsers = append(f.revokedAllUsers, userID.Bytes)
	for hash, sess := range f.sessionsByHash {
		if sess.UserID.Bytes == userID.Bytes {
			sess.RevokedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
			f.sessionsByHash[hash] = sess
			f.sessionsByID[sess.ID.Bytes] = sess
		}
	}
	return nil
}

func (f *fakeQueries) CreatePasswordReset(_ context.Context, arg store.CreatePasswordResetParams) (store.PasswordReset, error) {
	pr := store.PasswordReset{
		ID:        newTestUUID(),
		UserID:    arg.UserID,
		Token:     arg.Token,
		ExpiresAt: arg.ExpiresAt,
		CreatedAt: time.Now(),
	}
	f.resetsByToken[pr.Token] = pr
	return pr, nil
}

func (f *fakeQueries) GetPasswordResetByToken(_ context.Context, token string) (store.PasswordReset, error) {
	pr, ok := f.resetsByToken[token]
	if !ok {
		return store.PasswordReset{}, pgx.ErrNoRows
	}
	return pr, nil
}

func (f *fakeQueries) UsePasswordReset(_ context.Context, token string) error {
	if pr, ok := f.resetsByToken[token]; ok && !pr.UsedAt.Valid {
		pr.UsedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
		f.resetsByToken[token] = pr
	}
	return nil
}

func (f *fakeQueries) DeletePasswordResetsByUser(_ context.Context, userID pgtype.UUID) error {
	for token, pr := range f.resetsByToken {
		if pr.UserID.Bytes == userID.Bytes {
			delete(f.resetsByToken, token)
		}
	}
	return nil
}

func newTestService(t interface{ Fatalf(string, ...any) }, q Querier) *Service {
	svc, err := NewService(Config{
		Queries:         q,
		Secret:          "super-secret-key",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		ResetTokenTTL:   time.Hour,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}
