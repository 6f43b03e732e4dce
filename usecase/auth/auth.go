package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/repository"
)

// UseCase issues anonymous member sessions. There are no user records:
// identity is picking one of the fixed family members.
type UseCase struct {
	sessions  repository.SessionRepository
	jwtSecret string
	jwtIssuer string
	logger    *zap.Logger
}

func New(sessions repository.SessionRepository, jwtSecret, jwtIssuer string, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		sessions:  sessions,
		jwtSecret: jwtSecret,
		jwtIssuer: jwtIssuer,
		logger:    logger,
	}
}

// CreateSession validates the member name, stores a session and returns it
// together with a signed bearer token.
func (uc *UseCase) CreateSession(ctx context.Context, member string, ttl time.Duration) (*domain.Session, string, error) {
	if !domain.IsMember(member) {
		return nil, "", domain.ErrUnknownMember
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		Member:    member,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, "", err
	}

	token, err := uc.signToken(session)
	if err != nil {
		return nil, "", err
	}
	return session, token, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// RefreshSession extends a session and returns it with a fresh token.
func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, string, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, "", err
	}
	session.ExpiresAt = time.Now().Add(ttl)

	token, err := uc.signToken(session)
	if err != nil {
		return nil, "", err
	}
	return session, token, nil
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) signToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"member":     session.Member,
		"session_id": session.ID,
		"iss":        uc.jwtIssuer,
		"exp":        session.ExpiresAt.Unix(),
		"iat":        session.CreatedAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(uc.jwtSecret))
}
