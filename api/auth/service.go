package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"FinBpoSaas/internal/logger"
	"FinBpoSaas/internal/serviceiface"

	"github.com/google/uuid"
)

type UserSession struct {
	SessionID     string
	UserID        string
	Name          string
	Email         string
	Role          string
	LastLoginTime string
	ClientIP      string
	IsLoggedIn    bool
}

type AuthService struct {
	db             *sql.DB
	maxUsers       int
	sessionTimeout time.Duration
	cleanerPeriod  time.Duration
	sessions       map[string]*UserSession
	byUserID       map[string]*UserSession
	mu             sync.Mutex
	stopCh         chan struct{}
}

func NewAuthService(db *sql.DB, maxUsers, sessionTimeoutMin, cleanerPeriodMin int) serviceiface.Service {
	if maxUsers <= 0 {
		maxUsers = 100
	}
	if sessionTimeoutMin <= 0 {
		sessionTimeoutMin = 60
	}
	if cleanerPeriodMin <= 0 {
		cleanerPeriodMin = 10
	}
	return &AuthService{
		db:             db,
		maxUsers:       maxUsers,
		sessionTimeout: time.Duration(sessionTimeoutMin) * time.Minute,
		cleanerPeriod:  time.Duration(cleanerPeriodMin) * time.Minute,
		sessions:       make(map[string]*UserSession),
		byUserID:       make(map[string]*UserSession),
		stopCh:         make(chan struct{}),
	}
}

func (a *AuthService) Name() string { return "auth" }

func (a *AuthService) Start() error {
	go a.sessionCleaner()
	return nil
}

func (a *AuthService) Stop() error {
	close(a.stopCh)
	return nil
}

func (a *AuthService) Login(username, password, clientIP string) (*UserSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, session := range a.sessions {
		if session.Email == username && session.IsLoggedIn {
			session.LastLoginTime = time.Now().Format(time.RFC3339)
			session.ClientIP = clientIP
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("User %s re-logged in, returning existing session", username))
			}
			return session, nil
		}
	}

	if len(a.sessions) >= a.maxUsers {
		return nil, errors.New("maximum concurrent users reached")
	}

	var userID, name, email, role string
	err := a.db.QueryRow(`
		SELECT id, name, email, role
		FROM users
		WHERE email = $1 AND password = crypt($2, password) AND active
	`, username, password).Scan(&userID, &name, &email, &role)
	if err == sql.ErrNoRows {
		return nil, errors.New("invalid username or password")
	}
	if err != nil {
		return nil, err
	}

	session := &UserSession{
		SessionID:     uuid.New().String(),
		UserID:        userID,
		Name:          name,
		Email:         email,
		Role:          role,
		LastLoginTime: time.Now().Format(time.RFC3339),
		ClientIP:      clientIP,
		IsLoggedIn:    true,
	}
	a.sessions[session.SessionID] = session
	a.byUserID[session.UserID] = session
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(fmt.Sprintf("User %s logged in from %s", username, clientIP))
	}
	return session, nil
}

func (a *AuthService) Logout(sessionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	session, ok := a.sessions[sessionID]
	if !ok {
		return errors.New("session not found")
	}
	delete(a.sessions, sessionID)
	delete(a.byUserID, session.UserID)
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(fmt.Sprintf("User %s logged out", session.Email))
	}
	return nil
}

func (a *AuthService) ActiveSessions() []*UserSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*UserSession, 0, len(a.sessions))
	for _, s := range a.sessions {
		out = append(out, s)
	}
	return out
}

// SessionByUserID returns the live session for a user, or nil.
func (a *AuthService) SessionByUserID(userID string) *UserSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.byUserID[userID]
}

func (a *AuthService) sessionCleaner() {
	ticker := time.NewTicker(a.cleanerPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			a.mu.Lock()
			cutoff := time.Now().Add(-a.sessionTimeout)
			for id, s := range a.sessions {
				last, err := time.Parse(time.RFC3339, s.LastLoginTime)
				if err != nil || last.Before(cutoff) {
					delete(a.sessions, id)
					delete(a.byUserID, s.UserID)
				}
			}
			a.mu.Unlock()
		}
	}
}

// ---------------- global access for handlers ----------------

var globalAuthService *AuthService

func SetGlobalAuthService(svc *AuthService) {
	globalAuthService = svc
}

// GetActiveSessions returns all live sessions; empty when auth is not wired
// (e.g. in tests).
func GetActiveSessions() []*UserSession {
	if globalAuthService == nil {
		return nil
	}
	return globalAuthService.ActiveSessions()
}
