package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/visittracker/internal/common"
	"github.com/dmitrijs2005/visittracker/internal/logging"
	"github.com/dmitrijs2005/visittracker/internal/server/auth"
	"github.com/dmitrijs2005/visittracker/internal/server/config"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
	"github.com/dmitrijs2005/visittracker/internal/server/storage"
)

// UserService handles online login against the synced user list.
type UserService struct {
	store                       storage.Store
	log                         logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(store storage.Store, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		store:                       store,
		log:                         log.With("module", "users"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Login checks the credentials and returns the user (without the password)
// together with a signed access token.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if username == "" || password == "" {
		return nil, "", common.ErrorUnauthorized
	}

	snap, err := s.store.FetchAll(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, "", common.ErrorUnauthorized
	}
	if err != nil {
		s.log.Error(ctx, "fetch users", "error", err)
		return nil, "", common.ErrorInternal
	}

	var user *models.User
	for i := range snap.Users {
		if snap.Users[i].Username == username {
			user = &snap.Users[i]
			break
		}
	}
	if user == nil || !checkPassword(user.Password, password) {
		s.log.Info(ctx, "login rejected", "username", username)
		return nil, "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role), s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	out := user.Clone()
	out.Password = ""
	return &out, token, nil
}

// checkPassword accepts bcrypt hashes as well as the plain values older
// clients store.
func checkPassword(stored, candidate string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
