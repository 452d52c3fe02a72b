package service

import (
	"context"

	"github.com/kheti-sahayak/logbook-sync/internal/config"
	"github.com/kheti-sahayak/logbook-sync/internal/logger"
	"github.com/kheti-sahayak/logbook-sync/internal/utils"
	"github.com/kheti-sahayak/logbook-sync/models"
)

// authService is the concrete implementation of AuthService.
//
// This server never issues tokens — registration and login live in the
// platform's dedicated authentication service. The only concern here is
// verifying bearer tokens presented on incoming requests and extracting
// the owner identity from them.
type authService struct {
	// tokenSignKey is the HMAC secret used to verify JWT signatures.
	// Must match the key the authentication service signs with.
	tokenSignKey string

	// tokenIssuer is the expected "iss" claim. Tokens from any other issuer
	// are rejected.
	tokenIssuer string

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs an AuthService populated with verification
// parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		tokenSignKey: cfg.TokenSignKey,
		tokenIssuer:  cfg.TokenIssuer,
		logger:       logger,
	}
}

// ParseToken validates and parses a raw JWT string.
//
// It delegates to utils.ValidateAndParseJWTToken, verifying the signature,
// the issuer claim, and the presence of the subject claim carrying the owner
// identifier. Any validation failure (expired, wrong issuer, malformed) is
// normalised to ErrTokenIsExpiredOrInvalid so that callers do not need to
// inspect low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
