package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-bankroll-sync/models"
)

var (
	// ErrInvalidAuthorizationHeader is returned by [ParseBearerToken].
	ErrInvalidAuthorizationHeader = errors.New("invalid authorization header")

	// ErrWrongTokenType is returned by [ValidateAndParseJWTToken] for tokens
	// whose "type" claim is not "access".
	ErrWrongTokenType = errors.New("token is not an access token")
)

// GenerateJWTToken creates an HS256 access token for userID with the sub,
// iat, exp and type claims, plus iss when issuer is set. Accounts are issued
// by an external service; the sync backend uses this only in tests and
// tooling.
//
//	token, err := utils.GenerateJWTToken("go-bankroll-sync", 42, time.Hour, "secret")
func GenerateJWTToken(issuer string, userID int64, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if tokenDuration == 0 || signKey == "" {
		return models.Token{}, errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := &models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Type: models.TokenTypeAccess,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return models.Token{Token: token, TokenClaims: *claims, SignedString: tokenString, UserID: userID}, nil
}

// ValidateAndParseJWTToken verifies the HS256 signature, the expiry and the
// "type" claim of tokenString and returns the token with UserID taken from
// "sub". The "iss" claim is checked only when tokenIssuer is not empty.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if tokenIssuer != "" {
		opts = append(opts, jwt.WithIssuer(tokenIssuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, opts...)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok {
		return models.Token{}, errors.New("invalid token claims")
	}
	if claims.Type != models.TokenTypeAccess {
		return models.Token{}, fmt.Errorf("%w: %q", ErrWrongTokenType, claims.Type)
	}

	parsed := models.Token{Token: token, TokenClaims: *claims, SignedString: tokenString}
	if parsed.UserID, err = parsed.GetUserID(); err != nil {
		return models.Token{}, err
	}

	return parsed, nil
}

// ParseBearerToken extracts the credential from an "Authorization: Bearer
// <token>" header value. The scheme is matched case-insensitively.
func ParseBearerToken(authorizationHeader string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorizationHeader), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrInvalidAuthorizationHeader
	}
	return token, nil
}

// ParseUserIDFromJWT reads "sub" without verifying the signature. The client
// uses it to label the account it is syncing; the server never trusts it.
func ParseUserIDFromJWT(tokenString string) (int64, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, err
	}
	return id, nil
}
