package fakeapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const ctxUserKey = "fakeapi_user" // *userRecord

// bcryptハッシュ化
type bcryptPasswordHasher struct {
	cost int
}

func newBcryptPasswordHasher(cost int) *bcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &bcryptPasswordHasher{cost}
}

func (h *bcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// 平文(plain)をbcryptで比較
func (h *bcryptPasswordHasher) Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(u *userRecord, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(u.id, 10),
		"roles": u.roles,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse は署名と exp を検証して sub を返す
func (i *jwtIssuer) Parse(raw string, now time.Time) (int64, error) {
	parser := jwt.Parser{SkipClaimsValidation: true}
	token, err := parser.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return 0, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}
	// テスト用の時計でも期限切れを判定する
	if !claims.VerifyExpiresAt(now.Unix(), true) {
		return 0, errors.New("token expired")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("invalid sub")
	}
	return strconv.ParseInt(sub, 10, 64)
}

// authJWT は Bearer トークンを検証してユーザーを context に入れる
func (s *Server) authJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Bearer形式か確認してtokenを抜く
			authz := c.Request().Header.Get("Authorization")
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return writeError(c, errUnauthorized)
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return writeError(c, errUnauthorized)
			}

			userID, err := s.issuer.Parse(rawToken, s.now())
			if err != nil || userID <= 0 {
				return writeError(c, errUnauthorized)
			}

			// ハンドラにはリクエスト時点のコピーを渡す
			s.store.mu.Lock()
			u, ok := s.store.users[userID]
			var snap userRecord
			if ok {
				snap = *u
				snap.roles = append([]string(nil), u.roles...)
			}
			s.store.mu.Unlock()
			if !ok {
				return writeError(c, errUnauthorized)
			}
			if !snap.enabled {
				return writeError(c, NewHTTPError(http.StatusForbidden, "Account disabled"))
			}

			c.Set(ctxUserKey, &snap)
			return next(c)
		}
	}
}

// adminRoleGuard は ROLE_ADMIN だけ通す
func (s *Server) adminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := c.Get(ctxUserKey).(*userRecord)
			if !ok {
				return writeError(c, errUnauthorized)
			}
			if !u.isAdmin() {
				return writeError(c, NewHTTPError(http.StatusForbidden, "Admin only"))
			}
			return next(c)
		}
	}
}

func currentUser(c echo.Context) *userRecord {
	u, _ := c.Get(ctxUserKey).(*userRecord)
	return u
}

// ---- /auth ----

func (s *Server) login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}

	s.store.mu.Lock()
	u, ok := s.store.userByEmailLocked(req.Email)
	var hash string
	var enabled bool
	if ok {
		hash, enabled = u.passwordHash, u.enabled
	}
	s.store.mu.Unlock()
	if !ok || !s.hasher.Verify(req.Password, hash) {
		return writeError(c, NewHTTPError(http.StatusUnauthorized, "Invalid email or password"))
	}
	if !enabled {
		return writeError(c, NewHTTPError(http.StatusForbidden, "Account disabled"))
	}

	res, err := s.authResponse(u)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) register(c echo.Context) error {
	var req model.RegisterPayload
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}
	if !strings.Contains(req.Email, "@") {
		return writeError(c, badRequest("Valid email is required"))
	}
	if len(req.Password) < 8 {
		return writeError(c, badRequest("Password must be at least 8 characters"))
	}
	if len(strings.TrimSpace(req.FullName)) < 2 {
		return writeError(c, badRequest("Full name is required"))
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return writeError(c, err)
	}

	u, err := s.store.createUser(newUserInput{
		email:        req.Email,
		fullName:     req.FullName,
		passwordHash: hash,
		roles:        []string{string(model.RoleCustomer)},
		phone:        req.Phone,
		address:      req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}

	res, err := s.authResponse(u)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (s *Server) me(c echo.Context) error {
	u := currentUser(c)

	s.store.mu.Lock()
	out := s.store.authUserLocked(u)
	s.store.mu.Unlock()

	return c.JSON(http.StatusOK, out)
}

func (s *Server) authResponse(u *userRecord) (model.AuthResponse, error) {
	s.store.mu.Lock()
	snap := *u
	snap.roles = append([]string(nil), u.roles...)
	user := s.store.authUserLocked(u)
	s.store.mu.Unlock()

	now := s.now()
	token, expiresAt, err := s.issuer.Issue(&snap, now)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		TokenType:                   "Bearer",
		AccessToken:                 token,
		AccessTokenExpiresInSeconds: int64(expiresAt.Sub(now).Seconds()),
		RefreshToken:                uuid.NewString(),
		User:                        user,
	}, nil
}

type newUserInput struct {
	email        string
	fullName     string
	passwordHash string
	roles        []string
	phone        string
	address      string
}

// createUser はユーザーと顧客プロフィールを同時に作る
func (s *store) createUser(in newUserInput) (*userRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.userByEmailLocked(in.email); exists {
		return nil, conflict("Email already registered")
	}

	u := &userRecord{
		id:           s.next("user"),
		email:        normalizeEmail(in.email),
		fullName:     strings.TrimSpace(in.fullName),
		passwordHash: in.passwordHash,
		roles:        in.roles,
		enabled:      true,
		phone:        in.phone,
		address:      in.address,
		createdAt:    s.now(),
	}
	s.users[u.id] = u

	c := &model.Customer{
		ID:       s.next("customer"),
		UserID:   u.id,
		FullName: u.fullName,
		Email:    u.email,
		Phone:    in.phone,
		Address:  in.address,
	}
	s.customers[c.ID] = c
	return u, nil
}
