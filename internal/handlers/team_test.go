package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tarostudio/portal-api/internal/constants"
	"github.com/tarostudio/portal-api/internal/database"
	"github.com/tarostudio/portal-api/internal/entitlement"
	"github.com/tarostudio/portal-api/internal/models"
	"github.com/tarostudio/portal-api/internal/notifications"
	"github.com/tarostudio/portal-api/internal/repository"
	"github.com/tarostudio/portal-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testPriceLite      = "price_lite_brew_test"
	testPriceSignature = "price_signature_blend_test"
	testPriceCloud     = "price_taro_cloud_test"
)

type fakeInviteNotifier struct {
	mu      sync.Mutex
	invites []notifications.InviteEmail
}

func (f *fakeInviteNotifier) AcceptURL(token string) string {
	return "http://localhost:3000/portal/team/accept?token=" + token
}

func (f *fakeInviteNotifier) DispatchInvite(email notifications.InviteEmail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invites = append(f.invites, email)
}

func (f *fakeInviteNotifier) sent() []notifications.InviteEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notifications.InviteEmail(nil), f.invites...)
}

type teamTestEnv struct {
	db          *gorm.DB
	handler     *TeamHandler
	teamService *services.TeamService
	notifier    *fakeInviteNotifier
}

func setupTeamTestEnv(t *testing.T) teamTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.UserPermissions{},
		&models.Organization{},
		&models.Subscription{},
		&models.TeamInvite{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	resolver := entitlement.NewResolver(entitlement.NewSeatTable(entitlement.TierPriceIDs{
		LiteBrew:       testPriceLite,
		SignatureBlend: testPriceSignature,
		TaroCloud:      testPriceCloud,
	}))
	notifier := &fakeInviteNotifier{}
	teamService := services.NewTeamService(userRepo, teamRepo, resolver, notifier)
	handler := NewTeamHandler(teamService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return teamTestEnv{
		db:          db,
		handler:     handler,
		teamService: teamService,
		notifier:    notifier,
	}
}

func teamTestContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func createTeamTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hashed",
		Name:         "Test User",
		Role:         models.RoleClient,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createTeamTestOwner creates a user with invite permission and an active
// subscription on the given price.
func createTeamTestOwner(t *testing.T, db *gorm.DB, email, priceID string) *models.User {
	t.Helper()
	user := createTeamTestUser(t, db, email)
	require.NoError(t, db.Create(&models.UserPermissions{
		UserID:            user.ID,
		CanInviteMembers:  true,
		CanManageProjects: true,
		CanManageBilling:  true,
	}).Error)
	require.NoError(t, db.Create(&models.Subscription{
		UserID:               user.ID,
		Status:               models.SubscriptionActive,
		StripePriceID:        priceID,
		StripeSubscriptionID: "sub_" + email,
	}).Error)
	return user
}

func inviteBody(t *testing.T, email string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]string{"email": email})
	require.NoError(t, err)
	return body
}

func TestTeamHandler_InviteCreatesOrganizationAndInvite(t *testing.T) {
	env := setupTeamTestEnv(t)

	owner := createTeamTestOwner(t, env.db, "owner@example.com", testPriceSignature)
	owner.CompanyName = "Acme Design"
	require.NoError(t, env.db.Save(owner).Error)

	c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "new@example.com"), owner.ID)
	env.handler.InviteTeamMember(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Invitation sent", response.Message)

	// Exactly one organization, named after the company, owned by the inviter.
	var orgs []models.Organization
	require.NoError(t, env.db.Find(&orgs).Error)
	require.Len(t, orgs, 1)
	require.Equal(t, "Acme Design", orgs[0].Name)
	require.Equal(t, owner.ID, orgs[0].OwnerID)

	// The owner is attached to the new organization and promoted.
	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, owner.ID).Error)
	require.NotNil(t, reloaded.OrganizationID)
	require.Equal(t, orgs[0].ID, *reloaded.OrganizationID)
	require.Equal(t, models.RoleOwner, reloaded.Role)

	// Exactly one invite with a fresh token and a week of validity.
	var invites []models.TeamInvite
	require.NoError(t, env.db.Find(&invites).Error)
	require.Len(t, invites, 1)
	require.Equal(t, "new@example.com", invites[0].Email)
	require.Equal(t, models.RoleTeamMember, invites[0].Role)
	require.Len(t, invites[0].Token, 32)
	require.WithinDuration(t, time.Now().Add(constants.InviteTTL), invites[0].ExpiresAt, time.Minute)
	require.Nil(t, invites[0].UsedAt)

	// The token never appears in the API response.
	require.NotContains(t, w.Body.String(), invites[0].Token)

	// The email carries the acceptance link with the token.
	sent := env.notifier.sent()
	require.Len(t, sent, 1)
	require.Equal(t, "new@example.com", sent[0].RecipientEmail)
	require.Contains(t, sent[0].AcceptURL, invites[0].Token)
}

func TestTeamHandler_InviteFallsBackToOwnerName(t *testing.T) {
	env := setupTeamTestEnv(t)

	owner := createTeamTestOwner(t, env.db, "solo@example.com", testPriceSignature)
	owner.Name = "Mika"
	require.NoError(t, env.db.Save(owner).Error)

	c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "pal@example.com"), owner.ID)
	env.handler.InviteTeamMember(c)

	require.Equal(t, http.StatusOK, w.Code)

	var org models.Organization
	require.NoError(t, env.db.First(&org).Error)
	require.Equal(t, "Mika's Team", org.Name)
}

func TestTeamHandler_InviteRequiresActiveSubscription(t *testing.T) {
	env := setupTeamTestEnv(t)

	// No subscription at all.
	user := createTeamTestUser(t, env.db, "nosub@example.com")
	require.NoError(t, env.db.Create(&models.UserPermissions{
		UserID:           user.ID,
		CanInviteMembers: true,
	}).Error)

	c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "x@example.com"), user.ID)
	env.handler.InviteTeamMember(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	// A lapsed subscription is not enough either.
	require.NoError(t, env.db.Create(&models.Subscription{
		UserID:               user.ID,
		Status:               models.SubscriptionPastDue,
		StripePriceID:        testPriceSignature,
		StripeSubscriptionID: "sub_lapsed",
	}).Error)

	c, w = teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "x@example.com"), user.ID)
	env.handler.InviteTeamMember(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.TeamInvite{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestTeamHandler_InviteRequiresPermission(t *testing.T) {
	env := setupTeamTestEnv(t)

	user := createTeamTestUser(t, env.db, "noperm@example.com")
	require.NoError(t, env.db.Create(&models.Subscription{
		UserID:               user.ID,
		Status:               models.SubscriptionActive,
		StripePriceID:        testPriceSignature,
		StripeSubscriptionID: "sub_noperm",
	}).Error)
	require.NoError(t, env.db.Create(&models.UserPermissions{
		UserID:           user.ID,
		CanInviteMembers: false,
	}).Error)

	c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "x@example.com"), user.ID)
	env.handler.InviteTeamMember(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTeamHandler_InviteBlockedForNonOwners(t *testing.T) {
	env := setupTeamTestEnv(t)

	owner := createTeamTestOwner(t, env.db, "boss@example.com", testPriceCloud)

	c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "member@example.com"), owner.ID)
	env.handler.InviteTeamMember(c)
	require.Equal(t, http.StatusOK, w.Code)

	// The invited member accepts and then tries to invite someone themselves,
	// with their own subscription and permission.
	member := createTeamTestOwner(t, env.db, "member@example.com", testPriceCloud)
	var invite models.TeamInvite
	require.NoError(t, env.db.First(&invite).Error)

	_, err := env.teamService.AcceptInvite(invite.Token, member.ID)
	require.NoError(t, err)

	c, w = teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "friend@example.com"), member.ID)
	env.handler.InviteTeamMember(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "owner")
}

func TestTeamHandler_InviteSeatLimitSingleSeatPlan(t *testing.T) {
	env := setupTeamTestEnv(t)

	// A one-seat plan owner occupies their own seat; no invites possible.
	owner := createTeamTestOwner(t, env.db, "lite@example.com", testPriceLite)

	c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "x@example.com"), owner.ID)
	env.handler.InviteTeamMember(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "1 team seats")

	var count int64
	require.NoError(t, env.db.Model(&models.TeamInvite{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestTeamHandler_InviteAlreadyMember(t *testing.T) {
	env := setupTeamTestEnv(t)

	owner := createTeamTestOwner(t, env.db, "own@example.com", testPriceCloud)
	member := createTeamTestUser(t, env.db, "taken@example.com")

	c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "taken@example.com"), owner.ID)
	env.handler.InviteTeamMember(c)
	require.Equal(t, http.StatusOK, w.Code)

	var invite models.TeamInvite
	require.NoError(t, env.db.First(&invite).Error)
	_, err := env.teamService.AcceptInvite(invite.Token, member.ID)
	require.NoError(t, err)

	// Inviting the same address again is rejected as already a member.
	c, w = teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "taken@example.com"), owner.ID)
	env.handler.InviteTeamMember(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "already a member")
}

func TestTeamHandler_ResendRefreshesInviteInPlace(t *testing.T) {
	env := setupTeamTestEnv(t)

	owner := createTeamTestOwner(t, env.db, "resend@example.com", testPriceSignature)

	c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "pending@example.com"), owner.ID)
	env.handler.InviteTeamMember(c)
	require.Equal(t, http.StatusOK, w.Code)

	var first models.TeamInvite
	require.NoError(t, env.db.First(&first).Error)
	oldToken := first.Token

	c, w = teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "pending@example.com"), owner.ID)
	env.handler.InviteTeamMember(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Invitation resent", response.Message)

	// Still a single row, but with a fresh token.
	var invites []models.TeamInvite
	require.NoError(t, env.db.Find(&invites).Error)
	require.Len(t, invites, 1)
	require.Equal(t, first.ID, invites[0].ID)
	require.NotEqual(t, oldToken, invites[0].Token)

	// The superseded token no longer works.
	joiner := createTeamTestUser(t, env.db, "pending@example.com")
	_, err := env.teamService.AcceptInvite(oldToken, joiner.ID)
	require.ErrorIs(t, err, services.ErrInvalidInviteToken)

	_, err = env.teamService.AcceptInvite(invites[0].Token, joiner.ID)
	require.NoError(t, err)
}

func TestTeamHandler_ResendRefreshesExpiredInvite(t *testing.T) {
	env := setupTeamTestEnv(t)

	owner := createTeamTestOwner(t, env.db, "exp@example.com", testPriceSignature)

	c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "late@example.com"), owner.ID)
	env.handler.InviteTeamMember(c)
	require.Equal(t, http.StatusOK, w.Code)

	var invite models.TeamInvite
	require.NoError(t, env.db.First(&invite).Error)
	require.NoError(t, env.db.Model(&invite).
		Update("expires_at", time.Now().Add(-48*time.Hour)).Error)

	c, w = teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "late@example.com"), owner.ID)
	env.handler.InviteTeamMember(c)
	require.Equal(t, http.StatusOK, w.Code)

	var invites []models.TeamInvite
	require.NoError(t, env.db.Find(&invites).Error)
	require.Len(t, invites, 1)
	require.True(t, invites[0].ExpiresAt.After(time.Now()))
}

func TestTeamHandler_AcceptInvite(t *testing.T) {
	env := setupTeamTestEnv(t)

	owner := createTeamTestOwner(t, env.db, "host@example.com", testPriceSignature)
	owner.CompanyName = "Taro & Co"
	require.NoError(t, env.db.Save(owner).Error)

	c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "guest@example.com"), owner.ID)
	env.handler.InviteTeamMember(c)
	require.Equal(t, http.StatusOK, w.Code)

	var invite models.TeamInvite
	require.NoError(t, env.db.First(&invite).Error)

	guest := createTeamTestUser(t, env.db, "guest@example.com")

	body, err := json.Marshal(map[string]string{"token": invite.Token})
	require.NoError(t, err)
	c, w = teamTestContext(http.MethodPost, "/api/portal/team/accept", body, guest.ID)
	env.handler.AcceptInvite(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Welcome to Taro & Co")

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, guest.ID).Error)
	require.NotNil(t, reloaded.OrganizationID)
	require.Equal(t, models.RoleTeamMember, reloaded.Role)

	var used models.TeamInvite
	require.NoError(t, env.db.First(&used, invite.ID).Error)
	require.NotNil(t, used.UsedAt)
}

func TestTeamHandler_AcceptInviteRejectsBadTokens(t *testing.T) {
	env := setupTeamTestEnv(t)

	owner := createTeamTestOwner(t, env.db, "src@example.com", testPriceSignature)
	guest := createTeamTestUser(t, env.db, "dst@example.com")

	c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "dst@example.com"), owner.ID)
	env.handler.InviteTeamMember(c)
	require.Equal(t, http.StatusOK, w.Code)

	var invite models.TeamInvite
	require.NoError(t, env.db.First(&invite).Error)

	// Unknown token.
	body, err := json.Marshal(map[string]string{"token": "deadbeefdeadbeefdeadbeefdeadbeef"})
	require.NoError(t, err)
	c, w = teamTestContext(http.MethodPost, "/api/portal/team/accept", body, guest.ID)
	env.handler.AcceptInvite(c)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Expired token.
	require.NoError(t, env.db.Model(&invite).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)
	body, err = json.Marshal(map[string]string{"token": invite.Token})
	require.NoError(t, err)
	c, w = teamTestContext(http.MethodPost, "/api/portal/team/accept", body, guest.ID)
	env.handler.AcceptInvite(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "expired")

	// Used token.
	require.NoError(t, env.db.Model(&invite).
		Update("expires_at", time.Now().Add(time.Hour)).Error)
	_, err = env.teamService.AcceptInvite(invite.Token, guest.ID)
	require.NoError(t, err)

	other := createTeamTestUser(t, env.db, "other@example.com")
	c, w = teamTestContext(http.MethodPost, "/api/portal/team/accept", body, other.ID)
	env.handler.AcceptInvite(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "already been used")
}

func TestTeamHandler_ListInvites(t *testing.T) {
	env := setupTeamTestEnv(t)

	owner := createTeamTestOwner(t, env.db, "lister@example.com", testPriceCloud)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, email), owner.ID)
		env.handler.InviteTeamMember(c)
		require.Equal(t, http.StatusOK, w.Code)
	}

	// Expire one of them; it must drop out of the pending list.
	require.NoError(t, env.db.Model(&models.TeamInvite{}).
		Where("email = ?", "b@example.com").
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	c, w := teamTestContext(http.MethodGet, "/api/portal/team/invite", nil, owner.ID)
	env.handler.ListInvites(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Invites []struct {
			Email string `json:"email"`
			Token string `json:"token"`
		} `json:"invites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Invites, 1)
	require.Equal(t, "a@example.com", response.Invites[0].Email)
	require.Empty(t, response.Invites[0].Token)
}

func TestTeamHandler_ListInvitesWithoutOrganization(t *testing.T) {
	env := setupTeamTestEnv(t)

	user := createTeamTestUser(t, env.db, "loner@example.com")

	c, w := teamTestContext(http.MethodGet, "/api/portal/team/invite", nil, user.ID)
	env.handler.ListInvites(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Invites []json.RawMessage `json:"invites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Empty(t, response.Invites)
}

// Full lifecycle on a three-seat plan: the owner fills both remaining seats
// and the next invite bounces off the limit.
func TestTeamHandler_SeatLimitLifecycle(t *testing.T) {
	env := setupTeamTestEnv(t)

	owner := createTeamTestOwner(t, env.db, "studio@example.com", testPriceSignature)

	for _, email := range []string{"one@example.com", "two@example.com"} {
		c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, email), owner.ID)
		env.handler.InviteTeamMember(c)
		require.Equal(t, http.StatusOK, w.Code)

		var invite models.TeamInvite
		require.NoError(t, env.db.Where("email = ?", email).First(&invite).Error)

		joiner := createTeamTestUser(t, env.db, email)
		_, err := env.teamService.AcceptInvite(invite.Token, joiner.ID)
		require.NoError(t, err)
	}

	c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, "three@example.com"), owner.ID)
	env.handler.InviteTeamMember(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "3 team seats")
	require.Contains(t, w.Body.String(), "3 are in use")
}

// A pending, unaccepted invite does not consume a seat; only joined members do.
func TestTeamHandler_PendingInvitesDoNotConsumeSeats(t *testing.T) {
	env := setupTeamTestEnv(t)

	owner := createTeamTestOwner(t, env.db, "open@example.com", testPriceSignature)

	for _, email := range []string{"p1@example.com", "p2@example.com", "p3@example.com"} {
		c, w := teamTestContext(http.MethodPost, "/api/portal/team/invite", inviteBody(t, email), owner.ID)
		env.handler.InviteTeamMember(c)
		require.Equal(t, http.StatusOK, w.Code)
	}

	var count int64
	require.NoError(t, env.db.Model(&models.TeamInvite{}).Count(&count).Error)
	require.EqualValues(t, 3, count)
}
