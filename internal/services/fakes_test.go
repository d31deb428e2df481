package services

import (
	"context"
	"sort"
	"time"

	"axleague/internal/domain"
)

// In-memory fakes shared by the service tests. Keys mirror the real tables:
// memberships and invites key on (teamID, userID), registrations on
// (eventID, teamID).

type fakeUserRepo struct {
	byID map[string]*domain.User
	err  error // if set, Create returns this error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByPlayerCode(ctx context.Context, playerCode string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.PlayerCode == playerCode {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) BatchGetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, userID string, changes *domain.UserProfileChanges) (*domain.User, error) {
	u, ok := f.byID[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if changes.Username != nil {
		u.Username = *changes.Username
	}
	if changes.Email != nil {
		u.Email = *changes.Email
	}
	if changes.PasswordHash != nil {
		u.PasswordHash = *changes.PasswordHash
	}
	if changes.Firstname != nil {
		u.Firstname = changes.Firstname
	}
	if changes.Surname != nil {
		u.Surname = changes.Surname
	}
	if changes.Phone != nil {
		u.Phone = changes.Phone
	}
	if changes.DNI != nil {
		u.DNI = changes.DNI
	}
	if changes.BirthDate != nil {
		u.BirthDate = changes.BirthDate
	}
	if changes.Position != nil {
		u.Position = changes.Position
	}
	if changes.Side != nil {
		u.Side = changes.Side
	}
	if changes.Number != nil {
		u.Number = changes.Number
	}
	u.UpdatedAt = time.Now().UTC()
	return u, nil
}

func (f *fakeUserRepo) SetAvatarKey(ctx context.Context, userID, key string) error {
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.AvatarKey = key
	return nil
}

type fakeMembershipRepo struct {
	rows map[string]*domain.Membership // key teamID + "/" + userID
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{rows: make(map[string]*domain.Membership)}
}

func (f *fakeMembershipRepo) Get(ctx context.Context, teamID, userID string) (*domain.Membership, error) {
	if m, ok := f.rows[teamID+"/"+userID]; ok {
		return m, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeMembershipRepo) Create(ctx context.Context, m *domain.Membership) error {
	key := m.TeamID + "/" + m.UserID
	if _, ok := f.rows[key]; ok {
		return domain.ErrAlreadyMember
	}
	f.rows[key] = m
	return nil
}

func (f *fakeMembershipRepo) ListByTeam(ctx context.Context, teamID string) ([]*domain.Membership, error) {
	var out []*domain.Membership
	for _, m := range f.rows {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *fakeMembershipRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	var out []*domain.Membership
	for _, m := range f.rows {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

type fakeTeamRepo struct {
	byID    map[string]*domain.Team
	locks   map[string]string // normalized name -> teamID
	members *fakeMembershipRepo
}

func newFakeTeamRepo(members *fakeMembershipRepo) *fakeTeamRepo {
	return &fakeTeamRepo{
		byID:    make(map[string]*domain.Team),
		locks:   make(map[string]string),
		members: members,
	}
}

func (f *fakeTeamRepo) CreateWithOwner(ctx context.Context, team *domain.Team, owner *domain.Membership) error {
	if _, ok := f.locks[team.NameNormalized]; ok {
		return domain.ErrTeamNameTaken
	}
	f.locks[team.NameNormalized] = team.ID
	f.byID[team.ID] = team
	f.members.rows[owner.TeamID+"/"+owner.UserID] = owner
	return nil
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, teamID string) (*domain.Team, error) {
	if t, ok := f.byID[teamID]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTeamRepo) BatchGetByIDs(ctx context.Context, teamIDs []string) ([]*domain.Team, error) {
	var out []*domain.Team
	for _, id := range teamIDs {
		if t, ok := f.byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) SetLogoKey(ctx context.Context, teamID, key string) error {
	t, ok := f.byID[teamID]
	if !ok {
		return domain.ErrNotFound
	}
	t.LogoKey = key
	return nil
}

type fakeInviteRepo struct {
	rows    map[string]*domain.Invite // key teamID + "/" + toUserID
	members *fakeMembershipRepo
}

func newFakeInviteRepo(members *fakeMembershipRepo) *fakeInviteRepo {
	return &fakeInviteRepo{rows: make(map[string]*domain.Invite), members: members}
}

func (f *fakeInviteRepo) Get(ctx context.Context, teamID, toUserID string) (*domain.Invite, error) {
	if inv, ok := f.rows[teamID+"/"+toUserID]; ok {
		return inv, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInviteRepo) Create(ctx context.Context, inv *domain.Invite) error {
	key := inv.TeamID + "/" + inv.ToUserID
	if _, ok := f.rows[key]; ok {
		return domain.ErrAlreadyInvited
	}
	f.rows[key] = inv
	return nil
}

func (f *fakeInviteRepo) AcceptWithMembership(ctx context.Context, teamID, toUserID string, resolvedAt time.Time, m *domain.Membership) error {
	key := teamID + "/" + toUserID
	inv, ok := f.rows[key]
	if !ok || inv.Status != domain.InviteStatusPending {
		return domain.ErrConflict
	}
	if _, taken := f.members.rows[m.TeamID+"/"+m.UserID]; taken {
		return domain.ErrConflict
	}
	f.members.rows[m.TeamID+"/"+m.UserID] = m
	inv.Status = domain.InviteStatusAccepted
	inv.ResolvedAt = &resolvedAt
	return nil
}

func (f *fakeInviteRepo) Reject(ctx context.Context, teamID, toUserID string, resolvedAt time.Time) error {
	inv, ok := f.rows[teamID+"/"+toUserID]
	if !ok || inv.Status != domain.InviteStatusPending {
		return domain.ErrConflict
	}
	inv.Status = domain.InviteStatusRejected
	inv.ResolvedAt = &resolvedAt
	return nil
}

func (f *fakeInviteRepo) ListByUser(ctx context.Context, toUserID string) ([]*domain.Invite, error) {
	var out []*domain.Invite
	for _, inv := range f.rows {
		if inv.ToUserID == toUserID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeEventRepo struct {
	byID map[string]*domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event)}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if _, ok := f.byID[e.ID]; ok {
		return domain.ErrConflict
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetOpen(ctx context.Context) (*domain.Event, error) {
	var open []*domain.Event
	for _, e := range f.byID {
		if e.Status == domain.EventStatusRegistrationOpen {
			open = append(open, e)
		}
	}
	if len(open) == 0 {
		return nil, domain.ErrNotFound
	}
	sort.Slice(open, func(i, j int) bool {
		return open[i].RegistrationOpensAt.After(open[j].RegistrationOpensAt)
	})
	return open[0], nil
}

type fakeRegistrationRepo struct {
	rows map[string]*domain.EventRegistration // key eventID + "/" + teamID
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{rows: make(map[string]*domain.EventRegistration)}
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.EventRegistration) error {
	key := reg.EventID + "/" + reg.TeamID
	if _, ok := f.rows[key]; ok {
		return domain.ErrAlreadyRegistered
	}
	f.rows[key] = reg
	return nil
}

func (f *fakeRegistrationRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.EventRegistration, error) {
	var out []*domain.EventRegistration
	for _, reg := range f.rows {
		if reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

type fakeSigner struct{}

func (fakeSigner) SignUpload(ctx context.Context, key, contentType string) (string, int, error) {
	return "https://objects.test/" + key + "?sig=upload", 900, nil
}

func (fakeSigner) SignDownload(ctx context.Context, key string) (string, error) {
	return "https://objects.test/" + key + "?sig=download", nil
}

type fakeEmailService struct {
	sent []*domain.TeamInviteEmailData
	err  error
}

func (f *fakeEmailService) SendTeamInvite(ctx context.Context, data *domain.TeamInviteEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(userID, username, role string, expiry time.Duration) (string, error) {
	return "token-" + userID, nil
}
