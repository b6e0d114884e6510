package services

import (
	"context"
	"strings"
	"testing"

	"pustaka-backend/internal/adapters/persistence/models"
	"pustaka-backend/internal/core/domain"
	"pustaka-backend/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeMemberRepo struct {
	byID map[string]*models.Member

	// raceEmail simulates a concurrent registration: the email passes the
	// first existence check but every insert with it hits the unique index.
	raceEmail   string
	emailChecks int
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{byID: map[string]*models.Member{}}
}

func (r *fakeMemberRepo) Create(_ context.Context, member *models.Member) error {
	if r.raceEmail != "" && member.Email == r.raceEmail {
		return gorm.ErrDuplicatedKey
	}
	for _, m := range r.byID {
		if m.Code == member.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *member
	r.byID[member.ID] = &cp
	return nil
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id string) (*models.Member, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMemberRepo) GetByCode(_ context.Context, code string) (*models.Member, error) {
	for _, m := range r.byID {
		if m.Code == code {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMemberRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if r.raceEmail != "" && email == r.raceEmail {
		r.emailChecks++
		// The competing insert lands right after the first check.
		return r.emailChecks > 1, nil
	}
	for _, m := range r.byID {
		if m.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMemberRepo) List(_ context.Context, offset, limit int) ([]*models.Member, int64, error) {
	var members []*models.Member
	for _, m := range r.byID {
		cp := *m
		members = append(members, &cp)
	}
	return members, int64(len(r.byID)), nil
}

func (r *fakeMemberRepo) Update(_ context.Context, member *models.Member) error {
	cp := *member
	r.byID[member.ID] = &cp
	return nil
}

func (r *fakeMemberRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func TestMemberCreate(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo)

	member, err := svc.Create(context.Background(), &CreateMemberInput{
		Name:     "Johan Tester",
		Email:    "johan@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, member.ID)
	assert.True(t, strings.HasPrefix(member.Code, "JOJO-"))
	assert.True(t, member.IsActive)
	assert.Equal(t, 0, member.CurrentBorrowedBooks)
	assert.Nil(t, member.PenaltyID)

	// Stored password is a hash, never the plaintext.
	assert.NotEqual(t, "secret-pass", member.Password)
	assert.True(t, password.Verify("secret-pass", member.Password))
}

func TestMemberCreateEmailTaken(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo)

	_, err := svc.Create(context.Background(), &CreateMemberInput{
		Name:     "Johan Tester",
		Email:    "johan@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &CreateMemberInput{
		Name:     "Johanna Tester",
		Email:    "johan@example.com",
		Password: "other-pass",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Len(t, repo.byID, 1)
}

func TestMemberCreateLosesEmailRace(t *testing.T) {
	repo := newFakeMemberRepo()
	repo.raceEmail = "johan@example.com"
	svc := NewMemberService(repo)

	_, err := svc.Create(context.Background(), &CreateMemberInput{
		Name:     "Johan Tester",
		Email:    "johan@example.com",
		Password: "secret-pass",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Empty(t, repo.byID)
}

func TestMemberGetByCode(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo)

	member, err := svc.Create(context.Background(), &CreateMemberInput{
		Name:     "Johan Tester",
		Email:    "johan@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	found, err := svc.GetByCode(context.Background(), member.Code)
	require.NoError(t, err)
	assert.Equal(t, member.ID, found.ID)

	_, err = svc.GetByCode(context.Background(), "XXXX-000")
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestMemberGetByIDNotFound(t *testing.T) {
	svc := NewMemberService(newFakeMemberRepo())

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestMemberUpdateRejectsTakenEmail(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo)

	first, err := svc.Create(context.Background(), &CreateMemberInput{
		Name:     "Johan Tester",
		Email:    "johan@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), &CreateMemberInput{
		Name:     "Sari Tester",
		Email:    "sari@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	taken := first.Email
	_, err = svc.Update(context.Background(), second.ID, &UpdateMemberInput{
		Email: &taken,
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestMemberUpdateSameEmailIsFine(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo)

	member, err := svc.Create(context.Background(), &CreateMemberInput{
		Name:     "Johan Tester",
		Email:    "johan@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	same := member.Email
	name := "Johan T."
	updated, err := svc.Update(context.Background(), member.ID, &UpdateMemberInput{
		Email: &same,
		Name:  &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "Johan T.", updated.Name)
}

func TestMemberUpdateRehashesPassword(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo)

	member, err := svc.Create(context.Background(), &CreateMemberInput{
		Name:     "Johan Tester",
		Email:    "johan@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	newPass := "fresh-pass-99"
	updated, err := svc.Update(context.Background(), member.ID, &UpdateMemberInput{
		Password: &newPass,
	})
	require.NoError(t, err)
	assert.NotEqual(t, newPass, updated.Password)
	assert.True(t, password.Verify(newPass, updated.Password))
}
