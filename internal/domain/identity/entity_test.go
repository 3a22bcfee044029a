package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_NoProfileDocument(t *testing.T) {
	p := Principal{UID: "u1", Email: "a@b.test", DisplayName: "Ann", PhotoURL: "pic"}
	got := Merge(p, nil)
	assert.Equal(t, Identity{UID: "u1", Email: "a@b.test", DisplayName: "Ann", PhotoURL: "pic"}, got)
}

func TestMerge_StoredFieldsWin(t *testing.T) {
	p := Principal{UID: "u1", Email: "a@b.test", DisplayName: "Ann"}
	prof := &StoredProfile{DisplayName: "Annie", PhotoURL: "stored-pic"}
	got := Merge(p, prof)

	assert.Equal(t, "u1", got.UID)
	// profile has no email, principal stands
	assert.Equal(t, "a@b.test", got.Email)
	// stored field wins
	assert.Equal(t, "Annie", got.DisplayName)
	assert.Equal(t, "stored-pic", got.PhotoURL)
}

func TestMerge_EmptyStoredFieldsDoNotClobber(t *testing.T) {
	p := Principal{UID: "u1", Email: "a@b.test", DisplayName: "Ann", PhotoURL: "pic"}
	got := Merge(p, &StoredProfile{})
	assert.Equal(t, "Ann", got.DisplayName)
	assert.Equal(t, "pic", got.PhotoURL)
}

func TestProfilePatch_ApplyTo(t *testing.T) {
	id := Identity{UID: "u1", DisplayName: "Ann", PhotoURL: "old"}

	name := "Annie"
	got := ProfilePatch{DisplayName: &name}.ApplyTo(id)
	assert.Equal(t, "Annie", got.DisplayName)
	assert.Equal(t, "old", got.PhotoURL)

	pic := "new"
	got = ProfilePatch{PhotoURL: &pic}.ApplyTo(got)
	assert.Equal(t, "Annie", got.DisplayName)
	assert.Equal(t, "new", got.PhotoURL)

	assert.True(t, ProfilePatch{}.IsEmpty())
	assert.False(t, ProfilePatch{DisplayName: &name}.IsEmpty())
}
