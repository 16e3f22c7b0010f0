package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthorName(t *testing.T) {
	assert.Equal(t, "Doe, Jane", Author{FirstName: "Jane", FamilyName: "Doe"}.Name())
	assert.Equal(t, "", Author{FirstName: "Jane"}.Name())
}

func TestAuthorLifespan(t *testing.T) {
	born := time.Date(1920, time.January, 2, 0, 0, 0, 0, time.UTC)
	a := Author{DateOfBirth: &born}

	assert.Equal(t, "Jan 2, 1920 - ", a.Lifespan())
	assert.Equal(t, "1920-01-02", a.DateOfBirthISO())
	assert.Equal(t, "", a.DateOfDeathISO())
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "/catalog/book/b1", Book{ID: "b1"}.URL())
	assert.Equal(t, "/catalog/author/a1", Author{ID: "a1"}.URL())
	assert.Equal(t, "/catalog/genre/g1", Genre{ID: "g1"}.URL())
	assert.Equal(t, "/catalog/bookinstance/i1", BookInstance{ID: "i1"}.URL())
}

func TestNewBookInstanceDefaults(t *testing.T) {
	inst := NewBookInstance("b1", "Penguin, 1999")

	assert.Equal(t, StatusMaintenance, inst.Status)
	assert.WithinDuration(t, time.Now(), inst.DueBack, time.Minute)
	assert.True(t, inst.Status.Valid())
	assert.False(t, InstanceStatus("Lost").Valid())
}

func TestBookHasGenre(t *testing.T) {
	b := Book{GenreIDs: []string{"g1", "g2"}}
	assert.True(t, b.HasGenre("g2"))
	assert.False(t, b.HasGenre("g3"))
}
