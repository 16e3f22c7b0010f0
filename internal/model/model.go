// Package model defines the catalog documents: books, authors, genres, and
// the physical copies of books (instances).
//
// Documents reference each other by id only. Relations are expanded by the
// service layer into the `bson:"-"` fields after loading.
package model

import "time"

// Book is a catalog title.
type Book struct {
	ID       string   `bson:"_id" json:"id"`
	Title    string   `bson:"title" json:"title"`
	AuthorID string   `bson:"author" json:"author"`
	Summary  string   `bson:"summary" json:"summary"`
	ISBN     string   `bson:"isbn" json:"isbn"`
	GenreIDs []string `bson:"genre" json:"genre"`

	Author *Author `bson:"-" json:"-"`
	Genres []Genre `bson:"-" json:"-"`
}

// URL is the canonical location of the book's detail page.
func (b Book) URL() string {
	return "/catalog/book/" + b.ID
}

// HasGenre reports whether id is one of the book's genre ids.
func (b Book) HasGenre(id string) bool {
	for _, g := range b.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

// Author writes books.
type Author struct {
	ID          string     `bson:"_id" json:"id"`
	FirstName   string     `bson:"first_name" json:"first_name"`
	FamilyName  string     `bson:"family_name" json:"family_name"`
	DateOfBirth *time.Time `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `bson:"date_of_death,omitempty" json:"date_of_death,omitempty"`
}

// Name is "family, first", or empty when either part is missing.
func (a Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan renders "birth - death" with unknown dates left blank.
func (a Author) Lifespan() string {
	return formatDate(a.DateOfBirth) + " - " + formatDate(a.DateOfDeath)
}

// DateOfBirthISO returns the birth date formatted for a date input.
func (a Author) DateOfBirthISO() string {
	return isoDate(a.DateOfBirth)
}

// DateOfDeathISO returns the death date formatted for a date input.
func (a Author) DateOfDeathISO() string {
	return isoDate(a.DateOfDeath)
}

// URL is the canonical location of the author's detail page.
func (a Author) URL() string {
	return "/catalog/author/" + a.ID
}

// Genre is a category books belong to.
type Genre struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`

	// Checked marks the genre as selected when rendering a book form.
	Checked bool `bson:"-" json:"-"`
}

// URL is the canonical location of the genre's detail page.
func (g Genre) URL() string {
	return "/catalog/genre/" + g.ID
}

// InstanceStatus is the lending state of a physical copy.
type InstanceStatus string

const (
	StatusAvailable   InstanceStatus = "Available"
	StatusMaintenance InstanceStatus = "Maintenance"
	StatusLoaned      InstanceStatus = "Loaned"
	StatusReserved    InstanceStatus = "Reserved"
)

// InstanceStatuses lists every valid status in display order.
var InstanceStatuses = []InstanceStatus{StatusAvailable, StatusMaintenance, StatusLoaned, StatusReserved}

// Valid reports whether s is one of the known statuses.
func (s InstanceStatus) Valid() bool {
	for _, v := range InstanceStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// BookInstance is a physical copy of a book that can be borrowed.
type BookInstance struct {
	ID      string         `bson:"_id" json:"id"`
	BookID  string         `bson:"book" json:"book"`
	Imprint string         `bson:"imprint" json:"imprint"`
	Status  InstanceStatus `bson:"status" json:"status"`
	DueBack time.Time      `bson:"due_back" json:"due_back"`

	Book *Book `bson:"-" json:"-"`
}

// NewBookInstance returns an instance with the default status and due date.
func NewBookInstance(bookID, imprint string) BookInstance {
	return BookInstance{
		BookID:  bookID,
		Imprint: imprint,
		Status:  StatusMaintenance,
		DueBack: time.Now().UTC(),
	}
}

// URL is the canonical location of the instance's detail page.
func (i BookInstance) URL() string {
	return "/catalog/bookinstance/" + i.ID
}

// DueBackFormatted renders the due date as "Jan 2, 2006".
func (i BookInstance) DueBackFormatted() string {
	return formatDate(&i.DueBack)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func isoDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
