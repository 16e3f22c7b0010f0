package validation

// Date fields accept an empty value or an ISO 8601 calendar date.
const dateTag = "omitempty,datetime=2006-01-02"

// BookRules validates the book form.
var BookRules = Rules{
	{Field: "title", Tag: "required", Message: "Title must not be empty."},
	{Field: "author", Tag: "required", Message: "Author must not be empty."},
	{Field: "summary", Tag: "required", Message: "Summary must not be empty."},
	{Field: "isbn", Tag: "required", Message: "ISBN must not be empty"},
}

// AuthorRules validates the author form.
var AuthorRules = Rules{
	{Field: "first_name", Tag: "required", Message: "First name must be specified."},
	{Field: "first_name", Tag: "omitempty,alphanum", Message: "First name has non-alphanumeric characters."},
	{Field: "family_name", Tag: "required", Message: "Family name must be specified."},
	{Field: "family_name", Tag: "omitempty,alphanum", Message: "Family name has non-alphanumeric characters."},
	{Field: "date_of_birth", Tag: dateTag, Message: "Invalid date of birth"},
	{Field: "date_of_death", Tag: dateTag, Message: "Invalid date of death"},
}

// GenreRules validates the genre form.
var GenreRules = Rules{
	{Field: "name", Tag: "required", Message: "Genre name required"},
}
