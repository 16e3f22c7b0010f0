package email

// Template names an embedded email template.
type Template string

const (
	// TemplateBookAdded corresponds to templates/book_added.html
	TemplateBookAdded Template = "book_added"
	// TemplateUploadReceived corresponds to templates/upload_received.html
	TemplateUploadReceived Template = "upload_received"
)

// SendBookAddedEmail tells a librarian a book was added to the catalog.
func (c *Client) SendBookAddedEmail(to, title, authorName, bookURL string) error {
	return c.SendEmail(
		to,
		"New book: "+title,
		TemplateBookAdded,
		map[string]string{
			"Title":      title,
			"AuthorName": authorName,
			"BookURL":    bookURL,
		},
	)
}

// SendUploadReceivedEmail tells a librarian an upload was mirrored.
func (c *Client) SendUploadReceivedEmail(to, fileName, location string) error {
	return c.SendEmail(
		to,
		"File uploaded: "+fileName,
		TemplateUploadReceived,
		map[string]string{
			"FileName": fileName,
			"Location": location,
		},
	)
}

// PreviewData contains sample template data for local preview/testing.
var PreviewData = map[Template]map[string]string{
	TemplateBookAdded: {
		"Title":      "The Name of the Wind",
		"AuthorName": "Rothfuss, Patrick",
		"BookURL":    "/catalog/book/123e4567-e89b-12d3-a456-426614174000",
	},
	TemplateUploadReceived: {
		"FileName": "cover.png",
		"Location": "library-uploads/cover.png",
	},
}
