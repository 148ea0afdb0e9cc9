package variety

import (
	"net/http"
	"path/filepath"
)

// Attachment is a file selected for upload.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewAttachment detects the content type from the data when it is not known.
func NewAttachment(path string, data []byte) *Attachment {
	return &Attachment{
		Filename:    filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}
}

// Draft is the candidate record held by the create form.
type Draft struct {
	Name   string
	Color  Color
	Origin string
	Notes  string
	Photo  *Attachment
}

// NewDraft returns the form defaults.
func NewDraft() Draft {
	return Draft{Color: ColorRed}
}

// Validate runs the checks that must pass before anything is sent.
func (d Draft) Validate() error {
	if isBlank(d.Name) {
		return ErrNameRequired
	}
	color := d.Color
	if color == "" {
		color = ColorRed
	}
	return color.Validate()
}

// Payload - тело запроса на создание (фото передается отдельно)
type Payload struct {
	Name   string `json:"name"`
	Color  Color  `json:"color"`
	Origin string `json:"origin,omitempty"`
	Notes  string `json:"notes,omitempty"`
	Photo  Photo  `json:"photo,omitempty"`
}

// Payload builds the request body; photo is the result of a prior upload.
func (d Draft) Payload(photo Photo) Payload {
	color := d.Color
	if color == "" {
		color = ColorRed
	}
	return Payload{
		Name:   d.Name,
		Color:  color,
		Origin: d.Origin,
		Notes:  d.Notes,
		Photo:  photo,
	}
}
