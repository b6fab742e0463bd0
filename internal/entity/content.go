package entity

import "time"

type (
	// Content is the canonical, content-kind agnostic representation
	// published downstream.
	Content struct {
		UUID             string       `json:"uuid"`
		Identifiers      []Identifier `json:"identifiers"`
		Title            string       `json:"title,omitempty"`
		Description      string       `json:"description,omitempty"`
		MediaType        string       `json:"mediaType"`
		PixelWidth       *int         `json:"pixelWidth,omitempty"`
		PixelHeight      *int         `json:"pixelHeight,omitempty"`
		PublishedDate    *time.Time   `json:"publishedDate,omitempty"`
		Members          []Member     `json:"members"`
		PublishReference string       `json:"publishReference"`
		LastModified     time.Time    `json:"lastModified"`
		Copyright        *Copyright   `json:"copyright"`
	}

	Identifier struct {
		Authority       string `json:"authority"`
		IdentifierValue string `json:"identifierValue"`
	}

	Member struct {
		UUID string `json:"uuid"`
	}

	Copyright struct {
		Notice string `json:"notice"`
	}
)
