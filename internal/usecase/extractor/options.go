package extractor

// Paths holds the XPath expressions used against each attachment.
type Paths struct {
	Caption      string
	AltText      string
	OnlineSource string
	ManualSource string

	Width    string
	Height   string
	FileType string

	PublishedDate string
}

var DefaultPaths = Paths{
	Caption:      "/meta/picture/web_information/caption",
	AltText:      "/meta/picture/web_information/alt_tag",
	OnlineSource: "/meta/picture/web_information/online-source",
	ManualSource: "/meta/picture/web_information/manual-source",

	Width:    "/props/imageInfo/width",
	Height:   "/props/imageInfo/height",
	FileType: "/props/imageInfo/fileType",

	// last web publication ticket
	PublishedDate: "/tl/t[tp='web_publication'][last()]/cd",
}

type Option func(*Extractor)

func WithPaths(paths Paths) Option {
	return func(e *Extractor) {
		e.paths = paths
	}
}
