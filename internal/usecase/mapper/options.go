package mapper

type Option func(*ImageSetMapper)

func ContentType(contentType string) Option {
	return func(m *ImageSetMapper) {
		m.contentType = contentType
	}
}

func Authority(authority string) Option {
	return func(m *ImageSetMapper) {
		m.authority = authority
	}
}
