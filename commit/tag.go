package commit

import (
	"bytes"
	"io"
	"text/template"

	"github.com/blang/semver/v4"
)

const DefaultTagTemplate = `v{{ .Version }}`

type TagData struct {
	Version semver.Version
}

// Tag renders release tag names.
type Tag struct {
	t *template.Template
}

func NewTag(s string) (*Tag, error) {
	name := "tag"
	tmpl := s
	if tmpl == "" {
		tmpl = DefaultTagTemplate
	} else {
		name = "custom_tag"
	}
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return nil, err
	}
	return &Tag{t: t}, nil
}

func (t *Tag) Execute(w io.Writer, d TagData) error {
	return t.t.Execute(w, d)
}

func (t *Tag) ExecuteString(d TagData) (string, error) {
	b := &bytes.Buffer{}
	if err := t.Execute(b, d); err != nil {
		return "", err
	}

	return b.String(), nil
}

// Render returns the tag name of version v.
func (t *Tag) Render(v semver.Version) (string, error) {
	return t.ExecuteString(TagData{Version: v})
}
